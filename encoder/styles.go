package encoder

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/orayew2002/pic2excel/domain"
	"github.com/xuri/excelize/v2"
)

// Fill is a solid background. Start and End always hold the same colour.
type Fill struct {
	Start string
	End   string
}

// GradientFill returns the fill for a channel intensity: the channel's own
// byte carries the value, the other two are zero.
//
//	128, R → 800000
//	 64, G → 004000
//	 32, B → 000020
func GradientFill(value uint8, ch domain.Channel) Fill {
	n := float64(value) / 255.0

	var c colorful.Color
	switch ch {
	case domain.Red:
		c.R = n
	case domain.Green:
		c.G = n
	default:
		c.B = n
	}

	hex := strings.ToUpper(strings.TrimPrefix(c.Hex(), "#"))
	return Fill{Start: hex, End: hex}
}

// Style returns the excelize style for the fill.
func (f Fill) Style() *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{f.Start}},
	}
}

// StyleManager caches fill styles so each colour is created only once per file.
type StyleManager struct {
	file  *excelize.File
	cache map[string]int
}

// NewStyleManager creates a style manager bound to the given file.
func NewStyleManager(f *excelize.File) *StyleManager {
	return &StyleManager{file: f, cache: make(map[string]int)}
}

// Fill returns the style ID for fill (cached).
func (sm *StyleManager) Fill(fill Fill) (int, error) {
	if id, ok := sm.cache[fill.Start]; ok {
		return id, nil
	}

	id, err := sm.file.NewStyle(fill.Style())
	if err != nil {
		return 0, fmt.Errorf("new style %s: %w", fill.Start, err)
	}

	sm.cache[fill.Start] = id
	return id, nil
}

// Len reports how many distinct styles have been created.
func (sm *StyleManager) Len() int { return len(sm.cache) }
