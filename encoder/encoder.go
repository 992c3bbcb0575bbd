// Package encoder writes decoded images into spreadsheets, one coloured cell
// per pixel channel.
package encoder

import (
	"fmt"

	"github.com/orayew2002/pic2excel/domain"
	"github.com/orayew2002/pic2excel/excel"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultSheetName = "Sheet1"
	DefaultRowHeight = 15
)

// Options controls the sheet layout. Zero fields fall back to the defaults.
type Options struct {
	SheetName string
	RowHeight float64
}

// Encoder turns an image into a workbook.
type Encoder struct {
	opts Options
}

// New creates an Encoder with the given options.
func New(opts Options) *Encoder {
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = DefaultRowHeight
	}
	return &Encoder{opts: opts}
}

// Options returns the effective options.
func (e *Encoder) Options() Options { return e.opts }

// Encode builds a new workbook for img. The caller owns the returned file
// and must Close it.
//
// Pixel (x, y) occupies column x+1 and rows 3y+1 (R), 3y+2 (G), 3y+3 (B).
func (e *Encoder) Encode(img domain.Image) (*excelize.File, error) {
	f := excelize.NewFile()

	if e.opts.SheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, e.opts.SheetName); err != nil {
			f.Close()
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	if err := writePixels(f, e.opts, img); err != nil {
		f.Close()
		return nil, fmt.Errorf("write pixels: %w", err)
	}

	return f, nil
}

// EncodeFile encodes img and saves the workbook to path.
func (e *Encoder) EncodeFile(img domain.Image, path string) error {
	f, err := e.Encode(img)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	return nil
}

// EncodeBytes encodes img and returns the workbook as bytes.
func (e *Encoder) EncodeBytes(img domain.Image) ([]byte, error) {
	f, err := e.Encode(img)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write to buffer: %w", err)
	}

	return buf.Bytes(), nil
}

func writePixels(f *excelize.File, opts Options, img domain.Image) error {
	sm := NewStyleManager(f)
	sheet := opts.SheetName

	for y := range img.Height() {
		for _, ch := range domain.Channels {
			row := excel.ChannelRow(y, ch)
			if err := f.SetRowHeight(sheet, row, opts.RowHeight); err != nil {
				return fmt.Errorf("row %d height: %w", row, err)
			}
		}

		for x := range img.Width() {
			px := img.At(x, y)
			for _, ch := range domain.Channels {
				if err := writeChannel(f, sm, sheet, x, y, ch, px.Value(ch)); err != nil {
					return fmt.Errorf("pixel (%d,%d) %s: %w", x, y, ch, err)
				}
			}
		}
	}

	return nil
}

func writeChannel(f *excelize.File, sm *StyleManager, sheet string, x, y int, ch domain.Channel, value uint8) error {
	cell := excel.ChannelCell(x, y, ch)
	if err := f.SetCellValue(sheet, cell, int(value)); err != nil {
		return err
	}

	styleID, err := sm.Fill(GradientFill(value, ch))
	if err != nil {
		return err
	}

	return f.SetCellStyle(sheet, cell, cell, styleID)
}
