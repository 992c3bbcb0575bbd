package excel

import (
	"fmt"

	"github.com/orayew2002/pic2excel/domain"
)

// RowsPerPixel is the number of sheet rows one image row expands into.
const RowsPerPixel = len(domain.Channels)

// CellName converts 0-based row and column indices to an Excel cell reference (e.g. 0,0 → "A1").
func CellName(row, col int) string {
	return fmt.Sprintf("%s%d", IndexToColumn(col), row+1)
}

// IndexToColumn converts a 0-based column index to Excel column letters (0→A, 25→Z, 26→AA).
func IndexToColumn(n int) string {
	result := ""
	for n >= 0 {
		result = string(rune('A'+(n%26))) + result
		n = n/26 - 1
	}
	return result
}

// ChannelRow returns the 1-based sheet row holding channel ch of image row y.
//
//	y=0: R→1, G→2, B→3
//	y=1: R→4, G→5, B→6
func ChannelRow(y int, ch domain.Channel) int {
	return RowsPerPixel*y + int(ch) + 1
}

// ChannelCell returns the reference of the cell holding channel ch of pixel (x, y).
func ChannelCell(x, y int, ch domain.Channel) string {
	return CellName(ChannelRow(y, ch)-1, x)
}
