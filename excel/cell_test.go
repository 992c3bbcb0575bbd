package excel

import (
	"testing"

	"github.com/orayew2002/pic2excel/domain"
)

func TestIndexToColumn(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "AA"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}

	for _, tt := range tests {
		if got := IndexToColumn(tt.in); got != tt.want {
			t.Errorf("IndexToColumn(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChannelCell(t *testing.T) {
	tests := []struct {
		x, y int
		ch   domain.Channel
		want string
	}{
		{0, 0, domain.Red, "A1"},
		{0, 0, domain.Green, "A2"},
		{0, 0, domain.Blue, "A3"},
		{1, 0, domain.Red, "B1"},
		{0, 1, domain.Red, "A4"},
		{2, 3, domain.Blue, "C12"},
	}

	for _, tt := range tests {
		if got := ChannelCell(tt.x, tt.y, tt.ch); got != tt.want {
			t.Errorf("ChannelCell(%d, %d, %s) = %q, want %q", tt.x, tt.y, tt.ch, got, tt.want)
		}
	}
}

func TestChannelRow(t *testing.T) {
	for y := range 4 {
		for _, ch := range domain.Channels {
			want := 3*y + int(ch) + 1
			if got := ChannelRow(y, ch); got != want {
				t.Fatalf("ChannelRow(%d, %s) = %d, want %d", y, ch, got, want)
			}
		}
	}
}
