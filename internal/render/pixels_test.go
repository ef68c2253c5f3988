package render

import (
	"image/color"
	"testing"
)

func TestFillPaletteRGBA(t *testing.T) {
	palette := []color.RGBA{{R: 1, A: 255}, {G: 2, A: 255}}
	cells := []uint8{0, 1, 7}
	buf := make([]byte, 4*len(cells))
	FillPaletteRGBA(buf, cells, palette)

	want := []byte{1, 0, 0, 255, 0, 2, 0, 255, 0, 2, 0, 255}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d (buf=%v)", i, buf[i], want[i], buf)
		}
	}
}

func TestFillPaletteRGBAEmptyPalette(t *testing.T) {
	buf := []byte{9, 9, 9, 9}
	FillPaletteRGBA(buf, []uint8{3}, nil)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d = %d, want cleared", i, b)
		}
	}
}

func TestFillMaskRGBA(t *testing.T) {
	buf := make([]byte, 8)
	buf[0] = 5
	tint := color.RGBA{R: 10, G: 20, B: 30, A: 40}
	FillMaskRGBA(buf, 2, func(i int) bool { return i == 1 }, tint)
	if buf[0] != 0 || buf[3] != 0 {
		t.Fatal("unmasked pixel should be transparent")
	}
	if buf[4] != 10 || buf[7] != 40 {
		t.Fatalf("masked pixel = %v", buf[4:])
	}
}
