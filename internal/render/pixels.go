// Package render converts cell buffers into RGBA pixels.
package render

import "image/color"

// FillPaletteRGBA converts cell values into RGBA pixels using a palette.
// Values past the end of the palette use its last entry; an empty palette
// clears the buffer to transparent black.
func FillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// FillMaskRGBA writes tint into buf wherever mask reports true and leaves
// other pixels transparent.
func FillMaskRGBA(buf []byte, n int, mask func(i int) bool, tint color.RGBA) {
	for i := 0; i < n; i++ {
		base := i * 4
		if !mask(i) {
			buf[base+0], buf[base+1], buf[base+2], buf[base+3] = 0, 0, 0, 0
			continue
		}
		buf[base+0] = tint.R
		buf[base+1] = tint.G
		buf[base+2] = tint.B
		buf[base+3] = tint.A
	}
}
