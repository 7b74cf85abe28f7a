package screen

import "image"

// copyARGB converts an ARGB frame into img, which must be sized to the frame.
func copyARGB(img *image.NRGBA, buf []uint32) {
	for i, px := range buf {
		o := i * 4
		img.Pix[o] = uint8(px >> 16)
		img.Pix[o+1] = uint8(px >> 8)
		img.Pix[o+2] = uint8(px)
		img.Pix[o+3] = uint8(px >> 24)
	}
}

// isBlack reports whether an ARGB pixel has no color, whatever its alpha.
func isBlack(px uint32) bool {
	return px&0x00FFFFFF == 0
}
