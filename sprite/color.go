package sprite

import "image/color"

// Bitbox 16-bit colors are packed as 0RRRRRGGGGGBBBBB.
func rgbTo16(c color.NRGBA) uint16 {
	return uint16(c.R>>3)<<10 | uint16(c.G>>3)<<5 | uint16(c.B>>3)
}

func expand5(v uint16) uint8 {
	v &= 0x1f
	return uint8(v<<3 | v>>2)
}

func rgbFrom16(v uint16) color.NRGBA {
	return color.NRGBA{expand5(v >> 10), expand5(v >> 5), expand5(v), 0xff}
}

// Quantize16 returns c as it reads back from a Direct16 sprite.
func Quantize16(c color.Color) color.NRGBA {
	return rgbFrom16(rgbTo16(color.NRGBAModel.Convert(c).(color.NRGBA)))
}

func opaque(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}

func isTransparent(c color.NRGBA) bool {
	return c.A < alphaThreshold
}

var microColors = [256]uint16{
	0x0000, 0x0009, 0x0012, 0x001b, 0x0080, 0x0089, 0x0092, 0x009b, 0x0120, 0x0129, 0x0132, 0x013b, 0x01a0, 0x01a9, 0x01b2, 0x01bb,
	0x0240, 0x0249, 0x0252, 0x025b, 0x02c0, 0x02c9, 0x02d2, 0x02db, 0x0360, 0x0369, 0x0372, 0x037b, 0x03e0, 0x03e9, 0x03f2, 0x03fb,
	0x1004, 0x100d, 0x1016, 0x101f, 0x1084, 0x108d, 0x1096, 0x109f, 0x1124, 0x112d, 0x1136, 0x113f, 0x11a4, 0x11ad, 0x11b6, 0x11bf,
	0x1244, 0x124d, 0x1256, 0x125f, 0x12c4, 0x12cd, 0x12d6, 0x12df, 0x1364, 0x136d, 0x1376, 0x137f, 0x13e4, 0x13ed, 0x13f6, 0x13ff,
	0x2400, 0x2409, 0x2412, 0x241b, 0x2480, 0x2489, 0x2492, 0x249b, 0x2520, 0x2529, 0x2532, 0x253b, 0x25a0, 0x25a9, 0x25b2, 0x25bb,
	0x2640, 0x2649, 0x2652, 0x265b, 0x26c0, 0x26c9, 0x26d2, 0x26db, 0x2760, 0x2769, 0x2772, 0x277b, 0x27e0, 0x27e9, 0x27f2, 0x27fb,
	0x3404, 0x340d, 0x3416, 0x341f, 0x3484, 0x348d, 0x3496, 0x349f, 0x3524, 0x352d, 0x3536, 0x353f, 0x35a4, 0x35ad, 0x35b6, 0x35bf,
	0x3644, 0x364d, 0x3656, 0x365f, 0x36c4, 0x36cd, 0x36d6, 0x36df, 0x3764, 0x376d, 0x3776, 0x377f, 0x37e4, 0x37ed, 0x37f6, 0x37ff,
	0x4800, 0x4809, 0x4812, 0x481b, 0x4880, 0x4889, 0x4892, 0x489b, 0x4920, 0x4929, 0x4932, 0x493b, 0x49a0, 0x49a9, 0x49b2, 0x49bb,
	0x4a40, 0x4a49, 0x4a52, 0x4a5b, 0x4ac0, 0x4ac9, 0x4ad2, 0x4adb, 0x4b60, 0x4b69, 0x4b72, 0x4b7b, 0x4be0, 0x4be9, 0x4bf2, 0x4bfb,
	0x5804, 0x580d, 0x5816, 0x581f, 0x5884, 0x588d, 0x5896, 0x589f, 0x5924, 0x592d, 0x5936, 0x593f, 0x59a4, 0x59ad, 0x59b6, 0x59bf,
	0x5a44, 0x5a4d, 0x5a56, 0x5a5f, 0x5ac4, 0x5acd, 0x5ad6, 0x5adf, 0x5b64, 0x5b6d, 0x5b76, 0x5b7f, 0x5be4, 0x5bed, 0x5bf6, 0x5bff,
	0x6c00, 0x6c09, 0x6c12, 0x6c1b, 0x6c80, 0x6c89, 0x6c92, 0x6c9b, 0x6d20, 0x6d29, 0x6d32, 0x6d3b, 0x6da0, 0x6da9, 0x6db2, 0x6dbb,
	0x6e40, 0x6e49, 0x6e52, 0x6e5b, 0x6ec0, 0x6ec9, 0x6ed2, 0x6edb, 0x6f60, 0x6f69, 0x6f72, 0x6f7b, 0x6fe0, 0x6fe9, 0x6ff2, 0x6ffb,
	0x7c04, 0x7c0d, 0x7c16, 0x7c1f, 0x7c84, 0x7c8d, 0x7c96, 0x7c9f, 0x7d24, 0x7d2d, 0x7d36, 0x7d3f, 0x7da4, 0x7dad, 0x7db6, 0x7dbf,
	0x7e44, 0x7e4d, 0x7e56, 0x7e5f, 0x7ec4, 0x7ecd, 0x7ed6, 0x7edf, 0x7f64, 0x7f6d, 0x7f76, 0x7f7f, 0x7fe4, 0x7fed, 0x7ff6, 0x7fff,
}

// MicroPalette is the 256 color palette of the Bitbox micro kernel. It is
// the default palette for Indexed8 sprites.
var MicroPalette = func() color.Palette {
	p := make(color.Palette, len(microColors))
	for i, v := range microColors {
		p[i] = rgbFrom16(v)
	}
	return p
}()
