package traystatus

// Minimal 16x16 ICO-format icons (solid color squares) for the three
// bridge states. systray.SetIcon wants Windows ICO bytes on Windows
// and arbitrary image bytes elsewhere; a single solid-color ICO
// decodes fine on every platform systray supports.
var (
	iconDisconnected = buildSolidICO(0x60, 0x60, 0x60) // gray
	iconConnected     = buildSolidICO(0x2e, 0xa0, 0x43) // green
	iconError         = buildSolidICO(0xd9, 0x2d, 0x20) // red
)

// buildSolidICO returns a 16x16, 32bpp BGRA ICO file filled with the
// given RGB color, opaque.
func buildSolidICO(r, g, b byte) []byte {
	const (
		w, h   = 16, 16
		bpp    = 32
		hdrLen = 6 + 16 // ICONDIR + one ICONDIRENTRY
		infLen = 40     // BITMAPINFOHEADER
	)
	pixels := w * h * 4
	maskRowBytes := ((w + 31) / 32) * 4
	mask := maskRowBytes * h
	imgLen := infLen + pixels + mask

	buf := make([]byte, hdrLen+imgLen)

	// ICONDIR
	le16(buf[0:], 0)    // reserved
	le16(buf[2:], 1)    // type = icon
	le16(buf[4:], 1)    // count

	// ICONDIRENTRY
	buf[6] = w
	buf[7] = h
	buf[8] = 0 // color count (0 = >=256)
	buf[9] = 0 // reserved
	le16(buf[10:], 1)       // planes
	le16(buf[12:], bpp)     // bit count
	le32(buf[14:], uint32(imgLen))
	le32(buf[18:], uint32(hdrLen))

	img := buf[hdrLen:]
	le32(img[0:], infLen)
	le32(img[4:], w)
	le32(img[8:], h*2) // height field counts XOR+AND masks together
	le16(img[12:], 1)
	le16(img[14:], bpp)

	// Pixel data: bottom-up rows, BGRA.
	px := img[infLen:]
	for i := 0; i < w*h; i++ {
		px[i*4+0] = b
		px[i*4+1] = g
		px[i*4+2] = r
		px[i*4+3] = 0xff
	}
	return buf
}

func le16(b []byte, v uint16) { b[0] = byte(v); b[1] = byte(v >> 8) }
func le32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
