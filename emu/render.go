package emu

import "image"

// writePixel resolves a descriptor through the palette PROM and stores the
// pixel at (x, y) in the framebuffer.
func (b *Board) writePixel(x, y int, descriptor uint8) {
	r, g, bl := b.pal.Color(descriptor)

	p := y*b.framebuffer.Stride + x*4
	pix := b.framebuffer.Pix
	pix[p] = r
	pix[p+1] = g
	pix[p+2] = bl
	pix[p+3] = 0xFF
}

// RunFrame runs the board for exactly one frame of master clock cycles,
// filling the framebuffer with the visible field.
func (b *Board) RunFrame() {
	for i := 0; i < MasterTicksPerFrame; i++ {
		b.StepMaster()
	}
}

// Image returns the framebuffer as an image. The returned image is reused
// by subsequent frames.
func (b *Board) Image() *image.RGBA {
	return b.framebuffer
}

// Framebuffer returns the raw RGBA pixel data.
func (b *Board) Framebuffer() []byte {
	return b.framebuffer.Pix
}

// Stride returns the framebuffer stride in bytes per row.
func (b *Board) Stride() int {
	return b.framebuffer.Stride
}
