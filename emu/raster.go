package emu

// Board timing. The master clock is divided by two to produce the pixel
// tick enable; one scanline is 384 pixel ticks of which 256 are visible,
// and one frame is 264 lines of which 256 are visible.
const (
	ScreenWidth  = 256
	ScreenHeight = 256

	MasterClockHz = 12288000
	PixelClockHz  = 6144000
	clockDiv      = MasterClockHz / PixelClockHz

	lineTicks  = 384
	frameLines = 264

	// MasterTicksPerFrame is the number of master clock cycles in one frame.
	MasterTicksPerFrame = clockDiv * lineTicks * frameLines
)

// FrameRate is the resulting frame rate in Hz (about 60.6).
const FrameRate = float64(PixelClockHz) / (lineTicks * frameLines)

// Horizontal blanking spans ticks 256-383. The fetch engine idles for most
// of it, then re-runs the last tile window (x 248-255) during the final 8
// ticks with the next line's y, so the prefetch and row latch for the first
// visible tile of the next line carry the correct tileRow and offsetY. On
// the board this falls out of the wider horizontal counter keeping the fetch
// logic clocked through blanking.
const preambleStart = lineTicks - 8

// Raster generates the scan position consumed by the tile engine: a
// horizontal tick counter over the full line and a line counter over the
// full frame.
type Raster struct {
	h    int // 0 to lineTicks-1; 0-255 visible
	line int // 0 to frameLines-1; 0-255 visible
}

// Step advances the raster one pixel tick.
func (r *Raster) Step() {
	r.h++
	if r.h == lineTicks {
		r.h = 0
		r.line++
		if r.line == frameLines {
			r.line = 0
		}
	}
}

// Visible reports whether the current position is inside the 256x256
// visible field.
func (r *Raster) Visible() bool {
	return r.h < ScreenWidth && r.line < ScreenHeight
}

// Active reports whether the fetch engine runs at the current position:
// the visible portion of a line plus the blanking preamble.
func (r *Raster) Active() bool {
	return r.h < ScreenWidth || r.h >= preambleStart
}

// Pos returns the 8-bit scan position presented to the tile engine. During
// the blanking preamble this is the last tile window of the upcoming line.
func (r *Raster) Pos() (x, y uint8) {
	if r.h >= preambleStart {
		next := r.line + 1
		if next == frameLines {
			next = 0
		}
		return uint8(ScreenWidth - 8 + (r.h - preambleStart)), uint8(next)
	}
	return uint8(r.h), uint8(r.line)
}

// FrameStart reports whether the raster sits at the top-left of the frame.
func (r *Raster) FrameStart() bool {
	return r.h == 0 && r.line == 0
}
