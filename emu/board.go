package emu

import (
	"hash/crc32"
	"image"
)

// Core identity, reported by the CLI and viewer.
const (
	Name    = "emtile"
	Version = "0.1.0"
)

// Board wires the tile engine to its memories, the raster counter and the
// palette stage, and drives the whole pipeline from the master clock.
type Board struct {
	attr   *AttrRAM
	tiles  *TileROM
	pal    *PalettePROM
	gen    *TileGen
	raster *Raster

	// Master-clock divider phase. The pixel tick enable fires when the
	// phase wraps; master cycles without the enable advance nothing.
	divPhase int

	// CRC over the loaded ROM images (tile ROM + palette PROM), used to
	// match save states to their content.
	imageCRC uint32

	framebuffer *image.RGBA
}

// NewBoard creates a board with empty memories.
func NewBoard() *Board {
	attr := &AttrRAM{}
	tiles := &TileROM{}
	return &Board{
		attr:        attr,
		tiles:       tiles,
		pal:         &PalettePROM{},
		gen:         NewTileGen(attr, tiles),
		raster:      &Raster{},
		framebuffer: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
	}
}

// NewBoardFromImages creates a board and loads a validated image set.
func NewBoardFromImages(set *ImageSet) (*Board, error) {
	b := NewBoard()
	if err := b.LoadImages(set); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadImages validates and loads a memory image set into the board.
// Latches and counters are left untouched, so images can be swapped between
// frames.
func (b *Board) LoadImages(set *ImageSet) error {
	if err := set.Validate(); err != nil {
		return err
	}
	b.attr.Load(set.AttrHigh, set.AttrLow)
	b.tiles.Load(set.Tiles)
	b.pal.Load(set.Palette)

	crc := crc32.NewIEEE()
	crc.Write(set.Tiles)
	crc.Write(set.Palette)
	b.imageCRC = crc.Sum32()
	return nil
}

// AttrRAM returns the board's attribute store.
func (b *Board) AttrRAM() *AttrRAM {
	return b.attr
}

// TileROM returns the board's tile bitmap store.
func (b *Board) TileROM() *TileROM {
	return b.tiles
}

// Palette returns the board's palette PROM.
func (b *Board) Palette() *PalettePROM {
	return b.pal
}

// StepMaster advances the board one master clock cycle. Only every
// clockDiv-th cycle carries the pixel tick enable; the others leave all
// pipeline state untouched.
func (b *Board) StepMaster() {
	b.divPhase++
	if b.divPhase < clockDiv {
		return
	}
	b.divPhase = 0
	b.stepPixel()
}

// stepPixel advances one enabled pixel tick: run the fetch engine if the
// raster is in its active window, emit a framebuffer pixel if visible, then
// move the raster.
func (b *Board) stepPixel() {
	if b.raster.Active() {
		x, y := b.raster.Pos()
		b.gen.Tick(x, y)
		if b.raster.Visible() {
			b.writePixel(int(x), int(y), b.gen.Descriptor(x))
		}
	}
	b.raster.Step()
}
