package emu

// TileGen is the tile-layer fetch/decode engine. It walks the 32x32 grid of
// 8x8 tiles and turns each scan position into an 8-bit pixel descriptor
// (color nibble in bits 7:4, pixel value in bits 3:0).
//
// The engine is pipelined one tile ahead: while tile (r,c) is on screen, the
// attribute entry for tile (r,c+1) is fetched and resolved, and the bitmap
// row for that tile is latched during the tail of the current window. Fetch
// actions are keyed to the offsetX phase (x & 7) and assume the fixed 1-tick
// address-to-data latency of the memory ports; there is no handshake and no
// retry, exactly like the board.
type TileGen struct {
	attr *readPort // attribute store port
	tile *readPort // bitmap store port

	// Prefetch latches for the upcoming tile.
	attrHi    uint8  // temporary attribute high byte, latched at offsetX 1
	codeNext  uint16 // reconstructed 11-bit tile code, formed at offsetX 2
	colorNext uint8  // color nibble, latched at offsetX 7
	rowNext   uint8  // row bitmap, latched at offsetX 7

	// Registers for the tile currently on screen. Pending values hand off
	// into these when offsetX wraps to 0.
	colorCur uint8
	rowCur   uint8
}

// NewTileGen creates a tile engine reading from the given stores.
func NewTileGen(attr *AttrRAM, tiles *TileROM) *TileGen {
	return &TileGen{
		attr: &readPort{mem: attr},
		tile: &readPort{mem: tiles},
	}
}

// attrAddr composes an attribute store address from a bank select and a grid
// cell: (bank, tileRow[4:0], tileCol[4:0]).
func attrAddr(bank uint16, tileRow, tileCol uint8) uint16 {
	return bank | uint16(tileRow&31)<<5 | uint16(tileCol&31)
}

// bitmapAddr composes a bitmap store address: code[9:0] ++ offsetY[2:0].
// Bit 10 of the reconstructed code does not reach the address bus; content
// relying on the wraparound sees it dropped, as on the board.
func bitmapAddr(code uint16, offsetY uint8) uint16 {
	return (code&0x3FF)<<3 | uint16(offsetY&7)
}

// decodeRowPixel is the pixel decode stage: a pure function from the latched
// row bitmap and horizontal offset to the 4-bit pixel value. Rows are packed
// one bit per pixel with the leftmost pixel in the MSB; the bit is
// zero-extended into the descriptor's pixel field.
func decodeRowPixel(row, offsetX uint8) uint8 {
	return (row >> (7 - offsetX&7)) & 1
}

// Tick advances the pipeline one enabled pixel tick at scan position (x, y).
// The caller is responsible for the tick-enable gating: a skipped tick must
// simply not call Tick.
func (g *TileGen) Tick(x, y uint8) {
	// Clock the synchronous memories first: data for the address driven on
	// the previous tick becomes visible at this tick's edge.
	g.attr.clock()
	g.tile.clock()

	offsetX := x & 7
	tileRow := y >> 3

	if offsetX == 0 {
		// Tile boundary: the prefetched registers become current.
		g.colorCur = g.colorNext
		g.rowCur = g.rowNext
	}

	// Attribute fetch targets the next tile column, wrapping at the right
	// edge of the grid.
	nextCol := (x>>3 + 1) & 31

	switch offsetX {
	case 0:
		g.attr.drive(attrAddr(attrBankHigh, tileRow, nextCol))
	case 1:
		g.attrHi = g.attr.data()
		g.attr.drive(attrAddr(attrBankLow, tileRow, nextCol))
	case 2:
		g.codeNext = uint16(g.attrHi&0x07)<<8 | uint16(g.attr.data())
	case 7:
		g.colorNext = g.attrHi >> 4
		g.rowNext = g.tile.data()
	}

	// The bitmap address is combinational from the already resolved tile
	// code and the row within the tile, so the latch at offsetX 7 captures
	// the upcoming tile's row data.
	g.tile.drive(bitmapAddr(g.codeNext, y&7))
}

// Descriptor returns the pixel descriptor for horizontal position x using
// the registers of the tile currently on screen. Pure combinational output;
// valid every tick.
func (g *TileGen) Descriptor(x uint8) uint8 {
	return g.colorCur<<4 | decodeRowPixel(g.rowCur, x&7)
}
