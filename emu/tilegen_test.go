package emu

import "testing"

func makeTestGen() (*TileGen, *AttrRAM, *TileROM) {
	attr := &AttrRAM{}
	rom := &TileROM{}
	return NewTileGen(attr, rom), attr, rom
}

// tickRange advances the engine over an inclusive range of x positions.
func tickRange(g *TileGen, y uint8, from, to int) {
	for x := from; x <= to; x++ {
		g.Tick(uint8(x), y)
	}
}

// --- Pixel decode tests ---

func TestDecodeRowPixel_BitSlice(t *testing.T) {
	// 0b10110001: leftmost pixel in the MSB
	row := uint8(0xB1)
	want := []uint8{1, 0, 1, 1, 0, 0, 0, 1}

	for offsetX := uint8(0); offsetX < 8; offsetX++ {
		got := decodeRowPixel(row, offsetX)
		if got != want[offsetX] {
			t.Errorf("offsetX %d: expected %d, got %d", offsetX, want[offsetX], got)
		}
	}
}

func TestDecodeRowPixel_ConstantRows(t *testing.T) {
	for offsetX := uint8(0); offsetX < 8; offsetX++ {
		if got := decodeRowPixel(0x00, offsetX); got != 0 {
			t.Errorf("all-zero row, offsetX %d: expected 0, got %d", offsetX, got)
		}
		if got := decodeRowPixel(0xFF, offsetX); got != 1 {
			t.Errorf("all-ones row, offsetX %d: expected 1, got %d", offsetX, got)
		}
	}
}

// --- Attribute fetch tests ---

func TestTileGen_ConcreteScenario(t *testing.T) {
	// High byte 0x3A (color 0x3, code high bits 0b010) and low byte 0xC7 at
	// cell (0,0) give tile code 0x2C7; row 0 of that tile lives at bitmap
	// address 0x2C7<<3 = 0x1638.
	g, attr, rom := makeTestGen()
	attr.hi[0] = 0x3A
	attr.lo[0] = 0xC7
	rom.rom[0x1638] = 0xCA // 0b11001010

	// Cell (0,0) is prefetched during the rightmost tile's window.
	tickRange(g, 0, 248, 255)

	want := []uint8{1, 1, 0, 0, 1, 0, 1, 0}
	for x := 0; x < 8; x++ {
		g.Tick(uint8(x), 0)
		got := g.Descriptor(uint8(x))
		expected := uint8(0x30) | want[x]
		if got != expected {
			t.Errorf("x=%d: expected descriptor %#02x, got %#02x", x, expected, got)
		}
	}
}

func TestTileGen_PrefetchResolvedByWindowEnd(t *testing.T) {
	g, attr, rom := makeTestGen()
	attr.SetEntry(0, 1, 0x155, 0x9)
	rom.SetRow(0x155, 0, 0x5A)

	// Walk the cell (0,0) window; by its last tick the next tile must be
	// fully resolved so pixel 0 of cell (0,1) can decode immediately.
	tickRange(g, 0, 0, 7)

	if g.codeNext != 0x155 {
		t.Errorf("expected resolved code 0x155, got %#03x", g.codeNext)
	}
	if g.colorNext != 0x9 {
		t.Errorf("expected resolved color 0x9, got %#x", g.colorNext)
	}
	if g.rowNext != 0x5A {
		t.Errorf("expected latched row bitmap 0x5A, got %#02x", g.rowNext)
	}
}

func TestTileGen_CodeResolvedAtPhase2(t *testing.T) {
	g, attr, _ := makeTestGen()
	attr.SetEntry(0, 1, 0x2A5, 0x0)

	g.Tick(0, 0) // address high byte
	g.Tick(1, 0) // latch high byte, address low byte
	if g.codeNext == 0x2A5 {
		t.Fatal("code should not be resolved before phase 2")
	}
	g.Tick(2, 0) // combine
	if g.codeNext != 0x2A5 {
		t.Errorf("expected code 0x2A5 at phase 2, got %#03x", g.codeNext)
	}
}

func TestTileGen_TileAddressing(t *testing.T) {
	// Color and code of the output come from the attribute bytes at
	// tileRow*32 + tileCol.
	g, attr, rom := makeTestGen()
	attr.SetEntry(1, 5, 0x123, 0xA)
	rom.SetRow(0x123, 1, 0xF0)

	// y=9: tile row 1, offsetY 1. Cell (1,5) is prefetched during the
	// (1,4) window at x=32..39.
	tickRange(g, 9, 32, 39)

	want := []uint8{0xA1, 0xA1, 0xA1, 0xA1, 0xA0, 0xA0, 0xA0, 0xA0}
	for x := 40; x < 48; x++ {
		g.Tick(uint8(x), 9)
		if got := g.Descriptor(uint8(x)); got != want[x-40] {
			t.Errorf("x=%d: expected descriptor %#02x, got %#02x", x, want[x-40], got)
		}
	}
}

func TestTileGen_ColumnWraparound(t *testing.T) {
	// During the column 31 window the prefetch targets column 0 of the same
	// row, not column 32.
	g, attr, rom := makeTestGen()
	attr.SetEntry(2, 0, 0x042, 0x7)
	rom.SetRow(0x042, 0, 0xFF)

	// y=16: tile row 2, offsetY 0.
	tickRange(g, 16, 248, 255)

	g.Tick(0, 16)
	if got := g.Descriptor(0); got != 0x71 {
		t.Errorf("expected descriptor 0x71 from cell (2,0), got %#02x", got)
	}
}

func TestTileGen_CodeTruncation(t *testing.T) {
	// An 11-bit code with bit 10 set addresses the bitmap store with only
	// its low 10 bits; the top bit is dropped, not rejected.
	g, attr, rom := makeTestGen()
	attr.SetEntry(0, 1, 0x4C7, 0x5)
	rom.SetRow(0x0C7, 0, 0xFF)

	tickRange(g, 0, 0, 2)

	if g.codeNext != 0x4C7 {
		t.Errorf("latch should keep all 11 code bits: expected 0x4C7, got %#03x", g.codeNext)
	}

	tickRange(g, 0, 3, 7)
	for x := 8; x < 16; x++ {
		g.Tick(uint8(x), 0)
		if got := g.Descriptor(uint8(x)); got != 0x51 {
			t.Errorf("x=%d: expected descriptor 0x51 via truncated address, got %#02x", x, got)
		}
	}
}

func TestTileGen_ColorHandOffAtBoundary(t *testing.T) {
	// The color latched at the end of a window must not affect that
	// window's own last pixel.
	g, attr, rom := makeTestGen()
	attr.SetEntry(0, 1, 0x001, 0xA)
	attr.SetEntry(0, 2, 0x001, 0xB)
	rom.SetRow(0x001, 0, 0x00)

	tickRange(g, 0, 0, 7)   // prefetch (0,1)
	tickRange(g, 0, 8, 14)  // display (0,1), prefetch (0,2)
	g.Tick(15, 0)           // latches (0,2)'s color as pending
	if got := g.Descriptor(15); got>>4 != 0xA {
		t.Errorf("x=15 should still use current color 0xA, got %#x", got>>4)
	}
	g.Tick(16, 0)
	if got := g.Descriptor(16); got>>4 != 0xB {
		t.Errorf("x=16 should use handed-off color 0xB, got %#x", got>>4)
	}
}

func TestTileGen_RowBitmapPerScanline(t *testing.T) {
	// The bitmap address follows offsetY, so each scanline of a tile shows
	// its own row byte.
	g, attr, rom := makeTestGen()
	attr.SetEntry(0, 1, 0x010, 0x1)
	for r := 0; r < 8; r++ {
		rom.SetRow(0x010, r, 0x80>>r)
	}

	for y := uint8(0); y < 8; y++ {
		tickRange(g, y, 0, 7) // prefetch (0,1) with this line's offsetY
		for x := 8; x < 16; x++ {
			g.Tick(uint8(x), y)
			want := uint8(0x10)
			if int(x-8) == int(y) {
				want = 0x11
			}
			if got := g.Descriptor(uint8(x)); got != want {
				t.Errorf("x=%d y=%d: expected %#02x, got %#02x", x, y, want, got)
			}
		}
	}
}

func TestTileGen_Determinism(t *testing.T) {
	fill := func(attr *AttrRAM, rom *TileROM) {
		for row := 0; row < 32; row++ {
			for col := 0; col < 32; col++ {
				attr.SetEntry(row, col, uint16(row*37+col), uint8(row+col))
			}
		}
		for i := 0; i < TileROMSize; i++ {
			rom.rom[i] = uint8(i*7 + 3)
		}
	}

	run := func() []uint8 {
		g, attr, rom := makeTestGen()
		fill(attr, rom)
		var out []uint8
		for y := 0; y < 24; y++ {
			tickRange(g, uint8(y), 248, 255)
			for x := 0; x < 256; x++ {
				g.Tick(uint8(x), uint8(y))
				out = append(out, g.Descriptor(uint8(x)))
			}
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("descriptor stream diverged at index %d: %#02x vs %#02x", i, a[i], b[i])
		}
	}
}
