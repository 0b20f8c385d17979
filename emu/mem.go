package emu

// Memory sizes for the board's video memories.
const (
	// AttrHalfSize is the size of each attribute RAM half. The 32x32 grid of
	// 16-bit attribute entries is physically split into a high-byte half and
	// a low-byte half, each indexed by tileRow*32 + tileCol.
	AttrHalfSize = 1024
	// TileROMSize is the size of the tile bitmap ROM: 1024 tile codes x 8
	// rows x 1 byte per row, addressed by code[9:0] ++ offsetY[2:0].
	TileROMSize = 8192
	// PalettePROMSize is one byte per 8-bit pixel descriptor.
	PalettePROMSize = 256
)

// Attribute store address layout: bit 10 is the bank bit selecting the half
// (0 = high bytes, 1 = low bytes), bits 9:5 the tile row, bits 4:0 the tile
// column.
const (
	attrBankHigh = 0x000
	attrBankLow  = 0x400
)

// memory is byte-addressed storage a read port can be attached to.
type memory interface {
	at(addr uint16) uint8
}

// readPort models a single-port synchronous-read memory port: the address
// driven on one tick produces data at the port output on the next. There is
// one read in flight at a time and no handshake; the consumer samples the
// output on the tick it knows the data is valid.
type readPort struct {
	mem  memory
	addr uint16
	out  uint8
}

// drive places an address on the port. The addressed byte appears at the
// output after the next clock.
func (p *readPort) drive(addr uint16) {
	p.addr = addr
}

// clock advances the port one tick: the byte at the currently driven address
// becomes the port output.
func (p *readPort) clock() {
	p.out = p.mem.at(p.addr)
}

// data returns the port output latched at the last clock.
func (p *readPort) data() uint8 {
	return p.out
}

// AttrRAM is the tile attribute store: 32x32 logical 16-bit entries held as
// two 1KB byte planes. The high byte carries the color nibble in bits 7:4
// and tile code bits 10:8 in bits 2:0; the low byte carries code bits 7:0.
type AttrRAM struct {
	hi [AttrHalfSize]uint8
	lo [AttrHalfSize]uint8
}

func (a *AttrRAM) at(addr uint16) uint8 {
	idx := addr & 0x3FF
	if addr&attrBankLow != 0 {
		return a.lo[idx]
	}
	return a.hi[idx]
}

// Load copies the high-byte and low-byte plane images into the RAM.
func (a *AttrRAM) Load(hi, lo []byte) {
	copy(a.hi[:], hi)
	copy(a.lo[:], lo)
}

// SetEntry writes one grid cell's attribute entry.
func (a *AttrRAM) SetEntry(row, col int, code uint16, color uint8) {
	idx := (row&31)*32 + (col & 31)
	a.hi[idx] = color<<4 | uint8(code>>8)&0x07
	a.lo[idx] = uint8(code)
}

// TileROM is the tile bitmap store: each tile code owns 8 consecutive row
// bytes. Addresses wrap at the 13-bit bus width.
type TileROM struct {
	rom [TileROMSize]uint8
}

func (r *TileROM) at(addr uint16) uint8 {
	return r.rom[addr&0x1FFF]
}

// Load copies a bitmap image into the ROM.
func (r *TileROM) Load(data []byte) {
	copy(r.rom[:], data)
}

// SetRow writes one row byte of one tile's bitmap.
func (r *TileROM) SetRow(code uint16, row int, bits uint8) {
	r.rom[int(code&0x3FF)<<3|(row&7)] = bits
}
