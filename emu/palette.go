package emu

// PalettePROM is the downstream color stage: one byte per pixel descriptor,
// packed BBGGGRRR (blue in bits 7:6, green in 5:3, red in 2:0).
type PalettePROM struct {
	prom [PalettePROMSize]uint8
}

// Load copies a PROM image into the palette.
func (p *PalettePROM) Load(data []byte) {
	copy(p.prom[:], data)
}

// Set writes one PROM entry.
func (p *PalettePROM) Set(descriptor uint8, packed uint8) {
	p.prom[descriptor] = packed
}

// Color converts a pixel descriptor to 8-bit R, G, B channel values.
// The 3-bit and 2-bit fields are expanded by bit replication.
func (p *PalettePROM) Color(descriptor uint8) (r, g, b uint8) {
	packed := p.prom[descriptor]

	red := packed & 0x07
	green := (packed >> 3) & 0x07
	blue := (packed >> 6) & 0x03

	r = red<<5 | red<<2 | red>>1
	g = green<<5 | green<<2 | green>>1
	b = blue<<6 | blue<<4 | blue<<2 | blue
	return
}
