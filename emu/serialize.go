package emu

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "eMTileState\x00"
	stateHeaderSize = 22 // magic(12) + version(2) + imageCRC(4) + dataCRC(4)
)

const (
	tileGenSerializeVersion = 1
	// TileGenSerializeSize is the total bytes needed for the fetch engine's
	// latch state.
	// version(1) + attrHi(1) + codeNext(2) + colorNext(1) + rowNext(1) +
	// colorCur(1) + rowCur(1) + attr port addr(2)+out(1) +
	// tile port addr(2)+out(1)
	TileGenSerializeSize = 14
)

// BoardSerializeSize is the total size in bytes of a board save state:
// header + attribute RAM planes + raster counters + divider phase + fetch
// engine latches. ROM contents are not serialized; the header's image CRC
// ties a state to its content.
const BoardSerializeSize = stateHeaderSize + 2*AttrHalfSize + 8 + 4 + TileGenSerializeSize

// Serialize writes the fetch engine's latch and port state to buf. buf must
// be at least TileGenSerializeSize bytes.
func (g *TileGen) Serialize(buf []byte) error {
	if len(buf) < TileGenSerializeSize {
		return errors.New("tile engine serialize buffer too small")
	}

	buf[0] = tileGenSerializeVersion
	buf[1] = g.attrHi
	binary.LittleEndian.PutUint16(buf[2:], g.codeNext)
	buf[4] = g.colorNext
	buf[5] = g.rowNext
	buf[6] = g.colorCur
	buf[7] = g.rowCur
	binary.LittleEndian.PutUint16(buf[8:], g.attr.addr)
	buf[10] = g.attr.out
	binary.LittleEndian.PutUint16(buf[11:], g.tile.addr)
	buf[13] = g.tile.out
	return nil
}

// Deserialize restores the fetch engine's latch and port state from buf.
func (g *TileGen) Deserialize(buf []byte) error {
	if len(buf) < TileGenSerializeSize {
		return errors.New("tile engine serialize buffer too small")
	}
	if buf[0] > tileGenSerializeVersion {
		return errors.New("unsupported tile engine state version")
	}

	g.attrHi = buf[1]
	g.codeNext = binary.LittleEndian.Uint16(buf[2:])
	g.colorNext = buf[4]
	g.rowNext = buf[5]
	g.colorCur = buf[6]
	g.rowCur = buf[7]
	g.attr.addr = binary.LittleEndian.Uint16(buf[8:])
	g.attr.out = buf[10]
	g.tile.addr = binary.LittleEndian.Uint16(buf[11:])
	g.tile.out = buf[13]
	return nil
}

// Serialize creates a board save state and returns it as a byte slice.
func (b *Board) Serialize() ([]byte, error) {
	data := make([]byte, BoardSerializeSize)

	// Header
	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], b.imageCRC)

	offset := stateHeaderSize

	// Attribute RAM planes
	copy(data[offset:], b.attr.hi[:])
	offset += AttrHalfSize
	copy(data[offset:], b.attr.lo[:])
	offset += AttrHalfSize

	// Raster counters
	binary.LittleEndian.PutUint32(data[offset:], uint32(int32(b.raster.h)))
	offset += 4
	binary.LittleEndian.PutUint32(data[offset:], uint32(int32(b.raster.line)))
	offset += 4

	// Divider phase
	binary.LittleEndian.PutUint32(data[offset:], uint32(int32(b.divPhase)))
	offset += 4

	// Fetch engine latches
	if err := b.gen.Serialize(data[offset:]); err != nil {
		return nil, err
	}

	// Data CRC over everything after the header
	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[18:22], dataCRC)

	return data, nil
}

// Deserialize restores board state from a save state byte slice. Loaded ROM
// images are not restored; the state must match the loaded content.
func (b *Board) Deserialize(data []byte) error {
	if err := b.VerifyState(data); err != nil {
		return err
	}

	offset := stateHeaderSize

	copy(b.attr.hi[:], data[offset:])
	offset += AttrHalfSize
	copy(b.attr.lo[:], data[offset:])
	offset += AttrHalfSize

	b.raster.h = int(int32(binary.LittleEndian.Uint32(data[offset:])))
	offset += 4
	b.raster.line = int(int32(binary.LittleEndian.Uint32(data[offset:])))
	offset += 4

	b.divPhase = int(int32(binary.LittleEndian.Uint32(data[offset:])))
	offset += 4

	return b.gen.Deserialize(data[offset:])
}

// VerifyState checks if a save state is valid for this board without
// loading it.
func (b *Board) VerifyState(data []byte) error {
	if len(data) < BoardSerializeSize {
		return errors.New("save state too short")
	}

	if string(data[0:12]) != stateMagic {
		return errors.New("invalid save state magic")
	}

	version := binary.LittleEndian.Uint16(data[12:14])
	if version > stateVersion {
		return errors.New("unsupported save state version")
	}

	imageCRC := binary.LittleEndian.Uint32(data[14:18])
	if imageCRC != b.imageCRC {
		return errors.New("save state is for different ROM images")
	}

	expectedCRC := binary.LittleEndian.Uint32(data[18:22])
	actualCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	if expectedCRC != actualCRC {
		return errors.New("save state data is corrupted")
	}

	return nil
}
