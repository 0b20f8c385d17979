package emu

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

// ImageSet holds the four binary memory images a board consumes: the two
// attribute RAM planes, the tile bitmap ROM, and the palette PROM.
type ImageSet struct {
	AttrHigh []byte
	AttrLow  []byte
	Tiles    []byte
	Palette  []byte
}

// Validate checks that every image has exactly the size of the memory it is
// loaded into. The split attribute planes are deliberate: images are binary
// dumps of the physical halves, not of a contiguous 16-bit memory.
func (s *ImageSet) Validate() error {
	if len(s.AttrHigh) != AttrHalfSize {
		return fmt.Errorf("attribute high plane: expected %d bytes, got %d", AttrHalfSize, len(s.AttrHigh))
	}
	if len(s.AttrLow) != AttrHalfSize {
		return fmt.Errorf("attribute low plane: expected %d bytes, got %d", AttrHalfSize, len(s.AttrLow))
	}
	if len(s.Tiles) != TileROMSize {
		return fmt.Errorf("tile ROM: expected %d bytes, got %d", TileROMSize, len(s.Tiles))
	}
	if len(s.Palette) != PalettePROMSize {
		return fmt.Errorf("palette PROM: expected %d bytes, got %d", PalettePROMSize, len(s.Palette))
	}
	return nil
}

// LoadImageSet reads the four memory images from disk. Each file may be a
// raw dump or a .gz/.zip/.7z compressed dump.
func LoadImageSet(attrHiPath, attrLoPath, tilesPath, palettePath string) (*ImageSet, error) {
	set := &ImageSet{}

	for _, f := range []struct {
		path string
		dst  *[]byte
	}{
		{attrHiPath, &set.AttrHigh},
		{attrLoPath, &set.AttrLow},
		{tilesPath, &set.Tiles},
		{palettePath, &set.Palette},
	} {
		data, err := loadImageFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.path, err)
		}
		*f.dst = data
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// loadImageFile reads a memory image, decompressing by file extension.
// Archives contribute their first entry.
func loadImageFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	var decoder io.Reader
	switch filepath.Ext(path) {
	case ".gz":
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		decoder, err = gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
	case ".zip":
		r, err := zip.NewReader(f, int64(len(data)))
		if err != nil {
			return nil, err
		}
		if len(r.File) == 0 {
			return nil, fmt.Errorf("empty zip archive")
		}
		decoder, err = r.File[0].Open()
		if err != nil {
			return nil, err
		}
	case ".7z":
		r, err := sevenzip.NewReader(f, int64(len(data)))
		if err != nil {
			return nil, err
		}
		if len(r.File) == 0 {
			return nil, fmt.Errorf("empty 7z archive")
		}
		decoder, err = r.File[0].Open()
		if err != nil {
			return nil, err
		}
	default:
		return data, nil
	}

	return io.ReadAll(decoder)
}

// DemoImageSet builds a self-contained image set with simple test content:
// sixteen stripe/checker tiles tiled diagonally across the grid, and a
// palette that gives each color nibble a distinct hue.
func DemoImageSet() *ImageSet {
	set := &ImageSet{
		AttrHigh: make([]byte, AttrHalfSize),
		AttrLow:  make([]byte, AttrHalfSize),
		Tiles:    make([]byte, TileROMSize),
		Palette:  make([]byte, PalettePROMSize),
	}

	// Tiles 0-15: tile n row r = checker/stripe patterns derived from n.
	for n := 0; n < 16; n++ {
		for r := 0; r < 8; r++ {
			var bits uint8
			switch n & 3 {
			case 0: // horizontal stripes
				if r&1 == 0 {
					bits = 0xFF
				}
			case 1: // vertical stripes
				bits = 0xAA
			case 2: // checker
				if r&1 == 0 {
					bits = 0xAA
				} else {
					bits = 0x55
				}
			case 3: // solid
				bits = 0xFF
			}
			set.Tiles[n<<3|r] = bits
		}
	}

	// Attributes: tile code and color both walk the diagonal.
	for row := 0; row < 32; row++ {
		for col := 0; col < 32; col++ {
			idx := row*32 + col
			code := (row + col) & 15
			color := uint8((row + col) >> 1 & 15)
			set.AttrHigh[idx] = color << 4
			set.AttrLow[idx] = uint8(code)
		}
	}

	// Palette: pixel value 0 is near-black, set pixels get a hue from the
	// color nibble.
	for d := 0; d < PalettePROMSize; d++ {
		color := uint8(d >> 4)
		if d&0x0F == 0 {
			set.Palette[d] = 0x40
			continue
		}
		red := color & 0x07
		green := (color >> 1) & 0x07
		blue := color >> 2 & 0x03
		set.Palette[d] = blue<<6 | green<<3 | red
	}

	return set
}
