package main

import (
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/user-none/emtile/emu"
	"github.com/user-none/emtile/viewer"
)

func main() {
	app := cli.NewApp()

	app.Name = emu.Name
	app.Usage = "arcade tilemap video board core"
	app.Version = emu.Version

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "attr-hi",
			Usage: "attribute RAM high-byte plane image (1024 bytes)",
		},
		&cli.StringFlag{
			Name:  "attr-lo",
			Usage: "attribute RAM low-byte plane image (1024 bytes)",
		},
		&cli.StringFlag{
			Name:  "tiles",
			Usage: "tile bitmap ROM image (8192 bytes)",
		},
		&cli.StringFlag{
			Name:  "palette",
			Usage: "palette PROM image (256 bytes)",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "render",
			Usage: "Render one frame to a PNG file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "out",
					Value: "frame.png",
					Usage: "output PNG path",
				},
				&cli.IntFlag{
					Name:  "frames",
					Value: 2,
					Usage: "frames to run before capturing (the first frame starts from cold latches)",
				},
			},
			Action: func(c *cli.Context) error {
				board, err := boardFromFlags(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				frames := c.Int("frames")
				if frames < 1 {
					frames = 1
				}
				for i := 0; i < frames; i++ {
					board.RunFrame()
				}

				f, err := os.Create(c.String("out"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				if err := png.Encode(f, board.Image()); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:  "view",
			Usage: "Open a live window, reloading images when they change",
			Action: func(c *cli.Context) error {
				board, err := boardFromFlags(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				paths := viewer.Paths{
					AttrHigh: c.String("attr-hi"),
					AttrLow:  c.String("attr-lo"),
					Tiles:    c.String("tiles"),
					Palette:  c.String("palette"),
				}
				if err := viewer.Run(board, paths); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// boardFromFlags builds a board from the image flags, falling back to the
// built-in demo content when no image is given.
func boardFromFlags(c *cli.Context) (*emu.Board, error) {
	attrHi := c.String("attr-hi")
	attrLo := c.String("attr-lo")
	tiles := c.String("tiles")
	palette := c.String("palette")

	if attrHi == "" && attrLo == "" && tiles == "" && palette == "" {
		return emu.NewBoardFromImages(emu.DemoImageSet())
	}
	if attrHi == "" || attrLo == "" || tiles == "" || palette == "" {
		return nil, fmt.Errorf("all of --attr-hi, --attr-lo, --tiles and --palette are required")
	}

	set, err := emu.LoadImageSet(attrHi, attrLo, tiles, palette)
	if err != nil {
		return nil, err
	}
	return emu.NewBoardFromImages(set)
}
