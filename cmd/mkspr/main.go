package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	bitbox "github.com/makapuf/bitbox-sdk"
	"github.com/makapuf/bitbox-sdk/palette"
	"github.com/makapuf/bitbox-sdk/sprite"
	"github.com/urfave/cli/v2"
)

const microPalette = "micro"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadPalette(name string) (color.Palette, error) {
	if name == "" || name == microPalette {
		return sprite.MicroPalette, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return palette.Load(f)
}

func loadImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	return m, err
}

func newBuilder(c *cli.Context) (*bitbox.Builder, func() error, error) {
	mode, err := sprite.ParseMode(c.String("mode"))
	if err != nil {
		return nil, nil, err
	}

	p, err := loadPalette(c.String("palette"))
	if err != nil {
		return nil, nil, err
	}

	opts := sprite.Options{
		Mode:          mode,
		Palette:       p,
		MinFill:       c.Int("min-fill"),
		MinMatch:      c.Int("min-match"),
		SubtileHeight: c.Int("vtile"),
	}

	var cache *bitbox.Cache
	closer := func() error { return nil }
	if file := c.String("cache"); file != "" {
		if cache, err = bitbox.NewCache(file); err != nil {
			return nil, nil, err
		}
		closer = cache.Close
	}

	return bitbox.New(cache, newLogger(c), opts, c.Bool("remap")), closer, nil
}

func readSprite(c *cli.Context, file string) (*sprite.Sprite, error) {
	p, err := loadPalette(c.String("palette"))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return sprite.Decode(f, &sprite.DecodeOptions{
		Palette:       p,
		SubtileHeight: c.Int("vtile"),
	})
}

func writePNG(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, m); err != nil {
		return err
	}
	return f.Close()
}

func main() {
	app := cli.NewApp()

	app.Name = "mkspr"
	app.Usage = "Bitbox sprite file utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "cache",
			EnvVars: []string{"MKSPR_CACHE"},
			Usage:   "path to encoded sprite cache database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Value:   sprite.Direct16.String(),
			Usage:   "pixel mode, one of u16, u8 or couples",
		},
		&cli.StringFlag{
			Name:    "palette",
			Aliases: []string{"p"},
			Value:   microPalette,
			Usage:   "palette PNG file for u8 sprites, or micro",
		},
		&cli.BoolFlag{
			Name:  "remap",
			Usage: "map opaque pixels to the nearest palette color",
		},
		&cli.IntFlag{
			Name:  "min-fill",
			Value: 4,
			Usage: "minimum repeated values for a fill blit",
		},
		&cli.IntFlag{
			Name:  "min-match",
			Value: 4,
			Usage: "minimum literal size in bytes for a back reference",
		},
		&cli.IntFlag{
			Name:  "vtile",
			Usage: "cut frames into strips of this many lines, 0 for whole frames",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "sheet",
			Usage:       "Build a sprite from PNG sprite sheets",
			Description: "Frames are cut left to right then top to bottom. The frame size is taken from --size, a _WxH.png file name suffix, or the first sheet.",
			ArgsUsage:   "FILE...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "output",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "output sprite file",
				},
				&cli.StringFlag{
					Name:  "size",
					Usage: "frame size as WxH",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				var size image.Point
				if s := c.String("size"); s != "" {
					var err error
					if size, err = bitbox.ParseSize(s); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				b, closer, err := newBuilder(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer closer()

				if err := b.BuildSheet(c.Args().Slice(), size, c.String("output")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "tsx",
			Usage:       "Build one sprite per typed tile of Tiled tilesets",
			Description: "",
			ArgsUsage:   "FILE...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   ".",
					Usage:   "output directory",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				b, closer, err := newBuilder(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer closer()

				for _, file := range c.Args().Slice() {
					if err := b.BuildTileset(file, c.String("output")); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Build sprites for every Tiled tileset in a directory tree",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				b, closer, err := newBuilder(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer closer()

				if err := b.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "decode",
			Usage:       "Decode a sprite to a PNG strip of its frames",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "output PNG file, defaults to FILE with a .png extension",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				file := c.Args().First()
				s, err := readSprite(c, file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				out := c.String("output")
				if out == "" {
					out = strings.TrimSuffix(file, filepath.Ext(file)) + ".png"
				}

				if err := writePNG(out, s.Strip()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Show the header of a sprite",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				h, err := sprite.DecodeConfig(f, &sprite.DecodeOptions{SubtileHeight: c.Int("vtile")})
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				w := c.App.Writer
				fmt.Fprintf(w, "size: %dx%d\n", h.Width, h.FrameHeight)
				fmt.Fprintf(w, "frames: %d\n", h.Frames)
				fmt.Fprintf(w, "mode: %s\n", h.Mode)
				fmt.Fprintf(w, "hitbox: %d,%d,%d,%d\n", h.Hitbox.Min.X, h.Hitbox.Min.Y, h.Hitbox.Max.X, h.Hitbox.Max.Y)
				if h.Mode == sprite.Couples {
					fmt.Fprintf(w, "couples: %d\n", len(h.Couples))
				}
				fmt.Fprintf(w, "offsets: %v\n", h.Offsets)

				return nil
			},
		},
		{
			Name:        "palette",
			Usage:       "Extract a palette PNG from images",
			Description: "",
			ArgsUsage:   "FILE...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "output",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "output palette PNG file",
				},
				&cli.IntFlag{
					Name:  "colors",
					Value: palette.MaxColors,
					Usage: "number of colors",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				var images []image.Image
				for _, file := range c.Args().Slice() {
					m, err := loadImage(file)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					images = append(images, m)
				}

				p, err := palette.Extract(images, c.Int("colors"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				f, err := os.Create(c.String("output"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				if err := palette.Encode(f, p); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
