package bitbox

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var errTileID = errors.New("bitbox: tile id out of range")

type xmlTileset struct {
	XMLName    xml.Name  `xml:"tileset"`
	Name       string    `xml:"name,attr"`
	TileWidth  int       `xml:"tilewidth,attr"`
	TileHeight int       `xml:"tileheight,attr"`
	Image      xmlImage  `xml:"image"`
	Tiles      []xmlTile `xml:"tile"`
}

type xmlImage struct {
	Source string `xml:"source,attr"`
}

type xmlTile struct {
	ID          int             `xml:"id,attr"`
	Type        string          `xml:"type,attr"`
	Class       string          `xml:"class,attr"`
	Animation   *xmlAnimation   `xml:"animation"`
	ObjectGroup *xmlObjectGroup `xml:"objectgroup"`
}

type xmlAnimation struct {
	Frames []xmlFrame `xml:"frame"`
}

type xmlFrame struct {
	TileID   int `xml:"tileid,attr"`
	Duration int `xml:"duration,attr"`
}

type xmlObjectGroup struct {
	Objects []xmlObject `xml:"object"`
}

type xmlObject struct {
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

// A State is one animation of a tileset, stored as its own sprite.
type State struct {
	Name   string
	Frames []int
	Hitbox image.Rectangle
}

// Tileset is the part of a Tiled tileset used to build sprites.
type Tileset struct {
	Name     string
	Image    string
	TileSize image.Point
	States   []State
}

// ParseTileset reads a Tiled .tsx tileset. Only tiles with a type, or a
// class in newer versions of Tiled, become states.
func ParseTileset(r io.Reader) (*Tileset, error) {
	var x xmlTileset
	if err := xml.NewDecoder(r).Decode(&x); err != nil {
		return nil, err
	}
	if x.TileWidth <= 0 || x.TileHeight <= 0 {
		return nil, errSize
	}

	ts := &Tileset{
		Name:     x.Name,
		Image:    x.Image.Source,
		TileSize: image.Pt(x.TileWidth, x.TileHeight),
	}

	for _, t := range x.Tiles {
		name := t.Type
		if name == "" {
			name = t.Class
		}
		if name == "" {
			continue
		}

		s := State{
			Name:   name,
			Hitbox: image.Rect(0, 0, x.TileWidth, x.TileHeight),
		}

		if t.Animation != nil && len(t.Animation.Frames) > 0 {
			for _, f := range t.Animation.Frames {
				s.Frames = append(s.Frames, f.TileID)
			}
		} else {
			s.Frames = []int{t.ID}
		}

		// First object is the hitbox
		if t.ObjectGroup != nil && len(t.ObjectGroup.Objects) > 0 {
			o := t.ObjectGroup.Objects[0]
			s.Hitbox = image.Rect(int(o.X), int(o.Y), int(o.X+o.Width), int(o.Y+o.Height))
		}

		ts.States = append(ts.States, s)
	}

	return ts, nil
}

// BuildTileset writes one sprite per state of the tileset in file to
// outdir, named <tileset>_<state>.spr.
func (b *Builder) BuildTileset(file, outdir string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	ts, err := ParseTileset(f)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	if len(ts.States) == 0 {
		b.logger.Printf("No typed tiles in \"%s\"\n", file)
		return nil
	}

	b.logger.Printf("Generating sprite files from \"%s\"\n", file)

	m, err := loadImage(filepath.Join(filepath.Dir(file), filepath.Clean(strings.ReplaceAll(ts.Image, "\\", string(os.PathSeparator)))))
	if err != nil {
		return err
	}
	tiles := cutSheet(m, ts.TileSize)

	for _, s := range ts.States {
		frames := make([]image.Image, len(s.Frames))
		for i, id := range s.Frames {
			if id < 0 || id >= len(tiles) {
				return fmt.Errorf("%s: %s: %w: %d", file, s.Name, errTileID, id)
			}
			frames[i] = tiles[id]
		}

		out := filepath.Join(outdir, ts.Name+"_"+s.Name+".spr")
		if err := b.encode(frames, s.Hitbox, out); err != nil {
			return err
		}
	}

	return nil
}
