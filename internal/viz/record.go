package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	cellW, cellH = 8, 16
	gifDelay     = 2 // 1/100 s
)

// Recorder rasterizes canvas frames for an animated GIF. Index 0 of the
// palette is the background; ink i maps to palette entry i+1.
type Recorder struct {
	palette color.Palette
	frames  []*image.Paletted
}

func NewRecorder(background colorful.Color, inks []colorful.Color) *Recorder {
	pal := make(color.Palette, 0, len(inks)+1)
	pal = append(pal, toRGBA(background))
	for _, c := range inks {
		if len(pal) == 256 {
			break
		}
		pal = append(pal, toRGBA(c))
	}
	return &Recorder{palette: pal}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), r.palette)
	dotW, dotH := cellW/2, cellH/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			cell := c.Grid[row][col]
			if cell == blank {
				continue
			}
			idx := uint8(min(c.Ink[row][col]+1, len(r.palette)-1))
			baseX, baseY := col*cellW, row*cellH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if cell&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("viz: no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, gifDelay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
