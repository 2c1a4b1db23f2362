package main

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/teslashibe/lenslab/pkg/lab"
	"github.com/teslashibe/lenslab/pkg/optics"
	"github.com/teslashibe/lenslab/pkg/prefs"
)

// Canvas layout in pixels. One lab unit is one pixel.
const (
	screenWidth  = 800
	screenHeight = 600
	sceneHeight  = 460
	reach        = screenWidth / 2

	// Held arrow keys move this much per frame.
	distanceStep = 2.0
	focalStep    = 1.0
)

var (
	colorBackground = color.RGBA{248, 250, 252, 255}
	colorAxis       = color.RGBA{148, 163, 184, 255}
	colorLens       = color.RGBA{99, 102, 241, 255}
	colorFocal      = color.RGBA{71, 85, 105, 255}
	colorObject     = color.RGBA{234, 88, 12, 255}
	colorReal       = color.RGBA{220, 38, 38, 255}
	colorVirtual    = color.RGBA{220, 38, 38, 110}
	colorPanel      = color.RGBA{15, 23, 42, 230}
	colorText       = color.RGBA{30, 41, 59, 255}
	colorSubtitle   = color.RGBA{255, 255, 255, 255}

	rayColors = map[string]color.RGBA{
		RayParallel: {239, 68, 68, 180},
		RayCenter:   {16, 185, 129, 180},
		RayFocal:    {59, 130, 246, 180},
	}
)

// levelSource reports the current speech loudness in [0, 1].
type levelSource interface {
	Level() float64
}

// Game draws the lab and maps keys to lab operations.
type Game struct {
	lab    *lab.Lab
	prefs  *prefs.Store
	level  levelSource
	face   *text.GoTextFace
	logger *slog.Logger

	snap     lab.Snapshot
	textOpts text.DrawOptions
}

// NewGame creates the viewer. level and face may be nil.
func NewGame(l *lab.Lab, store *prefs.Store, level levelSource, face *text.GoTextFace, logger *slog.Logger) *Game {
	return &Game{
		lab:    l,
		prefs:  store,
		level:  level,
		face:   face,
		logger: logger.With("component", "lensview"),
		snap:   l.Snapshot(),
	}
}

// Update handles input and advances the autoplay run by one frame.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.lab.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.lab.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		next := optics.Concave
		if g.snap.Lens.Type == optics.Concave {
			next = optics.Convex
		}
		g.lab.SetLensType(next)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		enabled := !g.snap.AudioEnabled
		g.lab.SetAudioEnabled(enabled)
		if g.prefs != nil {
			if err := g.prefs.Update(func(p *prefs.Prefs) { p.AudioEnabled = enabled }); err != nil {
				g.logger.Warn("failed to save preferences", "error", err)
			}
		}
	}

	g.adjust(ebiten.KeyLeft, ebiten.KeyRight, func(d float64) error {
		// Left moves the candle away from the lens.
		return g.lab.SetObjectDistance(g.snap.Object.Distance - d*distanceStep)
	})
	g.adjust(ebiten.KeyDown, ebiten.KeyUp, func(d float64) error {
		return g.lab.SetFocalLength(g.snap.Lens.FocalLength + d*focalStep)
	})

	g.lab.Step()
	g.snap = g.lab.Snapshot()
	return nil
}

// adjust calls set with -1 or +1 while one of the keys is held.
func (g *Game) adjust(less, more ebiten.Key, set func(d float64) error) {
	d := 0.0
	if ebiten.IsKeyPressed(less) {
		d--
	}
	if ebiten.IsKeyPressed(more) {
		d++
	}
	if d == 0 {
		return
	}
	if err := set(d); err != nil && !errors.Is(err, lab.ErrAutoplayActive) {
		g.logger.Warn("adjust failed", "error", err)
	}
}

// Layout fixes the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// Draw renders the current snapshot.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	s := g.snap

	g.drawAxis(screen, s.Lens)
	g.drawLens(screen, s.Lens)

	for _, r := range Rays(s.Lens, s.Object, s.Image, reach) {
		clr := rayColors[r.Name]
		for _, seg := range r.Segments {
			if seg.Dashed {
				dashedLine(screen, seg.From, seg.To, color.RGBA{148, 163, 184, 255})
				continue
			}
			line(screen, seg.From, seg.To, 2, clr)
		}
	}

	arrow(screen, Point{-s.Object.Distance, 0}, Point{-s.Object.Distance, s.Object.Height}, colorObject)
	if tip, ok := ImageTip(s.Image); ok {
		clr := colorReal
		if s.Image.Nature == optics.NatureVirtual {
			clr = colorVirtual
		}
		arrow(screen, Point{tip.X, 0}, tip, clr)
	}

	g.drawInfo(screen, s)
	g.drawSubtitle(screen, s)
}

func (g *Game) drawAxis(screen *ebiten.Image, lens optics.Lens) {
	line(screen, Point{-reach, 0}, Point{reach, 0}, 2, colorAxis)

	f := lens.FocalLength
	for _, m := range []struct {
		x     float64
		label string
	}{
		{-2 * f, "2F"}, {-f, "F"}, {f, "F"}, {2 * f, "2F"},
	} {
		x, y := toScreen(Point{m.x, 0})
		vector.DrawFilledCircle(screen, x, y, 4, colorFocal, true)
		g.drawText(screen, m.label, float64(x)-6, float64(y)+8, colorText)
	}
}

func (g *Game) drawLens(screen *ebiten.Image, lens optics.Lens) {
	const half = 170.0
	top, bottom := Point{0, half}, Point{0, -half}
	line(screen, top, bottom, 3, colorLens)

	// Arrowheads point outward on a convex lens and inward on a concave one.
	dir := 1.0
	if lens.Type == optics.Concave {
		dir = -1
	}
	for _, end := range []Point{top, bottom} {
		sign := math.Copysign(1, end.Y)
		tip := Point{0, end.Y + sign*dir*6}
		base := end.Y - sign*dir*6
		line(screen, tip, Point{-8, base}, 3, colorLens)
		line(screen, tip, Point{8, base}, 3, colorLens)
	}
}

func (g *Game) drawInfo(screen *ebiten.Image, s lab.Snapshot) {
	playback := "[paused]"
	if s.Playing {
		playback = "[playing]"
	}
	info := fmt.Sprintf("%s %s f=%.0f  u=%.0f  h=%.0f   %s",
		playback, s.Lens.Type, s.Lens.FocalLength, s.Object.Distance, s.Object.Height, s.Image)
	g.drawText(screen, info, 10, 10, colorText)
	g.drawText(screen, "space play/pause  R reset  C lens  arrows u/f  M audio", 10, 28, colorAxis)
}

func (g *Game) drawSubtitle(screen *ebiten.Image, s lab.Snapshot) {
	vector.DrawFilledRect(screen, 0, sceneHeight, screenWidth, screenHeight-sceneHeight, colorPanel, false)

	subtitle := s.Narration
	if subtitle == "" {
		subtitle = s.Summary
	}
	g.drawText(screen, subtitle, 20, sceneHeight+20, colorSubtitle)

	audio := "audio off"
	if s.AudioEnabled {
		audio = "audio on"
	}
	g.drawText(screen, audio, screenWidth-90, screenHeight-24, colorAxis)

	if g.level != nil && s.Narrating {
		r := float32(4 + 10*g.level.Level())
		vector.DrawFilledCircle(screen, screenWidth-110, screenHeight-18, r, colorLens, true)
	}
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	if g.face == nil {
		ebitenutil.DebugPrintAt(screen, s, int(x), int(y))
		return
	}
	g.textOpts.GeoM.Reset()
	g.textOpts.GeoM.Translate(x, y)
	g.textOpts.ColorScale.Reset()
	g.textOpts.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, &g.textOpts)
}

func toScreen(p Point) (float32, float32) {
	return float32(screenWidth/2 + p.X), float32(sceneHeight/2 - p.Y)
}

func line(screen *ebiten.Image, a, b Point, width float32, clr color.Color) {
	x0, y0 := toScreen(a)
	x1, y1 := toScreen(b)
	vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
}

func dashedLine(screen *ebiten.Image, a, b Point, clr color.Color) {
	const dash, gap = 6.0, 4.0
	length := math.Hypot(b.X-a.X, b.Y-a.Y)
	if length == 0 {
		return
	}
	ux, uy := (b.X-a.X)/length, (b.Y-a.Y)/length
	for d := 0.0; d < length; d += dash + gap {
		e := math.Min(d+dash, length)
		line(screen, Point{a.X + ux*d, a.Y + uy*d}, Point{a.X + ux*e, a.Y + uy*e}, 1.5, clr)
	}
}

func arrow(screen *ebiten.Image, base, tip Point, clr color.Color) {
	line(screen, base, tip, 4, clr)
	sign := math.Copysign(1, tip.Y-base.Y)
	line(screen, tip, Point{tip.X - 7, tip.Y - sign*10}, 3, clr)
	line(screen, tip, Point{tip.X + 7, tip.Y - sign*10}, 3, clr)
}
