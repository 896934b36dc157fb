//go:build cgo

package main

import (
	"context"
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"soft-render/internal/overlay"
)

// game presents the frame buffer in an ebiten window. The frame itself is
// produced in Update so loop errors can end the run.
type game struct {
	ctx  context.Context
	app  *app
	w, h int
	rgba *image.RGBA
	tex  *ebiten.Image
}

func runWindow(ctx context.Context, a *app) error {
	ebiten.SetWindowSize(a.cfg.Width, a.cfg.Height)
	ebiten.SetWindowTitle("soft-render")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &game{ctx: ctx, app: a, w: a.cfg.Width, h: a.cfg.Height}
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	a := g.app
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		a.loop.Dispatcher().Next()
	}

	resized, err := a.sink.Resize(g.w, g.h)
	if err != nil {
		return err
	}
	if resized {
		a.log.Info().Msgf("resize %dx%d", g.w, g.h)
	}

	if err := a.loop.Frame(a.sink); err != nil {
		return err
	}
	g.rgba = a.sink.FrameBuffer().CopyTo(g.rgba)
	if a.cfg.Profile.Overlay {
		overlay.Draw(g.rgba, a.loop.Report(), overlay.DefaultStyle)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.rgba == nil {
		return
	}
	b := g.rgba.Bounds()
	if g.tex == nil || g.tex.Bounds().Size() != b.Size() {
		if g.tex != nil {
			g.tex.Deallocate()
		}
		g.tex = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.tex.WritePixels(g.rgba.Pix)
	screen.DrawImage(g.tex, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.w, g.h = outsideWidth, outsideHeight
	}
	return g.w, g.h
}
