// configurator - interactive 3D vehicle configurator.
//
// Controls:
//
//	1-6         - Cycle wheels, headlights, bumper, spoiler, decal, paint protection
//	C           - Next body color swatch
//	B           - Next brand/model label
//	R           - Reset to the default build
//	Space       - Toggle auto-rotation
//	P           - Save a PNG capture
//	H           - Toggle the selection panel
//	F           - Toggle the FPS counter
//	Mouse drag  - Orbit the camera
//	Scroll      - Zoom
//	Esc         - Toggle the console (type help)
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/commands"
	"vehicle-configurator/internal/config"
	"vehicle-configurator/internal/configurator"
	"vehicle-configurator/internal/customization"
	"vehicle-configurator/internal/env"
	"vehicle-configurator/internal/fonts"
	"vehicle-configurator/internal/graphics"
	"vehicle-configurator/internal/hud"
	"vehicle-configurator/internal/logger"
	"vehicle-configurator/internal/primitives"
	"vehicle-configurator/internal/scene"
	"vehicle-configurator/internal/terminal"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// categoryKeys maps number keys to the category they cycle.
var categoryKeys = map[int32]catalog.Category{
	rl.KeyOne:   catalog.Wheels,
	rl.KeyTwo:   catalog.Headlights,
	rl.KeyThree: catalog.Bumper,
	rl.KeyFour:  catalog.Spoiler,
	rl.KeyFive:  catalog.Decal,
	rl.KeySix:   catalog.PaintProtection,
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := env.Load(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg := config.Load()
	prefs := config.LoadPrefs(config.PrefsPath)

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      "console",
		OutputPath:  logger.LogFilePath,
		Development: cfg.Development(),
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	catalogPath := prefs.CatalogPath
	if catalogPath == "" {
		catalogPath = cfg.CatalogPath
	}
	cat, err := catalog.LoadOrDefault(catalogPath, log.Logger)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	win := graphics.New(graphics.Options{Title: "Vehicle Configurator", Width: 1280, Height: 720}, log.Logger)
	sess := configurator.NewSession("viewer", cat, log.Logger, configurator.Options{Source: win, CacheDir: cfg.CacheDir})
	defer sess.Close()
	sess.Apply(configurator.Input{AutoRotate: &prefs.AutoRotate})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if prefs.EnvironmentMap != "" {
		// The neutral backdrop shows until the map decodes; failures are logged by the composer.
		sess.LoadEnvironment(ctx, prefs.EnvironmentMap)
	}

	reg := commands.NewRegistry()
	commands.RegisterConfigurator(reg, sess, prefs.CaptureDir, log.Log)
	term := terminal.New(log, reg)

	overlay := hud.New()
	overlay.ShowPanel = prefs.ShowHUD
	overlay.ShowFPS = prefs.ShowFPS
	prims := primitives.NewRegistry()
	backdrop := graphics.NewBackdrop()
	composer := sess.Composer()

	var font rl.Font
	win.OnOpen = func() {
		font = loadFont(prefs.Font, log)
		term.SetFont(font)
		overlay.SetFont(font)
	}
	win.OnClose = func() {
		prims.Unload()
		backdrop.Unload()
		if font.Texture.ID != 0 {
			rl.UnloadFont(font)
		}
	}

	v := &viewer{sess: sess, cat: cat, hud: overlay, log: log, captureDir: prefs.CaptureDir}
	v.refresh()

	update := func() {
		term.Update()
		if !term.IsOpen() {
			v.keys()
			v.mouse()
		}
		composer.Tick()
		v.frames++
		if v.frames%hudRefresh == 0 {
			v.refresh()
		}
	}
	draw3D := func() {
		envmt := composer.Environment()
		backdrop.DrawGradient(envmt)
		cam := graphics.Camera(composer.Camera())
		rl.BeginMode3D(cam)
		backdrop.Draw(envmt, cam)
		prims.DrawGraph(composer.Compose(sess.Selection()))
		rl.EndMode3D()
	}
	draw2D := func() {
		overlay.Draw(composer.State())
		term.Draw()
	}
	win.Run(update, draw3D, draw2D)

	prefs.AutoRotate = composer.State() == scene.Rotating
	prefs.ShowHUD = overlay.ShowPanel
	prefs.ShowFPS = overlay.ShowFPS
	if err := config.SavePrefs(config.PrefsPath, prefs); err != nil {
		log.Warn("could not save preferences", zap.Error(err))
	}
	return nil
}

// loadFont returns the configured font, or the zero Font (raylib default) when none is set or found.
func loadFont(name string, log *logger.Logger) rl.Font {
	if name == "" {
		return rl.Font{}
	}
	path, err := fonts.Find(name)
	if err != nil {
		log.Warn("font not found, using default", zap.String("font", name))
		return rl.Font{}
	}
	font := rl.LoadFontEx(path, fontSize, nil)
	if font.Texture.ID == 0 {
		log.Warn("font failed to load", zap.String("path", path))
		return rl.Font{}
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	log.Info("font loaded", zap.String("path", path))
	return font
}

// hudRefresh picks up console-driven changes every N frames.
const hudRefresh = 15

type viewer struct {
	sess       *configurator.Session
	cat        *catalog.Catalog
	hud        *hud.HUD
	log        *logger.Logger
	captureDir string
	frames     uint64
}

func (v *viewer) refresh() {
	v.hud.SetQuote(v.sess.Quote())
}

func (v *viewer) keys() {
	sel := v.sess.Selection()
	var u customization.Update
	changed := false
	for key, cat := range categoryKeys {
		if rl.IsKeyPressed(key) {
			u = customization.Set(cat, v.cat.Next(cat, sel.Variant(cat)))
			changed = true
		}
	}
	switch {
	case rl.IsKeyPressed(rl.KeyC):
		u = customization.SetBodyColor(v.cat.NextSwatch(sel.BodyColor))
		changed = true
	case rl.IsKeyPressed(rl.KeyB):
		brand, model := v.cat.NextModel(sel.Brand, sel.Model)
		u = customization.Update{Brand: &brand, Model: &model}
		changed = true
	case rl.IsKeyPressed(rl.KeyR):
		v.sess.Reset()
		v.refresh()
	case rl.IsKeyPressed(rl.KeySpace):
		v.sess.Composer().Toggle()
	case rl.IsKeyPressed(rl.KeyP):
		go v.capture()
	case rl.IsKeyPressed(rl.KeyH):
		v.hud.ShowPanel = !v.hud.ShowPanel
	case rl.IsKeyPressed(rl.KeyF):
		v.hud.ShowFPS = !v.hud.ShowFPS
	}
	if changed {
		v.sess.Apply(configurator.Input{Update: u})
		v.refresh()
	}
}

// capture runs off the draw thread; the window answers it on its next frame.
func (v *viewer) capture() {
	ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
	defer cancel()
	path, err := v.sess.Save(ctx, v.captureDir)
	if err != nil {
		v.log.Warn("capture failed", zap.Error(err))
		return
	}
	v.log.Log("saved " + path)
}

func (v *viewer) mouse() {
	c := v.sess.Composer()
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		c.BeginDrag()
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		d := rl.GetMouseDelta()
		c.Drag(d.X, d.Y)
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		c.EndDrag()
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.Zoom(-wheel * zoomStep)
	}
}

const (
	fontSize       = 40
	zoomStep       = 0.6
	captureTimeout = 5 * time.Second
)
