package hud

import (
	"fmt"
	"runtime"

	"vehicle-configurator/internal/configurator"
	"vehicle-configurator/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	smallSize  = 16
	padding    = 12
	lineHeight = fontSize + 4
	panelWidth = 340
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
)

var (
	panelColor  = rl.NewColor(16, 18, 24, 200)
	accentColor = rl.NewColor(250, 204, 21, 255)
	mutedColor  = rl.NewColor(160, 166, 176, 255)
)

// Keys is the control reference drawn at the bottom-left.
var Keys = []string{
	"1-6 cycle wheels/lights/bumper/spoiler/decal/ppf",
	"C color   B brand   R reset   SPACE rotate",
	"P capture   H hide panel   drag orbit   wheel zoom",
	"ESC console",
}

// HUD draws the selection panel, the rotation state and the runtime counters. Panel text
// is rebuilt only when the quote changes.
type HUD struct {
	ShowPanel    bool
	ShowFPS      bool
	ShowMemAlloc bool
	font         rl.Font // optional; when set, Draw uses DrawTextEx instead of default font

	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats

	quote configurator.Quote
	panel []string
	total string
	title string
}

// New returns a HUD with the panel shown and the counters hidden.
func New() *HUD {
	return &HUD{ShowPanel: true}
}

// SetFont sets the font used to draw text. Zero texture ID = use raylib default.
func (h *HUD) SetFont(font rl.Font) {
	h.font = font
}

// SetQuote refreshes the panel when q differs from what is drawn.
func (h *HUD) SetQuote(q configurator.Quote) {
	if h.panel != nil && q.Selection == h.quote.Selection && q.TotalPrice == h.quote.TotalPrice {
		return
	}
	h.quote = q
	h.title = q.Selection.Brand + " " + q.Selection.Model
	if q.Selection.Brand == "" && q.Selection.Model == "" {
		h.title = "Custom build"
	}
	h.panel = h.panel[:0]
	h.panel = append(h.panel, "Color "+q.Selection.BodyColor)
	for _, l := range q.Lines {
		h.panel = append(h.panel, fmt.Sprintf("%s: %s", configurator.CategoryLabel(l.Category), l.Name))
	}
	h.total = "Total " + q.FormattedTotal
}

// Draw renders the overlays. Call after the 3D pass and before the console.
func (h *HUD) Draw(state scene.RotationState) {
	h.frameCount++
	update := (h.frameCount % updateInterval) == 0
	if h.ShowFPS && h.lastFpsText == "" {
		update = true
	}
	if h.ShowMemAlloc && h.lastMemText == "" {
		update = true
	}

	if h.ShowPanel && h.panel != nil {
		h.drawPanel(state)
	}
	h.drawCounters(update)
}

func (h *HUD) drawPanel(state scene.RotationState) {
	height := int32(padding*2 + lineHeight*(len(h.panel)+3))
	rl.DrawRectangle(padding, padding, panelWidth, height, panelColor)

	x, y := int32(padding*2), int32(padding*2)
	h.text(h.title, x, y, fontSize, rl.White)
	y += lineHeight
	for _, line := range h.panel {
		h.text(line, x, y, smallSize, rl.LightGray)
		y += lineHeight
	}
	h.text(h.total, x, y, fontSize, accentColor)
	y += lineHeight
	h.text("auto-rotate "+state.String(), x, y, smallSize, mutedColor)

	ky := int32(rl.GetScreenHeight()) - int32(len(Keys))*lineHeight - padding
	for _, k := range Keys {
		h.text(k, padding, ky, smallSize, mutedColor)
		ky += lineHeight
	}
}

func (h *HUD) drawCounters(update bool) {
	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)

	if h.ShowFPS {
		if update {
			h.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		h.textRight(h.lastFpsText, screenW, y)
		y += lineHeight
	}
	if h.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&h.lastMemStats)
			mb := float64(h.lastMemStats.Alloc) / (1024 * 1024)
			h.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		h.textRight(h.lastMemText, screenW, y)
	}
}

func (h *HUD) textRight(s string, screenW, y int32) {
	if s == "" {
		return
	}
	var w int32
	if h.font.Texture.ID != 0 {
		w = int32(rl.MeasureTextEx(h.font, s, fontSize, 1).X)
	} else {
		w = rl.MeasureText(s, fontSize)
	}
	h.text(s, screenW-w-padding, y, fontSize, rl.Green)
}

func (h *HUD) text(s string, x, y, size int32, c rl.Color) {
	if h.font.Texture.ID != 0 {
		rl.DrawTextEx(h.font, s, rl.NewVector2(float32(x), float32(y)), float32(size), 1, c)
		return
	}
	rl.DrawText(s, x, y, size, c)
}
