package terminal

import (
	"strings"
	"unicode/utf8"

	"vehicle-configurator/internal/commands"
	"vehicle-configurator/internal/logger"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	BarHeight = 40
	// When windowed, move bar up by this many pixels so it stays visible above the window border.
	WindowedBarOffset = 16
	prompt            = "> "
	fontSize          = 20
	padding           = 8
	// Number of log lines drawn above the input bar when the console is open.
	maxLinesOnScreen = 14
	lineHeight       = fontSize + 4
	maxLineChars     = 200
	hint             = "unknown input, type help"
	historySize      = 50
)

var (
	// Reused every frame when drawing the bar to avoid per-frame color allocations.
	termBarColor    = rl.NewColor(40, 40, 40, 255)
	termLineColor   = rl.NewColor(80, 80, 80, 255)
	termChatBgColor = rl.NewColor(24, 24, 24, 240)
)

// Terminal is the console bar at the bottom of the screen, shown and hidden with ESC.
// When open it owns the keyboard. Up/Down recall earlier lines, Tab completes the command
// name, Enter echoes the line to the log and runs it through the command registry.
type Terminal struct {
	log     *logger.Logger
	reg     *commands.Registry
	history *commands.History
	input   string
	open    bool
	font    rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
}

// New returns a closed Terminal that logs lines and runs commands through reg.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg, history: commands.NewHistory(historySize)}
}

// IsOpen returns true when the console is visible and capturing the keyboard.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// SetFont sets the font used to draw the bar. Zero texture ID = use raylib default.
func (t *Terminal) SetFont(font rl.Font) {
	t.font = font
}

// Update handles ESC (toggle open/closed) and, when open, line editing. Call once per frame.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.open = !t.open
	}
	if !t.open {
		return
	}
	paste := pasting()
	switch {
	case paste:
		t.input += strings.ReplaceAll(rl.GetClipboardText(), "\n", " ")
	case rl.IsKeyPressed(rl.KeyUp):
		t.input = t.history.Prev(t.input)
	case rl.IsKeyPressed(rl.KeyDown):
		t.input = t.history.Next()
	case rl.IsKeyPressed(rl.KeyTab):
		t.complete()
	case rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace):
		if t.input != "" {
			_, size := utf8.DecodeLastRuneInString(t.input)
			t.input = t.input[:len(t.input)-size]
		}
	case rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter):
		if line := strings.TrimSpace(t.input); line != "" {
			t.input = ""
			t.submit(line)
		}
	}
	for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
		if !paste {
			t.input += string(rune(c))
		}
	}
}

// pasting reports Ctrl+V (Windows/Linux) or Cmd+V (macOS).
func pasting() bool {
	if !rl.IsKeyPressed(rl.KeyV) {
		return false
	}
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
}

func (t *Terminal) complete() {
	line, matches := t.reg.Complete(t.input)
	t.input = line
	if len(matches) > 1 {
		t.log.Log(strings.Join(matches, "  "))
	}
}

func (t *Terminal) submit(line string) {
	t.history.Add(line)
	t.log.Log(line)
	handled, err := t.reg.Run(line)
	switch {
	case err != nil:
		t.log.Log(err.Error())
	case !handled:
		t.log.Log(hint)
	}
}

// Draw draws the bar at the bottom when open, and the recent log lines above it.
// Uses GetScreenWidth/GetScreenHeight so the bar matches the 2D overlay coordinate system.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	screenW := int(rl.GetScreenWidth())
	screenH := int(rl.GetScreenHeight())
	barY := screenH - BarHeight
	if !rl.IsWindowFullscreen() {
		barY -= WindowedBarOffset
	}

	chatHeight := maxLinesOnScreen * lineHeight
	chatY := barY - chatHeight
	if chatY < 0 {
		chatHeight = barY
		chatY = 0
	}
	if chatHeight > 0 {
		rl.DrawRectangle(0, int32(chatY), int32(screenW), int32(chatHeight), termChatBgColor)
	}
	lines := t.log.Lines()
	start := 0
	if len(lines) > maxLinesOnScreen {
		start = len(lines) - maxLinesOnScreen
	}
	for i := start; i < len(lines); i++ {
		y := chatY + (i-start)*lineHeight + padding
		line := lines[i]
		if len(line) > maxLineChars {
			line = line[:maxLineChars-3] + "..."
		}
		t.text(line, padding, y, rl.LightGray)
	}

	rl.DrawRectangle(0, int32(barY), int32(screenW), int32(BarHeight), termBarColor)
	rl.DrawRectangle(0, int32(barY), int32(screenW), 1, termLineColor)
	t.text(prompt+t.input+"|", padding, barY+padding, rl.White)
}

func (t *Terminal) text(s string, x, y int, c rl.Color) {
	if t.font.Texture.ID != 0 {
		rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), float32(fontSize), 1, c)
		return
	}
	rl.DrawText(s, int32(x), int32(y), int32(fontSize), c)
}
