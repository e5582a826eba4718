package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// PrefsPath is the viewer preferences file, relative to the process working directory.
const PrefsPath = "config/configurator.json"

// Prefs holds viewer-only preferences. Persisted across runs; the selection itself is not.
type Prefs struct {
	AutoRotate     bool   `json:"auto_rotate"`
	ShowHUD        bool   `json:"show_hud"`
	ShowFPS        bool   `json:"show_fps"`
	CaptureDir     string `json:"capture_dir"`
	EnvironmentMap string `json:"environment_map,omitempty"`
	CatalogPath    string `json:"catalog_path,omitempty"`
	// Font is a font file path or a family name looked up under assets/fonts.
	Font string `json:"font,omitempty"`
}

// DefaultPrefs returns default viewer preferences (rotating, HUD on).
func DefaultPrefs() Prefs {
	return Prefs{
		AutoRotate:     true,
		ShowHUD:        true,
		CaptureDir:     "captures",
		EnvironmentMap: "assets/skybox/skybox.png",
	}
}

// LoadPrefs reads preferences from path. If the file is missing or invalid it returns
// DefaultPrefs() and does not create a file. Fields absent from the file keep defaults.
func LoadPrefs(path string) Prefs {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultPrefs()
	}
	p := DefaultPrefs()
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultPrefs()
	}
	return p
}

// SavePrefs writes preferences to path, creating its directory if needed.
func SavePrefs(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
