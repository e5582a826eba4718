// Package customization holds the configurator's single mutable entity, the current
// Selection, and derives price and modification state from it.
package customization

import (
	"vehicle-configurator/internal/catalog"
)

// Selection is one variant per category plus a free-form body color. Brand and Model are
// informational labels passed through to quotes unchanged.
type Selection struct {
	BodyColor       string `json:"bodyColor"`
	Wheel           string `json:"wheelType"`
	Headlight       string `json:"headlightType"`
	Bumper          string `json:"bumperType"`
	Spoiler         string `json:"spoilerType"`
	Decal           string `json:"decalType"`
	PaintProtection string `json:"ppfType"`
	Brand           string `json:"brand,omitempty"`
	Model           string `json:"model,omitempty"`
}

// Baseline returns the all-defaults selection for c.
func Baseline(c *catalog.Catalog) Selection {
	return Selection{
		BodyColor:       c.DefaultBodyColor(),
		Wheel:           c.BaselineOf(catalog.Wheels),
		Headlight:       c.BaselineOf(catalog.Headlights),
		Bumper:          c.BaselineOf(catalog.Bumper),
		Spoiler:         c.BaselineOf(catalog.Spoiler),
		Decal:           c.BaselineOf(catalog.Decal),
		PaintProtection: c.BaselineOf(catalog.PaintProtection),
	}
}

// Variant returns the selected variant id for cat.
func (s Selection) Variant(cat catalog.Category) string {
	switch cat {
	case catalog.Wheels:
		return s.Wheel
	case catalog.Headlights:
		return s.Headlight
	case catalog.Bumper:
		return s.Bumper
	case catalog.Spoiler:
		return s.Spoiler
	case catalog.Decal:
		return s.Decal
	case catalog.PaintProtection:
		return s.PaintProtection
	}
	return ""
}

func (s *Selection) set(cat catalog.Category, id string) {
	switch cat {
	case catalog.Wheels:
		s.Wheel = id
	case catalog.Headlights:
		s.Headlight = id
	case catalog.Bumper:
		s.Bumper = id
	case catalog.Spoiler:
		s.Spoiler = id
	case catalog.Decal:
		s.Decal = id
	case catalog.PaintProtection:
		s.PaintProtection = id
	}
}

// Update is a partial selection: nil fields are absent and leave the current value alone.
type Update struct {
	BodyColor       *string `json:"bodyColor,omitempty"`
	Wheel           *string `json:"wheelType,omitempty"`
	Headlight       *string `json:"headlightType,omitempty"`
	Bumper          *string `json:"bumperType,omitempty"`
	Spoiler         *string `json:"spoilerType,omitempty"`
	Decal           *string `json:"decalType,omitempty"`
	PaintProtection *string `json:"ppfType,omitempty"`
	Brand           *string `json:"brand,omitempty"`
	Model           *string `json:"model,omitempty"`
}

// Set returns an Update that changes only cat.
func Set(cat catalog.Category, id string) Update {
	var u Update
	p := &id
	switch cat {
	case catalog.Wheels:
		u.Wheel = p
	case catalog.Headlights:
		u.Headlight = p
	case catalog.Bumper:
		u.Bumper = p
	case catalog.Spoiler:
		u.Spoiler = p
	case catalog.Decal:
		u.Decal = p
	case catalog.PaintProtection:
		u.PaintProtection = p
	}
	return u
}

// SetBodyColor returns an Update that changes only the body color.
func SetBodyColor(c string) Update {
	return Update{BodyColor: &c}
}

func (u Update) variant(cat catalog.Category) *string {
	switch cat {
	case catalog.Wheels:
		return u.Wheel
	case catalog.Headlights:
		return u.Headlight
	case catalog.Bumper:
		return u.Bumper
	case catalog.Spoiler:
		return u.Spoiler
	case catalog.Decal:
		return u.Decal
	case catalog.PaintProtection:
		return u.PaintProtection
	}
	return nil
}

// Empty reports whether u carries no fields.
func (u Update) Empty() bool {
	if u.BodyColor != nil || u.Brand != nil || u.Model != nil {
		return false
	}
	for _, cat := range catalog.PricedCategories {
		if u.variant(cat) != nil {
			return false
		}
	}
	return true
}
