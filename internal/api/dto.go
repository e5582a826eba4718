package api

import (
	"encoding/json"
	"fmt"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/configurator"
	"vehicle-configurator/internal/customization"

	"github.com/jinzhu/copier"
)

const maxFieldLen = 64

// selectionRequest is the wire form of a partial selection.
type selectionRequest struct {
	BodyColor       *string `json:"bodyColor"`
	Wheel           *string `json:"wheelType"`
	Headlight       *string `json:"headlightType"`
	Bumper          *string `json:"bumperType"`
	Spoiler         *string `json:"spoilerType"`
	Decal           *string `json:"decalType"`
	PaintProtection *string `json:"ppfType"`
	Brand           *string `json:"brand"`
	Model           *string `json:"model"`
	AutoRotate      *bool   `json:"autoRotate"`
}

func parseSelection(body []byte) (configurator.Input, error) {
	var in configurator.Input
	if len(body) == 0 {
		return in, nil
	}
	var req selectionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return in, fmt.Errorf("invalid JSON payload: %w", err)
	}
	for _, f := range []*string{req.BodyColor, req.Wheel, req.Headlight, req.Bumper, req.Spoiler, req.Decal, req.PaintProtection, req.Brand, req.Model} {
		if f != nil && len(*f) > maxFieldLen {
			return in, fmt.Errorf("field longer than %d characters", maxFieldLen)
		}
	}
	if err := copier.CopyWithOption(&in.Update, &req, copier.Option{IgnoreEmpty: true}); err != nil {
		return in, err
	}
	in.AutoRotate = req.AutoRotate
	return in, nil
}

// sessionResponse is returned by every session route.
type sessionResponse struct {
	ID       string             `json:"id"`
	Quote    configurator.Quote `json:"quote"`
	Rejected int                `json:"rejected,omitempty"`
}

type categoryResponse struct {
	Category catalog.Category  `json:"category"`
	Baseline string            `json:"baseline"`
	Variants []catalog.Variant `json:"variants"`
}

type catalogResponse struct {
	DefaultBodyColor string                  `json:"defaultBodyColor"`
	Swatches         []string                `json:"swatches"`
	Brands           []catalog.Brand         `json:"brands"`
	Categories       []categoryResponse      `json:"categories"`
	Baseline         customization.Selection `json:"baseline"`
}

func describeCatalog(c *catalog.Catalog) catalogResponse {
	out := catalogResponse{
		DefaultBodyColor: c.DefaultBodyColor(),
		Swatches:         c.Swatches(),
		Brands:           c.Brands(),
		Baseline:         customization.Baseline(c),
	}
	for _, cat := range catalog.PricedCategories {
		out.Categories = append(out.Categories, categoryResponse{
			Category: cat,
			Baseline: c.BaselineOf(cat),
			Variants: c.Variants(cat),
		})
	}
	return out
}
