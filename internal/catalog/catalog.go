// Package catalog holds the immutable table of customization categories, their variants,
// per-variant price deltas, and the parameters the geometry builders read.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Category names one priced customization category.
type Category string

const (
	Wheels          Category = "wheels"
	Headlights      Category = "headlights"
	Bumper          Category = "bumper"
	Spoiler         Category = "spoiler"
	Decal           Category = "decal"
	PaintProtection Category = "paint_protection"
)

// PricedCategories lists every category that carries a price delta, in display order.
// Body color is free-form and not priced, so it is not a Category.
var PricedCategories = []Category{Wheels, Headlights, Bumper, Spoiler, Decal, PaintProtection}

// DecalArtwork lists the decal ids the overlay knows how to draw. A catalog may offer any
// subset of them; any other non-baseline decal would be priced yet invisible.
var DecalArtwork = []string{"flames", "geometric", "racing", "tribal"}

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidCatalog  = errors.New("invalid catalog")
)

//go:embed default.yaml
var defaultCatalog []byte

// WheelSpec fully determines one wheel unit's geometry.
type WheelSpec struct {
	Spokes        int     `yaml:"spokes" json:"spokes"`
	RimColor      Color   `yaml:"rim_color" json:"rimColor"`
	HubColor      Color   `yaml:"hub_color" json:"hubColor"`
	Radius        float32 `yaml:"radius" json:"radius"`
	TireThickness float32 `yaml:"tire_thickness" json:"tireThickness"`
}

// HeadlightSpec sets the lens look; housing geometry is fixed.
type HeadlightSpec struct {
	LensColor     Color   `yaml:"lens_color" json:"lensColor"`
	EmissiveColor Color   `yaml:"emissive_color" json:"emissiveColor"`
	Intensity     float32 `yaml:"intensity" json:"intensity"`
}

// BumperSpec holds dimension multipliers applied to the base bumper box.
// BodyColored is true only for sport-tier kits; other bumpers stay near-black.
type BumperSpec struct {
	Thickness   float32 `yaml:"thickness" json:"thickness"`
	Height      float32 `yaml:"height" json:"height"`
	Depth       float32 `yaml:"depth" json:"depth"`
	BodyColored bool    `yaml:"body_colored" json:"bodyColored"`
}

// SpoilerSpec describes the blade; Endplates also attaches the two support stands.
type SpoilerSpec struct {
	Height    float32 `yaml:"height" json:"height"`
	Width     float32 `yaml:"width" json:"width"`
	Thickness float32 `yaml:"thickness" json:"thickness"`
	Endplates bool    `yaml:"endplates" json:"endplates"`
}

// FinishSpec is the physically-based shading tuple selected by paint protection.
type FinishSpec struct {
	Metalness          float32 `yaml:"metalness" json:"metalness"`
	Roughness          float32 `yaml:"roughness" json:"roughness"`
	Clearcoat          float32 `yaml:"clearcoat" json:"clearcoat"`
	ClearcoatRoughness float32 `yaml:"clearcoat_roughness" json:"clearcoatRoughness"`
}

// Variant is one selectable option inside a category. At most one of the spec
// pointers is set, matching the category it lives in.
type Variant struct {
	ID        string         `yaml:"id" json:"id"`
	Name      string         `yaml:"name" json:"name"`
	Price     int64          `yaml:"price" json:"price"`
	Baseline  bool           `yaml:"baseline" json:"baseline"`
	Wheel     *WheelSpec     `yaml:"wheel,omitempty" json:"wheel,omitempty"`
	Headlight *HeadlightSpec `yaml:"headlight,omitempty" json:"headlight,omitempty"`
	Bumper    *BumperSpec    `yaml:"bumper,omitempty" json:"bumper,omitempty"`
	Spoiler   *SpoilerSpec   `yaml:"spoiler,omitempty" json:"spoiler,omitempty"`
	Finish    *FinishSpec    `yaml:"finish,omitempty" json:"finish,omitempty"`
}

// Brand is informational metadata; it never changes geometry or price.
type Brand struct {
	Name   string   `yaml:"name" json:"name"`
	Models []string `yaml:"models" json:"models"`
}

// Document is the catalog in the shape of its YAML source.
type Document struct {
	DefaultBodyColor string                 `yaml:"default_body_color" json:"defaultBodyColor"`
	Swatches         []string               `yaml:"swatches" json:"swatches"`
	Brands           []Brand                `yaml:"brands" json:"brands"`
	Categories       map[Category][]Variant `yaml:"categories" json:"categories"`
}

// Catalog is read-only after construction and safe for concurrent readers.
type Catalog struct {
	defaultBodyColor string
	swatches         []string
	brands           []Brand
	variants         map[Category][]Variant
	index            map[Category]map[string]int
	baseline         map[Category]string
	log              *zap.Logger
}

// Default returns the embedded catalog. The embedded data is covered by tests, so a parse
// failure here is a build defect and panics.
func Default(log *zap.Logger) *Catalog {
	c, err := Parse(defaultCatalog, log)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads a YAML catalog from path.
func Load(path string, log *zap.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data, log)
}

// LoadOrDefault loads path when it is non-empty, otherwise returns the embedded catalog.
func LoadOrDefault(path string, log *zap.Logger) (*Catalog, error) {
	if path == "" {
		return Default(log), nil
	}
	return Load(path, log)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var f Document
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	c := &Catalog{
		defaultBodyColor: f.DefaultBodyColor,
		swatches:         f.Swatches,
		brands:           f.Brands,
		variants:         make(map[Category][]Variant, len(PricedCategories)),
		index:            make(map[Category]map[string]int, len(PricedCategories)),
		baseline:         make(map[Category]string, len(PricedCategories)),
		log:              log.Named("catalog"),
	}
	if _, err := ParseColor(c.defaultBodyColor); err != nil {
		return nil, fmt.Errorf("%w: default_body_color: %v", ErrInvalidCatalog, err)
	}
	for _, cat := range PricedCategories {
		vs, ok := f.Categories[cat]
		if !ok || len(vs) == 0 {
			return nil, fmt.Errorf("%w: category %s has no variants", ErrInvalidCatalog, cat)
		}
		idx := make(map[string]int, len(vs))
		for i, v := range vs {
			if v.ID == "" {
				return nil, fmt.Errorf("%w: %s variant %d has no id", ErrInvalidCatalog, cat, i)
			}
			if _, dup := idx[v.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate %s variant %q", ErrInvalidCatalog, cat, v.ID)
			}
			if v.Price < 0 {
				return nil, fmt.Errorf("%w: %s/%s has negative price", ErrInvalidCatalog, cat, v.ID)
			}
			if v.Baseline {
				if prev, seen := c.baseline[cat]; seen {
					return nil, fmt.Errorf("%w: %s has two baselines (%s, %s)", ErrInvalidCatalog, cat, prev, v.ID)
				}
				if v.Price != 0 {
					return nil, fmt.Errorf("%w: baseline %s/%s must cost 0", ErrInvalidCatalog, cat, v.ID)
				}
				c.baseline[cat] = v.ID
			}
			if err := checkParams(cat, v); err != nil {
				return nil, err
			}
			idx[v.ID] = i
		}
		if _, ok := c.baseline[cat]; !ok {
			return nil, fmt.Errorf("%w: category %s has no baseline", ErrInvalidCatalog, cat)
		}
		c.variants[cat] = vs
		c.index[cat] = idx
	}
	for name := range f.Categories {
		if _, ok := c.index[name]; !ok {
			return nil, fmt.Errorf("%w: %w %q", ErrInvalidCatalog, ErrUnknownCategory, name)
		}
	}
	return c, nil
}

// checkParams makes sure every variant carries what its category's builder reads.
// Spoiler variants other than the baseline need a blade; the baseline must have none.
// Decals follow the same rule against DecalArtwork.
func checkParams(cat Category, v Variant) error {
	missing := false
	switch cat {
	case Wheels:
		missing = v.Wheel == nil || v.Wheel.Radius <= 0 || v.Wheel.Spokes <= 0
	case Headlights:
		missing = v.Headlight == nil
	case Bumper:
		missing = v.Bumper == nil
	case PaintProtection:
		missing = v.Finish == nil
	case Spoiler:
		if v.Baseline && v.Spoiler != nil {
			return fmt.Errorf("%w: baseline spoiler %q must not carry a blade", ErrInvalidCatalog, v.ID)
		}
		missing = !v.Baseline && v.Spoiler == nil
	case Decal:
		drawn := slices.Contains(DecalArtwork, v.ID)
		if v.Baseline && drawn {
			return fmt.Errorf("%w: baseline decal %q must not draw artwork", ErrInvalidCatalog, v.ID)
		}
		if !v.Baseline && !drawn {
			return fmt.Errorf("%w: decal %q has no artwork", ErrInvalidCatalog, v.ID)
		}
	}
	if missing {
		return fmt.Errorf("%w: %s/%s is missing its parameters", ErrInvalidCatalog, cat, v.ID)
	}
	return nil
}

// DefaultBodyColor is the baseline body color string.
func (c *Catalog) DefaultBodyColor() string { return c.defaultBodyColor }

// Swatches returns the palette offered by the viewer.
func (c *Catalog) Swatches() []string {
	out := make([]string, len(c.swatches))
	copy(out, c.swatches)
	return out
}

// Brands returns the informational brand/model list.
func (c *Catalog) Brands() []Brand {
	out := make([]Brand, len(c.brands))
	copy(out, c.brands)
	return out
}

// Variants returns the variants of cat in catalog order.
func (c *Catalog) Variants(cat Category) []Variant {
	vs := c.variants[cat]
	out := make([]Variant, len(vs))
	copy(out, vs)
	return out
}

// Has reports whether id is a variant of cat.
func (c *Catalog) Has(cat Category, id string) bool {
	_, ok := c.index[cat][id]
	return ok
}

// Variant looks up one variant.
func (c *Catalog) Variant(cat Category, id string) (Variant, bool) {
	i, ok := c.index[cat][id]
	if !ok {
		return Variant{}, false
	}
	return c.variants[cat][i], true
}

// BaselineOf returns the zero-cost default variant id of cat, or "" for an unknown category.
func (c *Catalog) BaselineOf(cat Category) string {
	return c.baseline[cat]
}

// PriceOf returns the price delta of a variant. Unknown ids cost 0 and are logged, so a
// stale persisted selection still renders.
func (c *Catalog) PriceOf(cat Category, id string) int64 {
	v, ok := c.Variant(cat, id)
	if !ok {
		c.log.Debug("price lookup for unknown variant", zap.String("category", string(cat)), zap.String("variant", id))
		return 0
	}
	return v.Price
}

// variantOrBaseline resolves id inside cat, falling back to the baseline variant.
func (c *Catalog) variantOrBaseline(cat Category, id string) Variant {
	if v, ok := c.Variant(cat, id); ok {
		return v
	}
	c.log.Debug("falling back to baseline", zap.String("category", string(cat)), zap.String("variant", id))
	v, _ := c.Variant(cat, c.baseline[cat])
	return v
}

// Wheel returns the wheel parameters for id, or the baseline's for an unknown id.
func (c *Catalog) Wheel(id string) WheelSpec {
	return *c.variantOrBaseline(Wheels, id).Wheel
}

// Headlight returns the headlight parameters for id, or the baseline's.
func (c *Catalog) Headlight(id string) HeadlightSpec {
	return *c.variantOrBaseline(Headlights, id).Headlight
}

// Bumper returns the bumper parameters for id, or the baseline's.
func (c *Catalog) Bumper(id string) BumperSpec {
	return *c.variantOrBaseline(Bumper, id).Bumper
}

// Finish returns the paint-protection shading tuple for id, or the baseline's.
func (c *Catalog) Finish(id string) FinishSpec {
	return *c.variantOrBaseline(PaintProtection, id).Finish
}

// Spoiler returns the blade for id. ok is false when the resolved variant has no blade,
// which is always the case for the baseline.
func (c *Catalog) Spoiler(id string) (spec SpoilerSpec, ok bool) {
	v := c.variantOrBaseline(Spoiler, id)
	if v.Spoiler == nil {
		return SpoilerSpec{}, false
	}
	return *v.Spoiler, true
}

// DecalID resolves id to a known decal variant, falling back to the baseline.
func (c *Catalog) DecalID(id string) string {
	return c.variantOrBaseline(Decal, id).ID
}

// Next returns the variant of cat after id, wrapping at the end. Unknown ids start over
// at the first variant.
func (c *Catalog) Next(cat Category, id string) string {
	vs := c.variants[cat]
	if len(vs) == 0 {
		return id
	}
	i, ok := c.index[cat][id]
	if !ok {
		return vs[0].ID
	}
	return vs[(i+1)%len(vs)].ID
}

// NextSwatch returns the palette color after hex, compared case-insensitively.
func (c *Catalog) NextSwatch(hex string) string {
	if len(c.swatches) == 0 {
		return hex
	}
	for i, s := range c.swatches {
		if strings.EqualFold(s, hex) {
			return c.swatches[(i+1)%len(c.swatches)]
		}
	}
	return c.swatches[0]
}

// NextModel steps through every brand/model pair in catalog order.
func (c *Catalog) NextModel(brand, model string) (string, string) {
	var pairs [][2]string
	for _, b := range c.brands {
		for _, m := range b.Models {
			pairs = append(pairs, [2]string{b.Name, m})
		}
	}
	if len(pairs) == 0 {
		return brand, model
	}
	for i, p := range pairs {
		if p[0] == brand && p[1] == model {
			n := pairs[(i+1)%len(pairs)]
			return n[0], n[1]
		}
	}
	return pairs[0][0], pairs[0][1]
}

// Document returns a copy of the catalog that marshals back to its source format.
func (c *Catalog) Document() Document {
	d := Document{
		DefaultBodyColor: c.defaultBodyColor,
		Swatches:         c.Swatches(),
		Brands:           c.Brands(),
		Categories:       make(map[Category][]Variant, len(c.variants)),
	}
	for cat := range c.variants {
		d.Categories[cat] = c.Variants(cat)
	}
	return d
}
