package catalog

import (
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func TestDefaultCatalogBaselinesCostNothing(t *testing.T) {
	c := Default(zap.NewNop())
	for _, cat := range PricedCategories {
		base := c.BaselineOf(cat)
		require.NotEmpty(t, base, "category %s", cat)
		assert.True(t, c.Has(cat, base))
		assert.Equal(t, int64(0), c.PriceOf(cat, base), "baseline of %s", cat)
	}
}

func TestDefaultCatalogPrices(t *testing.T) {
	c := Default(zap.NewNop())
	assert.Equal(t, int64(25000), c.PriceOf(Wheels, "sport"))
	assert.Equal(t, int64(15000), c.PriceOf(Headlights, "led"))
	assert.Equal(t, int64(45000), c.PriceOf(Spoiler, "gt"))
	assert.Equal(t, "standard", c.BaselineOf(Wheels))
	assert.Equal(t, "none", c.BaselineOf(Spoiler))
	assert.Equal(t, "none", c.BaselineOf(PaintProtection))
}

func TestPriceOfUnknownVariantIsZero(t *testing.T) {
	c := Default(zap.NewNop())
	assert.Equal(t, int64(0), c.PriceOf(Wheels, "hovercraft"))
	assert.Equal(t, int64(0), c.PriceOf(Category("paint"), "gloss"))
	assert.Equal(t, "", c.BaselineOf(Category("paint")))
}

func TestSpecsFallBackToBaseline(t *testing.T) {
	c := Default(zap.NewNop())
	assert.Equal(t, c.Wheel("standard"), c.Wheel("nope"))
	assert.Equal(t, c.Bumper("standard"), c.Bumper(""))
	assert.Equal(t, c.Finish("none"), c.Finish("ceramic"))
	assert.Equal(t, "none", c.DecalID("graffiti"))

	_, ok := c.Spoiler("none")
	assert.False(t, ok)
	_, ok = c.Spoiler("rocket")
	assert.False(t, ok)
	gt, ok := c.Spoiler("gt")
	require.True(t, ok)
	assert.True(t, gt.Endplates)
	lip, ok := c.Spoiler("lip")
	require.True(t, ok)
	assert.False(t, lip.Endplates)
}

func TestOnlySportTierBumpersAreBodyColored(t *testing.T) {
	c := Default(zap.NewNop())
	for _, v := range c.Variants(Bumper) {
		want := v.ID == "sport" || v.ID == "aggressive"
		assert.Equal(t, want, v.Bumper.BodyColored, v.ID)
	}
}

func TestVariantsKeepFileOrder(t *testing.T) {
	c := Default(zap.NewNop())
	var ids []string
	for _, v := range c.Variants(Spoiler) {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"none", "lip", "wing", "gt"}, ids)
}

const minimal = `
default_body_color: "#ffffff"
categories:
  wheels:
    - {id: a, price: 0, baseline: true, wheel: {spokes: 5, rim_color: "#fff", hub_color: "#000", radius: 0.3, tire_thickness: 0.2}}
  headlights:
    - {id: a, price: 0, baseline: true, headlight: {lens_color: "#fff", emissive_color: "#fff", intensity: 1}}
  bumper:
    - {id: a, price: 0, baseline: true, bumper: {thickness: 1, height: 1, depth: 1}}
  spoiler:
    - {id: none, price: 0, baseline: true}
  decal:
    - {id: none, price: 0, baseline: true}
  paint_protection:
    - {id: none, price: 0, baseline: true, finish: {metalness: 0, roughness: 1}}
`

func TestParseMinimalCatalog(t *testing.T) {
	c, err := Parse([]byte(minimal), nil)
	require.NoError(t, err)
	assert.Equal(t, "a", c.BaselineOf(Wheels))
	assert.Equal(t, float32(0.3), c.Wheel("a").Radius)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c.Wheel("a").RimColor.RGBA)
}

func TestParseRejectsBrokenCatalogs(t *testing.T) {
	cases := map[string]string{
		"duplicate id": minimalWith(`  decal:
    - {id: none, price: 0, baseline: true}
    - {id: none, price: 10}
`),
		"no baseline": minimalWith(`  decal:
    - {id: racing, price: 10}
`),
		"priced baseline": minimalWith(`  decal:
    - {id: none, price: 5, baseline: true}
`),
		"bad color": `default_body_color: "blue-ish"`,
		"decal without artwork": minimalWith(`  decal:
    - {id: none, price: 0, baseline: true}
    - {id: stars, price: 9000}
`),
		"baseline decal with artwork": minimalWith(`  decal:
    - {id: racing, price: 0, baseline: true}
`),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data), zap.NewNop())
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

// minimalWith swaps the decal block of the minimal catalog.
func minimalWith(decal string) string {
	const decalBlock = "  decal:\n    - {id: none, price: 0, baseline: true}\n"
	return strings.Replace(minimal, decalBlock, decal, 1)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#1e3a8a")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x1e, 0x3a, 0x8a, 255}, c)

	c, err = ParseColor("#f00")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, c)

	c, err = ParseColor("rgb(10, 20, 30)")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, c)

	for _, bad := range []string{"", "#12", "#zzzzzz", "rgb(1,2)", "rgb(1,2,300)"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "#1e3a8a", Hex(color.RGBA{0x1e, 0x3a, 0x8a, 255}))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₹0.00", FormatPrice(0))
	assert.Equal(t, "₹850.00", FormatPrice(85000))
	assert.Equal(t, "₹1,234,567.89", FormatPrice(123456789))
	assert.Equal(t, "-₹12.05", FormatPrice(-1205))
}

func TestCycling(t *testing.T) {
	c := Default(zap.NewNop())
	assert.Equal(t, "sport", c.Next(Wheels, "standard"))
	assert.Equal(t, "standard", c.Next(Wheels, "offroad"), "wraps")
	assert.Equal(t, "standard", c.Next(Wheels, "hover"))

	assert.Equal(t, "#b91c1c", c.NextSwatch("#1E3A8A"))
	assert.Equal(t, "#1e3a8a", c.NextSwatch("#facc15"))
	assert.Equal(t, "#1e3a8a", c.NextSwatch("#123456"))

	b, m := c.NextModel("", "")
	assert.Equal(t, "Maruti Suzuki", b)
	assert.Equal(t, "Swift", m)
	b, m = c.NextModel("Maruti Suzuki", "Brezza")
	assert.Equal(t, "Mahindra", b)
	assert.Equal(t, "Thar", m)
	b, m = c.NextModel("Hyundai", "i20")
	assert.Equal(t, "Maruti Suzuki", b)
	assert.Equal(t, "Swift", m)
}

func TestDocumentRoundTrips(t *testing.T) {
	c := Default(zap.NewNop())
	data, err := yaml.Marshal(c.Document())
	require.NoError(t, err)
	assert.Contains(t, string(data), "#c0c0c0", "colors marshal as hex")

	again, err := Parse(data, zap.NewNop())
	require.NoError(t, err)
	for _, cat := range PricedCategories {
		assert.Equal(t, c.Variants(cat), again.Variants(cat), "category %s", cat)
	}
	assert.Equal(t, c.Swatches(), again.Swatches())
}
