package customization

import (
	"vehicle-configurator/internal/catalog"

	"go.uber.org/zap"
)

// Line is one priced category in a price breakdown.
type Line struct {
	Category catalog.Category `json:"category"`
	Variant  string           `json:"variant"`
	Name     string           `json:"name"`
	Price    int64            `json:"price"`
}

// Store holds the current Selection. It has a single writer (the event currently being
// handled) and is not safe for concurrent mutation; callers that share a Store across
// goroutines serialize access themselves.
type Store struct {
	cat *catalog.Catalog
	log *zap.Logger
	sel Selection
}

// NewStore returns a store initialized to the catalog baseline.
func NewStore(c *catalog.Catalog, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{cat: c, log: log.Named("customization"), sel: Baseline(c)}
}

// Catalog returns the catalog the store validates against.
func (s *Store) Catalog() *catalog.Catalog { return s.cat }

// Selection returns a copy of the current selection.
func (s *Store) Selection() Selection { return s.sel }

// Update merges the present fields of u into the selection. Each field is checked on its
// own: an unknown variant id or unparsable color is dropped and the previous value kept,
// while the other fields of u still apply. It returns the number of fields rejected.
func (s *Store) Update(u Update) (rejected int) {
	for _, cat := range catalog.PricedCategories {
		id := u.variant(cat)
		if id == nil {
			continue
		}
		if !s.cat.Has(cat, *id) {
			s.log.Debug("ignoring unknown variant", zap.String("category", string(cat)), zap.String("variant", *id))
			rejected++
			continue
		}
		s.sel.set(cat, *id)
	}
	if u.BodyColor != nil {
		if _, err := catalog.ParseColor(*u.BodyColor); err != nil {
			s.log.Debug("ignoring body color", zap.String("color", *u.BodyColor), zap.Error(err))
			rejected++
		} else {
			s.sel.BodyColor = *u.BodyColor
		}
	}
	if u.Brand != nil {
		s.sel.Brand = *u.Brand
	}
	if u.Model != nil {
		s.sel.Model = *u.Model
	}
	return rejected
}

// Reset restores the baseline for every category. Brand and model labels are kept since
// they describe the vehicle, not a modification.
func (s *Store) Reset() {
	brand, model := s.sel.Brand, s.sel.Model
	s.sel = Baseline(s.cat)
	s.sel.Brand, s.sel.Model = brand, model
}

// TotalPrice is the sum of the selected variants' price deltas.
func (s *Store) TotalPrice() int64 {
	return TotalPrice(s.cat, s.sel)
}

// HasModifications reports whether any field differs from its baseline.
func (s *Store) HasModifications() bool {
	return HasModifications(s.cat, s.sel)
}

// Breakdown returns one line per priced category.
func (s *Store) Breakdown() []Line {
	return Breakdown(s.cat, s.sel)
}

// TotalPrice sums priceOf over every priced category. Integer addition, so the order of
// categories and the order in which fields were set do not matter.
func TotalPrice(c *catalog.Catalog, sel Selection) int64 {
	var total int64
	for _, cat := range catalog.PricedCategories {
		total += c.PriceOf(cat, sel.Variant(cat))
	}
	return total
}

// HasModifications compares every category and the body color against the baseline.
func HasModifications(c *catalog.Catalog, sel Selection) bool {
	base := Baseline(c)
	if !sameColor(sel.BodyColor, base.BodyColor) {
		return true
	}
	for _, cat := range catalog.PricedCategories {
		if sel.Variant(cat) != base.Variant(cat) {
			return true
		}
	}
	return false
}

// Breakdown lists each priced category with its selected variant.
func Breakdown(c *catalog.Catalog, sel Selection) []Line {
	lines := make([]Line, 0, len(catalog.PricedCategories))
	for _, cat := range catalog.PricedCategories {
		id := sel.Variant(cat)
		l := Line{Category: cat, Variant: id, Price: c.PriceOf(cat, id)}
		if v, ok := c.Variant(cat, id); ok {
			l.Name = v.Name
		}
		lines = append(lines, l)
	}
	return lines
}

// sameColor treats "#F00" and "#ff0000" as the same color.
func sameColor(a, b string) bool {
	ca, errA := catalog.ParseColor(a)
	cb, errB := catalog.ParseColor(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return ca == cb
}
