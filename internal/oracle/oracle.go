// Package oracle stands in for a classification and pricing model. It maps a craft
// category to a fixed description and a jittered price band.
package oracle

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Known craft categories
const (
	CategoryPottery       = "Pottery"
	CategoryBasketWeaving = "Basket Weaving"
	CategoryHandlooms     = "Handlooms"
	CategoryWoodenDolls   = "Wooden Dolls"
	CategoryUnknown       = "Unknown"
)

const (
	priceJitter   = 150
	minSuggested  = 100
	minFloorPrice = 50
)

var descriptions = map[string]string{
	CategoryPottery:       "A beautifully handcrafted piece of pottery, showcasing traditional techniques. Fired to perfection, this durable item is perfect for home decor or daily use.",
	CategoryBasketWeaving: "Intricately woven by skilled artisans, this basket is made from natural, eco-friendly materials. It's both a practical storage solution and a rustic decorative piece.",
	CategoryHandlooms:     "This vibrant handloom textile is a testament to timeless weaving traditions. Made with high-quality thread, its rich colors and patterns will brighten any space.",
	CategoryWoodenDolls:   "A charming, hand-carved wooden doll, painted with non-toxic colors. This unique toy reflects cultural heritage and makes for a wonderful collectible or gift.",
	CategoryUnknown:       "A unique piece of artisan craft. Its quality and design speak for themselves, making it a valuable addition to any collection.",
}

var basePrices = map[string]int{
	CategoryPottery:       800,
	CategoryBasketWeaving: 1200,
	CategoryHandlooms:     2500,
	CategoryWoodenDolls:   600,
	CategoryUnknown:       500,
}

// PriceSuggestion is a suggested price with its acceptable band
type PriceSuggestion struct {
	Suggested int `json:"suggested_price"`
	Min       int `json:"min_price"`
	Max       int `json:"max_price"`
}

// Oracle produces descriptions and price suggestions. It is safe for concurrent use.
type Oracle struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an oracle seeded from the clock
func New() *Oracle {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource creates an oracle with a caller-provided random source
func NewWithSource(src rand.Source) *Oracle {
	return &Oracle{rng: rand.New(src)}
}

// KnownCategories returns the closed set of categories with dedicated copy
func KnownCategories() []string {
	return []string{CategoryPottery, CategoryBasketWeaving, CategoryHandlooms, CategoryWoodenDolls}
}

// IsKnown reports whether the category belongs to the closed set
func IsKnown(category string) bool {
	_, ok := basePrices[category]
	return ok && category != CategoryUnknown
}

// Describe returns the fixed description for a category, falling back to the Unknown blurb
func Describe(category string) string {
	if text, ok := descriptions[category]; ok {
		return text
	}
	return descriptions[CategoryUnknown]
}

// Describe is the method form of the package-level Describe
func (o *Oracle) Describe(category string) string {
	return Describe(category)
}

// SuggestPrice returns a jittered price band for a category.
// Invariant: Min <= Suggested <= Max and Suggested >= 100.
func (o *Oracle) SuggestPrice(category string) PriceSuggestion {
	base, ok := basePrices[category]
	if !ok {
		base = basePrices[CategoryUnknown]
	}

	o.mu.Lock()
	jitter := o.rng.Intn(2*priceJitter+1) - priceJitter
	o.mu.Unlock()

	suggested := base + jitter
	if suggested < minSuggested {
		suggested = minSuggested
	}

	minPrice := int(math.Round(float64(suggested) * 0.8))
	if minPrice < minFloorPrice {
		minPrice = minFloorPrice
	}

	return PriceSuggestion{
		Suggested: suggested,
		Min:       minPrice,
		Max:       int(math.Round(float64(suggested) * 1.2)),
	}
}
