package achievement

// Category tags a ledger record for achievement tiering.
type Category string

const (
	CategoryOrdinary     Category = "ordinary"
	CategorySmallSpecial Category = "small_special"
	CategoryBigSpecial   Category = "big_special"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryOrdinary, CategorySmallSpecial, CategoryBigSpecial}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryOrdinary, CategorySmallSpecial, CategoryBigSpecial:
		return true
	}
	return false
}

// Special reports whether c counts towards an achievement badge.
func (c Category) Special() bool {
	return c == CategorySmallSpecial || c == CategoryBigSpecial
}

// Tier is a named badge: at least MinCount wins tagged Category.
type Tier struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	MinCount int      `json:"min_count"`
}

// Config holds the thresholds used by the classifier and the default tiers.
type Config struct {
	// SmallSpecialMinPoints is the single-loser point value from which a record
	// is tagged small_special when the caller supplies no category.
	SmallSpecialMinPoints int
	// BigSpecialSplitTotals are the split totals conventionally tagged
	// big_special by callers. The ledger does not enforce them.
	BigSpecialSplitTotals   []int
	SmallSpecialMasterCount int
	BigSpecialMasterCount   int
}

// DefaultConfig returns the thresholds the club has always played with.
func DefaultConfig() Config {
	return Config{
		SmallSpecialMinPoints:   7,
		BigSpecialSplitTotals:   []int{8, 14, 20},
		SmallSpecialMasterCount: 10,
		BigSpecialMasterCount:   5,
	}
}
