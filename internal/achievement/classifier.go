package achievement

import (
	"fmt"
	"strings"
)

// Classifier decides which category a new ledger record carries.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a Classifier using the given thresholds.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns the category for a record. A non-empty hint always wins;
// without one, single-loser records worth at least SmallSpecialMinPoints are
// small_special and everything else is ordinary.
func (c *Classifier) Classify(points int, split bool, hint Category) Category {
	if hint != "" {
		return hint
	}
	if !split && c.cfg.SmallSpecialMinPoints > 0 && points >= c.cfg.SmallSpecialMinPoints {
		return CategorySmallSpecial
	}
	return CategoryOrdinary
}

// Tiers returns the badge tiers derived from the configured thresholds.
func (c *Classifier) Tiers() []Tier {
	return []Tier{
		{Name: "small_special", Category: CategorySmallSpecial, MinCount: 1},
		{Name: "big_special", Category: CategoryBigSpecial, MinCount: 1},
		{Name: "small_special_master", Category: CategorySmallSpecial, MinCount: c.cfg.SmallSpecialMasterCount},
		{Name: "big_special_master", Category: CategoryBigSpecial, MinCount: c.cfg.BigSpecialMasterCount},
	}
}

// Tier looks up a tier by name.
func (c *Classifier) Tier(name string) (Tier, bool) {
	for _, t := range c.Tiers() {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

// ParseCategory converts caller input into a Category. The empty string maps
// to the empty category, which lets the classifier decide.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "", nil
	}
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
