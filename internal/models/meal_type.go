package models

import (
	"sort"
	"strings"
)

// MealTypeSet is the whitelist of valid meal-type strings, rebuilt from the
// category configuration on every audit pass.
type MealTypeSet map[string]struct{}

func NewMealTypeSet(categories []MealTypeCategory) MealTypeSet {
	set := make(MealTypeSet, len(categories))
	for _, cat := range categories {
		if cat.MealType == "" {
			continue
		}
		set[cat.MealType] = struct{}{}
	}
	return set
}

// Contains reports whether a selection key is valid: an exact valid type, or
// `<validType>_<suffix>` with a non-empty suffix. The suffix disambiguates
// repeated blocks of the same type and is never stripped before judging.
func (s MealTypeSet) Contains(key string) bool {
	if _, ok := s[key]; ok {
		return true
	}
	for valid := range s {
		if strings.HasPrefix(key, valid+"_") && len(key) > len(valid)+1 {
			return true
		}
	}
	return false
}

// Sorted returns the valid types as a sorted list for report payloads.
func (s MealTypeSet) Sorted() []string {
	types := make([]string, 0, len(s))
	for t := range s {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
