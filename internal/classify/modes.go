package classify

import (
	"nexusai/internal/types"
)

// SuggestedModes returns the ranked response modes for a category.
// The table is fixed; calling it twice with the same input yields identical
// ordered output. Unrecognized categories degrade to the general entry.
func SuggestedModes(category types.QueryCategory) []types.ResponseMode {
	switch category {
	case types.CategoryCoding:
		return []types.ResponseMode{types.ModeCoding, types.ModeStudy}
	case types.CategoryResearch:
		return []types.ResponseMode{types.ModeResearch, types.ModeStudy}
	case types.CategoryProduct:
		return []types.ResponseMode{types.ModeQuick, types.ModeResearch}
	case types.CategoryGeneral:
		return []types.ResponseMode{types.ModeQuick}
	default:
		return []types.ResponseMode{types.ModeQuick}
	}
}

// ValidMode reports whether m is one of the defined response modes.
// Used by the HTTP layer to reject user overrides outside the preset set.
func ValidMode(m types.ResponseMode) bool {
	switch m {
	case types.ModeQuick, types.ModeResearch, types.ModeLearning, types.ModeStudy, types.ModeCoding:
		return true
	default:
		return false
	}
}
