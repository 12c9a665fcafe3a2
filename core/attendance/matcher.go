package attendance

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
)

// ReasonMatcher decides whether a teacher-submitted excuse reason matches one
// of a policy's auto-excuse reasons. Both arguments arrive normalized (trimmed,
// lowercased). It is a standalone predicate so the matching rule can be swapped
// without touching the classification pipeline.
type ReasonMatcher func(submitted, policyReason string) bool

// ContainsMatcher matches when either normalized string contains the other.
func ContainsMatcher(submitted, policyReason string) bool {
	if submitted == "" || policyReason == "" {
		return false
	}
	return strings.Contains(submitted, policyReason) || strings.Contains(policyReason, submitted)
}

// SimilarityMatcher builds a matcher that accepts reasons whose character-level
// similarity ratio is at least minRatio (0..1). Useful where teachers free-type
// reasons with typos that plain containment misses.
func SimilarityMatcher(minRatio float64) ReasonMatcher {
	return func(submitted, policyReason string) bool {
		if submitted == "" || policyReason == "" {
			return false
		}
		ratio := difflib.NewMatcher(
			strings.Split(submitted, ""),
			strings.Split(policyReason, ""),
		).QuickRatio()
		return ratio >= minRatio
	}
}

// matchReason runs the matcher over the policy reasons in order and returns the
// first match, preserving policy-list ordering.
func matchReason(matcher ReasonMatcher, submitted string, policyReasons []string) (string, bool) {
	normSubmitted := core.CleanString(submitted, true)
	for _, reason := range policyReasons {
		if matcher(normSubmitted, core.CleanString(reason, true)) {
			return reason, true
		}
	}
	return "", false
}
