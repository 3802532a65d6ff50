package models

import (
	"sort"
	"strings"
)

// signatureSep is a control character that cannot occur in category
// names entered through the API, so joined keys cannot collide.
const signatureSep = "\x1f"

// CategorySignature is the immutable identity of the category set one or
// more budgets jointly cover. Budgets sharing a signature are summed into
// a single allotment. The type is comparable and safe to use as a map key.
type CategorySignature struct {
	key string
}

// NewCategorySignature builds a signature from a list of category names.
// Names are trimmed, empties dropped, duplicates collapsed, and the rest
// sorted so that equal sets always produce equal signatures.
func NewCategorySignature(categories []string) CategorySignature {
	seen := make(map[string]struct{}, len(categories))
	cleaned := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		cleaned = append(cleaned, c)
	}
	sort.Strings(cleaned)
	return CategorySignature{key: strings.Join(cleaned, signatureSep)}
}

// IsZero reports whether the signature covers no categories.
func (s CategorySignature) IsZero() bool {
	return s.key == ""
}

// Categories returns the sorted category names the signature covers.
func (s CategorySignature) Categories() []string {
	if s.key == "" {
		return nil
	}
	return strings.Split(s.key, signatureSep)
}

// Contains reports whether the signature covers the given category.
func (s CategorySignature) Contains(category string) bool {
	for _, c := range s.Categories() {
		if c == category {
			return true
		}
	}
	return false
}

// Label returns the human-readable form used in notifications and as the
// persisted alert marker group key.
func (s CategorySignature) Label() string {
	return strings.Join(s.Categories(), ", ")
}
