package domain

import (
	"sort"
	"strings"
)

// Attributes is the schema-free mapping of claim field names to values.
// Keys are only ever added or overwritten with a non-blank value, never
// deleted.
type Attributes map[string]string

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Get returns the trimmed value for the key, or "" when absent.
func (a Attributes) Get(key string) string {
	return strings.TrimSpace(a[key])
}

// Has reports whether the key carries a non-blank value.
func (a Attributes) Has(key string) bool {
	return a.Get(key) != ""
}

// MergeAttributes combines newly observed attributes into the existing
// ones. A non-blank new value overwrites; a blank or missing new value
// never erases prior knowledge. The inputs are not mutated.
//
// The merge is idempotent and associative: re-merging the same extraction
// yields the same result, and the order of distinct merges does not
// matter beyond last-write-wins on non-blank values.
func MergeAttributes(existing, incoming Attributes) Attributes {
	merged := existing.Clone()
	for key, value := range incoming {
		if strings.TrimSpace(value) == "" {
			continue
		}
		merged[key] = value
	}
	return merged
}

// MergeDocuments unions newly detected document tags into the existing
// set. Tags already present keep their position; unseen tags are appended
// in sorted order so repeated merges produce identical sequences. A tag,
// once recorded, is never removed.
func MergeDocuments(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, tag := range existing {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}

	var fresh []string
	for _, tag := range incoming {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		fresh = append(fresh, tag)
	}
	sort.Strings(fresh)

	return append(merged, fresh...)
}

// HasDocument reports whether the tag is present in the set.
func HasDocument(documents []string, tag string) bool {
	for _, d := range documents {
		if d == tag {
			return true
		}
	}
	return false
}
