// Package chillout implements the chill-out registration model: per
// student, per class hour entry lists and the aggregations built on
// top of them. The package is pure; persistence and transport live
// elsewhere.
package chillout

import "encoding/json"

// Category tags a chill-out entry. The zero value never occurs in
// stored data; absence of a tag (Generic) is expressed as a nil
// *Category.
type Category string

const (
	CategoryVR Category = "VR"
	CategoryVL Category = "VL"
)

// Hours of a school day run 1 through 7.
const (
	FirstHour = 1
	LastHour  = 7
)

// MaxPerHour caps the entries a student can collect in one class hour.
const MaxPerHour = 3

// Valid reports whether the category is a known tag.
func (c Category) Valid() bool {
	return c == CategoryVR || c == CategoryVL
}

// Entry is a single chill-out registration. Type nil means a generic
// chill-out without a category tag.
type Entry struct {
	Count int       `json:"count"`
	Type  *Category `json:"type"`
}

// HourEntries is the list of entries a student collected in one hour.
type HourEntries []Entry

// UnmarshalJSON accepts both the current array shape and the legacy
// single object {"count":n,"type":t}, which expands into n entries.
// null decodes to an empty list.
func (h *HourEntries) UnmarshalJSON(data []byte) error {
	*h = nil

	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	switch probe.(type) {
	case nil:
		*h = HourEntries{}
		return nil
	case map[string]interface{}:
		var legacy Entry
		if err := json.Unmarshal(data, &legacy); err != nil {
			return err
		}
		expanded := make(HourEntries, 0, legacy.Count)
		for i := 0; i < legacy.Count; i++ {
			expanded = append(expanded, Entry{Count: 1, Type: legacy.Type})
		}
		*h = expanded
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*h = HourEntries(entries)
	return nil
}

// UnmarshalJSON coerces unknown category tags to Generic so malformed
// historical data never poisons an aggregate.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Count int     `json:"count"`
		Type  *string `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Count = raw.Count
	e.Type = nil
	if raw.Type != nil {
		if cat := Category(*raw.Type); cat.Valid() {
			e.Type = &cat
		}
	}
	return nil
}

// SetCategoryCount returns a new entry list in which the given category
// holds exactly desired entries. An increase that would push the hour
// past MaxPerHour is silently rejected and the input comes back
// unchanged. A decrease removes the most recently added entries of the
// category first. The input slice is never mutated.
func SetCategoryCount(entries HourEntries, cat *Category, desired int) HourEntries {
	if desired < 0 {
		desired = 0
	}

	var same, other HourEntries
	for _, e := range entries {
		if sameCategory(e.Type, cat) {
			same = append(same, e)
		} else {
			other = append(other, e)
		}
	}

	current := len(same)
	switch {
	case desired > current:
		if desired+len(other) > MaxPerHour {
			return entries
		}
		for i := current; i < desired; i++ {
			same = append(same, Entry{Count: 1, Type: copyCategory(cat)})
		}
	case desired < current:
		same = same[:desired]
	default:
		return entries
	}

	result := make(HourEntries, 0, len(same)+len(other))
	result = append(result, same...)
	result = append(result, other...)
	return result
}

// CountByCategory sums the entry counts carrying the given category.
func CountByCategory(entries HourEntries, cat *Category) int {
	total := 0
	for _, e := range entries {
		if sameCategory(e.Type, cat) {
			total += e.Count
		}
	}
	return total
}

// TotalCount sums all entry counts regardless of category.
func TotalCount(entries HourEntries) int {
	total := 0
	for _, e := range entries {
		total += e.Count
	}
	return total
}

func sameCategory(a, b *Category) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyCategory(cat *Category) *Category {
	if cat == nil {
		return nil
	}
	c := *cat
	return &c
}
