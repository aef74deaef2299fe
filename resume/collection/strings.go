package collection

import "strings"

// StringSet is an insertion-ordered list of unique strings, used for skills and
// project tech stacks.
type StringSet struct {
	values []string
}

// NewStringSet builds a set from values, dropping blanks and duplicates.
func NewStringSet(values []string) *StringSet {
	s := &StringSet{}
	s.Replace(values)
	return s
}

// AddUnique trims value and appends it unless it is blank or already present
// (exact, case-sensitive match). It reports whether the set grew.
func (s *StringSet) AddUnique(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" || s.Contains(v) {
		return false
	}
	s.values = append(s.values, v)
	return true
}

// RemoveValue deletes value if present and reports whether it was found.
func (s *StringSet) RemoveValue(value string) bool {
	for i, v := range s.values {
		if v == value {
			s.values = append(s.values[:i:i], s.values[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether value is in the set.
func (s *StringSet) Contains(value string) bool {
	for _, v := range s.values {
		if v == value {
			return true
		}
	}
	return false
}

// Replace resets the set to values, keeping first occurrences only.
func (s *StringSet) Replace(values []string) {
	s.values = s.values[:0:0]
	for _, v := range values {
		s.AddUnique(v)
	}
}

// Len reports the number of values.
func (s *StringSet) Len() int { return len(s.values) }

// Values returns a copy of the values in insertion order.
func (s *StringSet) Values() []string {
	return append([]string{}, s.values...)
}
