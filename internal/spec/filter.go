package spec

import "github.com/bmatcuk/doublestar/v4"

// TagFilter decides which tests run based on their effective tags. When the
// inclusion set is non-empty a test's tags must intersect it; a test whose
// tags intersect the exclusion set is excluded regardless of inclusion.
type TagFilter struct {
	include TagSet
	exclude TagSet
}

// NewTagFilter builds a filter from inclusion and exclusion tag lists.
// A nil or empty include list means "include everything".
func NewTagFilter(include, exclude []string) TagFilter {
	return TagFilter{
		include: NewTagSet(include...),
		exclude: NewTagSet(exclude...),
	}
}

// Includes reports whether a test with the given effective tags runs.
func (f TagFilter) Includes(tags TagSet) bool {
	if f.exclude.Intersects(tags) {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	return f.include.Intersects(tags)
}

// MatchName reports whether a full test name matches the glob pattern.
// An empty pattern matches every name. Invalid patterns match nothing.
func MatchName(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, name)
	if err != nil {
		return false
	}
	return ok
}
