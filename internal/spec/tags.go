package spec

import "sort"

// TagIgnore is the implicit tag attached to every ignored test.
const TagIgnore = "Ignore"

// TagSet is a set of tag names.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from a list of names.
func NewTagSet(names ...string) TagSet {
	s := make(TagSet, len(names))
	for _, n := range names {
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Contains reports whether name is a member of the set.
func (s TagSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Intersects reports whether the two sets share at least one member.
func (s TagSet) Intersects(other TagSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for n := range small {
		if _, ok := large[n]; ok {
			return true
		}
	}
	return false
}

// Sorted returns the members in lexical order.
func (s TagSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// tagRecord is what Record captured for one test.
type tagRecord struct {
	explicit TagSet
	ignored  bool
}

// TagRegistry maps each registered test name to its effective tag set.
// Suite-wide auto tags are merged lazily at query time so tags discovered
// after some registrations still apply uniformly.
type TagRegistry struct {
	records map[string]tagRecord
	auto    TagSet
}

// NewTagRegistry creates an empty registry.
func NewTagRegistry() *TagRegistry {
	return &TagRegistry{
		records: make(map[string]tagRecord),
		auto:    make(TagSet),
	}
}

// Record stores the explicit tags and ignored flag for fullName.
func (r *TagRegistry) Record(fullName string, explicit []string, ignored bool) {
	r.records[fullName] = tagRecord{
		explicit: NewTagSet(explicit...),
		ignored:  ignored,
	}
}

// SetAutoTags registers suite-wide tags applied to every recorded test.
func (r *TagRegistry) SetAutoTags(tags ...string) {
	r.auto = NewTagSet(tags...)
}

// EffectiveTags returns explicit ∪ auto ∪ {Ignore when ignored} for
// fullName, or an empty set for unknown names.
func (r *TagRegistry) EffectiveTags(fullName string) TagSet {
	rec, ok := r.records[fullName]
	if !ok {
		return make(TagSet)
	}
	out := make(TagSet, len(rec.explicit)+len(r.auto)+1)
	for t := range rec.explicit {
		out[t] = struct{}{}
	}
	for t := range r.auto {
		out[t] = struct{}{}
	}
	if rec.ignored {
		out[TagIgnore] = struct{}{}
	}
	return out
}

// All returns the effective tag set per test name, omitting tests whose
// effective set is empty.
func (r *TagRegistry) All() map[string]TagSet {
	out := make(map[string]TagSet)
	for name := range r.records {
		tags := r.EffectiveTags(name)
		if len(tags) > 0 {
			out[name] = tags
		}
	}
	return out
}
