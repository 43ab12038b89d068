package spec

import "strings"

// Connective is the grammatical linking word rendered between concatenated
// name segments. One parameterized kind replaces per-word registration
// paths; only the substituted word differs.
type Connective int

const (
	ConnNone Connective = iota
	ConnShould
	ConnMust
	ConnCan
	ConnWhen
	ConnWhich
	ConnThat
)

// Word returns the connective's rendered form, empty for ConnNone.
func (c Connective) Word() string {
	switch c {
	case ConnShould:
		return "should"
	case ConnMust:
		return "must"
	case ConnCan:
		return "can"
	case ConnWhen:
		return "when"
	case ConnWhich:
		return "which"
	case ConnThat:
		return "that"
	default:
		return ""
	}
}

// String makes Connective satisfy the fmt.Stringer interface.
func (c Connective) String() string {
	if c == ConnNone {
		return "none"
	}
	return c.Word()
}

// CombineName joins the ancestor scope texts and the own text with single
// spaces, inserting the connective word between them. The connective is
// suppressed when it would double up: either the preceding segment already
// ends with the word or the own text already begins with it. Pure function;
// sibling name order equals registration order because callers pass
// segments in registration order.
func CombineName(ancestors []string, conn Connective, own string) string {
	parts := make([]string, 0, len(ancestors)+2)
	for _, a := range ancestors {
		if a != "" {
			parts = append(parts, a)
		}
	}

	word := conn.Word()
	if word != "" && !suppressConnective(parts, word, own) {
		parts = append(parts, word)
	}
	if own != "" {
		parts = append(parts, own)
	}
	return strings.Join(parts, " ")
}

// suppressConnective reports whether inserting word between the already
// collected prefix segments and own would render an awkward double
// connective.
func suppressConnective(prefix []string, word, own string) bool {
	if own == word || strings.HasPrefix(own, word+" ") {
		return true
	}
	if len(prefix) > 0 {
		last := prefix[len(prefix)-1]
		if last == word || strings.HasSuffix(last, " "+word) {
			return true
		}
	}
	return false
}
