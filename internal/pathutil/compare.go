package pathutil

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparer orders path segments according to a case-sensitivity policy.
// A Comparer is chosen once per matching call and passed explicitly to
// everything that sorts or compares names.
type Comparer interface {
	// Compare returns a negative number, zero, or a positive number when a
	// sorts before, equal to, or after b.
	Compare(a, b string) int
	// Equal reports whether a and b name the same entry under this policy
	Equal(a, b string) bool
	// CaseSensitive reports the policy this comparer implements
	CaseSensitive() bool
}

// NewComparer returns an ordinal comparer when caseSensitive is true and a
// case-insensitive, accent-sensitive collating comparer otherwise.
// The collating comparer is not safe for concurrent use.
func NewComparer(caseSensitive bool) Comparer {
	if caseSensitive {
		return ordinalComparer{}
	}
	return &collatingComparer{collator: collate.New(language.Und, collate.IgnoreCase)}
}

type ordinalComparer struct{}

func (ordinalComparer) Compare(a, b string) int { return strings.Compare(a, b) }
func (ordinalComparer) Equal(a, b string) bool  { return a == b }
func (ordinalComparer) CaseSensitive() bool     { return true }

// collatingComparer treats "a" and "A" as equal but "a" and "á" as different
type collatingComparer struct {
	collator *collate.Collator
}

func (c *collatingComparer) Compare(a, b string) int {
	if a == b {
		return 0
	}
	return c.collator.CompareString(a, b)
}

func (c *collatingComparer) Equal(a, b string) bool {
	return c.Compare(a, b) == 0
}

func (c *collatingComparer) CaseSensitive() bool { return false }

// Sort sorts names in place with cmp. Names the comparer considers equal
// are ordered ordinally so the result does not depend on input order.
func Sort(names []string, cmp Comparer) {
	slices.SortFunc(names, func(a, b string) int {
		if result := cmp.Compare(a, b); result != 0 {
			return result
		}
		return strings.Compare(a, b)
	})
}
