package allele

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/jasentool/jasentool/console"
)

// ErrLengthMismatch is returned when two profiles cannot be aligned by position.
var ErrLengthMismatch = errors.New("allele: profiles differ in length")

// Comparison counts the outcome of comparing two profiles position by position.
type Comparison struct {
	Matches    int
	Mismatches int
	// Excluded counts positions where either side was a no-call.
	Excluded int
	// Unparsable counts positions where either side was not a recognizable
	// call. They are reported, never counted as a match or mismatch.
	Unparsable int
}

// Compared is the number of positions that contributed to the match rate.
func (c Comparison) Compared() int {
	return c.Matches + c.Mismatches
}

// MatchPercent is 100 * matches / compared, or 0 if nothing was compared.
func (c Comparison) MatchPercent() float64 {
	if c.Compared() == 0 {
		return 0
	}
	return 100 * float64(c.Matches) / float64(c.Compared())
}

func (c *Comparison) add(a, b Call) {
	switch {
	case a.IsNull() || b.IsNull():
		c.Excluded++
	case a.IsUnparsable() || b.IsUnparsable():
		c.Unparsable++
	case a.ID == b.ID:
		c.Matches++
	default:
		c.Mismatches++
	}
}

// Compare counts matches and mismatches between a and b by position.
// A no-call on either side excludes the position. Unparsable values are
// logged and skipped.
func Compare(a, b []Call) (Comparison, error) {
	var c Comparison
	if len(a) != len(b) {
		return c, errors.Wrapf(ErrLengthMismatch, "%d != %d", len(a), len(b))
	}
	for i := range a {
		before := c.Unparsable
		c.add(a[i], b[i])
		if c.Unparsable != before {
			console.Warnf("position %d: cannot compare %q with %q, skipped", i, a[i].Raw, b[i].Raw)
		}
	}
	return c, nil
}

// Mismatches is Compare reduced to its mismatch count.
func Mismatches(a, b []Call) (int, error) {
	c, err := Compare(a, b)
	return c.Mismatches, err
}

// CompareGenes compares two gene keyed profiles over the genes of old.
// A gene absent from cur counts as a no-call.
func CompareGenes(old, cur map[string]Call) Comparison {
	var c Comparison
	for _, gene := range SortedGenes(old) {
		n, ok := cur[gene]
		if !ok {
			n = Call{Kind: Null}
		}
		before := c.Unparsable
		c.add(old[gene], n)
		if c.Unparsable != before {
			console.Warnf("gene %s: cannot compare %q with %q, skipped", gene, old[gene].Raw, n.Raw)
		}
	}
	return c
}

// SortedGenes returns the keys of genes in lexical order.
func SortedGenes(genes map[string]Call) []string {
	names := make([]string, 0, len(genes))
	for name := range genes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
