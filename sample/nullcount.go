package sample

import (
	"sort"

	"github.com/jasentool/jasentool/allele"
)

// NullCounts accumulates no-call statistics over a batch of samples.
//
// Nulls per sample are counted from the calls, MissingLoci is copied from
// the pipeline's n_missing. The two are kept apart and may disagree.
type NullCounts struct {
	Loci        map[string]int
	Samples     map[string]int
	MissingLoci map[string]int
	// Order lists samples in the order they were added.
	Order []string
}

func NewNullCounts() *NullCounts {
	return &NullCounts{
		Loci:        make(map[string]int),
		Samples:     make(map[string]int),
		MissingLoci: make(map[string]int),
	}
}

// Add counts the null calls of one sample. A sample is counted once; Add
// reports false and changes nothing when id was already added.
func (n *NullCounts) Add(id string, cgmlst *CgMLST) bool {
	if _, ok := n.Samples[id]; ok {
		return false
	}
	n.Order = append(n.Order, id)
	n.Samples[id] = 0
	n.MissingLoci[id] = cgmlst.NMissing
	cgmlst.Alleles.Each(func(locus string, call allele.Call) {
		if !call.IsNull() {
			return
		}
		n.Samples[id]++
		n.Loci[locus]++
	})
	return true
}

// Mean is the average number of null calls per sample.
func (n *NullCounts) Mean() float64 {
	if len(n.Samples) == 0 {
		return 0
	}
	var sum int
	for _, v := range n.Samples {
		sum += v
	}
	return float64(sum) / float64(len(n.Samples))
}

// Count is a named count, used to hand sorted series to writers and plots.
type Count struct {
	Name  string
	Value int
}

// Series returns the counts of m for names in order.
func Series(m map[string]int, names []string) []Count {
	counts := make([]Count, len(names))
	for i, name := range names {
		counts[i] = Count{Name: name, Value: m[name]}
	}
	return counts
}

// AtLeast returns the entries of m with a value >= min, ascending by value
// then name.
func AtLeast(m map[string]int, min int) []Count {
	var counts []Count
	for name, v := range m {
		if v >= min {
			counts = append(counts, Count{Name: name, Value: v})
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Value != counts[j].Value {
			return counts[i].Value < counts[j].Value
		}
		return counts[i].Name < counts[j].Name
	})
	return counts
}

// Above returns the entries of counts with a value > threshold, keeping order.
func Above(counts []Count, threshold int) []Count {
	var above []Count
	for _, c := range counts {
		if c.Value > threshold {
			above = append(above, c)
		}
	}
	return above
}
