// Package allele classifies allele calls and compares typing profiles.
package allele

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies an allele call.
type Kind uint8

const (
	// Numeric is a typed allele with an integer identifier.
	Numeric Kind = iota
	// Null is a no-call: the locus could not be confidently typed.
	Null
	// Unparsable is neither a number nor a known no-call code.
	Unparsable
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Null:
		return "null"
	default:
		return "unparsable"
	}
}

// NullCodes is the set of no-call codes shared by every comparison and count.
// Keys are upper case; lookups are case-insensitive.
var NullCodes = map[string]struct{}{
	"":                     {},
	"-":                    {},
	"NA":                   {},
	"NONE":                 {},
	"EXC":                  {},
	"INF":                  {},
	"LNF":                  {},
	"PLOT3":                {},
	"PLOT5":                {},
	"LOTSC":                {},
	"NIPH":                 {},
	"NIPHEM":               {},
	"ALM":                  {},
	"ASM":                  {},
	"PAMA":                 {},
	"ABSENT":               {},
	"EXCLUDED":             {},
	"LOW-COVERAGE-NO-CALL": {},
	"NOVEL":                {},
	"PARALOG-AMBIGUOUS":    {},
}

// novelPrefix marks an inferred, not yet numbered, allele.
const novelPrefix = "INF-"

// IsNullCode reports whether s is a no-call code.
func IsNullCode(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	if _, ok := NullCodes[s]; ok {
		return true
	}
	return strings.HasPrefix(s, novelPrefix)
}

// Call is a single allele call as reported by a typing pipeline.
type Call struct {
	Raw  string
	ID   int64
	Kind Kind
}

// Parse classifies raw. Integer valued floats such as "12.0" are numeric.
func Parse(raw string) Call {
	s := strings.TrimSpace(raw)
	if IsNullCode(s) {
		return Call{Raw: raw, Kind: Null}
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Call{Raw: raw, ID: id, Kind: Numeric}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && inInt64Range(f) {
		return Call{Raw: raw, ID: int64(f), Kind: Numeric}
	}
	return Call{Raw: raw, Kind: Unparsable}
}

// inInt64Range reports whether f converts to int64 without overflow.
// Infinities and NaN are out of range.
func inInt64Range(f float64) bool {
	return f >= math.MinInt64 && f < math.MaxInt64
}

// Parses is a convenience for building call vectors.
func Parses(raws ...string) []Call {
	calls := make([]Call, len(raws))
	for i := range raws {
		calls[i] = Parse(raws[i])
	}
	return calls
}

func (c Call) IsNull() bool       { return c.Kind == Null }
func (c Call) IsUnparsable() bool { return c.Kind == Unparsable }

// String returns the call as it appeared in the source document.
func (c Call) String() string {
	if c.Kind == Null && c.Raw == "" {
		return "-"
	}
	return c.Raw
}

// UnmarshalJSON accepts a number, a string or null.
func (c *Call) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*c = Call{Kind: Null}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(err, "allele call")
		}
		*c = Parse(s)
	case b[0] == '{' || b[0] == '[':
		return errors.Errorf("allele call: unexpected %s", b)
	default:
		*c = Parse(string(b))
	}
	return nil
}

// MarshalJSON writes numeric calls as numbers and everything else as strings.
func (c Call) MarshalJSON() ([]byte, error) {
	if c.Kind == Numeric {
		return strconv.AppendInt(nil, c.ID, 10), nil
	}
	return json.Marshal(c.String())
}
