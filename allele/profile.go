package allele

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// Profile is an ordered set of allele calls. Loci is empty when the source
// was a bare array.
type Profile struct {
	Loci  []string
	Calls []Call
}

func (p Profile) Len() int { return len(p.Calls) }

func (p Profile) locus(i int) string {
	if i < len(p.Loci) {
		return p.Loci[i]
	}
	return "locus_" + strconv.Itoa(i+1)
}

// Each calls fn for every locus in order.
func (p Profile) Each(fn func(locus string, call Call)) {
	for i := range p.Calls {
		fn(p.locus(i), p.Calls[i])
	}
}

// UnmarshalJSON decodes either {"locus": call, ...}, keeping key order, or
// [call, ...].
func (p *Profile) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*p = Profile{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '[' {
		if err := json.Unmarshal(b, &p.Calls); err != nil {
			return errors.Wrap(err, "allele profile")
		}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "allele profile")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("allele profile: expected object or array, got %s", b[:1])
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "allele profile")
		}
		locus, _ := tok.(string)
		var call Call
		if err := dec.Decode(&call); err != nil {
			return errors.Wrapf(err, "allele profile: locus %s", locus)
		}
		p.Loci = append(p.Loci, locus)
		p.Calls = append(p.Calls, call)
	}
	return nil
}
