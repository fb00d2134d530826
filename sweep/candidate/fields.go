package candidate

import (
	"strconv"
	"strings"

	"github.com/aslpavel/sweep-go/sweep/xerr"
)

// Selector is a parsed --nth field selector: a comma-separated list of
// 1-based field indices (negative counts from the end) and a..b ranges
// (a inclusive, b exclusive), as spec §6.2 describes.
type Selector struct {
	terms []selectorTerm
}

type selectorTerm struct {
	isRange  bool
	index    int
	from, to int
}

// AllFields is the default selector ("all"): nil selects every field.
var AllFields = &Selector{}

func ParseSelector(spec string) (*Selector, error) {
	if spec == "" {
		return AllFields, nil
	}
	s := &Selector{}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, xerr.Newf(xerr.InvalidArgument, "empty field selector term in %q", spec)
		}
		if i := strings.Index(part, ".."); i >= 0 {
			fromStr, toStr := part[:i], part[i+2:]
			from, err := strconv.Atoi(fromStr)
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidArgument, "bad field selector range start "+fromStr, err)
			}
			to, err := strconv.Atoi(toStr)
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidArgument, "bad field selector range end "+toStr, err)
			}
			s.terms = append(s.terms, selectorTerm{isRange: true, from: from, to: to})
			continue
		}
		idx, err := strconv.Atoi(part)
		if err != nil {
			return nil, xerr.Wrap(xerr.InvalidArgument, "bad field selector term "+part, err)
		}
		s.terms = append(s.terms, selectorTerm{index: idx})
	}
	return s, nil
}

// resolve turns a 1-based, possibly negative index into a 0-based one
// within [0, n); out-of-range indices are dropped rather than erroring,
// matching the teacher's tolerant field-splitting idiom.
func resolve(idx, n int) (int, bool) {
	if idx == 0 {
		return 0, false
	}
	var zero int
	if idx > 0 {
		zero = idx - 1
	} else {
		zero = n + idx
	}
	if zero < 0 || zero >= n {
		return 0, false
	}
	return zero, true
}

// Select returns the 0-based field indices of n fields that the selector
// names, in ascending order with duplicates removed.
func (s *Selector) Select(n int) []int {
	if s == nil || len(s.terms) == 0 {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	seen := make(map[int]bool, n)
	var out []int
	add := func(i int) {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	for _, t := range s.terms {
		if !t.isRange {
			if i, ok := resolve(t.index, n); ok {
				add(i)
			}
			continue
		}
		from, fromOK := resolve(t.from, n)
		var to int
		if t.to == 0 {
			to = n
		} else if i, ok := resolve(t.to, n); ok {
			to = i
		} else if t.to < 0 {
			to = n + t.to
		} else {
			to = n
		}
		if !fromOK {
			continue
		}
		for i := from; i < to && i < n; i++ {
			if i >= 0 {
				add(i)
			}
		}
	}
	sortInts(out)
	return out
}

func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}
