package selector

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// #region errors

// ErrInvalidSelector is returned when a selector string is not well formed.
var ErrInvalidSelector = errors.New("selector: invalid selector")

// #endregion errors

// #region types

// All is the selector literal that targets every event on a map.
const All = "all"

const (
	groupSep = ","
	rangeSep = "-"
)

// AllIDs enumerates every event id defined on the target map.
type AllIDs func() ([]int, error)

// Group is one comma-separated element of a selector. A single id has First == Last.
type Group struct {
	First int
	Last  int
}

// Len is the number of ids the group produces. Reversed ranges produce none.
func (g Group) Len() int {
	if g.First > g.Last {
		return 0
	}
	return g.Last - g.First + 1
}

func (g Group) String() string {
	if g.First == g.Last {
		return strconv.Itoa(g.First)
	}
	return strconv.Itoa(g.First) + rangeSep + strconv.Itoa(g.Last)
}

// Selector is a validated event-id selector.
type Selector struct {
	all    bool
	groups []Group
}

// #endregion types

// #region parse

// Parse validates the whole selector before anything is produced from it.
// Whitespace is ignored anywhere in the string.
func Parse(raw string) (Selector, error) {
	compact := stripSpace(raw)
	if compact == All {
		return Selector{all: true}, nil
	}
	if compact == "" {
		return Selector{}, fmt.Errorf("%w %q: empty selector", ErrInvalidSelector, raw)
	}

	parts := strings.Split(compact, groupSep)
	groups := make([]Group, 0, len(parts))
	for i, part := range parts {
		g, err := parseGroup(part)
		if err != nil {
			return Selector{}, fmt.Errorf("%w %q: group %d: %s", ErrInvalidSelector, raw, i+1, err)
		}
		groups = append(groups, g)
	}
	return Selector{groups: groups}, nil
}

func parseGroup(part string) (Group, error) {
	if part == "" {
		return Group{}, errors.New("empty group")
	}
	if !strings.Contains(part, rangeSep) {
		id, err := parseID(part)
		if err != nil {
			return Group{}, err
		}
		return Group{First: id, Last: id}, nil
	}

	bounds := strings.Split(part, rangeSep)
	if len(bounds) != 2 {
		return Group{}, fmt.Errorf("malformed range %q", part)
	}
	first, err := parseID(bounds[0])
	if err != nil {
		return Group{}, fmt.Errorf("range start: %s", err)
	}
	last, err := parseID(bounds[1])
	if err != nil {
		return Group{}, fmt.Errorf("range end: %s", err)
	}
	return Group{First: first, Last: last}, nil
}

// parseID accepts only plain decimal digits; signs are rejected.
func parseID(tok string) (int, error) {
	if tok == "" {
		return 0, errors.New("empty id")
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("id %q is not a non-negative integer", tok)
		}
	}
	id, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("id %q out of range", tok)
	}
	return id, nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// #endregion parse

// #region accessors

// IsAll reports whether the selector targets every event on the map.
func (s Selector) IsAll() bool {
	return s.all
}

// Groups returns a copy of the parsed groups, nil for "all".
func (s Selector) Groups() []Group {
	return slices.Clone(s.groups)
}

// String returns the canonical whitespace-free form.
func (s Selector) String() string {
	if s.all {
		return All
	}
	parts := make([]string, len(s.groups))
	for i, g := range s.groups {
		parts[i] = g.String()
	}
	return strings.Join(parts, groupSep)
}

// #endregion accessors

// #region ids

// IDs returns the target ids in declaration order, ascending within a range,
// with duplicates preserved. For "all" the enumeration is delegated to all and
// its order is kept. The returned sequence can be ranged over more than once.
func (s Selector) IDs(all AllIDs) (iter.Seq[int], error) {
	if s.all {
		if all == nil {
			return nil, errors.New("selector: no event enumeration for \"all\"")
		}
		ids, err := all()
		if err != nil {
			return nil, fmt.Errorf("enumerate events: %w", err)
		}
		return slices.Values(slices.Clone(ids)), nil
	}

	groups := s.groups
	return func(yield func(int) bool) {
		for _, g := range groups {
			if g.First > g.Last {
				continue
			}
			// Stop at Last before incrementing so Last == MaxInt cannot wrap.
			for id := g.First; ; id++ {
				if !yield(id) {
					return
				}
				if id == g.Last {
					break
				}
			}
		}
	}, nil
}

// Expand parses raw and materializes its ids.
func Expand(raw string, all AllIDs) ([]int, error) {
	sel, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	seq, err := sel.IDs(all)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// #endregion ids
