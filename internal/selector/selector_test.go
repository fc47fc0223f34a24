package selector

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"testing"
)

func noAll() ([]int, error) {
	return nil, errors.New("enumeration should not be called")
}

func TestExpand(t *testing.T) {
	tests := []struct {
		raw  string
		want []int
	}{
		{"3", []int{3}},
		{"2,4", []int{2, 4}},
		{"5-12", []int{5, 6, 7, 8, 9, 10, 11, 12}},
		{"1-3,5", []int{1, 2, 3, 5}},
		{"7-3", []int{}},
		{"4-4", []int{4}},
		{" 1 - 3 , 5 ", []int{1, 2, 3, 5}},
		{"1-3,2-4", []int{1, 2, 3, 2, 3, 4}},
		{"5,5", []int{5, 5}},
		{"9,1-2", []int{9, 1, 2}},
		{"0", []int{0}},
		{"7-3,1", []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Expand(tt.raw, noAll)
			if err != nil {
				t.Fatalf("Expand(%q): %v", tt.raw, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Expand(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExpandAllDelegates(t *testing.T) {
	calls := 0
	all := func() ([]int, error) {
		calls++
		return []int{9, 2, 14, 3}, nil
	}

	got, err := Expand("all", all)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !slices.Equal(got, []int{9, 2, 14, 3}) {
		t.Fatalf("expected enumeration order kept, got %v", got)
	}
	if calls != 1 {
		t.Fatalf("expected 1 enumeration call, got %d", calls)
	}

	got, err = Expand("  all ", all)
	if err != nil || len(got) != 4 {
		t.Fatalf("expected trimmed all to delegate, got %v, %v", got, err)
	}
}

func TestExpandAllEnumerationError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Expand("all", func() ([]int, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped enumeration error, got %v", err)
	}
}

func TestExpandAllWithoutEnumeration(t *testing.T) {
	if _, err := Expand("all", nil); err == nil {
		t.Fatal("expected error when no enumeration is provided")
	}
}

func TestParseInvalid(t *testing.T) {
	bad := []string{
		"abc",
		"",
		"   ",
		"1,",
		",1",
		"1,,2",
		"1-",
		"-3",
		"1-2-3",
		"-",
		"+3",
		"3a",
		"1.5",
		"ALL",
		"all,1",
		"1-x",
		"99999999999999999999999",
	}
	for _, raw := range bad {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(raw)
			if !errors.Is(err, ErrInvalidSelector) {
				t.Fatalf("Parse(%q): expected ErrInvalidSelector, got %v", raw, err)
			}
		})
	}
}

func TestInvalidSelectorNeverEnumerates(t *testing.T) {
	called := false
	_, err := Expand("1,abc", func() ([]int, error) {
		called = true
		return []int{1}, nil
	})
	if !errors.Is(err, ErrInvalidSelector) {
		t.Fatalf("expected ErrInvalidSelector, got %v", err)
	}
	if called {
		t.Fatal("enumeration should not run for an invalid selector")
	}
}

func TestIDsRestartable(t *testing.T) {
	sel, err := Parse("1-3,5")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	seq, err := sel.IDs(noAll)
	if err != nil {
		t.Fatalf("IDs: %v", err)
	}
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Fatalf("second pass differs: %v vs %v", first, second)
	}
}

func TestIDsEarlyStop(t *testing.T) {
	sel, _ := Parse("1-1000000")
	seq, _ := sel.IDs(noAll)
	var got []int
	for id := range seq {
		got = append(got, id)
		if len(got) == 3 {
			break
		}
	}
	if !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("expected [1 2 3], got %v", got)
	}
}

func TestIDsRangeEndingAtMaxInt(t *testing.T) {
	maxID := strconv.Itoa(math.MaxInt)
	prev := strconv.Itoa(math.MaxInt - 1)
	got, err := Expand(prev+"-"+maxID, noAll)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !slices.Equal(got, []int{math.MaxInt - 1, math.MaxInt}) {
		t.Fatalf("unexpected ids %v", got)
	}
}

func TestSelectorString(t *testing.T) {
	tests := map[string]string{
		"all":         "all",
		" 1 - 3 , 5 ": "1-3,5",
		"4-4":         "4",
		"7-3":         "7-3",
	}
	for raw, want := range tests {
		sel, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		if got := sel.String(); got != want {
			t.Errorf("String(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestGroupsAndLen(t *testing.T) {
	sel, _ := Parse("2-5,8,9-1")
	groups := sel.Groups()
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	lens := []int{groups[0].Len(), groups[1].Len(), groups[2].Len()}
	if !slices.Equal(lens, []int{4, 1, 0}) {
		t.Fatalf("unexpected group lengths %v", lens)
	}

	groups[0].First = 100
	if sel.Groups()[0].First != 2 {
		t.Fatal("Groups should return a copy")
	}
	if sel.IsAll() {
		t.Fatal("expected IsAll false")
	}
}
