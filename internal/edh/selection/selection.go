// Package selection parses range selections such as "1,3-6,10" or "all".
package selection

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Error describes the part of a selection that could not be used.
type Error struct {
	Input  string
	Part   string
	Reason string
}

func (e *Error) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("invalid selection %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid selection %q: %q %s", e.Input, e.Part, e.Reason)
}

// Parse converts a 1-based selection over n items into sorted, distinct
// 0-based indices.
func Parse(input string, n int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &Error{Input: input, Reason: "is empty"}
	}
	if strings.EqualFold(input, "all") {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}

	seen := make(map[int]struct{})
	for _, raw := range strings.Split(input, ",") {
		part := strings.TrimSpace(raw)
		if part == "" {
			return nil, &Error{Input: input, Part: raw, Reason: "is empty"}
		}

		lo, hi, err := parsePart(part)
		if err != nil {
			return nil, &Error{Input: input, Part: part, Reason: err.Error()}
		}
		if lo > hi {
			return nil, &Error{Input: input, Part: part, Reason: "is reversed"}
		}
		if lo < 1 || hi > n {
			return nil, &Error{Input: input, Part: part, Reason: fmt.Sprintf("is out of range 1-%d", n)}
		}
		for i := lo; i <= hi; i++ {
			seen[i-1] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}

func parsePart(part string) (int, int, error) {
	before, after, isRange := strings.Cut(part, "-")
	lo, err := number(before)
	if err != nil {
		return 0, 0, err
	}
	if !isRange {
		return lo, lo, nil
	}
	hi, err := number(after)
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

func number(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("is not a number")
	}
	return n, nil
}
