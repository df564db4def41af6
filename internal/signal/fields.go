package signal

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const timeAxis = "time"

// MaxRangeIndices bounds how many specs one range descriptor may produce.
const MaxRangeIndices = 1 << 16

var errEmptyLabel = errors.New("empty label")

// splitLabels splits a comma-separated label list, trimming whitespace.
// An empty input yields an empty list; an empty label is malformed.
func splitLabels(value string) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return []string{}, nil
	}
	parts := strings.Split(value, ",")
	labels := make([]string, len(parts))
	for i, part := range parts {
		label := strings.TrimSpace(part)
		if label == "" {
			return nil, errEmptyLabel
		}
		labels[i] = label
	}
	return labels, nil
}

// parseAxes returns the axis labels with "time" moved to index 0 and the
// permutation that was applied, or nil when no reordering was needed.
// Malformed input yields no axes and no permutation.
func parseAxes(value string) ([]string, []int, error) {
	axes, err := splitLabels(value)
	if err != nil {
		return []string{}, nil, err
	}

	k := -1
	for i, axis := range axes {
		if axis == timeAxis {
			k = i
			break
		}
	}
	if k <= 0 {
		return axes, nil, nil
	}

	transpose := make([]int, 0, len(axes))
	transpose = append(transpose, k)
	for i := range axes {
		if i != k {
			transpose = append(transpose, i)
		}
	}
	return permute(axes, transpose), transpose, nil
}

// parseRefs returns the axis reference labels reordered by transpose. An
// absent field, malformed input, or a list the permutation cannot be
// applied to yields nil.
func parseRefs(value string, transpose []int) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	refs, err := splitLabels(value)
	if err != nil {
		return nil, err
	}
	if transpose == nil {
		return refs, nil
	}
	if len(refs) != len(transpose) {
		return nil, fmt.Errorf("%d refs for %d axes", len(refs), len(transpose))
	}
	return permute(refs, transpose), nil
}

func permute(values []string, order []int) []string {
	out := make([]string, len(order))
	for i, idx := range order {
		out[i] = values[idx]
	}
	return out
}

// indexRange is a parsed range or namerange field: indices start..end-1,
// with an optional explicit zero-pad width.
type indexRange struct {
	start    int
	end      int
	width    int
	hasWidth bool
}

func (r indexRange) count() int {
	return r.end - r.start
}

// parseRange parses "a" (0..a-1), "a,b" (a..b inclusive) or "a,b,w" where w
// is the zero-pad width.
func parseRange(value string) (indexRange, error) {
	tokens := strings.Split(value, ",")
	if len(tokens) > 3 {
		return indexRange{}, fmt.Errorf("expected at most 3 tokens, got %d", len(tokens))
	}

	numbers := make([]int, len(tokens))
	for i, token := range tokens {
		n, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			return indexRange{}, err
		}
		numbers[i] = n
	}

	var r indexRange
	if len(numbers) == 1 {
		r.start, r.end = 0, numbers[0]
	} else {
		if numbers[1] == math.MaxInt {
			return indexRange{}, fmt.Errorf("end index %d out of range", numbers[1])
		}
		r.start, r.end = numbers[0], numbers[1]+1
	}
	if len(numbers) == 3 {
		if numbers[2] < 0 {
			return indexRange{}, fmt.Errorf("negative pad width %d", numbers[2])
		}
		r.width, r.hasWidth = numbers[2], true
	}
	if r.end <= r.start {
		return indexRange{}, fmt.Errorf("range selects no indices")
	}
	if n := uint(r.end) - uint(r.start); n > MaxRangeIndices {
		return indexRange{}, fmt.Errorf("range selects %d indices, at most %d allowed", n, MaxRangeIndices)
	}
	return r, nil
}

// padWidth is ceil(log10(end-1)): the digit count of end-2, or 0 when
// end-1 <= 1.
func padWidth(end int) int {
	n := end - 1
	if n <= 1 {
		return 0
	}
	return len(strconv.Itoa(n - 1))
}

func pad(value, width int) string {
	return fmt.Sprintf("%0*d", width, value)
}

// substitute replaces every "{}" or "{0}" placeholder in template.
func substitute(template, value string) (string, bool) {
	if !strings.Contains(template, "{}") && !strings.Contains(template, "{0}") {
		return template, false
	}
	out := strings.ReplaceAll(template, "{}", value)
	out = strings.ReplaceAll(out, "{0}", value)
	return out, true
}
