// Package schedule turns raw upstream time blocks and place strings
// into canonical minute ranges and room labels.
package schedule

import (
	"math"
	"regexp"

	"github.com/snuttools/snutt-proxy/lib/snutt"
)

// Range is a half-open [S, E) span in minutes since midnight.
type Range struct {
	S int
	E int
}

var hhmmRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseHHMM parses a strict "HH:mm" string into minutes since
// midnight.
func ParseHHMM(s string) (int, bool) {
	m := hhmmRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hh := atoiDigits(m[1])
	mm := atoiDigits(m[2])
	return hh*60 + mm, true
}

func atoiDigits(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// ToMinuteRange resolves the three time-block encodings in priority
// order: explicit minute fields win over "HH:mm" strings, which win
// over the legacy {start, len} slot form (hours offset from an 08:00
// baseline). Callers depend on this exact ordering. A block matching
// none of the three is unparsable and skipped.
func ToMinuteRange(t snutt.RawTimeBlock) (Range, bool) {
	if t.StartMinute.OK && t.EndMinute.OK {
		return Range{S: int(t.StartMinute.Val), E: int(t.EndMinute.Val)}, true
	}

	ps, okS := ParseHHMM(string(t.StartTime))
	pe, okE := ParseHHMM(string(t.EndTime))
	if okS && okE {
		return Range{S: ps, E: pe}, true
	}

	if t.Start.OK && t.Len.OK {
		s := int(math.Round((8 + t.Start.Val) * 60))
		e := int(math.Round(float64(s) + t.Len.Val*60))
		return Range{S: s, E: e}, true
	}

	return Range{}, false
}
