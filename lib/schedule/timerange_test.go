package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/snuttools/snutt-proxy/lib/snutt"
)

func TestParseHHMM(t *testing.T) {
	var tests = []struct {
		input string
		want  int
		ok    bool
	}{
		{"09:00", 540, true},
		{"9:00", 540, true},
		{"13:40", 820, true},
		{"0:00", 0, true},
		{"24:00", 1440, true},
		{"9:0", 0, false},
		{"09:00:00", 0, false},
		{"0900", 0, false},
		{"", 0, false},
		{"nine", 0, false},
	}
	for _, tt := range tests {
		testname := fmt.Sprintf("%q", tt.input)
		t.Run(testname, func(t *testing.T) {
			got, ok := ParseHHMM(tt.input)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%t but got %t", tt.ok, ok)
			}
			if ok && got != tt.want {
				t.Errorf("Expected %d but got %d", tt.want, got)
			}
		})
	}
}

func TestToMinuteRangeExplicitMinutes(t *testing.T) {
	block := snutt.RawTimeBlock{
		StartMinute: snutt.OptFloat{Val: 540, OK: true},
		EndMinute:   snutt.OptFloat{Val: 600, OK: true},
	}
	rng, ok := ToMinuteRange(block)
	assert.True(t, ok)
	assert.Equal(t, Range{S: 540, E: 600}, rng)
}

func TestToMinuteRangeHHMMStrings(t *testing.T) {
	block := snutt.RawTimeBlock{StartTime: "09:00", EndTime: "10:00"}
	rng, ok := ToMinuteRange(block)
	assert.True(t, ok)
	assert.Equal(t, Range{S: 540, E: 600}, rng)
}

func TestToMinuteRangeStringsMatchExplicitMinutes(t *testing.T) {
	// The same wall-clock time must parse to the same range whichever
	// encoding it arrives under.
	asMinutes := snutt.RawTimeBlock{
		StartMinute: snutt.OptFloat{Val: 820, OK: true},
		EndMinute:   snutt.OptFloat{Val: 930, OK: true},
	}
	asStrings := snutt.RawTimeBlock{StartTime: "13:40", EndTime: "15:30"}

	r1, ok1 := ToMinuteRange(asMinutes)
	r2, ok2 := ToMinuteRange(asStrings)
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, r1, r2)
}

func TestToMinuteRangeLegacySlots(t *testing.T) {
	// Slot 1 from the 08:00 baseline, 1.5 hours long -> 09:00-10:30
	block := snutt.RawTimeBlock{
		Start: snutt.OptFloat{Val: 1, OK: true},
		Len:   snutt.OptFloat{Val: 1.5, OK: true},
	}
	rng, ok := ToMinuteRange(block)
	assert.True(t, ok)
	assert.Equal(t, Range{S: 540, E: 630}, rng)
}

func TestToMinuteRangeExplicitMinutesWinConflicts(t *testing.T) {
	block := snutt.RawTimeBlock{
		StartMinute: snutt.OptFloat{Val: 540, OK: true},
		EndMinute:   snutt.OptFloat{Val: 600, OK: true},
		StartTime:   "13:00",
		EndTime:     "14:00",
		Start:       snutt.OptFloat{Val: 4, OK: true},
		Len:         snutt.OptFloat{Val: 2, OK: true},
	}
	rng, ok := ToMinuteRange(block)
	assert.True(t, ok)
	assert.Equal(t, Range{S: 540, E: 600}, rng)
}

func TestToMinuteRangeStringsWinOverLegacy(t *testing.T) {
	block := snutt.RawTimeBlock{
		StartTime: "13:00",
		EndTime:   "14:00",
		Start:     snutt.OptFloat{Val: 4, OK: true},
		Len:       snutt.OptFloat{Val: 2, OK: true},
	}
	rng, ok := ToMinuteRange(block)
	assert.True(t, ok)
	assert.Equal(t, Range{S: 780, E: 840}, rng)
}

func TestToMinuteRangeUnparsableBlock(t *testing.T) {
	_, ok := ToMinuteRange(snutt.RawTimeBlock{Place: "301-118"})
	assert.False(t, ok)
}

func TestToMinuteRangePartialEncodingsDoNotMatch(t *testing.T) {
	// Only a start minute: falls through; only a start_time: falls
	// through; only a len: unparsable.
	_, ok := ToMinuteRange(snutt.RawTimeBlock{StartMinute: snutt.OptFloat{Val: 540, OK: true}})
	assert.False(t, ok)
	_, ok = ToMinuteRange(snutt.RawTimeBlock{StartTime: "09:00"})
	assert.False(t, ok)
	_, ok = ToMinuteRange(snutt.RawTimeBlock{Len: snutt.OptFloat{Val: 1, OK: true}})
	assert.False(t, ok)
}
