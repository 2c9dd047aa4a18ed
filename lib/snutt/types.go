package snutt

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The upstream is loose about scalar types: the same field arrives as
// a string in one deployment and a number in another, and records that
// fail one shape must degrade instead of failing the whole page. The
// Flex* types below decode every known shape explicitly and fall back
// to their zero value on anything else.

// FlexString decodes a JSON string, or falls back to "" for any other
// JSON value.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = ""
		return nil
	}
	*f = FlexString(s)
	return nil
}

// OptFloat decodes a JSON number and remembers whether one was
// present. Strings and other values do not count as present, matching
// the upstream convention that numeric fields are authoritative only
// when actually numeric.
type OptFloat struct {
	Val float64
	OK  bool
}

func (f *OptFloat) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = OptFloat{}
		return nil
	}
	*f = OptFloat{Val: v, OK: true}
	return nil
}

func (f OptFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Val)
}

// FlexDay decodes a day-of-week sent either as a number or as a
// numeric string. An absent or unparsable day never matches a query
// day.
type FlexDay struct {
	Val int
	OK  bool
}

func (d *FlexDay) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*d = FlexDay{Val: int(n), OK: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*d = FlexDay{Val: n, OK: true}
			return nil
		}
	}
	*d = FlexDay{}
	return nil
}

// Is reports whether the block falls on the given canonical day.
func (d FlexDay) Is(day int) bool {
	return d.OK && d.Val == day
}

// FlexValue holds a scalar that may be a JSON string or number and
// round-trips it unchanged. Used for the semester field, whose
// encoding the upstream never settled on.
type FlexValue struct {
	Raw any
}

func (v *FlexValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Raw = s
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		v.Raw = n
		return nil
	}
	v.Raw = nil
	return nil
}

func (v FlexValue) MarshalJSON() ([]byte, error) {
	if v.Raw == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v.Raw)
}

func (v FlexValue) String() string {
	switch raw := v.Raw.(type) {
	case string:
		return raw
	case float64:
		return strconv.FormatFloat(raw, 'f', -1, 64)
	default:
		return ""
	}
}

// RawTimeBlock is one scheduled occurrence of a lecture as sent by the
// upstream. Time information arrives in one of three encodings, tried
// in this order by schedule.ToMinuteRange: explicit startMinute and
// endMinute, "HH:mm" start_time and end_time strings, or the legacy
// {start, len} slot form relative to an 08:00 baseline.
type RawTimeBlock struct {
	Day         FlexDay    `json:"day"`
	Place       FlexString `json:"place,omitempty"`
	Room        FlexString `json:"room,omitempty"`
	Location    FlexString `json:"location,omitempty"`
	StartMinute OptFloat   `json:"startMinute,omitempty"`
	EndMinute   OptFloat   `json:"endMinute,omitempty"`
	StartTime   FlexString `json:"start_time,omitempty"`
	EndTime     FlexString `json:"end_time,omitempty"`
	Start       OptFloat   `json:"start,omitempty"`
	Len         OptFloat   `json:"len,omitempty"`
}

// PlaceString returns the first non-empty of the three room field
// aliases the upstream uses.
func (t RawTimeBlock) PlaceString() string {
	if t.Place != "" {
		return string(t.Place)
	}
	if t.Room != "" {
		return string(t.Room)
	}
	return string(t.Location)
}

func (t RawTimeBlock) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	if t.Day.OK {
		out["day"] = t.Day.Val
	}
	if t.Place != "" {
		out["place"] = t.Place
	}
	if t.Room != "" {
		out["room"] = t.Room
	}
	if t.Location != "" {
		out["location"] = t.Location
	}
	if t.StartMinute.OK {
		out["startMinute"] = t.StartMinute.Val
	}
	if t.EndMinute.OK {
		out["endMinute"] = t.EndMinute.Val
	}
	if t.StartTime != "" {
		out["start_time"] = t.StartTime
	}
	if t.EndTime != "" {
		out["end_time"] = t.EndTime
	}
	if t.Start.OK {
		out["start"] = t.Start.Val
	}
	if t.Len.OK {
		out["len"] = t.Len.Val
	}
	return json.Marshal(out)
}

// RawLecture is an upstream catalog record, decoded tolerantly.
type RawLecture struct {
	ID            FlexString     `json:"_id"`
	CourseTitle   FlexString     `json:"course_title"`
	Title         FlexString     `json:"title"`
	Instructor    FlexString     `json:"instructor"`
	Department    FlexString     `json:"department"`
	CourseNumber  FlexString     `json:"course_number"`
	LectureNumber FlexString     `json:"lecture_number"`
	Year          OptFloat       `json:"year"`
	Semester      FlexValue      `json:"semester"`
	ClassTimes    []RawTimeBlock `json:"class_time_json"`
}

// Key is the identity used for pagination dedup: the upstream id when
// present, else a composite of the natural-key fields.
func (l *RawLecture) Key() string {
	if l.ID != "" {
		return string(l.ID)
	}
	title := l.CourseTitle
	if title == "" {
		title = l.Title
	}
	year := ""
	if l.Year.OK {
		year = strconv.FormatFloat(l.Year.Val, 'f', -1, 64)
	}
	return string(l.CourseNumber) + "#" + string(l.LectureNumber) + "#" + string(title) + "#" + year + "#" + l.Semester.String()
}

// SlimLecture is the reduced projection retained in the cache. Time
// blocks are kept as received; parsing is deferred to consumers.
type SlimLecture struct {
	CourseTitle   string         `json:"course_title"`
	Instructor    string         `json:"instructor"`
	ClassTimes    []RawTimeBlock `json:"class_time_json"`
	CourseNumber  string         `json:"course_number"`
	LectureNumber string         `json:"lecture_number"`
	Year          int            `json:"year,omitempty"`
	Semester      any            `json:"semester,omitempty"`
}

func (l *RawLecture) Slim() SlimLecture {
	title := l.CourseTitle
	if title == "" {
		title = l.Title
	}
	year := 0
	if l.Year.OK {
		year = int(l.Year.Val)
	}
	times := l.ClassTimes
	if times == nil {
		times = []RawTimeBlock{}
	}
	return SlimLecture{
		CourseTitle:   string(title),
		Instructor:    string(l.Instructor),
		ClassTimes:    times,
		CourseNumber:  string(l.CourseNumber),
		LectureNumber: string(l.LectureNumber),
		Year:          year,
		Semester:      l.Semester.Raw,
	}
}

// pickArray locates the lecture array in an upstream payload: either a
// bare array, or an object wrapping it under one of the known keys,
// tried in order.
var arrayKeys = []string{"result", "results", "lectures", "items"}

func pickArray(data []byte) []json.RawMessage {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	for _, key := range arrayKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &arr); err == nil {
			return arr
		}
	}
	return nil
}
