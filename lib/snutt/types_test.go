package snutt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlexStringFallsBackOnNonStrings(t *testing.T) {
	var lec RawLecture
	err := json.Unmarshal([]byte(`{"course_title": 42, "instructor": "Kim", "course_number": null}`), &lec)
	assert.NoError(t, err)
	assert.Equal(t, FlexString(""), lec.CourseTitle)
	assert.Equal(t, FlexString("Kim"), lec.Instructor)
	assert.Equal(t, FlexString(""), lec.CourseNumber)
}

func TestOptFloatOnlyCountsNumbers(t *testing.T) {
	var block RawTimeBlock
	err := json.Unmarshal([]byte(`{"startMinute": 540, "endMinute": "600"}`), &block)
	assert.NoError(t, err)
	assert.True(t, block.StartMinute.OK)
	assert.Equal(t, float64(540), block.StartMinute.Val)
	assert.False(t, block.EndMinute.OK)
}

func TestFlexDayAcceptsNumbersAndNumericStrings(t *testing.T) {
	var a, b, c, d RawTimeBlock
	assert.NoError(t, json.Unmarshal([]byte(`{"day": 3}`), &a))
	assert.NoError(t, json.Unmarshal([]byte(`{"day": "3"}`), &b))
	assert.NoError(t, json.Unmarshal([]byte(`{"day": "wed"}`), &c))
	assert.NoError(t, json.Unmarshal([]byte(`{}`), &d))

	assert.True(t, a.Day.Is(3))
	assert.True(t, b.Day.Is(3))
	assert.False(t, c.Day.OK)
	assert.False(t, d.Day.Is(0))
}

func TestPlaceStringAliasPriority(t *testing.T) {
	assert.Equal(t, "a", RawTimeBlock{Place: "a", Room: "b", Location: "c"}.PlaceString())
	assert.Equal(t, "b", RawTimeBlock{Room: "b", Location: "c"}.PlaceString())
	assert.Equal(t, "c", RawTimeBlock{Location: "c"}.PlaceString())
	assert.Equal(t, "", RawTimeBlock{}.PlaceString())
}

func TestKeyPrefersExplicitId(t *testing.T) {
	lec := RawLecture{ID: "abc123", CourseNumber: "M1522"}
	assert.Equal(t, "abc123", lec.Key())
}

func TestKeyCompositeFallback(t *testing.T) {
	var lec RawLecture
	err := json.Unmarshal([]byte(`{
		"course_number": "M1522.000900",
		"lecture_number": "001",
		"course_title": "Data Structures",
		"year": 2025,
		"semester": 3
	}`), &lec)
	assert.NoError(t, err)
	assert.Equal(t, "M1522.000900#001#Data Structures#2025#3", lec.Key())
}

func TestKeyFallsBackToAltTitleField(t *testing.T) {
	var lec RawLecture
	err := json.Unmarshal([]byte(`{"title": "Algorithms", "semester": "3"}`), &lec)
	assert.NoError(t, err)
	assert.Equal(t, "##Algorithms##3", lec.Key())
}

func TestSlimProjection(t *testing.T) {
	var lec RawLecture
	err := json.Unmarshal([]byte(`{
		"_id": "x",
		"title": "Algorithms",
		"instructor": "Lee",
		"department": "CSE",
		"course_number": "4190.407",
		"lecture_number": "002",
		"year": 2025,
		"semester": "3",
		"class_time_json": [{"day": 0, "place": "301-118", "startMinute": 540, "endMinute": 600}]
	}`), &lec)
	assert.NoError(t, err)

	slim := lec.Slim()
	assert.Equal(t, "Algorithms", slim.CourseTitle)
	assert.Equal(t, "Lee", slim.Instructor)
	assert.Equal(t, "4190.407", slim.CourseNumber)
	assert.Equal(t, "002", slim.LectureNumber)
	assert.Equal(t, 2025, slim.Year)
	assert.Equal(t, "3", slim.Semester)
	assert.Equal(t, 1, len(slim.ClassTimes))
}

func TestSlimPrefersCourseTitle(t *testing.T) {
	var lec RawLecture
	err := json.Unmarshal([]byte(`{"course_title": "Primary", "title": "Secondary"}`), &lec)
	assert.NoError(t, err)
	assert.Equal(t, "Primary", lec.Slim().CourseTitle)
}

func TestSlimLectureMarshalKeepsTimeBlocks(t *testing.T) {
	var lec RawLecture
	err := json.Unmarshal([]byte(`{
		"title": "t",
		"class_time_json": [{"day": 2, "start_time": "09:00", "end_time": "10:00", "place": "301-118"}]
	}`), &lec)
	assert.NoError(t, err)

	out, err := json.Marshal(lec.Slim())
	assert.NoError(t, err)

	var round struct {
		ClassTimes []RawTimeBlock `json:"class_time_json"`
	}
	assert.NoError(t, json.Unmarshal(out, &round))
	assert.Equal(t, 1, len(round.ClassTimes))
	assert.True(t, round.ClassTimes[0].Day.Is(2))
	assert.Equal(t, FlexString("09:00"), round.ClassTimes[0].StartTime)
	assert.Equal(t, FlexString("301-118"), round.ClassTimes[0].Place)
}

func TestPickArrayShapes(t *testing.T) {
	assert.Equal(t, 2, len(pickArray([]byte(`[{}, {}]`))))
	assert.Equal(t, 1, len(pickArray([]byte(`{"result": [{}]}`))))
	assert.Equal(t, 1, len(pickArray([]byte(`{"results": [{}]}`))))
	assert.Equal(t, 1, len(pickArray([]byte(`{"lectures": [{}]}`))))
	assert.Equal(t, 1, len(pickArray([]byte(`{"items": [{}]}`))))
	assert.Equal(t, 0, len(pickArray([]byte(`{"total": 3}`))))
	assert.Equal(t, 0, len(pickArray([]byte(`"just text"`))))
}

func TestPickArrayFirstKeyWins(t *testing.T) {
	arr := pickArray([]byte(`{"items": [{}, {}], "result": [{}]}`))
	assert.Equal(t, 1, len(arr))
}
