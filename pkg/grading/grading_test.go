package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHundredMarkBoundaries(t *testing.T) {
	cases := []struct {
		marks float64
		grade string
		gpa   float64
	}{
		{100, GradeAPlus, 5.0},
		{80, GradeAPlus, 5.0},
		{79, GradeA, 4.0},
		{79.99, GradeA, 4.0},
		{70, GradeA, 4.0},
		{69, GradeAMinus, 3.5},
		{60, GradeAMinus, 3.5},
		{59, GradeB, 3.0},
		{50, GradeB, 3.0},
		{49, GradeC, 2.0},
		{40, GradeC, 2.0},
		{39, GradeD, 1.0},
		{33, GradeD, 1.0},
		{32.5, GradeF, 0.0},
		{0, GradeF, 0.0},
	}
	for _, tc := range cases {
		got := Calculate(tc.marks, MaxMarks100)
		assert.Equal(t, tc.grade, got.Grade, "marks %v", tc.marks)
		assert.Equal(t, tc.gpa, got.GPA, "marks %v", tc.marks)
	}
}

func TestCalculateFiftyMarkBoundaries(t *testing.T) {
	cases := []struct {
		marks float64
		grade string
		gpa   float64
	}{
		{50, GradeAPlus, 5.0},
		{40, GradeAPlus, 5.0},
		{39, GradeA, 4.0},
		{35, GradeA, 4.0},
		{34, GradeAMinus, 3.5},
		{30, GradeAMinus, 3.5},
		{29, GradeB, 3.0},
		{25, GradeB, 3.0},
		{24, GradeC, 2.0},
		{20, GradeC, 2.0},
		{19, GradeD, 1.0},
		{17, GradeD, 1.0},
		{16, GradeF, 0.0},
	}
	for _, tc := range cases {
		got := Calculate(tc.marks, MaxMarks50)
		assert.Equal(t, Result{Grade: tc.grade, GPA: tc.gpa}, got, "marks %v", tc.marks)
	}
}

func TestCalculateUnknownScaleFallsBackToHundred(t *testing.T) {
	assert.Equal(t, Calculate(45, MaxMarks100), Calculate(45, 75))
	assert.Equal(t, Calculate(45, MaxMarks100), Calculate(45, 0))
	assert.Equal(t, Result{Grade: GradeC, GPA: 2.0}, Calculate(45, 75))
}

func TestCalculateOutOfRangeMarks(t *testing.T) {
	assert.Equal(t, GradeF, Calculate(-10, MaxMarks100).Grade)
	assert.Equal(t, GradeAPlus, Calculate(120, MaxMarks100).Grade)
	assert.Equal(t, GradeAPlus, Calculate(75, MaxMarks50).Grade)
}

func TestCalculateIsMonotonic(t *testing.T) {
	allowedGrades := map[string]bool{}
	for _, g := range Grades {
		allowedGrades[g] = true
	}
	allowedGPA := map[float64]bool{5.0: true, 4.0: true, 3.5: true, 3.0: true, 2.0: true, 1.0: true, 0.0: true}

	for _, maxMarks := range []int{MaxMarks50, MaxMarks100} {
		prev := -1.0
		for m := -5.0; m <= float64(maxMarks)+5; m += 0.25 {
			got := Calculate(m, maxMarks)
			assert.True(t, allowedGrades[got.Grade], "unexpected grade %s", got.Grade)
			assert.True(t, allowedGPA[got.GPA], "unexpected gpa %v", got.GPA)
			assert.GreaterOrEqual(t, got.GPA, prev, "gpa decreased at %v/%d", m, maxMarks)
			prev = got.GPA
		}
	}
}

func TestOverallGPA(t *testing.T) {
	assert.Equal(t, 0.0, OverallGPA(nil))
	assert.Equal(t, 0.0, OverallGPA([]Entry{}))
	// 85/100 sits in the A+ band, so both subjects carry 5.0.
	assert.Equal(t, 5.0, OverallGPA([]Entry{{Marks: 85, MaxMarks: 100}, {Marks: 45, MaxMarks: 50}}))
	assert.Equal(t, 4.5, OverallGPA([]Entry{{Marks: 75, MaxMarks: 100}, {Marks: 45, MaxMarks: 50}}))
	assert.InDelta(t, 3.5, OverallGPA([]Entry{{Marks: 72, MaxMarks: 100}, {Marks: 62, MaxMarks: 100}, {Marks: 27, MaxMarks: 50}}), 0.0001)
}

func TestIsPassing(t *testing.T) {
	assert.True(t, IsPassing(33, MaxMarks100))
	assert.False(t, IsPassing(32, MaxMarks100))
	assert.True(t, IsPassing(17, MaxMarks50))
	assert.False(t, IsPassing(16.5, MaxMarks50))
}

func TestFormatMarks(t *testing.T) {
	assert.Equal(t, "85", FormatMarks(85, MaxMarks100))
	assert.Equal(t, "45/50", FormatMarks(45, MaxMarks50))
	assert.Equal(t, "42.5/50", FormatMarks(42.5, MaxMarks50))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.17, Round2(3.16666))
	assert.Equal(t, 4.5, Round2(4.5))
	assert.Equal(t, 0.0, Round2(0))
}
