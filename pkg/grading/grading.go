// Package grading maps exam marks to letter grades and grade points.
package grading

import (
	"math"
	"strconv"
)

// Letter grades ordered from highest to lowest.
const (
	GradeAPlus  = "A+"
	GradeA      = "A"
	GradeAMinus = "A-"
	GradeB      = "B"
	GradeC      = "C"
	GradeD      = "D"
	GradeF      = "F"
)

// Supported maximum-mark scales.
const (
	MaxMarks50  = 50
	MaxMarks100 = 100

	DefaultMaxMarks = MaxMarks100
)

// Band is a lower-bound threshold of a grading scale.
type Band struct {
	Min   float64
	Grade string
	GPA   float64
}

// Scale is an ordered (descending) set of bands for a maximum-mark value.
type Scale struct {
	MaxMarks int
	Bands    []Band
	PassMark float64
}

// Result is the derived grade for a single mark.
type Result struct {
	Grade string  `json:"grade"`
	GPA   float64 `json:"gpa"`
}

// Entry is one subject result considered by OverallGPA.
type Entry struct {
	Marks    float64 `json:"marks"`
	MaxMarks int     `json:"max_marks"`
}

var (
	// Scale100 is the canonical 100-mark scale.
	Scale100 = Scale{
		MaxMarks: MaxMarks100,
		PassMark: 33,
		Bands: []Band{
			{Min: 80, Grade: GradeAPlus, GPA: 5.0},
			{Min: 70, Grade: GradeA, GPA: 4.0},
			{Min: 60, Grade: GradeAMinus, GPA: 3.5},
			{Min: 50, Grade: GradeB, GPA: 3.0},
			{Min: 40, Grade: GradeC, GPA: 2.0},
			{Min: 33, Grade: GradeD, GPA: 1.0},
		},
	}

	// Scale50 applies to subjects examined out of 50.
	Scale50 = Scale{
		MaxMarks: MaxMarks50,
		PassMark: 17,
		Bands: []Band{
			{Min: 40, Grade: GradeAPlus, GPA: 5.0},
			{Min: 35, Grade: GradeA, GPA: 4.0},
			{Min: 30, Grade: GradeAMinus, GPA: 3.5},
			{Min: 25, Grade: GradeB, GPA: 3.0},
			{Min: 20, Grade: GradeC, GPA: 2.0},
			{Min: 17, Grade: GradeD, GPA: 1.0},
		},
	}

	failing = Result{Grade: GradeF, GPA: 0.0}
)

// Grades lists every grade the engine can produce.
var Grades = []string{GradeAPlus, GradeA, GradeAMinus, GradeB, GradeC, GradeD, GradeF}

// ScaleFor selects the scale for maxMarks. Anything other than 50 uses the 100-mark scale.
func ScaleFor(maxMarks int) Scale {
	if maxMarks == MaxMarks50 {
		return Scale50
	}
	return Scale100
}

// IsSupportedMaxMarks reports whether maxMarks has a dedicated scale.
func IsSupportedMaxMarks(maxMarks int) bool {
	return maxMarks == MaxMarks50 || maxMarks == MaxMarks100
}

// Grade evaluates the bands top-down; the first band whose lower bound is met wins.
func (s Scale) Grade(marks float64) Result {
	for _, band := range s.Bands {
		if marks >= band.Min {
			return Result{Grade: band.Grade, GPA: band.GPA}
		}
	}
	return failing
}

// Calculate returns the grade and grade point for marks on the maxMarks scale.
// Marks are not range checked.
func Calculate(marks float64, maxMarks int) Result {
	return ScaleFor(maxMarks).Grade(marks)
}

// OverallGPA averages the grade points of entries. It returns 0 for no entries.
func OverallGPA(entries []Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var total float64
	for _, entry := range entries {
		total += Calculate(entry.Marks, entry.MaxMarks).GPA
	}
	return total / float64(len(entries))
}

// IsPassing reports whether marks reach the pass mark of the maxMarks scale.
func IsPassing(marks float64, maxMarks int) bool {
	return marks >= ScaleFor(maxMarks).PassMark
}

// FormatMarks renders marks for display, appending the maximum for non 100-mark subjects.
func FormatMarks(marks float64, maxMarks int) string {
	value := strconv.FormatFloat(marks, 'f', -1, 64)
	if maxMarks == MaxMarks100 || maxMarks == 0 {
		return value
	}
	return value + "/" + strconv.Itoa(maxMarks)
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
