package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.IsEmpty() {
		t.Errorf("IsEmpty failed: new box should be empty")
	}

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	if bbox.IsEmpty() {
		t.Errorf("IsEmpty failed: extended box should not be empty")
	}
	if bbox.Min != NewVector3(-1, 0, 2) {
		t.Errorf("Min failed: got %v", bbox.Min)
	}
	if bbox.Max != NewVector3(4, 5, 6) {
		t.Errorf("Max failed: got %v", bbox.Max)
	}
}

func TestBoundingBoxContainsAndExpand(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 10, 10))

	if !bbox.Contains(NewVector3(10, 5, 0)) {
		t.Errorf("Contains failed: boundary point should be inside")
	}
	if bbox.Contains(NewVector3(11, 5, 0)) {
		t.Errorf("Contains failed: outside point reported inside")
	}
	if !bbox.Expand(1).Contains(NewVector3(11, 5, 0)) {
		t.Errorf("Expand failed: grown box should contain point")
	}
	if math.Abs(bbox.Diagonal()-math.Sqrt(300)) > 1e-10 {
		t.Errorf("Diagonal failed: got %v", bbox.Diagonal())
	}
}
