package lightcurve

import (
	"errors"
	"reflect"
	"testing"

	"lcfit/domain/core"
)

func TestMask_UnionIsMonotoneAndImmutable(t *testing.T) {
	m := NewMask(5)
	if m.OutlierCount() != 0 {
		t.Fatalf("Fresh mask has %d outliers", m.OutlierCount())
	}

	m2 := m.Union([]int{1, 3})
	if m.OutlierCount() != 0 {
		t.Error("Union mutated the original mask")
	}
	if !reflect.DeepEqual(m2.Indices(), []int{1, 3}) {
		t.Errorf("Union indices = %v, want [1 3]", m2.Indices())
	}

	// Re-adding already masked rows keeps the set unchanged.
	m3 := m2.Union([]int{3})
	if !reflect.DeepEqual(m3.Indices(), []int{1, 3}) {
		t.Errorf("Union with subset changed indices: %v", m3.Indices())
	}
	if !m3.ContainsAll([]int{1, 3}) {
		t.Error("ContainsAll false for masked rows")
	}
	if m3.ContainsAll([]int{1, 2}) {
		t.Error("ContainsAll true for an unmasked row")
	}
	if m3.InlierCount() != 3 {
		t.Errorf("InlierCount = %d, want 3", m3.InlierCount())
	}
}

func TestMask_ReplaceReadmitsRows(t *testing.T) {
	m := MaskFromIndices(4, []int{0, 2})
	m2 := m.Replace([]int{2})

	if !reflect.DeepEqual(m2.Indices(), []int{2}) {
		t.Errorf("Replace indices = %v, want [2]", m2.Indices())
	}
	if m2.Len() != 4 {
		t.Errorf("Replace changed mask length: %d", m2.Len())
	}
	if m2.IsOutlier(0) {
		t.Error("Row 0 should have been re-admitted")
	}
}

func TestMask_ValidateLengthInvariant(t *testing.T) {
	d := Dataset{Observations: make([]Observation, 3)}
	if err := NewMask(3).Validate(d); err != nil {
		t.Errorf("Unexpected error for matching lengths: %v", err)
	}
	err := NewMask(2).Validate(d)
	if !errors.Is(err, core.ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestDataset_InlierOutlierSplit(t *testing.T) {
	d := Dataset{Observations: []Observation{
		{Time: 0, Mag: 1},
		{Time: 1, Mag: 2},
		{Time: 2, Mag: 3},
	}}
	m := MaskFromIndices(3, []int{1})

	in := d.Inliers(m)
	out := d.Outliers(m)
	if len(in) != 2 || len(out) != 1 {
		t.Fatalf("Split sizes = %d/%d, want 2/1", len(in), len(out))
	}
	if out[0].Mag != 2 {
		t.Errorf("Wrong outlier row: %+v", out[0])
	}
	if in[0].Mag != 1 || in[1].Mag != 3 {
		t.Errorf("Wrong inlier rows: %+v", in)
	}
}

func TestDataset_ColumnsAreCopies(t *testing.T) {
	d := Dataset{Observations: []Observation{{Time: 1, Mag: 5}}}
	times := d.Times()
	times[0] = 99
	if d.Observations[0].Time != 1 {
		t.Error("Times returned a view into the dataset")
	}
}
