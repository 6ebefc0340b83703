package cull

import "github.com/Carmen-Shannon/oxy-cull/engine/light"

// Category is a (light model, volume type) pair. Every culled volume
// belongs to exactly one.
type Category struct {
	Model  light.LightModel
	Volume light.VolumeType
}

// Index returns the category's position in the fixed model-major,
// type-minor ordering.
func (c Category) Index() int {
	return int(c.Model)*light.NumVolumeTypes + int(c.Volume)
}

// valid reports whether both components are in range.
func (c Category) valid() bool {
	return c.Model < light.NumLightModels && c.Volume < light.NumVolumeTypes
}

// CategoryRange is the contiguous slot range of one category in the packed
// light arrays.
type CategoryRange struct {
	Count  int
	Offset int
}

// CategoryOffsetTable maps each category to its slot range. Ranges follow
// the fixed category ordering, are contiguous and non-overlapping, and sum
// to the packed volume count.
type CategoryOffsetTable struct {
	ranges [light.NumLightModels][light.NumVolumeTypes]CategoryRange
}

// newCategoryOffsetTable prefix-sums per-category counts in category order.
func newCategoryOffsetTable(counts *[light.NumLightModels][light.NumVolumeTypes]int) CategoryOffsetTable {
	var t CategoryOffsetTable
	offset := 0
	for m := range light.NumLightModels {
		for v := range light.NumVolumeTypes {
			t.ranges[m][v] = CategoryRange{Count: counts[m][v], Offset: offset}
			offset += counts[m][v]
		}
	}
	return t
}

// Range returns the slot range of a category.
//
// Parameters:
//   - c: the category
//
// Returns:
//   - CategoryRange: count and base offset
func (t *CategoryOffsetTable) Range(c Category) CategoryRange {
	return t.ranges[c.Model][c.Volume]
}

// Slot returns the packed array slot of the i-th volume of a category.
//
// Parameters:
//   - c: the category
//   - i: running index within the category
//
// Returns:
//   - int: offset[c] + i
func (t *CategoryOffsetTable) Slot(c Category, i int) int {
	return t.ranges[c.Model][c.Volume].Offset + i
}

// ModelRange returns the slot range covering all volume types of a model.
// Model ranges are contiguous because the ordering is model-major.
//
// Parameters:
//   - m: the light model
//
// Returns:
//   - offset: first slot of the model
//   - count: number of slots
func (t *CategoryOffsetTable) ModelRange(m light.LightModel) (offset, count int) {
	offset = t.ranges[m][0].Offset
	for v := range light.NumVolumeTypes {
		count += t.ranges[m][v].Count
	}
	return offset, count
}

// Total returns the number of packed volumes.
func (t *CategoryOffsetTable) Total() int {
	last := t.ranges[light.NumLightModels-1][light.NumVolumeTypes-1]
	return last.Offset + last.Count
}
