package buffer

import "fmt"

// PointRange represents a range using line/column positions.
type PointRange struct {
	Start Point // Inclusive start position
	End   Point // Exclusive end position
}

// String returns a human-readable representation of the range.
func (r PointRange) String() string {
	return fmt.Sprintf("[%s:%s)", r.Start.String(), r.End.String())
}

// IsEmpty returns true if start equals end.
func (r PointRange) IsEmpty() bool {
	return r.Start.Compare(r.End) == 0
}

// IsValid returns true if start <= end.
func (r PointRange) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// LineCount returns the number of lines the range touches.
func (r PointRange) LineCount() int {
	return r.End.Line - r.Start.Line + 1
}

// Normalize returns the range with Start <= End.
func (r PointRange) Normalize() PointRange {
	if r.End.Before(r.Start) {
		return PointRange{Start: r.End, End: r.Start}
	}
	return r
}

// EditResult contains information about an applied edit.
type EditResult struct {
	OldRange    PointRange // Range that was replaced
	NewRange    PointRange // Range covered by the inserted text
	OldText     string     // Text that was removed
	FullReplace bool       // Document was rebuilt wholesale
	Revision    RevisionID // Revision after the edit
}
