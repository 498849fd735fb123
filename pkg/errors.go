package evoked

import "fmt"

// ErrEmptySelection is returned when an operation needs at least one segment
// and the selection has none.
type ErrEmptySelection struct {
	Op string
}

func (e *ErrEmptySelection) Error() string {
	return fmt.Sprintf("%s: empty segment selection", e.Op)
}

// ErrUnknownCondition is returned when a condition query matches nothing.
type ErrUnknownCondition struct {
	Key   string
	Known []string
}

func (e *ErrUnknownCondition) Error() string {
	return fmt.Sprintf("unknown condition %q (known conditions: %v)", e.Key, e.Known)
}

// ErrIndexOutOfRange is returned for a bare positional index outside the
// segment set bounds. Range selections clip instead.
type ErrIndexOutOfRange struct {
	Index  int
	Length int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("segment index %d out of range for %d segments", e.Index, e.Length)
}

// ErrDimensionMismatch is returned when combining responses whose shapes or
// weight vectors do not line up.
type ErrDimensionMismatch struct {
	Want string
	Got  string
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: want %s, got %s", e.Want, e.Got)
}

// ErrInsufficientData is returned when a cross-validation split is missing a
// class present in the full label set, which would make fit/score ill-defined.
type ErrInsufficientData struct {
	Split int
	Label int
}

func (e *ErrInsufficientData) Error() string {
	return fmt.Sprintf("split %d is missing label %d", e.Split, e.Label)
}
