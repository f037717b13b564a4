package tabular

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey indicates a join field value occurs on more than one
	// row of the same data set, which a 1:1 join cannot represent. Use
	// MultiJoin when duplicates are expected.
	ErrDuplicateKey = errors.New("duplicate value in join field")

	// ErrFieldRange indicates a join or duplicate field index that is out
	// of range for some row.
	ErrFieldRange = errors.New("field index out of range")
)

// JoinResult groups the outcome of a join: rows matched on both sides, and
// the rows seen on only one side.
type JoinResult struct {
	Combined  []Row
	OnlyLeft  []Row
	OnlyRight []Row
}

// Join merges two row sets on a common field value, 1:1. A combined row is
// the left row followed by the right row with its join column removed.
// Unmatched rows are reported in OnlyLeft/OnlyRight in input order. A
// repeated join field value on either side fails with ErrDuplicateKey.
func Join(left []Row, leftField int, right []Row, rightField int) (*JoinResult, error) {
	leftByKey := make(map[string]Row, len(left))
	for _, row := range left {
		key, err := fieldValue(row, leftField)
		if err != nil {
			return nil, err
		}
		if _, exists := leftByKey[key]; exists {
			return nil, fmt.Errorf("%w %d of left data set: %q", ErrDuplicateKey, leftField, key)
		}
		leftByKey[key] = row.Clone()
	}

	matched := make(map[string]bool, len(left))
	rightKeys := make(map[string]bool, len(right))

	result := &JoinResult{}
	for _, row := range right {
		key, err := fieldValue(row, rightField)
		if err != nil {
			return nil, err
		}
		if rightKeys[key] {
			return nil, fmt.Errorf("%w %d of right data set: %q", ErrDuplicateKey, rightField, key)
		}
		rightKeys[key] = true

		leftRow, ok := leftByKey[key]
		if !ok {
			result.OnlyRight = append(result.OnlyRight, row.Clone())
			continue
		}
		matched[key] = true
		result.Combined = append(result.Combined, combineRows(leftRow, row, rightField))
	}

	// Left input order, not map order, so results are reproducible.
	for _, row := range left {
		key, _ := fieldValue(row, leftField)
		if !matched[key] {
			result.OnlyLeft = append(result.OnlyLeft, row.Clone())
		}
	}

	return result, nil
}

// MultiJoin merges two row sets on a common field value, tolerating repeated
// keys on both sides by emitting the cross product of each matching group.
// Combined rows are emitted left-major: left rows in input order, each
// crossed with its matching right rows in input order.
func MultiJoin(left []Row, leftField int, right []Row, rightField int) (*JoinResult, error) {
	rightByKey := make(map[string][]Row, len(right))
	result := &JoinResult{}

	for _, row := range right {
		key, err := fieldValue(row, rightField)
		if err != nil {
			return nil, err
		}
		rightByKey[key] = append(rightByKey[key], row.Clone())
	}

	leftKeys := make(map[string]bool, len(left))
	for _, row := range left {
		key, err := fieldValue(row, leftField)
		if err != nil {
			return nil, err
		}
		leftKeys[key] = true

		group, ok := rightByKey[key]
		if !ok {
			result.OnlyLeft = append(result.OnlyLeft, row.Clone())
			continue
		}
		for _, rightRow := range group {
			result.Combined = append(result.Combined, combineRows(row, rightRow, rightField))
		}
	}

	for _, row := range right {
		key, _ := fieldValue(row, rightField)
		if !leftKeys[key] {
			result.OnlyRight = append(result.OnlyRight, row.Clone())
		}
	}

	return result, nil
}

// combineRows appends right (minus its join column) to a copy of left.
func combineRows(left, right Row, rightField int) Row {
	combined := make(Row, 0, len(left)+len(right)-1)
	combined = append(combined, left...)
	combined = append(combined, right[:rightField]...)
	combined = append(combined, right[rightField+1:]...)
	return combined
}

func fieldValue(row Row, field int) (string, error) {
	if field < 0 || field >= len(row) {
		return "", fmt.Errorf("%w: %d (row has %d fields)", ErrFieldRange, field, len(row))
	}
	return row[field], nil
}
