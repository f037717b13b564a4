// Package tabular holds extracted row data and the operations that consume
// it: delimited-text serialization, equi-joins and duplicate detection.
package tabular

import "slices"

// Row is one line of extracted output, one string per printed field.
type Row []string

// Clone returns a copy that shares no backing storage with r.
func (r Row) Clone() Row {
	return slices.Clone(r)
}
