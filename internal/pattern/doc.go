// Package pattern compiles format strings into extraction programs and
// evaluates them against decoded JSON documents.
//
// A format string describes which keys to print and how to reach them:
//
//   - "key"                  print the value of key at the current level
//   - ."key"[ ... ]          descend into the map held by key
//   - /"key"["k"="v" ... ]   descend into the list of maps held by key and
//     select the first element whose k equals v
//   - +"key"[ ... ]          iterate the array held by key; every element of
//     the innermost line item produces one output row
//   - ]                      return to the previous level
//
// Commas and whitespace separate items and are otherwise ignored, and `#`
// starts a comment running to the end of the line, so format strings can be
// written multi-line and annotated. Keys are case sensitive and always
// double-quoted, with no escape syntax.
//
// Keys print in the order they appear, left to right: keys before the first
// line item repeat at the start of every row, keys after a closed line item
// are appended to every row produced inside it. Line items nest but form a
// single chain; once a line item closes, no further line item may open. A
// format string without line items produces exactly one row.
//
// Example, against {"Data": {"Instances": [...]}}:
//
//	."Data"[
//	    +"Instances"[
//	        "hostname",                          # one row per instance
//	        /"attrs"["key"="role" "value"],      # value of the role attr
//	        ."Performance"[ "cpus", "memory" ]
//	    ]
//	]
//
// Values that are missing, unreachable or JSON null are printed as the
// configured null value (empty string by default); a Rule never aborts an
// extraction.
package pattern
