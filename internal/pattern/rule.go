package pattern

import (
	"encoding/json"
	"strconv"
)

// Rule resolves one printed field: walk the levels bound at compile time,
// then read a terminal key from the object reached. A Rule never fails; any
// walk or lookup miss yields the program's null value.
type Rule struct {
	levels []Level
	key    string
}

func (r Rule) evaluate(p *Program, ctx any) string {
	cur := ctx
	for _, level := range r.levels {
		next, err := level.walk(cur)
		if err != nil {
			p.debugf("null for key %q: %v", r.key, err)
			return p.nullValue
		}
		cur = next
	}

	obj, ok := cur.(map[string]any)
	if !ok {
		p.debugf("null for key %q: landing value is not an object", r.key)
		return p.nullValue
	}

	value, ok := obj[r.key]
	if !ok {
		p.debugf("null for key %q: key is not present", r.key)
		return p.nullValue
	}
	if value == nil {
		p.debugf("null for key %q: value is null", r.key)
		return p.nullValue
	}

	return p.stringify(r.key, value)
}

// stringify renders a terminal value. Scalars keep their canonical literal
// form; compound values fall back to their compact JSON encoding.
func (p *Program) stringify(key string, value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		// Documents decoded without UseNumber.
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			p.debugf("null for key %q: value cannot be encoded: %v", key, err)
			return p.nullValue
		}
		return string(encoded)
	}
}
