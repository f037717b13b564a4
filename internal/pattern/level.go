package pattern

import "fmt"

type levelKind int

const (
	levelMap levelKind = iota
	levelListMap
)

// Level is one navigation step between the current object and the next:
// either a plain map-key descent or a search through a list of maps for the
// first element carrying a given key/value pair. Levels are immutable after
// compilation.
type Level struct {
	kind       levelKind
	key        string
	matchKey   string // list-map only
	matchValue string // list-map only
}

func mapLevel(key string) Level {
	return Level{kind: levelMap, key: key}
}

func listMapLevel(key, matchKey, matchValue string) Level {
	return Level{kind: levelListMap, key: key, matchKey: matchKey, matchValue: matchValue}
}

func (l Level) String() string {
	if l.kind == levelListMap {
		return fmt.Sprintf("/%q[%q=%q", l.key, l.matchKey, l.matchValue)
	}
	return fmt.Sprintf(".%q", l.key)
}

// walk descends one level from cur. The returned error is a data-shape
// mismatch, never a program failure; rule evaluation converts it to the null
// value and the extraction engine treats it as an empty branch.
func (l Level) walk(cur any) (any, error) {
	obj, ok := cur.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("level %s: current value is not an object", l)
	}

	value, ok := obj[l.key]
	if !ok {
		return nil, fmt.Errorf("level %s: key is not present", l)
	}

	switch l.kind {
	case levelMap:
		next, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("level %s: key does not hold an object", l)
		}
		return next, nil

	case levelListMap:
		list, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("level %s: key does not hold an array", l)
		}
		// First match wins, in array order.
		for _, element := range list {
			candidate, ok := element.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("level %s: array contains a non-object element", l)
			}
			if s, ok := candidate[l.matchKey].(string); ok && s == l.matchValue {
				return candidate, nil
			}
		}
		return nil, fmt.Errorf("level %s: no element matched", l)

	default:
		return nil, fmt.Errorf("level %s: unknown level kind %d", l, l.kind)
	}
}
