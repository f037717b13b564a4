package tabular

// FindDuplicates groups rows whose value in the given field occurs more than
// once. The result maps each duplicated value to copies of its rows, in input
// order. Values occurring once are omitted.
func FindDuplicates(rows []Row, field int) (map[string][]Row, error) {
	byKey, keys, err := groupIndexes(rows, field)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]Row)
	for _, key := range keys {
		indexes := byKey[key]
		if len(indexes) <= 1 {
			continue
		}
		copies := make([]Row, 0, len(indexes))
		for _, idx := range indexes {
			copies = append(copies, rows[idx].Clone())
		}
		result[key] = copies
	}
	return result, nil
}

// FindDuplicatesFlat is FindDuplicates returning a flat list instead of a
// map. Rows sharing a duplicated value are adjacent; groups appear in order
// of the value's first occurrence.
func FindDuplicatesFlat(rows []Row, field int) ([]Row, error) {
	byKey, keys, err := groupIndexes(rows, field)
	if err != nil {
		return nil, err
	}

	var result []Row
	for _, key := range keys {
		indexes := byKey[key]
		if len(indexes) <= 1 {
			continue
		}
		for _, idx := range indexes {
			result = append(result, rows[idx].Clone())
		}
	}
	return result, nil
}

// groupIndexes buckets row indexes by field value, remembering first-seen
// key order so callers produce deterministic output.
func groupIndexes(rows []Row, field int) (map[string][]int, []string, error) {
	byKey := make(map[string][]int)
	var keys []string

	for i, row := range rows {
		value, err := fieldValue(row, field)
		if err != nil {
			return nil, nil, err
		}
		if _, seen := byKey[value]; !seen {
			keys = append(keys, value)
		}
		byKey[value] = append(byKey[value], i)
	}
	return byKey, keys, nil
}
