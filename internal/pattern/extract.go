package pattern

import (
	"slices"

	"github.com/jacoelho/jtab/internal/tabular"
)

// Extract walks a decoded JSON document against the program and returns one
// row per innermost line item element, in document order: outer arrays major,
// depth first. A program without line items yields exactly one row.
//
// Extract never fails: unreachable rule targets become the null value, and a
// line item whose iteration key is absent or not an array contributes zero
// rows for that branch.
func (p *Program) Extract(doc any) []tabular.Row {
	base := p.evaluateRules(p.rootRules, doc)

	if p.chain == nil {
		row := append(base, p.evaluateRules(p.tailRules, doc)...)
		return []tabular.Row{row}
	}

	rows := p.followChain(doc, p.chain, base)
	if len(p.tailRules) > 0 && len(rows) > 0 {
		tail := p.evaluateRules(p.tailRules, doc)
		for i := range rows {
			rows[i] = append(rows[i], tail...)
		}
	}
	return rows
}

// followChain iterates the array at item.key, emitting rows depth first. The
// pre rules of every enclosing line item have already been evaluated into
// existing; this call never mutates it.
func (p *Program) followChain(ctx any, item *lineItem, existing tabular.Row) []tabular.Row {
	cur := ctx
	for _, level := range item.preLevels {
		next, err := level.walk(cur)
		if err != nil {
			p.debugf("no rows for line item %q: %v", item.key, err)
			return nil
		}
		cur = next
	}

	obj, ok := cur.(map[string]any)
	if !ok {
		p.debugf("no rows for line item %q: enclosing value is not an object", item.key)
		return nil
	}
	list, ok := obj[item.key].([]any)
	if !ok {
		p.debugf("no rows for line item %q: key is absent or not an array", item.key)
		return nil
	}

	var rows []tabular.Row
	for _, element := range list {
		if item.child == nil {
			// Innermost: pre and post rules are concatenated, there
			// is no nested content to separate them.
			row := slices.Clone(existing)
			row = append(row, p.evaluateRules(item.preRules, element)...)
			row = append(row, p.evaluateRules(item.postRules, element)...)
			rows = append(rows, row)
			continue
		}

		these := slices.Clone(existing)
		these = append(these, p.evaluateRules(item.preRules, element)...)

		childRows := p.followChain(element, item.child, these)
		if len(item.postRules) > 0 && len(childRows) > 0 {
			post := p.evaluateRules(item.postRules, element)
			for i := range childRows {
				childRows[i] = append(childRows[i], post...)
			}
		}
		rows = append(rows, childRows...)
	}
	return rows
}

func (p *Program) evaluateRules(rules []Rule, ctx any) tabular.Row {
	if len(rules) == 0 {
		return nil
	}
	fields := make(tabular.Row, 0, len(rules))
	for _, rule := range rules {
		fields = append(fields, rule.evaluate(p, ctx))
	}
	return fields
}
