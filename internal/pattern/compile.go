package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jacoelho/jtab/internal/stack"
)

// compiler is a single left-to-right pass over the token slice. It keeps the
// in-progress navigation context and the open line items on two stacks, and
// routes printed keys to whichever rule list is active: the program's root
// rules, an open line item's pre or post rules, or the program's tail rules.
type compiler struct {
	tokens  []token
	pos     int
	program *Program

	levels      *stack.Stack[Level]
	open        *stack.Stack[*lineItem]
	rules       *[]Rule
	chainClosed bool
}

func newCompiler(tokens []token, p *Program) *compiler {
	c := &compiler{
		tokens:  tokens,
		program: p,
		levels:  stack.New[Level](),
		open:    stack.New[*lineItem](),
	}
	c.rules = &p.rootRules
	return c
}

func (c *compiler) run() error {
	for {
		tok := c.next()
		switch tok.typ {
		case tokenEOF:
			return c.finish()

		case tokenDot:
			if err := c.compileMapDescent(); err != nil {
				return err
			}

		case tokenSlash:
			if err := c.compileListMapDescent(); err != nil {
				return err
			}

		case tokenPlus:
			if err := c.compileLineItem(tok); err != nil {
				return err
			}

		case tokenRBracket:
			if err := c.compileClose(tok); err != nil {
				return err
			}

		case tokenKey:
			// A bare key prints a field, bound to a snapshot of the
			// current navigation context.
			rule := Rule{levels: c.levels.ToSlice(), key: tok.literal}
			*c.rules = append(*c.rules, rule)

		default:
			return formatError("unexpected %s at position %d", tok.typ, tok.pos)
		}
	}
}

// compileMapDescent handles `."key"[`.
func (c *compiler) compileMapDescent() error {
	key, err := c.expect(tokenKey, `"."`)
	if err != nil {
		return err
	}
	if _, err := c.expect(tokenLBracket, fmt.Sprintf("descent into map %q", key.literal)); err != nil {
		return err
	}

	c.levels.Push(mapLevel(key.literal))
	return nil
}

// compileListMapDescent handles `/"key"["matchKey"="matchValue"`, with an
// optional extra `[` closing the comparison.
func (c *compiler) compileListMapDescent() error {
	key, err := c.expect(tokenKey, `"/"`)
	if err != nil {
		return err
	}
	if _, err := c.expect(tokenLBracket, fmt.Sprintf("descent into list-of-maps %q", key.literal)); err != nil {
		return err
	}
	matchKey, err := c.expect(tokenKey, fmt.Sprintf("list-of-maps %q comparison", key.literal))
	if err != nil {
		return err
	}
	if _, err := c.expect(tokenEquals, fmt.Sprintf("match key %q in list-of-maps %q", matchKey.literal, key.literal)); err != nil {
		return err
	}
	matchValue, err := c.expect(tokenKey, fmt.Sprintf("%q= in list-of-maps %q", matchKey.literal, key.literal))
	if err != nil {
		return err
	}

	// The bracket closing the comparison is implicit; accept it if written.
	if c.peek().typ == tokenLBracket {
		c.next()
	}

	c.levels.Push(listMapLevel(key.literal, matchKey.literal, matchValue.literal))
	return nil
}

// compileLineItem handles `+"key"[`: the levels accumulated so far become
// the new line item's preLevels and subsequent rules go to its preRules.
func (c *compiler) compileLineItem(plus token) error {
	key, err := c.expect(tokenKey, `"+"`)
	if err != nil {
		return err
	}
	if c.chainClosed {
		return formatError("line item %q at position %d: cannot open a line item after a previous one has closed", key.literal, plus.pos)
	}
	if _, err := c.expect(tokenLBracket, fmt.Sprintf("line item %q", key.literal)); err != nil {
		return err
	}

	item := &lineItem{key: key.literal, preLevels: c.levels.ToSlice()}
	c.levels = stack.New[Level]()

	if parent, ok := c.open.Peek(); ok {
		parent.child = item
	} else {
		c.program.chain = item
	}
	c.open.Push(item)
	c.rules = &item.preRules
	return nil
}

// compileClose handles `]`: pop a navigation level if one is open, otherwise
// close the innermost line item and route rules to its parent's postRules
// (or the program's tail rules).
func (c *compiler) compileClose(tok token) error {
	if !c.levels.IsEmpty() {
		c.levels.Pop()
		return nil
	}

	item, ok := c.open.Pop()
	if !ok {
		return formatError(`"]" at position %d does not close anything`, tok.pos)
	}

	// Restore the navigation context in effect before the line item opened.
	c.levels = stack.New[Level]()
	c.levels.Push(item.preLevels...)
	c.chainClosed = true

	if parent, ok := c.open.Peek(); ok {
		c.rules = &parent.postRules
	} else {
		c.rules = &c.program.tailRules
	}
	return nil
}

func (c *compiler) finish() error {
	if !c.levels.IsEmpty() {
		top, _ := c.levels.Peek()
		return formatError("unterminated bracket: %d open level(s), closest is %s", c.levels.Size(), top)
	}
	if !c.open.IsEmpty() {
		keys := make([]string, 0, c.open.Size())
		for _, item := range c.open.ToSlice() {
			keys = append(keys, strconv.Quote(item.key))
		}
		return formatError("unterminated line item(s): %s still open", strings.Join(keys, ", "))
	}
	return nil
}

func (c *compiler) next() token {
	tok := c.tokens[c.pos]
	if tok.typ != tokenEOF {
		c.pos++
	}
	return tok
}

func (c *compiler) peek() token {
	return c.tokens[c.pos]
}

func (c *compiler) expect(typ tokenType, context string) (token, error) {
	tok := c.next()
	if tok.typ != typ {
		return token{}, formatError("expected %s after %s at position %d, got %s", typ, context, tok.pos, tok.typ)
	}
	return tok, nil
}
