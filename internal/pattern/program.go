package pattern

import (
	"fmt"
	"io"
	"os"
)

// lineItem describes one repeating array: the key to iterate, the levels
// that reach it from the enclosing context, rules evaluated before a nested
// line item and rules evaluated after returning from it. Line items form a
// strict linear chain.
type lineItem struct {
	key       string
	preLevels []Level
	preRules  []Rule
	postRules []Rule
	child     *lineItem
}

// Options configures Compile.
type Options struct {
	// NullValue is emitted for fields that are missing, unreachable or
	// JSON null. Defaults to the empty string.
	NullValue string

	// Debug writes the reason for every null substitution and empty
	// branch to DebugWriter.
	Debug bool

	// DebugWriter defaults to os.Stderr.
	DebugWriter io.Writer
}

// Program is a compiled format string. It is immutable once built and safe
// to reuse across concurrent Extract calls.
type Program struct {
	rootRules []Rule
	chain     *lineItem
	tailRules []Rule

	nullValue string
	debug     bool
	debugW    io.Writer
}

// Compile parses a format string into an executable extraction program.
// Malformed input fails with an error wrapping ErrFormat.
func Compile(format string, opts Options) (*Program, error) {
	tokens, err := lex(format)
	if err != nil {
		return nil, err
	}

	p := &Program{
		nullValue: opts.NullValue,
		debug:     opts.Debug,
		debugW:    opts.DebugWriter,
	}
	if p.debugW == nil {
		p.debugW = os.Stderr
	}

	c := newCompiler(tokens, p)
	if err := c.run(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Program) debugf(format string, args ...any) {
	if !p.debug {
		return
	}
	fmt.Fprintf(p.debugW, "jtab: "+format+"\n", args...)
}
