package tabular

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultSeparator is the field separator used when Options leaves it empty.
	DefaultSeparator = ","

	// DefaultLineSeparator is CRLF per RFC 4180. Callers commonly override
	// it with "\n".
	DefaultLineSeparator = "\r\n"
)

// ErrInvalidQuoteMode indicates an unknown quoting mode name.
var ErrInvalidQuoteMode = errors.New("quoting must be one of: smart, never, always")

// QuoteMode selects how fields are quoted during serialization.
type QuoteMode int

const (
	// QuoteSmart scans the whole data set once; if any field contains the
	// separator or a CR/LF character, every field is quoted as in
	// QuoteAlways, otherwise none are.
	QuoteSmart QuoteMode = iota

	// QuoteNever performs no quoting or escaping. Output is lossy if a
	// field contains the separator or a newline.
	QuoteNever

	// QuoteAlways wraps every field in double quotes and doubles embedded
	// double quotes (RFC 4180 escaping).
	QuoteAlways
)

func (m QuoteMode) String() string {
	switch m {
	case QuoteNever:
		return "never"
	case QuoteAlways:
		return "always"
	case QuoteSmart:
		return "smart"
	default:
		return fmt.Sprintf("QuoteMode(%d)", int(m))
	}
}

// ParseQuoteMode maps a mode name to a QuoteMode. The empty string selects
// QuoteSmart.
func ParseQuoteMode(input string) (QuoteMode, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "smart":
		return QuoteSmart, nil
	case "never":
		return QuoteNever, nil
	case "always":
		return QuoteAlways, nil
	default:
		return QuoteSmart, fmt.Errorf("%w, got: %s", ErrInvalidQuoteMode, input)
	}
}

// Options configures ToText. The zero value means comma-separated, CRLF line
// endings and smart quoting.
type Options struct {
	Separator     string
	LineSeparator string
	Quoting       QuoteMode
}

func (o Options) withDefaults() Options {
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	if o.LineSeparator == "" {
		o.LineSeparator = DefaultLineSeparator
	}
	return o
}

// ToText serializes rows as delimited text. Rows map to lines and fields are
// joined with the separator; quoting behavior is controlled by opts.Quoting.
func ToText(rows []Row, opts Options) string {
	opts = opts.withDefaults()

	quote := false
	switch opts.Quoting {
	case QuoteAlways:
		quote = true
	case QuoteSmart:
		quote = needsQuoting(rows, opts.Separator)
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString(opts.LineSeparator)
		}
		for j, field := range row {
			if j > 0 {
				b.WriteString(opts.Separator)
			}
			if quote {
				writeQuoted(&b, field)
			} else {
				b.WriteString(field)
			}
		}
	}
	return b.String()
}

// needsQuoting reports whether any field would be ambiguous unquoted.
func needsQuoting(rows []Row, separator string) bool {
	for _, row := range rows {
		for _, field := range row {
			if strings.Contains(field, separator) ||
				strings.ContainsAny(field, "\r\n") {
				return true
			}
		}
	}
	return false
}

func writeQuoted(b *strings.Builder, field string) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(field, `"`, `""`))
	b.WriteByte('"')
}
