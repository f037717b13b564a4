package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jacoelho/jtab/internal/tabular"
)

var (
	ErrNoArguments      = errors.New("no arguments provided")
	ErrHelp             = errors.New("help requested")
	ErrFormatHelp       = errors.New("format help requested")
	ErrMissingFormat    = errors.New("one of -format, -format-file or -job is required")
	ErrConflictingModes = errors.New("-format, -format-file and -job are mutually exclusive")
	ErrJobConflict      = errors.New("-job cannot be combined with extraction flags")
	ErrTooManyArguments = errors.New("at most one input file argument is allowed")
)

// Config defines CLI options for the jtab command.
type Config struct {
	Format        string
	FormatFile    string
	JobFile       string
	NullValue     string
	Separator     string
	LineSeparator string
	Quoting       tabular.QuoteMode
	Root          string
	Debug         bool
	InputFile     string
}

// Parse parses and validates CLI arguments.
func Parse(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, ErrNoArguments
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	format := fs.String("format", "", "Format string describing the extraction")
	formatFile := fs.String("format-file", "", "File containing the format string")
	jobFile := fs.String("job", "", "YAML job file describing one or more extractions")
	nullValue := fs.String("null", "", "Value printed for null or missing fields")
	separator := fs.String("separator", tabular.DefaultSeparator, "Field separator")
	lineSeparator := fs.String("line-separator", tabular.DefaultLineSeparator, "Line separator")
	quote := fs.String("quote", "smart", "Quoting mode: smart, never or always")
	root := fs.String("root", "", "JSONPath expression scoping the input document")
	debug := fs.Bool("debug", false, "Print extraction diagnostics to stderr")
	formatHelp := fs.Bool("format-help", false, "Show format string documentation")

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("parse arguments: %w", err)
	}

	if *formatHelp {
		return nil, ErrFormatHelp
	}

	sources := 0
	for _, source := range []string{*format, *formatFile, *jobFile} {
		if source != "" {
			sources++
		}
	}
	if sources == 0 {
		return nil, ErrMissingFormat
	}
	if sources > 1 {
		return nil, ErrConflictingModes
	}

	if *jobFile != "" && (*nullValue != "" || *root != "") {
		return nil, ErrJobConflict
	}

	quoting, err := tabular.ParseQuoteMode(*quote)
	if err != nil {
		return nil, err
	}

	var inputFile string
	switch fs.NArg() {
	case 0:
	case 1:
		inputFile = fs.Arg(0)
	default:
		return nil, ErrTooManyArguments
	}

	return &Config{
		Format:        *format,
		FormatFile:    *formatFile,
		JobFile:       *jobFile,
		NullValue:     *nullValue,
		Separator:     *separator,
		LineSeparator: *lineSeparator,
		Quoting:       quoting,
		Root:          *root,
		Debug:         *debug,
		InputFile:     inputFile,
	}, nil
}

// Usage returns command usage text.
func Usage() string {
	return `jtab - flatten JSON documents into delimited text

Usage:
  jtab -format FORMAT [options] [input.json]
  jtab -format-file FILE [options] [input.json]
  jtab -job FILE

Reads JSON from the input file, or stdin when omitted, and writes the
extracted rows to stdout.

Options:
  -format STR          Format string describing the extraction
  -format-file FILE    File containing the format string
  -job FILE            YAML job file describing one or more extractions
  -null STR            Value printed for null or missing fields (default: empty)
  -separator STR       Field separator (default: ",")
  -line-separator STR  Line separator (default: CRLF)
  -quote MODE          Quoting mode: smart, never or always (default: smart)
  -root JSONPATH       JSONPath expression scoping the input document
  -debug               Print extraction diagnostics to stderr
  -format-help         Show format string documentation
  -h, -help            Show this help message`
}

// FormatUsage returns the format string documentation shown by -format-help.
func FormatUsage() string {
	return `Format string reference

A format string is a series of operations and quoted keys, plus zero or
more line items. Keys are always double-quoted and case sensitive.
Whitespace and commas between items are ignored, and everything from a
'#' to the end of the line is a comment, so long patterns can be split
across lines and documented inline.

Printed keys:
    A quoted key with no operation prefix prints the value found under
    that key at the current level. Values print in the order the keys
    appear, left to right.

        "hostname"              # print "hostname" at the current level
        "hostname", "cheese"    # print two keys at this level

Line items (+):
    A line item names the array iterated over to produce output rows.
    Each element of the innermost line item yields one row. Line items
    may nest, forming a single chain: once a line item has closed, no
    further line item may open. With no line items at all, a single row
    is produced.

        +"instances"[           # one row per element of "instances"

Map access (.):
    Descends the current level into the object found under a key.

        ."Data"[                # current level becomes the map at "Data"

List-map access (/):
    Searches the list of objects under a key for the first element where
    a key holds a given value, and descends into that element.

        /"attributes"["key"="color"
                                # first element whose "key" is "color"

Closing levels (]):
    Every operation opens a level with '['. A ']' returns to the
    previous level. All open brackets must be closed before the format
    string ends.

Nulls:
    A null or missing value prints as the empty string, or as the value
    given with -null. Run with -debug to see on stderr why a field
    resolved to null.

Example:
    "date",
    +"results"[
        "myBeforeKey",
        +"instances"[
            "hostname",
            /"attributes"["name"="status" "value"],
            ."puppet_data"["hostgroup"]
        ]
        "myAfterKey"
    ],
    "name"`
}
