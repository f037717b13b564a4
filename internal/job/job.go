// Package job provides YAML parsing for jtab job files. A job bundles one or
// more named extractions with output options and an optional join or
// duplicate-report step, so multi-document workflows don't need shell
// plumbing around the CLI.
package job

import (
	"errors"
	"fmt"
	"io"

	yaml "github.com/goccy/go-yaml"

	"github.com/jacoelho/jtab/internal/tabular"
)

// ErrJob is the sentinel error for all job file failures. It allows error
// wrapping and consistent checks using errors.Is().
var ErrJob = errors.New("job error")

// Join kinds accepted in a job file.
const (
	JoinStrict = "join"  // 1:1 join, duplicate keys are an error
	JoinMulti  = "multi" // cross product per key, duplicates allowed
)

// Job describes a complete run: extractions, optional combination step and
// serialization options.
type Job struct {
	NullValue     string     `yaml:"null_value,omitempty"`     // printed for missing/null fields
	Separator     string     `yaml:"separator,omitempty"`      // field separator, default ","
	LineSeparator string     `yaml:"line_separator,omitempty"` // line separator, default CRLF
	Quoting       string     `yaml:"quoting,omitempty"`        // smart, never or always
	Extracts      []Extract  `yaml:"extracts"`                 // named extractions, in order
	Join          *Join      `yaml:"join,omitempty"`           // optional join step
	Duplicates    *Duplicate `yaml:"duplicates,omitempty"`     // optional duplicate report
	Output        string     `yaml:"output,omitempty"`         // output file, empty for stdout
}

// Extract names one extraction: an input document, an optional JSONPath root
// and the format string (inline or from a file).
type Extract struct {
	Name       string `yaml:"name"`                  // referenced by join/duplicates steps
	Input      string `yaml:"input,omitempty"`       // input file, empty for stdin
	Root       string `yaml:"root,omitempty"`        // JSONPath scoping the document
	Format     string `yaml:"format,omitempty"`      // inline format string
	FormatFile string `yaml:"format_file,omitempty"` // file holding the format string
}

// Join combines two extractions on a common field.
type Join struct {
	Kind       string `yaml:"kind,omitempty"` // join (default) or multi
	Left       string `yaml:"left"`           // name of the left extraction
	Right      string `yaml:"right"`          // name of the right extraction
	LeftField  int    `yaml:"left_field"`     // join column in the left rows
	RightField int    `yaml:"right_field"`    // join column in the right rows
}

// Duplicate reports rows of one extraction sharing a field value.
type Duplicate struct {
	Extract string `yaml:"extract"` // name of the extraction to scan
	Field   int    `yaml:"field"`   // column to group on
}

// Parse decodes and validates a YAML job file.
func Parse(r io.Reader) (*Job, error) {
	decoder := yaml.NewDecoder(r)

	var job Job
	if err := decoder.Decode(&job); err != nil {
		return nil, fmt.Errorf("%w: failed to decode YAML: %v", ErrJob, err)
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

// Validate checks cross-field consistency: extraction names, format sources,
// step references and serialization options.
func (j *Job) Validate() error {
	if len(j.Extracts) == 0 {
		return fmt.Errorf("%w: at least one extract is required", ErrJob)
	}

	names := make(map[string]bool, len(j.Extracts))
	for i, extract := range j.Extracts {
		if extract.Name == "" {
			return fmt.Errorf("%w: extract %d: missing required 'name' field", ErrJob, i)
		}
		if names[extract.Name] {
			return fmt.Errorf("%w: duplicate extract name %q", ErrJob, extract.Name)
		}
		names[extract.Name] = true

		if extract.Format == "" && extract.FormatFile == "" {
			return fmt.Errorf("%w: extract %q: either 'format' or 'format_file' is required", ErrJob, extract.Name)
		}
		if extract.Format != "" && extract.FormatFile != "" {
			return fmt.Errorf("%w: extract %q: 'format' and 'format_file' are mutually exclusive", ErrJob, extract.Name)
		}
	}

	if j.Join != nil && j.Duplicates != nil {
		return fmt.Errorf("%w: 'join' and 'duplicates' are mutually exclusive", ErrJob)
	}

	if j.Join != nil {
		if err := j.validateJoin(names); err != nil {
			return err
		}
	}

	if j.Duplicates != nil {
		if !names[j.Duplicates.Extract] {
			return fmt.Errorf("%w: duplicates: unknown extract %q", ErrJob, j.Duplicates.Extract)
		}
		if j.Duplicates.Field < 0 {
			return fmt.Errorf("%w: duplicates: field must be >= 0, got %d", ErrJob, j.Duplicates.Field)
		}
	}

	if j.Join == nil && j.Duplicates == nil && len(j.Extracts) > 1 {
		return fmt.Errorf("%w: multiple extracts need a 'join' or 'duplicates' step to combine them", ErrJob)
	}

	if _, err := tabular.ParseQuoteMode(j.Quoting); err != nil {
		return fmt.Errorf("%w: %v", ErrJob, err)
	}

	return nil
}

func (j *Job) validateJoin(names map[string]bool) error {
	join := j.Join

	switch join.Kind {
	case "", JoinStrict, JoinMulti:
	default:
		return fmt.Errorf("%w: join: kind must be %q or %q, got %q", ErrJob, JoinStrict, JoinMulti, join.Kind)
	}

	if !names[join.Left] {
		return fmt.Errorf("%w: join: unknown left extract %q", ErrJob, join.Left)
	}
	if !names[join.Right] {
		return fmt.Errorf("%w: join: unknown right extract %q", ErrJob, join.Right)
	}
	if join.Left == join.Right {
		return fmt.Errorf("%w: join: left and right must name different extracts", ErrJob)
	}
	if join.LeftField < 0 || join.RightField < 0 {
		return fmt.Errorf("%w: join: field indexes must be >= 0", ErrJob)
	}
	return nil
}

// QuoteMode resolves the job's quoting option.
func (j *Job) QuoteMode() tabular.QuoteMode {
	mode, _ := tabular.ParseQuoteMode(j.Quoting)
	return mode
}
