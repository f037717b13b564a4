// Package run orchestrates a jtab invocation: it loads format strings and
// input documents, compiles and applies the extraction and writes the
// serialized result.
package run

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/jacoelho/jtab/internal/config"
	"github.com/jacoelho/jtab/internal/document"
	"github.com/jacoelho/jtab/internal/job"
	"github.com/jacoelho/jtab/internal/pattern"
	"github.com/jacoelho/jtab/internal/tabular"
)

var ErrRun = errors.New("run error")

// Runner executes a configured extraction and writes the result.
type Runner struct {
	cfg    *config.Config
	id     string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New creates a Runner. Each Runner carries a fresh identifier used to tag
// its debug diagnostics.
func New(cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) *Runner {
	return &Runner{
		cfg:    cfg,
		id:     uuid.New().String(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes the extraction described by the configuration.
func (r *Runner) Run() error {
	if r.cfg.JobFile != "" {
		return r.runJob()
	}
	return r.runSingle()
}

func (r *Runner) runSingle() error {
	format, err := r.resolveFormat(r.cfg.Format, r.cfg.FormatFile)
	if err != nil {
		return err
	}

	program, err := pattern.Compile(format, pattern.Options{
		NullValue:   r.cfg.NullValue,
		Debug:       r.cfg.Debug,
		DebugWriter: r.stderr,
	})
	if err != nil {
		return err
	}

	doc, err := r.loadDocument(r.cfg.InputFile, r.cfg.Root)
	if err != nil {
		return err
	}

	rows := program.Extract(doc)
	r.debugf("extracted %d rows", len(rows))

	opts := tabular.Options{
		Separator:     r.cfg.Separator,
		LineSeparator: r.cfg.LineSeparator,
		Quoting:       r.cfg.Quoting,
	}

	if _, err := io.WriteString(r.stdout, terminate(tabular.ToText(rows, opts), opts)); err != nil {
		return fmt.Errorf("%w: failed to write output: %v", ErrRun, err)
	}
	return nil
}

// terminate appends the closing line separator. ToText only separates lines,
// but files and terminal output want a terminated final line.
func terminate(text string, opts tabular.Options) string {
	if text == "" {
		return text
	}
	if opts.LineSeparator == "" {
		return text + tabular.DefaultLineSeparator
	}
	return text + opts.LineSeparator
}

func (r *Runner) runJob() error {
	f, err := os.Open(r.cfg.JobFile)
	if err != nil {
		return fmt.Errorf("%w: failed to open job file: %v", ErrRun, err)
	}
	defer f.Close()

	j, err := job.Parse(f)
	if err != nil {
		return err
	}

	rowsByName := make(map[string][]tabular.Row, len(j.Extracts))
	for _, extract := range j.Extracts {
		rows, err := r.runExtract(j, extract)
		if err != nil {
			return fmt.Errorf("extract %q: %w", extract.Name, err)
		}
		r.debugf("extract %q produced %d rows", extract.Name, len(rows))
		rowsByName[extract.Name] = rows
	}

	rows, err := combine(j, rowsByName)
	if err != nil {
		return err
	}

	opts := tabular.Options{
		Separator:     j.Separator,
		LineSeparator: j.LineSeparator,
		Quoting:       j.QuoteMode(),
	}

	return r.writeOutput(j.Output, terminate(tabular.ToText(rows, opts), opts))
}

func (r *Runner) runExtract(j *job.Job, extract job.Extract) ([]tabular.Row, error) {
	format, err := r.resolveFormat(extract.Format, extract.FormatFile)
	if err != nil {
		return nil, err
	}

	program, err := pattern.Compile(format, pattern.Options{
		NullValue:   j.NullValue,
		Debug:       r.cfg.Debug,
		DebugWriter: r.stderr,
	})
	if err != nil {
		return nil, err
	}

	doc, err := r.loadDocument(extract.Input, extract.Root)
	if err != nil {
		return nil, err
	}

	return program.Extract(doc), nil
}

// combine applies the job's join or duplicates step, or passes the single
// extraction through. Validation already guarantees the referenced names
// exist and that at most one step is present.
func combine(j *job.Job, rowsByName map[string][]tabular.Row) ([]tabular.Row, error) {
	switch {
	case j.Join != nil:
		left := rowsByName[j.Join.Left]
		right := rowsByName[j.Join.Right]

		if j.Join.Kind == job.JoinMulti {
			result, err := tabular.MultiJoin(left, j.Join.LeftField, right, j.Join.RightField)
			if err != nil {
				return nil, err
			}
			return result.Combined, nil
		}

		result, err := tabular.Join(left, j.Join.LeftField, right, j.Join.RightField)
		if err != nil {
			return nil, err
		}
		return result.Combined, nil

	case j.Duplicates != nil:
		return tabular.FindDuplicatesFlat(rowsByName[j.Duplicates.Extract], j.Duplicates.Field)

	default:
		return rowsByName[j.Extracts[0].Name], nil
	}
}

// resolveFormat returns the inline format string or reads it from a file.
func (r *Runner) resolveFormat(inline, file string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read format file: %v", ErrRun, err)
	}
	return string(data), nil
}

// loadDocument reads and decodes a JSON document from a file, or from stdin
// when the name is empty, and applies the optional JSONPath root.
func (r *Runner) loadDocument(name, root string) (any, error) {
	var input io.Reader = r.stdin
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open input file: %v", ErrRun, err)
		}
		defer f.Close()
		input = f
	}

	doc, err := document.Decode(input)
	if err != nil {
		return nil, err
	}

	if root != "" {
		doc, err = document.Select(doc, root)
		if err != nil {
			return nil, err
		}
		r.debugf("scoped document to %s", root)
	}
	return doc, nil
}

func (r *Runner) writeOutput(name, text string) error {
	if name == "" {
		if _, err := io.WriteString(r.stdout, text); err != nil {
			return fmt.Errorf("%w: failed to write output: %v", ErrRun, err)
		}
		return nil
	}
	if err := os.WriteFile(name, []byte(text), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write output file: %v", ErrRun, err)
	}
	r.debugf("wrote output to %s", name)
	return nil
}

func (r *Runner) debugf(format string, args ...any) {
	if !r.cfg.Debug {
		return
	}
	var b strings.Builder
	b.WriteString("jtab: run ")
	b.WriteString(r.id)
	b.WriteString(": ")
	fmt.Fprintf(&b, format, args...)
	b.WriteString("\n")
	io.WriteString(r.stderr, b.String())
}
