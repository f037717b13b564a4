package run_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jacoelho/jtab/internal/config"
	"github.com/jacoelho/jtab/internal/pattern"
	"github.com/jacoelho/jtab/internal/run"
	"github.com/jacoelho/jtab/internal/tabular"
)

func execute(t *testing.T, args []string, stdin string) (string, string, error) {
	t.Helper()

	cfg, err := config.Parse(args)
	if err != nil {
		t.Fatalf("failed to parse arguments: %v", err)
	}

	var stdout, stderr bytes.Buffer
	runner := run.New(cfg, strings.NewReader(stdin), &stdout, &stderr)
	err = runner.Run()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestRunSingleFromStdin(t *testing.T) {
	t.Parallel()

	stdin := `{"rows": [{"name": "alice", "age": 30}, {"name": "bob", "age": 25}]}`
	stdout, _, err := execute(t, []string{"jtab", "-format", `+"rows"["name", "age"]`}, stdin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "alice,30\r\nbob,25\r\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestRunSingleWithOptions(t *testing.T) {
	t.Parallel()

	stdin := `{"rows": [{"name": "alice"}, {"name": null}]}`
	args := []string{
		"jtab",
		"-format", `+"rows"["name"]`,
		"-null", "n/a",
		"-separator", ";",
		"-line-separator", "\n",
		"-quote", "always",
	}
	stdout, _, err := execute(t, args, stdin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "\"alice\"\n\"n/a\"\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestRunSingleWithRoot(t *testing.T) {
	t.Parallel()

	stdin := `{"data": {"rows": [{"x": "1"}]}}`
	stdout, _, err := execute(t, []string{"jtab", "-format", `+"rows"["x"]`, "-root", "$.data"}, stdin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stdout != "1\r\n" {
		t.Errorf("expected %q, got %q", "1\r\n", stdout)
	}
}

func TestRunSingleFromFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	formatFile := writeFile(t, dir, "format.txt", `+"rows"["name"]`)
	inputFile := writeFile(t, dir, "input.json", `{"rows": [{"name": "alice"}]}`)

	stdout, _, err := execute(t, []string{"jtab", "-format-file", formatFile, inputFile}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stdout != "alice\r\n" {
		t.Errorf("expected %q, got %q", "alice\r\n", stdout)
	}
}

func TestRunJobJoin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	leftFile := writeFile(t, dir, "left.json", `{"rows": [{"id": "1", "name": "alice"}]}`)
	rightFile := writeFile(t, dir, "right.json", `{"rows": [{"id": "1", "city": "lisbon"}]}`)
	outputFile := filepath.Join(dir, "out.csv")

	jobFile := writeFile(t, dir, "job.yaml", `
line_separator: "\n"
extracts:
  - name: people
    input: `+leftFile+`
    format: '+"rows"["id", "name"]'
  - name: cities
    input: `+rightFile+`
    format: '+"rows"["id", "city"]'
join:
  left: people
  right: cities
  left_field: 0
  right_field: 0
output: `+outputFile+`
`)

	stdout, _, err := execute(t, []string{"jtab", "-job", jobFile}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "" {
		t.Errorf("expected no stdout when output file is set, got %q", stdout)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if got := string(data); got != "1,alice,lisbon\n" {
		t.Errorf("expected %q, got %q", "1,alice,lisbon\n", got)
	}
}

func TestRunJobDuplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inputFile := writeFile(t, dir, "input.json",
		`{"rows": [{"name": "alice"}, {"name": "bob"}, {"name": "alice"}]}`)

	jobFile := writeFile(t, dir, "job.yaml", `
line_separator: "\n"
extracts:
  - name: people
    input: `+inputFile+`
    format: '+"rows"["name"]'
duplicates:
  extract: people
  field: 0
`)

	stdout, _, err := execute(t, []string{"jtab", "-job", jobFile}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "alice\nalice\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestRunJobJoinDuplicateKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inputFile := writeFile(t, dir, "input.json",
		`{"left": [{"id": "1"}, {"id": "1"}], "right": [{"id": "1"}]}`)

	jobFile := writeFile(t, dir, "job.yaml", `
extracts:
  - name: a
    input: `+inputFile+`
    format: '+"left"["id"]'
  - name: b
    input: `+inputFile+`
    format: '+"right"["id"]'
join:
  left: a
  right: b
  left_field: 0
  right_field: 0
`)

	_, _, err := execute(t, []string{"jtab", "-job", jobFile}, "")
	if !errors.Is(err, tabular.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestRunDebugDiagnostics(t *testing.T) {
	t.Parallel()

	stdin := `{"rows": [{"name": "alice"}]}`
	_, stderr, err := execute(t, []string{"jtab", "-format", `+"rows"["name"]`, "-debug"}, stdin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stderr, "jtab: run ") {
		t.Errorf("expected run diagnostics on stderr, got %q", stderr)
	}
	if !strings.Contains(stderr, "extracted 1 rows") {
		t.Errorf("expected row count diagnostic, got %q", stderr)
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr error
	}{
		{
			name:    "invalid_format",
			args:    []string{"jtab", "-format", `+"rows"[`},
			stdin:   "{}",
			wantErr: pattern.ErrFormat,
		},
		{
			name:    "missing_format_file",
			args:    []string{"jtab", "-format-file", "/nonexistent/format.txt"},
			wantErr: run.ErrRun,
		},
		{
			name:    "missing_input_file",
			args:    []string{"jtab", "-format", `"x"`, "/nonexistent/input.json"},
			wantErr: run.ErrRun,
		},
		{
			name:    "missing_job_file",
			args:    []string{"jtab", "-job", "/nonexistent/job.yaml"},
			wantErr: run.ErrRun,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, tt.args, tt.stdin)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
