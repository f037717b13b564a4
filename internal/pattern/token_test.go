package pattern

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []tokenType
		wantErr bool
	}{
		{
			name:  "bare_key",
			input: `"hostname"`,
			want:  []tokenType{tokenKey, tokenEOF},
		},
		{
			name:  "map_descent",
			input: `."Data"[`,
			want:  []tokenType{tokenDot, tokenKey, tokenLBracket, tokenEOF},
		},
		{
			name:  "list_map_descent",
			input: `/"attrs"["key"="role"`,
			want: []tokenType{
				tokenSlash, tokenKey, tokenLBracket,
				tokenKey, tokenEquals, tokenKey, tokenEOF,
			},
		},
		{
			name:  "line_item",
			input: `+"results"[ "a" ]`,
			want:  []tokenType{tokenPlus, tokenKey, tokenLBracket, tokenKey, tokenRBracket, tokenEOF},
		},
		{
			name:  "commas_and_whitespace_ignored",
			input: " \"a\" ,\t\"b\" ,\r\n \"c\" ",
			want:  []tokenType{tokenKey, tokenKey, tokenKey, tokenEOF},
		},
		{
			name:  "comment_to_end_of_line",
			input: "\"a\" # everything here is ignored ] [ \"x\"\n\"b\"",
			want:  []tokenType{tokenKey, tokenKey, tokenEOF},
		},
		{
			name:  "empty_input",
			input: "",
			want:  []tokenType{tokenEOF},
		},
		{
			name:    "missing_closing_quote",
			input:   `"hostname`,
			wantErr: true,
		},
		{
			name:    "empty_key",
			input:   `""`,
			wantErr: true,
		},
		{
			name:    "unrecognized_character",
			input:   `"a" ! "b"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, err := lex(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrFormat) {
					t.Fatalf("lex(%q) error = %v, want ErrFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("lex(%q) unexpected error: %v", tt.input, err)
			}

			got := make([]tokenType, 0, len(tokens))
			for _, tok := range tokens {
				got = append(got, tok.typ)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("lex(%q) token types mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestLexKeyLiterals(t *testing.T) {
	t.Parallel()

	tokens, err := lex(`."Data"[ +"results"[ "host name" ] ]`)
	if err != nil {
		t.Fatalf("lex() unexpected error: %v", err)
	}

	var keys []string
	for _, tok := range tokens {
		if tok.typ == tokenKey {
			keys = append(keys, tok.literal)
		}
	}

	want := []string{"Data", "results", "host name"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("key literals mismatch (-want +got):\n%s", diff)
	}
}

func TestLexPositions(t *testing.T) {
	t.Parallel()

	tokens, err := lex(`  ."a"[`)
	if err != nil {
		t.Fatalf("lex() unexpected error: %v", err)
	}

	if tokens[0].typ != tokenDot || tokens[0].pos != 2 {
		t.Errorf("tokens[0] = %+v, want dot at position 2", tokens[0])
	}
	if tokens[1].typ != tokenKey || tokens[1].pos != 3 {
		t.Errorf("tokens[1] = %+v, want key at position 3", tokens[1])
	}
}
