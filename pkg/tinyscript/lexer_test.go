package tinyscript

import "testing"

// lexAll tokenizes a whole source string and returns the token kinds and
// texts in order, stopping at end of input.
func lexAll(src string) ([]tokKind, []string) {
	ip := New()
	ip.src = src
	ip.last = -1
	var kinds []tokKind
	var texts []string
	for {
		t := ip.next()
		if t == tokEOF {
			return kinds, texts
		}
		kinds = append(kinds, t)
		texts = append(texts, ip.tok)
	}
}

func TestTokenizer(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []tokKind
		texts []string
	}{
		{
			name:  "keywords and identifiers fold to lower case",
			src:   "LET Foo GoTo",
			kinds: []tokKind{tokLet, tokIdent, tokGoto},
			texts: []string{"let", "foo", "goto"},
		},
		{
			name:  "string identifier keeps its sigil",
			src:   "name$ = 1",
			kinds: []tokKind{tokStrIdent, tokKind('='), tokNumber},
			texts: []string{"name$", "=", "1"},
		},
		{
			name:  "quoted string with escapes",
			src:   `"a\tb\n" 'c\\d'`,
			kinds: []tokKind{tokQuote, tokQuote},
			texts: []string{"a\tb\n", `c\d`},
		},
		{
			name:  "raw string keeps backslashes",
			src:   `r"a\tb"`,
			kinds: []tokKind{tokQuote},
			texts: []string{`a\tb`},
		},
		{
			name:  "comment swallows the rest of the line",
			src:   "x # everything here is ignored\ny",
			kinds: []tokKind{tokIdent, tokLF, tokIdent},
			texts: []string{"x", "", "y"},
		},
		{
			name:  "newline is its own token",
			src:   "1\n2",
			kinds: []tokKind{tokNumber, tokLF, tokNumber},
			texts: []string{"1", "", "2"},
		},
		{
			name:  "line continuation joins lines",
			src:   "1 + \\\n 2",
			kinds: []tokKind{tokNumber, tokKind('+'), tokNumber},
			texts: []string{"1", "+", "2"},
		},
		{
			name:  "operators come back as themselves",
			src:   "< > ~ & [ ] : ,",
			kinds: []tokKind{tokKind('<'), tokKind('>'), tokKind('~'), tokKind('&'), tokKind('['), tokKind(']'), tokKind(':'), tokKind(',')},
			texts: []string{"<", ">", "~", "&", "[", "]", ":", ","},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kinds, texts := lexAll(tt.src)
			if len(kinds) != len(tt.kinds) {
				t.Fatalf("got %d tokens, want %d (%v)", len(kinds), len(tt.kinds), texts)
			}
			for i := range kinds {
				if kinds[i] != tt.kinds[i] {
					t.Errorf("token %d: kind %d, want %d", i, kinds[i], tt.kinds[i])
				}
				if kinds[i] != tokLF && texts[i] != tt.texts[i] {
					t.Errorf("token %d: text %q, want %q", i, texts[i], tt.texts[i])
				}
			}
		})
	}
}

// TestPushBack checks the single-level pushback contract: after a pushBack
// the next call must re-deliver the same token, and scanning must then
// continue where it left off.
func TestPushBack(t *testing.T) {
	ip := New()
	ip.src = "alpha beta"
	ip.last = -1

	if got := ip.next(); got != tokIdent || ip.tok != "alpha" {
		t.Fatalf("first token = %d %q", got, ip.tok)
	}
	ip.next() // beta
	ip.pushBack()
	if got := ip.next(); got != tokIdent || ip.tok != "beta" {
		t.Errorf("after pushBack: %d %q, want beta again", got, ip.tok)
	}
	if got := ip.next(); got != tokEOF {
		t.Errorf("after re-read: %d, want EOF", got)
	}
}

func TestTokenizerErrors(t *testing.T) {
	longIdent := ""
	for i := 0; i < 100; i++ {
		longIdent += "a"
	}

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unterminated string", `x$ = "abc`, "unterminated string"},
		{"identifier too long", longIdent + " = 1", "token too long"},
		{"unknown token", "x = 1 ? 2", "unknown token"},
		{"stray continuation", "x = 1 \\ 2", "bad '\\'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Run(tt.src)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
