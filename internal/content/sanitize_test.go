package content

import (
	"strings"
	"testing"
)

func TestSanitizeStripsScripts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		deny  string // substring that must NOT survive
	}{
		{
			name:  "script tag removed",
			input: `<p>ola</p><script>alert(1)</script>`,
			deny:  "<script",
		},
		{
			name:  "event handler removed",
			input: `<p onclick="steal()">ola</p>`,
			deny:  "onclick",
		},
		{
			name:  "javascript href removed",
			input: `<a href="javascript:alert(1)">clique</a>`,
			deny:  "javascript:",
		},
		{
			name:  "iframe removed",
			input: `<p>antes</p><iframe src="https://evil.example"></iframe>`,
			deny:  "<iframe",
		},
		{
			name:  "inline style removed",
			input: `<p style="background:url(javascript:x)">texto</p>`,
			deny:  "style=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if strings.Contains(got, tt.deny) {
				t.Errorf("Sanitize(%q) = %q, still contains %q", tt.input, got, tt.deny)
			}
		})
	}
}

func TestSanitizePreservesQuillMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // substring that must survive
	}{
		{
			name:  "heading kept",
			input: `<h2>Fenomenologia</h2>`,
			want:  `<h2>Fenomenologia</h2>`,
		},
		{
			name:  "alignment class kept",
			input: `<p class="ql-align-center">centro</p>`,
			want:  `class="ql-align-center"`,
		},
		{
			name:  "ordered list kept",
			input: `<ol><li data-list="ordered">um</li></ol>`,
			want:  `data-list="ordered"`,
		},
		{
			name:  "emphasis kept",
			input: `<p><strong>forte</strong> e <em>suave</em> e <u>sublinhado</u></p>`,
			want:  `<u>sublinhado</u>`,
		},
		{
			name:  "blockquote kept",
			input: `<blockquote>citado</blockquote>`,
			want:  `<blockquote>citado</blockquote>`,
		},
		{
			name:  "non-quill class dropped but element kept",
			input: `<p class="evil-tracker">texto</p>`,
			want:  `<p>texto</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Sanitize(%q) = %q, want it to contain %q", tt.input, got, tt.want)
			}
		})
	}
}

// Sanitization runs on every read path, so already-clean content passes
// through again on each render. A second pass must be a no-op.
func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		`<h1 class="ql-align-center">Titulo</h1><p>corpo &amp; alma</p>`,
		`<p>ola</p><script>alert(1)</script>`,
		`<ol><li data-list="bullet">a</li><li data-list="ordered">b</li></ol>`,
		`<a href="https://example.com">link</a>`,
		`texto puro sem markup`,
	}

	for _, input := range inputs {
		once := Sanitize(input)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q:\n once: %q\ntwice: %q", input, once, twice)
		}
	}
}
