// Package content handles the rich-text pipeline: articles are written in a
// Quill editor, stored exactly as submitted, and sanitized here on every
// render. Sanitizing on read instead of write means a policy change applies
// to already-published articles and the admin editor always round-trips the
// raw markup.
package content

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// quillClass matches the class attribute values Quill emits: one or more
// ql-* tokens (ql-align-center, ql-indent-1, ql-size-large, ...). Anything
// else on a class attribute is dropped.
var quillClass = regexp.MustCompile(`^ql-[a-zA-Z0-9-]+( ql-[a-zA-Z0-9-]+)*$`)

// policy is built once; bluemonday policies are safe for concurrent use
// after construction.
var policy = newPolicy()

// newPolicy starts from bluemonday's user-generated-content baseline, which
// already covers the structural markup Quill produces (headings, lists,
// emphasis, links with rel=nofollow, images, blockquotes, code blocks), and
// layers on the Quill-specific pieces: the ql-* class vocabulary used for
// alignment/indent/size, plus the inline formatting tags the baseline omits.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowElements("u", "s", "sub", "sup")
	p.AllowAttrs("class").Matching(quillClass).OnElements(
		"p", "span", "div", "li", "ol", "ul", "blockquote", "pre",
		"h1", "h2", "h3", "h4", "h5", "h6",
	)
	// Quill 2 marks ordered-vs-bullet items with data-list on the li.
	p.AllowAttrs("data-list").Matching(regexp.MustCompile(`^(ordered|bullet)$`)).OnElements("li")

	return p
}

// Sanitize strips script-executing and otherwise unsafe markup from raw
// rich-text HTML while preserving Quill's structural markup. It is
// idempotent: Sanitize(Sanitize(x)) == Sanitize(x), which the render path
// relies on since stored content may or may not have been cleaned before.
func Sanitize(raw string) string {
	return policy.Sanitize(raw)
}
