package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// validDocument builds a document that passes IsValid, padded past the
// minimum length with filler content.
func validDocument(filler string) string {
	doc := "<!DOCTYPE html>\n<html>\n<head><title>t</title></head>\n<body>\n" +
		filler + "\n</body>\n</html>"
	if len(doc) < MinDocumentLength {
		pad := strings.Repeat("<p>padding</p>\n", (MinDocumentLength-len(doc))/15+1)
		doc = strings.Replace(doc, "</body>", pad+"</body>", 1)
	}
	return doc
}

func TestNormalize(t *testing.T) {
	doc := validDocument("<p>hello</p>")

	t.Run("plain text passes through", func(t *testing.T) {
		assert.Equal(t, doc, Normalize(doc))
	})

	t.Run("strips fenced block", func(t *testing.T) {
		raw := "Here is your page:\n```html\n" + doc + "\n```\nEnjoy!"
		assert.Equal(t, doc, Normalize(raw))
	})

	t.Run("strips fence without language tag", func(t *testing.T) {
		raw := "```\n" + doc + "\n```"
		assert.Equal(t, doc, Normalize(raw))
	})

	t.Run("unwraps nested fences to the innermost block", func(t *testing.T) {
		raw := "````\n```html\n" + doc + "\n```\n````"
		assert.Equal(t, doc, Normalize(raw))
	})

	t.Run("unterminated fence passes through", func(t *testing.T) {
		raw := "```html\n<p>half a page"
		assert.Equal(t, raw, Normalize(raw))
	})
}

func TestExtractDocument(t *testing.T) {
	doc := validDocument("<p>content</p>")

	t.Run("extracts exact span", func(t *testing.T) {
		candidate := "Sure! Here it is:\n" + doc + "\nLet me know if you need changes."
		assert.Equal(t, doc, ExtractDocument(candidate))
	})

	t.Run("matches case-insensitively", func(t *testing.T) {
		upper := strings.Replace(doc, "<!DOCTYPE html>", "<!doctype HTML>", 1)
		got := ExtractDocument("preamble " + upper)
		assert.True(t, strings.HasPrefix(got, "<!doctype HTML>"))
		assert.True(t, strings.HasSuffix(got, "</html>"))
	})

	t.Run("no doctype passes through", func(t *testing.T) {
		candidate := "<html><body>no doctype</body></html>"
		assert.Equal(t, candidate, ExtractDocument(candidate))
	})

	t.Run("no closing tag passes through", func(t *testing.T) {
		candidate := "<!DOCTYPE html><html><body>truncated"
		assert.Equal(t, candidate, ExtractDocument(candidate))
	})
}

func TestIsValid(t *testing.T) {
	t.Run("complete document is valid", func(t *testing.T) {
		assert.True(t, IsValid(validDocument("<p>ok</p>")))
	})

	t.Run("mixed-case markers are valid", func(t *testing.T) {
		doc := validDocument("<p>ok</p>")
		doc = strings.Replace(doc, "<!DOCTYPE html>", "<!DoCtYpE hTmL>", 1)
		doc = strings.Replace(doc, "<body>", "<BODY>", 1)
		doc = strings.Replace(doc, "</body>", "</BODY>", 1)
		assert.True(t, IsValid(doc))
	})

	t.Run("short document is rejected even when well formed", func(t *testing.T) {
		doc := "<!DOCTYPE html><html><body>tiny</body></html>"
		assert.Less(t, len(doc), MinDocumentLength)
		assert.False(t, IsValid(doc))
	})

	t.Run("missing doctype is rejected", func(t *testing.T) {
		doc := strings.Replace(validDocument("<p>ok</p>"), "<!DOCTYPE html>", "", 1)
		doc += strings.Repeat(" ", MinDocumentLength)
		assert.False(t, IsValid(doc))
	})

	t.Run("missing body is rejected", func(t *testing.T) {
		doc := strings.Replace(validDocument("<p>ok</p>"), "<body>", "<div>", 1)
		assert.False(t, IsValid(doc))
	})

	t.Run("soundness: valid implies length and markers", func(t *testing.T) {
		samples := []string{
			validDocument("<p>a</p>"),
			validDocument(strings.Repeat("x", 2000)),
			"not a document",
			"",
			"<!DOCTYPE html><html><body>short</body></html>",
		}
		for _, s := range samples {
			if IsValid(s) {
				assert.GreaterOrEqual(t, len(s), MinDocumentLength)
				lower := strings.ToLower(s)
				doctype := strings.Index(lower, "<!doctype html")
				closing := strings.LastIndex(lower, "</html>")
				assert.True(t, doctype >= 0 && doctype < closing)
			}
		}
	})
}
