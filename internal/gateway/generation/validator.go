package generation

import "strings"

// MinDocumentLength is the acceptance floor for generated documents.
// Anything shorter is treated as truncated or low-effort output, even when
// structurally well formed. The value is a compatibility constant carried
// over from earlier releases, not a semantic requirement.
const MinDocumentLength = 500

// Normalize strips fenced code-block wrappers from raw backend output,
// unwrapping repeatedly so the innermost block content survives. Text
// without a complete fence passes through unchanged.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	for {
		inner, ok := unwrapFence(text)
		if !ok {
			return text
		}
		text = strings.TrimSpace(inner)
	}
}

func unwrapFence(text string) (string, bool) {
	open := strings.Index(text, "```")
	if open < 0 {
		return "", false
	}

	rest := text[open+3:]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return "", false
	}
	// drop the fence's language tag line
	rest = rest[nl+1:]

	closing := strings.LastIndex(rest, "```")
	if closing < 0 {
		return "", false
	}
	return rest[:closing], true
}

// ExtractDocument returns the first <!DOCTYPE html ... </html> span in
// candidate, matched case-insensitively. Text without a complete document
// span comes back unchanged.
func ExtractDocument(candidate string) string {
	lower := strings.ToLower(candidate)

	start := strings.Index(lower, "<!doctype html")
	if start < 0 {
		return candidate
	}

	end := strings.Index(lower[start:], "</html>")
	if end < 0 {
		return candidate
	}

	return candidate[start : start+end+len("</html>")]
}

// IsValid reports whether document looks like a complete HTML page. The
// predicate is deliberately permissive: it checks structural markers, not
// markup validity.
func IsValid(document string) bool {
	if len(document) < MinDocumentLength {
		return false
	}

	lower := strings.ToLower(document)
	return strings.Contains(lower, "<!doctype html") &&
		strings.Contains(lower, "</html>") &&
		strings.Contains(lower, "<body>") &&
		strings.Contains(lower, "</body>")
}
