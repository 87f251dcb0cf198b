package searchparams

import (
	"strings"
	"unicode/utf8"
)

const languageTag = "json"

// Sanitize strips the decoration models put around JSON replies: every backtick
// is removed, then a leading "json" language tag is dropped together with the
// single separator character that follows it. Clean input is returned unchanged.
func Sanitize(reply string) string {
	s := strings.ReplaceAll(reply, "`", "")
	rest, ok := strings.CutPrefix(s, languageTag)
	if !ok {
		return s
	}
	_, size := utf8.DecodeRuneInString(rest)
	return rest[size:]
}

// StripTrailingCommas drops commas that directly precede a closing ] or },
// leaving string contents untouched.
func StripTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString, escaped := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == ',' && closesNext(text[i+1:]):
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// closesNext reports whether the next non-space byte ends an array or object.
func closesNext(rest string) bool {
	trimmed := strings.TrimLeft(rest, " \t\r\n")
	return trimmed != "" && (trimmed[0] == ']' || trimmed[0] == '}')
}
