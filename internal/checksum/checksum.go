package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Raw returns the hex-encoded SHA-256 of the content as-is.
func Raw(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Normalized returns the hex-encoded SHA-256 of the content after
// normalization: SQL comments removed (string literals preserved),
// whitespace collapsed to single spaces, and everything lowercased.
// Content that differs only in comments, formatting, or the embedded
// generation timestamp hashes identically.
func Normalized(content []byte) string {
	sum := sha256.Sum256([]byte(normalize(string(content))))
	return hex.EncodeToString(sum[:])
}

func normalize(content string) string {
	stripped := stripComments(content)

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false
	for _, r := range stripped {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

type scanState int

const (
	stateCode scanState = iota
	stateLineComment
	stateBlockComment
	stateQuoted
	stateDollarQuoted
)

// stripComments removes -- and /* */ comments while leaving single-quoted
// and dollar-quoted string literals intact. Block comments nest, per the
// PostgreSQL lexer. Also strips # comments so the same normalization works
// for build-args and env-style artifacts, where # opens a comment and
// quoting does not apply inside one.
func stripComments(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	state := stateCode
	depth := 0
	tag := ""

	for i := 0; i < len(content); {
		ch := content[i]
		var next byte
		if i+1 < len(content) {
			next = content[i+1]
		}

		switch state {
		case stateCode:
			switch {
			case ch == '-' && next == '-':
				state = stateLineComment
				b.WriteByte(' ')
				i += 2
			case ch == '#':
				state = stateLineComment
				b.WriteByte(' ')
				i++
			case ch == '/' && next == '*':
				state = stateBlockComment
				depth = 1
				b.WriteByte(' ')
				i += 2
			case ch == '\'':
				state = stateQuoted
				b.WriteByte(ch)
				i++
			case ch == '$':
				if t := dollarTagAt(content, i); t != "" {
					state = stateDollarQuoted
					tag = t
					b.WriteString(t)
					i += len(t)
				} else {
					b.WriteByte(ch)
					i++
				}
			default:
				b.WriteByte(ch)
				i++
			}

		case stateLineComment:
			if ch == '\n' {
				b.WriteByte(ch)
				state = stateCode
			}
			i++

		case stateBlockComment:
			switch {
			case ch == '/' && next == '*':
				depth++
				i += 2
			case ch == '*' && next == '/':
				depth--
				i += 2
				if depth == 0 {
					state = stateCode
				}
			default:
				i++
			}

		case stateQuoted:
			b.WriteByte(ch)
			if ch == '\'' {
				if next == '\'' {
					b.WriteByte(next)
					i += 2
					continue
				}
				state = stateCode
			}
			i++

		case stateDollarQuoted:
			if strings.HasPrefix(content[i:], tag) {
				b.WriteString(tag)
				i += len(tag)
				state = stateCode
				tag = ""
			} else {
				b.WriteByte(ch)
				i++
			}
		}
	}

	return b.String()
}

// dollarTagAt returns the dollar-quote tag starting at i ("$$", "$body$"),
// or "" if position i does not open one.
func dollarTagAt(s string, i int) string {
	if s[i] != '$' {
		return ""
	}
	for j := i + 1; j < len(s); j++ {
		ch := s[j]
		switch {
		case ch == '$':
			return s[i : j+1]
		case ch == '_',
			ch >= 'a' && ch <= 'z',
			ch >= 'A' && ch <= 'Z':
			// valid tag character
		case ch >= '0' && ch <= '9' && j > i+1:
			// digits allowed after the first tag character
		default:
			return ""
		}
	}
	return ""
}
