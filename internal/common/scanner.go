package common

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/graph-gophers/graphql-engine/errors"
)

// Scanner splits source text into tokens. Each call to Next advances monotonically;
// there is no backtracking.
type Scanner struct {
	src       string
	pos       int
	line      int
	lineStart int
}

func NewScanner(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

// NewScannerAt starts scanning src at the given byte offset.
func NewScannerAt(src string, offset int) *Scanner {
	s := NewScanner(src)
	for s.pos < offset && s.pos < len(src) {
		s.advanceByte()
	}
	return s
}

func (s *Scanner) position() errors.Position {
	return errors.Position{
		Line:   s.line,
		Column: utf8.RuneCountInString(s.src[s.lineStart:s.pos]) + 1,
		Offset: s.pos,
	}
}

func (s *Scanner) advanceByte() {
	c := s.src[s.pos]
	s.pos++
	switch c {
	case '\n':
		s.newline()
	case '\r':
		if s.pos < len(s.src) && s.src[s.pos] == '\n' {
			s.pos++
		}
		s.newline()
	}
}

func (s *Scanner) newline() {
	s.line++
	s.lineStart = s.pos
}

const bom = "\uFEFF"

func (s *Scanner) skipIgnored() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == ',' || c == '\n' || c == '\r':
			s.advanceByte()
		case c == '#':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' && s.src[s.pos] != '\r' {
				if s.src[s.pos] < utf8.RuneSelf {
					s.pos++
					continue
				}
				if s.invalidUTF8(s.pos) {
					return
				}
				_, size := utf8.DecodeRuneInString(s.src[s.pos:])
				s.pos += size
			}
		case strings.HasPrefix(s.src[s.pos:], bom):
			s.pos += len(bom)
		default:
			return
		}
	}
}

// Next returns the next token. At the end of input it returns an EOF token.
func (s *Scanner) Next() (Token, *errors.LexerError) {
	s.skipIgnored()
	start := s.position()
	if s.pos >= len(s.src) {
		return Token{Kind: EOF, Span: errors.Span{Start: start, End: start}}, nil
	}
	if s.invalidUTF8(s.pos) {
		return Token{}, s.badEncoding(s.pos)
	}

	c := s.src[s.pos]
	if kind, ok := punctuators[c]; ok {
		s.pos++
		return s.token(kind, "", start), nil
	}

	switch {
	case c == '.':
		if strings.HasPrefix(s.src[s.pos:], "...") {
			s.pos += 3
			return s.token(Spread, "", start), nil
		}
		return Token{}, s.unexpected(start)
	case isNameStart(c):
		end := s.pos + 1
		for end < len(s.src) && isNameContinue(s.src[end]) {
			end++
		}
		value := s.src[s.pos:end]
		s.pos = end
		return s.token(Name, value, start), nil
	case c == '-' || isDigit(c):
		return s.scanNumber(start)
	case c == '"':
		if strings.HasPrefix(s.src[s.pos:], `"""`) {
			return s.scanBlockString(start)
		}
		return s.scanString(start)
	}
	return Token{}, s.unexpected(start)
}

var punctuators = map[byte]TokenKind{
	'!': Bang,
	'$': Dollar,
	'&': Amp,
	'(': ParenL,
	')': ParenR,
	':': Colon,
	'=': Equals,
	'@': At,
	'[': BracketL,
	']': BracketR,
	'{': BraceL,
	'|': Pipe,
	'}': BraceR,
}

func (s *Scanner) token(kind TokenKind, value string, start errors.Position) Token {
	return Token{Kind: kind, Value: value, Span: errors.Span{Start: start, End: s.position()}}
}

func (s *Scanner) invalidUTF8(i int) bool {
	if s.src[i] < utf8.RuneSelf {
		return false
	}
	r, size := utf8.DecodeRuneInString(s.src[i:])
	return r == utf8.RuneError && size == 1
}

// badEncoding reports the byte at offset i, which does not start a valid UTF-8 sequence.
func (s *Scanner) badEncoding(i int) *errors.LexerError {
	s.pos = i
	return &errors.LexerError{Kind: errors.UnexpectedCharacter, Pos: s.position(), Text: s.src[i : i+1]}
}

func (s *Scanner) unexpected(at errors.Position) *errors.LexerError {
	r, _ := utf8.DecodeRuneInString(s.src[at.Offset:])
	return &errors.LexerError{Kind: errors.UnexpectedCharacter, Pos: at, Text: string(r)}
}

func (s *Scanner) scanNumber(start errors.Position) (Token, *errors.LexerError) {
	end := s.pos
	invalid := func() (Token, *errors.LexerError) {
		for end < len(s.src) && (isNameContinue(s.src[end]) || s.src[end] == '.' || s.src[end] == '-' || s.src[end] == '+') {
			end++
		}
		return Token{}, &errors.LexerError{Kind: errors.InvalidNumber, Pos: start, Text: s.src[start.Offset:end]}
	}
	digits := func() bool {
		from := end
		for end < len(s.src) && isDigit(s.src[end]) {
			end++
		}
		return end > from
	}

	if s.src[end] == '-' {
		end++
	}
	if end < len(s.src) && s.src[end] == '0' {
		end++
		if end < len(s.src) && isDigit(s.src[end]) {
			return invalid()
		}
	} else if !digits() {
		return invalid()
	}

	kind := Int
	if end < len(s.src) && s.src[end] == '.' {
		kind = Float
		end++
		if !digits() {
			return invalid()
		}
	}
	if end < len(s.src) && (s.src[end] == 'e' || s.src[end] == 'E') {
		kind = Float
		end++
		if end < len(s.src) && (s.src[end] == '+' || s.src[end] == '-') {
			end++
		}
		if !digits() {
			return invalid()
		}
	}
	if end < len(s.src) && (s.src[end] == '.' || isNameStart(s.src[end])) {
		return invalid()
	}

	value := s.src[s.pos:end]
	s.pos = end
	return s.token(kind, value, start), nil
}

func (s *Scanner) scanString(start errors.Position) (Token, *errors.LexerError) {
	var sb strings.Builder
	i := s.pos + 1
	for i < len(s.src) {
		c := s.src[i]
		switch {
		case c == '"':
			s.pos = i + 1
			return s.token(String, sb.String(), start), nil
		case c == '\n' || c == '\r':
			return Token{}, &errors.LexerError{Kind: errors.UnterminatedString, Pos: start}
		case c == '\\':
			r, n, ok := decodeEscape(s.src[i:])
			if !ok {
				s.pos = i
				return Token{}, &errors.LexerError{Kind: errors.InvalidEscape, Pos: s.position(), Text: s.src[i : i+n]}
			}
			sb.WriteRune(r)
			i += n
		case c >= utf8.RuneSelf:
			if s.invalidUTF8(i) {
				return Token{}, s.badEncoding(i)
			}
			_, size := utf8.DecodeRuneInString(s.src[i:])
			sb.WriteString(s.src[i : i+size])
			i += size
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return Token{}, &errors.LexerError{Kind: errors.UnterminatedString, Pos: start}
}

// decodeEscape decodes the escape sequence at the start of s. n is the number of bytes
// consumed, or the length of the malformed sequence when ok is false.
func decodeEscape(s string) (r rune, n int, ok bool) {
	if len(s) < 2 {
		return 0, len(s), false
	}
	switch s[1] {
	case '"':
		return '"', 2, true
	case '\\':
		return '\\', 2, true
	case '/':
		return '/', 2, true
	case 'b':
		return '\b', 2, true
	case 'f':
		return '\f', 2, true
	case 'n':
		return '\n', 2, true
	case 'r':
		return '\r', 2, true
	case 't':
		return '\t', 2, true
	case 'u':
		hi, ok := hex4(s[2:])
		if !ok {
			return 0, min(len(s), 6), false
		}
		if !utf16.IsSurrogate(rune(hi)) {
			return rune(hi), 6, true
		}
		if len(s) >= 12 && s[6] == '\\' && s[7] == 'u' {
			if lo, ok := hex4(s[8:]); ok {
				if r := utf16.DecodeRune(rune(hi), rune(lo)); r != utf8.RuneError {
					return r, 12, true
				}
			}
		}
		return 0, 6, false
	}
	_, size := utf8.DecodeRuneInString(s[1:])
	return 0, 1 + size, false
}

func hex4(s string) (uint16, bool) {
	if len(s) < 4 {
		return 0, false
	}
	var v uint16
	for i := 0; i < 4; i++ {
		c := s[i]
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, false
		}
		v = v<<4 | uint16(d)
	}
	return v, true
}

func (s *Scanner) scanBlockString(start errors.Position) (Token, *errors.LexerError) {
	var sb strings.Builder
	s.pos += 3
	for s.pos < len(s.src) {
		switch {
		case strings.HasPrefix(s.src[s.pos:], `"""`):
			s.pos += 3
			return s.token(BlockString, BlockStringValue(sb.String()), start), nil
		case strings.HasPrefix(s.src[s.pos:], `\"""`):
			sb.WriteString(`"""`)
			s.pos += 4
		case s.src[s.pos] >= utf8.RuneSelf:
			if s.invalidUTF8(s.pos) {
				return Token{}, s.badEncoding(s.pos)
			}
			_, size := utf8.DecodeRuneInString(s.src[s.pos:])
			sb.WriteString(s.src[s.pos : s.pos+size])
			s.pos += size
		default:
			sb.WriteByte(s.src[s.pos])
			s.advanceByte()
			if s.src[s.pos-1] == '\n' && s.pos >= 2 && s.src[s.pos-2] == '\r' {
				sb.WriteByte('\n')
			}
		}
	}
	return Token{}, &errors.LexerError{Kind: errors.UnterminatedString, Pos: start}
}

// BlockStringValue strips the common indentation and the leading and trailing blank
// lines from the raw contents of a block string.
func BlockStringValue(raw string) string {
	lines := splitLines(raw)

	common := -1
	for i, line := range lines {
		if i == 0 {
			continue
		}
		indent := leadingWhitespace(line)
		if indent == len(line) {
			continue
		}
		if common == -1 || indent < common {
			common = indent
		}
	}
	if common > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= common {
				lines[i] = lines[i][common:]
			} else {
				lines[i] = ""
			}
		}
	}

	for len(lines) > 0 && leadingWhitespace(lines[0]) == len(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && leadingWhitespace(lines[len(lines)-1]) == len(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

func leadingWhitespace(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameContinue(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
