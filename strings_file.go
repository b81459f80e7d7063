package strtables

import (
	"fmt"
	"strings"

	"howett.net/plist"
)

// RawEntry is one (comment, key, value) triple of a flat .strings table, with
// key and value already unescaped.
type RawEntry struct {
	Comment string
	Key     string
	Value   string
	Line    int
}

// maxCommentNewlines is how far a block comment may sit above its key: the
// next line, or after a single blank line.
const maxCommentNewlines = 2

// ParseStrings tokenizes the text of a .strings file. Any syntax error rejects
// the whole file with a *SyntaxError.
func ParseStrings(path, text string) ([]RawEntry, error) {
	s := &stringsScanner{path: path, src: text, line: 1}
	var entries []RawEntry

	for {
		comment, err := s.skipTrivia()
		if err != nil {
			return nil, err
		}
		if s.eof() {
			return entries, nil
		}

		line := s.lineAt(s.pos)
		key, err := s.literal("key", '=')
		if err != nil {
			return nil, err
		}
		if err := s.expect('='); err != nil {
			return nil, err
		}
		value, err := s.literal("value", ';')
		if err != nil {
			return nil, err
		}
		if err := s.expect(';'); err != nil {
			return nil, err
		}

		entry := RawEntry{Key: key, Value: value, Line: line}
		if comment.present && comment.newlines <= maxCommentNewlines {
			entry.Comment = comment.text
		}
		entries = append(entries, entry)
	}
}

type pendingComment struct {
	text     string
	present  bool
	newlines int
}

type stringsScanner struct {
	path string
	src  string
	pos  int

	// line is the line of lineOffset; lineAt resumes counting from there.
	line       int
	lineOffset int
}

func (s *stringsScanner) eof() bool {
	return s.pos >= len(s.src)
}

// skipTrivia skips whitespace and comments before a key, remembering the last
// block comment and how many newlines separate it from what follows.
func (s *stringsScanner) skipTrivia() (pendingComment, error) {
	var comment pendingComment
	for !s.eof() {
		switch ch := s.src[s.pos]; {
		case ch == '\n':
			comment.newlines++
			s.pos++
		case isSpace(ch):
			s.pos++
		case strings.HasPrefix(s.src[s.pos:], "/*"):
			text, err := s.blockComment()
			if err != nil {
				return pendingComment{}, err
			}
			comment = pendingComment{text: strings.TrimSpace(text), present: true}
		case strings.HasPrefix(s.src[s.pos:], "//"):
			s.lineComment()
			comment = pendingComment{}
		default:
			return comment, nil
		}
	}
	return comment, nil
}

// skipInsignificant skips whitespace and comments between tokens.
func (s *stringsScanner) skipInsignificant() error {
	for !s.eof() {
		switch {
		case isSpace(s.src[s.pos]):
			s.pos++
		case strings.HasPrefix(s.src[s.pos:], "/*"):
			if _, err := s.blockComment(); err != nil {
				return err
			}
		case strings.HasPrefix(s.src[s.pos:], "//"):
			s.lineComment()
		default:
			return nil
		}
	}
	return nil
}

func (s *stringsScanner) blockComment() (string, error) {
	start := s.pos
	end := strings.Index(s.src[start+2:], "*/")
	if end < 0 {
		return "", s.errorAt(start, "unterminated comment")
	}
	s.pos = start + 2 + end + 2
	return s.src[start+2 : start+2+end], nil
}

func (s *stringsScanner) lineComment() {
	end := strings.IndexByte(s.src[s.pos:], '\n')
	if end < 0 {
		s.pos = len(s.src)
		return
	}
	s.pos += end
}

func (s *stringsScanner) expect(ch byte) error {
	if err := s.skipInsignificant(); err != nil {
		return err
	}
	if s.eof() {
		return s.errorAt(s.pos, fmt.Sprintf("expected '%c', found end of file", ch))
	}
	if s.src[s.pos] != ch {
		return s.errorAt(s.pos, fmt.Sprintf("expected '%c'", ch))
	}
	s.pos++
	return nil
}

// literal reads a quoted or unquoted string token. An unquoted run may
// contain term; when the run swallowed the terminator of its entry, it gives
// back everything from the last term on.
func (s *stringsScanner) literal(what string, term byte) (string, error) {
	if err := s.skipInsignificant(); err != nil {
		return "", err
	}
	if s.eof() {
		return "", s.errorAt(s.pos, "expected "+what+", found end of file")
	}

	start := s.pos
	if s.src[start] == '"' {
		for i := start + 1; i < len(s.src); i++ {
			switch s.src[i] {
			case '\\':
				i++
			case '"':
				s.pos = i + 1
				value, err := unescapeQuoted(s.src[start:s.pos])
				if err != nil {
					return "", fmt.Errorf("%s: %w", s.path, err)
				}
				return value, nil
			}
		}
		return "", s.errorAt(start, "unterminated quoted "+what)
	}

	for !s.eof() && isUnquoted(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return "", s.errorAt(start, "expected "+what)
	}
	if !s.followedBy(term) {
		if idx := strings.LastIndexByte(s.src[start:s.pos], term); idx > 0 {
			s.pos = start + idx
		}
	}
	return s.src[start:s.pos], nil
}

// followedBy reports whether the next significant character is ch, without
// consuming anything.
func (s *stringsScanner) followedBy(ch byte) bool {
	saved := s.pos
	defer func() { s.pos = saved }()
	if err := s.skipInsignificant(); err != nil {
		return false
	}
	return !s.eof() && s.src[s.pos] == ch
}

// lineAt returns the 1-based line of offset. Entries are visited in order,
// so counting resumes from the previous call.
func (s *stringsScanner) lineAt(offset int) int {
	offset = min(offset, len(s.src))
	if offset < s.lineOffset {
		s.line, s.lineOffset = 1, 0
	}
	s.line += strings.Count(s.src[s.lineOffset:offset], "\n")
	s.lineOffset = offset
	return s.line
}

func (s *stringsScanner) errorAt(offset int, reason string) error {
	line := s.lineAt(offset)
	col := offset - strings.LastIndexByte(s.src[:offset], '\n')
	near := s.src[offset:]
	if idx := strings.IndexByte(near, '\n'); idx >= 0 {
		near = near[:idx]
	}
	if len(near) > 32 {
		near = near[:32]
	}
	return &SyntaxError{Path: s.path, Line: line, Column: col, Near: near, Reason: reason}
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isUnquoted(ch byte) bool {
	if isSpace(ch) {
		return false
	}
	switch ch {
	case '=', '"', '\\':
		return false
	}
	return true
}

// unescapeQuoted decodes a double quoted literal, quotes included, with
// OpenStep property list rules. '<' is hidden behind a \U escape so the
// decoder never mistakes the literal for an XML property list.
func unescapeQuoted(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		switch ch := raw[i]; ch {
		case '<':
			b.WriteString(`\U003c`)
		case '\\':
			if i+1 < len(raw) && raw[i+1] == '<' {
				b.WriteString(`\U003c`)
				i++
				continue
			}
			b.WriteByte(ch)
			if i+1 < len(raw) {
				i++
				b.WriteByte(raw[i])
			}
		default:
			b.WriteByte(ch)
		}
	}

	var out string
	if _, err := plist.Unmarshal([]byte(b.String()), &out); err != nil {
		return "", fmt.Errorf("%w %s: %v", ErrUnescape, raw, err)
	}
	return out, nil
}
