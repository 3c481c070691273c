package taskfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joshharrison/procsched/internal/schederr"
)

// RawTask is one task record exactly as it appeared in the input.
// Semantic checks (dense ids, positive durations, known predecessors)
// happen in graph.BuildFromRaw.
type RawTask struct {
	ID       int   `json:"id"`
	Duration int   `json:"duration"`
	Deps     []int `json:"deps"`
	Line     int   `json:"-"` // 1-based line of the record's id (text input only)
}

// File is a parsed task file.
type File struct {
	Declared int // task count from the header (len(Tasks) for JSON)
	Tasks    []RawTask
}

// Load reads and parses a task file. A path of "-" reads stdin.
func Load(path string) (*File, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return ParseBytes(data)
}

// Parse reads the whole stream and parses it.
func Parse(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read task input: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes picks the JSON parser when the first non-space byte opens an
// object or array, and the text parser otherwise.
func ParseBytes(data []byte) (*File, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return ParseJSON(data)
	}
	return ParseText(data)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokOpen
	tokClose
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokInt:
		return "integer"
	case tokOpen:
		return "'{'"
	case tokClose:
		return "'}'"
	case tokComma:
		return "','"
	default:
		return "end of input"
	}
}

type token struct {
	kind tokenKind
	val  int
	line int
}

type lexer struct {
	data []byte
	pos  int
	line int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '{':
			l.pos++
			return token{kind: tokOpen, line: l.line}, nil
		case c == '}':
			l.pos++
			return token{kind: tokClose, line: l.line}, nil
		case c == ',':
			l.pos++
			return token{kind: tokComma, line: l.line}, nil
		case c == '-' || (c >= '0' && c <= '9'):
			start := l.pos
			l.pos++
			for l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '9' {
				l.pos++
			}
			text := string(l.data[start:l.pos])
			n, err := strconv.Atoi(text)
			if err != nil {
				return token{}, schederr.Validationf("line %d: invalid integer %q", l.line, text)
			}
			return token{kind: tokInt, val: n, line: l.line}, nil
		default:
			return token{}, schederr.Validationf("line %d: unexpected character %q", l.line, c)
		}
	}
	return token{kind: tokEOF, line: l.line}, nil
}

// ParseText parses the text format:
//
//	<count>
//	<id> <duration> { <pred>[, <pred>]* }
//
// Predecessors may be separated by commas, whitespace or both.
func ParseText(data []byte) (*File, error) {
	lx := &lexer{data: data, line: 1}

	tok, err := lx.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokEOF {
		return nil, schederr.Validationf("empty input: missing task count")
	}
	if tok.kind != tokInt {
		return nil, schederr.Validationf("line %d: expected task count, found %s", tok.line, tok.kind)
	}
	if tok.val < 0 {
		return nil, schederr.Validationf("line %d: negative task count %d", tok.line, tok.val)
	}

	f := &File{Declared: tok.val}
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokEOF {
			break
		}
		rt, err := parseRecord(lx, tok)
		if err != nil {
			return nil, err
		}
		f.Tasks = append(f.Tasks, rt)
	}

	if len(f.Tasks) != f.Declared {
		return nil, schederr.Validationf("declared %d tasks, found %d records", f.Declared, len(f.Tasks))
	}
	return f, nil
}

func parseRecord(lx *lexer, first token) (RawTask, error) {
	if first.kind != tokInt {
		return RawTask{}, schederr.Validationf("line %d: expected task id, found %s", first.line, first.kind)
	}
	rt := RawTask{ID: first.val, Line: first.line}

	tok, err := lx.next()
	if err != nil {
		return RawTask{}, err
	}
	if tok.kind == tokEOF {
		return RawTask{}, schederr.Validationf("line %d: truncated record for task %d: missing duration", first.line, rt.ID)
	}
	if tok.kind != tokInt {
		return RawTask{}, schederr.Validationf("line %d: expected duration for task %d, found %s", tok.line, rt.ID, tok.kind)
	}
	rt.Duration = tok.val

	tok, err = lx.next()
	if err != nil {
		return RawTask{}, err
	}
	if tok.kind != tokOpen {
		if tok.kind == tokEOF {
			return RawTask{}, schederr.Validationf("line %d: truncated record for task %d: missing '{'", first.line, rt.ID)
		}
		return RawTask{}, schederr.Validationf("line %d: expected '{' for task %d, found %s", tok.line, rt.ID, tok.kind)
	}

	rt.Deps = []int{}
	for {
		tok, err = lx.next()
		if err != nil {
			return RawTask{}, err
		}
		switch tok.kind {
		case tokInt:
			rt.Deps = append(rt.Deps, tok.val)
		case tokComma:
			// separator
		case tokClose:
			return rt, nil
		case tokEOF:
			return RawTask{}, schederr.Validationf("line %d: truncated record for task %d: missing '}'", first.line, rt.ID)
		default:
			return RawTask{}, schederr.Validationf("line %d: unexpected %s in dependency list of task %d", tok.line, tok.kind, rt.ID)
		}
	}
}
