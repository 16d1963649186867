package lugha

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a runtime error.
type ErrorKind int

// Runtime error kinds.
const (
	ErrIllegalOperation ErrorKind = iota
	ErrUnboundName
	ErrArityMismatch
	ErrOverflow
	ErrCallStack
	ErrType
)

var errorKindNames = [...]string{
	"Illegal Operation",
	"Unbound Name",
	"Arity Mismatch",
	"Overflow",
	"Call Stack Exceeded",
	"Type Error",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(errorKindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return errorKindNames[k]
}

// A RuntimeError is an evaluation failure. It carries the source span of the
// offending expression and the context it occurred in, from which a
// traceback can be rendered.
type RuntimeError struct {
	Kind             ErrorKind
	Msg              string
	PosStart, PosEnd Position
	Ctx              *Context
}

func newError(kind ErrorKind, ctx *Context, start, end Position, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Kind:     kind,
		Msg:      fmt.Sprintf(format, args...),
		PosStart: start,
		PosEnd:   end,
		Ctx:      ctx,
	}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Traceback renders the call chain leading to the error, oldest frame first,
// followed by the error itself.
func (e *RuntimeError) Traceback() string {
	var frames []string
	pos := e.PosStart
	for ctx := e.Ctx; ctx != nil; ctx = ctx.Parent {
		frames = append(frames, fmt.Sprintf("  File %s, line %d, in %s", pos.File, pos.Line, ctx.DisplayName))
		pos = ctx.EntryPos
	}
	b := strings.Builder{}
	b.WriteString("Traceback (most recent call last):\n")
	for i := len(frames) - 1; i >= 0; i-- {
		b.WriteString(frames[i])
		b.WriteByte('\n')
	}
	b.WriteString(e.Error())
	return b.String()
}

// WithSource renders the traceback followed by the source line of the error
// with the offending span underlined. src must be the text of the file the
// error's span refers to.
func (e *RuntimeError) WithSource(src string) string {
	u := underline(src, e.PosStart, e.PosEnd)
	if u == "" {
		return e.Traceback()
	}
	return e.Traceback() + "\n\n" + u
}

// A SyntaxError is a failure to lex or parse a source.
type SyntaxError struct {
	Msg              string
	PosStart, PosEnd Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Invalid Syntax: %s (%s)", e.Msg, e.PosStart)
}

// WithSource renders the error with the offending span underlined.
func (e *SyntaxError) WithSource(src string) string {
	u := underline(src, e.PosStart, e.PosEnd)
	if u == "" {
		return e.Error()
	}
	return e.Error() + "\n\n" + u
}

// underline extracts the line containing start and draws carets under the
// span from start to end (or the rest of the line if end is on another one).
func underline(src string, start, end Position) string {
	if start.IsZero() || start.Line < 1 {
		return ""
	}
	lines := strings.Split(src, "\n")
	if start.Line > len(lines) {
		return ""
	}
	line := strings.TrimRight(lines[start.Line-1], "\r")
	from := start.Col - 1
	if from > len(line) {
		from = len(line)
	}
	to := len(line)
	if end.Line == start.Line && end.Col-1 <= len(line) {
		to = end.Col - 1
	}
	if to <= from {
		to = from + 1
	}
	return line + "\n" + strings.Repeat(" ", from) + strings.Repeat("^", to-from)
}
