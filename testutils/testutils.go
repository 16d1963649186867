// Package testutils provides utilities for testing Lugha code in Go.
package testutils

import (
	"io"
	"sync"
	"testing"

	"github.com/lugha-lang/lugha"
)

// ScriptHost is a Host with scripted input and captured output. Prompts are
// recorded separately from written lines.
type ScriptHost struct {
	Input   []string
	Output  []string
	Prompts []string
	Cleared int
}

func (h *ScriptHost) WriteLine(s string) {
	h.Output = append(h.Output, s)
}

func (h *ScriptHost) ReadLine(prompt string) (string, error) {
	h.Prompts = append(h.Prompts, prompt)
	if len(h.Input) == 0 {
		return "", io.EOF
	}
	line := h.Input[0]
	h.Input = h.Input[1:]
	return line, nil
}

func (h *ScriptHost) ClearScreen() {
	h.Cleared++
}

// testInterp is the shared interpreter for tests that want persistent
// globals across sources.
var (
	testInterp     *lugha.Interp
	testInterpInit sync.Once
)

// TestingInterp returns an interpreter shared by all tests that use this
// package. Its host is a ScriptHost that is never reset.
func TestingInterp() *lugha.Interp {
	testInterpInit.Do(ResetTestingInterp)
	return testInterp
}

// ResetTestingInterp reinitializes the interpreter returned by
// TestingInterp. It is not safe to call in parallel tests.
func ResetTestingInterp() {
	testInterp = lugha.New(&ScriptHost{})
}

// A SourceTestCase is a test case containing Lugha source code and a
// predicate to check the result.
type SourceTestCase struct {
	// Source is the Lugha source code to execute.
	Source string
	// Input is scripted stdin for soma and somaNambari.
	Input []string
	// Pass is a predicate taking the result of executing Source. If Pass
	// returns false, the test fails.
	Pass func(v lugha.Value, err error) bool
	// Check, if set, runs after Pass with the host, for asserting on
	// output.
	Check func(t *testing.T, h *ScriptHost)
}

// TestFunc returns a test function for the test case. Each case runs in a
// fresh interpreter so globals cannot leak between cases.
func (c SourceTestCase) TestFunc() func(*testing.T) {
	return func(t *testing.T) {
		h := &ScriptHost{Input: c.Input}
		in := lugha.New(h)
		v, err := in.RunString(c.Source, "test")
		if !c.Pass(v, err) {
			if err != nil {
				t.Errorf("%q produced wrong result; error: %v", c.Source, err)
			} else {
				t.Errorf("%q produced wrong result: %s", c.Source, v)
			}
		}
		if c.Check != nil {
			c.Check(t, h)
		}
	}
}

// PassNumber creates a Pass predicate checking for a Number with the given
// value.
func PassNumber(want float64) func(lugha.Value, error) bool {
	return func(v lugha.Value, err error) bool {
		n, ok := v.(*lugha.Number)
		return err == nil && ok && n.Value == want
	}
}

// PassString creates a Pass predicate checking for a String with the given
// value.
func PassString(want string) func(lugha.Value, error) bool {
	return func(v lugha.Value, err error) bool {
		s, ok := v.(*lugha.String)
		return err == nil && ok && s.Value == want
	}
}

// PassBoolean creates a Pass predicate checking for a Boolean with the
// given value.
func PassBoolean(want bool) func(lugha.Value, error) bool {
	return func(v lugha.Value, err error) bool {
		b, ok := v.(*lugha.Boolean)
		return err == nil && ok && b.Value == want
	}
}

// PassListLen creates a Pass predicate checking for a List with the given
// length.
func PassListLen(want int) func(lugha.Value, error) bool {
	return func(v lugha.Value, err error) bool {
		l, ok := v.(*lugha.List)
		return err == nil && ok && len(l.Elements) == want
	}
}

// PassNull creates a Pass predicate checking for the null value.
func PassNull() func(lugha.Value, error) bool {
	return func(v lugha.Value, err error) bool {
		_, ok := v.(*lugha.Null)
		return err == nil && ok
	}
}

// PassErrorKind creates a Pass predicate checking for a runtime error of
// the given kind.
func PassErrorKind(kind lugha.ErrorKind) func(lugha.Value, error) bool {
	return func(v lugha.Value, err error) bool {
		re, ok := err.(*lugha.RuntimeError)
		return ok && re.Kind == kind
	}
}
