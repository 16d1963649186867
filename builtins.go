package lugha

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gitlab.com/variadico/lctime"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Host is the I/O surface the builtins run against. The core depends on
// nothing else from its embedder.
type Host interface {
	// WriteLine writes s followed by a newline.
	WriteLine(s string)
	// ReadLine writes the prompt, then reads one line, without its
	// terminator. End of input yields an empty string and io.EOF.
	ReadLine(prompt string) (string, error)
	// ClearScreen clears the terminal.
	ClearScreen()
}

// StdHost is a Host over a reader and writer pair.
type StdHost struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdHost returns a Host over the process's stdin and stdout.
func NewStdHost() *StdHost {
	return NewIOHost(os.Stdin, os.Stdout)
}

// NewIOHost returns a Host over the given reader and writer.
func NewIOHost(r io.Reader, w io.Writer) *StdHost {
	return &StdHost{in: bufio.NewReader(r), out: w}
}

func (h *StdHost) WriteLine(s string) {
	fmt.Fprintln(h.out, s)
}

func (h *StdHost) ReadLine(prompt string) (string, error) {
	fmt.Fprint(h.out, prompt)
	line, err := h.in.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err == io.EOF && line != "" {
		return line, nil
	}
	return line, err
}

func (h *StdHost) ClearScreen() {
	fmt.Fprint(h.out, "\x1b[2J\x1b[H")
}

// registerBuiltins installs every builtin into the global symbol table.
func (in *Interp) registerBuiltins() {
	reg := func(name string, params []string, h func(*Interp, *Context) *EvalResult) {
		in.Globals.Set(name, &Builtin{Name: name, Params: params, Handler: h})
	}
	reg("andika", []string{"kitu"}, builtinAndika)
	reg("soma", []string{"swali"}, builtinSoma)
	reg("somaNambari", []string{"ujumbe"}, builtinSomaNambari)
	reg("futa", nil, builtinFuta)
	reg("niNambari", []string{"kitu"}, builtinNiNambari)
	reg("niJina", []string{"kitu"}, builtinNiJina)
	reg("niOrodha", []string{"kitu"}, builtinNiOrodha)
	reg("niShughuli", []string{"kitu"}, builtinNiShughuli)
	reg("idadi", []string{"kitu"}, builtinIdadi)
	reg("herufiKubwa", []string{"jina"}, builtinHerufiKubwa)
	reg("herufiNdogo", []string{"jina"}, builtinHerufiNdogo)
	reg("tarehe", []string{"muundo"}, builtinTarehe)
}

// arg returns the value bound to a declared parameter of the running
// builtin. The binding always exists once the call protocol has run.
func arg(ec *Context, name string) Value {
	v, _ := ec.Symbols.Get(name)
	return v
}

func builtinAndika(in *Interp, ec *Context) *EvalResult {
	res := &EvalResult{}
	in.Host.WriteLine(arg(ec, "kitu").Display())
	return res.Success(SetContext(NewNull(), ec))
}

func builtinSoma(in *Interp, ec *Context) *EvalResult {
	res := &EvalResult{}
	line, _ := in.Host.ReadLine(arg(ec, "swali").Display())
	return res.Success(SetContext(NewString(line), ec))
}

func builtinSomaNambari(in *Interp, ec *Context) *EvalResult {
	res := &EvalResult{}
	prompt := arg(ec, "ujumbe").Display()
	for {
		line, err := in.Host.ReadLine(prompt)
		if n, perr := strconv.ParseFloat(strings.TrimSpace(line), 64); perr == nil {
			return res.Success(SetContext(NewNumber(n), ec))
		}
		if err != nil {
			// Input is exhausted; re-prompting would spin forever.
			return res.Success(SetContext(NewNumber(0), ec))
		}
		in.Host.WriteLine("Jibu yako si nambari. Jaribu tena.")
	}
}

func builtinFuta(in *Interp, ec *Context) *EvalResult {
	res := &EvalResult{}
	in.Host.ClearScreen()
	return res.Success(SetContext(NewNull(), ec))
}

func builtinNiNambari(in *Interp, ec *Context) *EvalResult {
	res := &EvalResult{}
	_, ok := arg(ec, "kitu").(*Number)
	return res.Success(SetContext(NewBoolean(ok), ec))
}

func builtinNiJina(in *Interp, ec *Context) *EvalResult {
	res := &EvalResult{}
	_, ok := arg(ec, "kitu").(*String)
	return res.Success(SetContext(NewBoolean(ok), ec))
}

func builtinNiOrodha(in *Interp, ec *Context) *EvalResult {
	res := &EvalResult{}
	_, ok := arg(ec, "kitu").(*List)
	return res.Success(SetContext(NewBoolean(ok), ec))
}

func builtinNiShughuli(in *Interp, ec *Context) *EvalResult {
	res := &EvalResult{}
	switch arg(ec, "kitu").(type) {
	case *Function, *Builtin:
		return res.Success(SetContext(NewBoolean(true), ec))
	}
	return res.Success(SetContext(NewBoolean(false), ec))
}

func builtinIdadi(in *Interp, ec *Context) *EvalResult {
	res := &EvalResult{}
	v := arg(ec, "kitu")
	switch t := v.(type) {
	case *String:
		return res.Success(SetContext(NewNumber(float64(len(t.Value))), ec))
	case *List:
		return res.Success(SetContext(NewNumber(float64(len(t.Elements))), ec))
	}
	start, end := v.Pos()
	return res.Failure(newError(ErrType, ec, start, end, "Cannot find length of non-iterable value"))
}

// sw renders Swahili-aware case mappings for the string builtins.
var sw = language.Swahili

func builtinHerufiKubwa(in *Interp, ec *Context) *EvalResult {
	return caseBuiltin(ec, cases.Upper(sw))
}

func builtinHerufiNdogo(in *Interp, ec *Context) *EvalResult {
	return caseBuiltin(ec, cases.Lower(sw))
}

func caseBuiltin(ec *Context, c cases.Caser) *EvalResult {
	res := &EvalResult{}
	v := arg(ec, "jina")
	s, ok := v.(*String)
	if !ok {
		start, end := v.Pos()
		return res.Failure(newError(ErrType, ec, start, end, "expected jina, not %s", TypeName(v)))
	}
	return res.Success(SetContext(NewString(c.String(s.Value)), ec))
}

func builtinTarehe(in *Interp, ec *Context) *EvalResult {
	res := &EvalResult{}
	v := arg(ec, "muundo")
	s, ok := v.(*String)
	if !ok {
		start, end := v.Pos()
		return res.Failure(newError(ErrType, ec, start, end, "expected jina, not %s", TypeName(v)))
	}
	return res.Success(SetContext(NewString(lctime.Strftime(s.Value, time.Now())), ec))
}
