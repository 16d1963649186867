package lugha

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// An Interp evaluates syntax trees. A single Interp is not safe for
// concurrent use; distinct Interps share nothing.
type Interp struct {
	// MaxIterations bounds each loop activation. A kwa or wakati loop
	// that needs more than this many iterations fails with ErrCallStack.
	MaxIterations int
	// MaxCallDepth bounds nested function activations.
	MaxCallDepth int
	// Host provides the I/O the builtins use.
	Host Host
	// Trace, when set, receives a Trace-level record per visited node.
	Trace logrus.FieldLogger
	// Globals is the root symbol table, holding the builtins, the
	// constants kweli, uwongo, and tupu, and every top-level binding.
	Globals *SymbolTable

	depth int
}

// New prepares an interpreter with the default configuration. A nil host
// uses the process's stdin and stdout.
func New(host Host) *Interp {
	return NewWithConfig(host, DefaultConfig())
}

// NewWithConfig prepares an interpreter with the given configuration. The
// global symbol table is populated with all builtins and constants before
// any user code can run.
func NewWithConfig(host Host, cfg Config) *Interp {
	cfg = cfg.withDefaults()
	if host == nil {
		host = NewStdHost()
	}
	in := &Interp{
		MaxIterations: cfg.MaxIterations,
		MaxCallDepth:  cfg.MaxCallDepth,
		Host:          host,
		Globals:       NewSymbolTable(nil),
	}
	in.Globals.Set("kweli", NewBoolean(true))
	in.Globals.Set("uwongo", NewBoolean(false))
	in.Globals.Set("tupu", NewNull())
	in.registerBuiltins()
	return in
}

// NewGlobalContext returns the activation record top-level code runs in.
// Its symbol table is the interpreter's global table itself, so top-level
// bindings persist across runs.
func (in *Interp) NewGlobalContext(file string) *Context {
	return NewContext("<programu>", nil, StartPosition(file), in.Globals)
}

// Run parses and evaluates a source. The returned error, if any, is a
// *SyntaxError or a *RuntimeError.
func (in *Interp) Run(source io.Reader, file string) (Value, error) {
	root, err := ParseSource(source, file)
	if err != nil {
		return nil, err
	}
	res := in.Visit(root, in.NewGlobalContext(file))
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Value, nil
}

// RunString parses and evaluates source text.
func (in *Interp) RunString(source, file string) (Value, error) {
	return in.Run(strings.NewReader(source), file)
}

// Visit evaluates one node in a context. Every sub-evaluation that fails
// propagates its error unchanged.
func (in *Interp) Visit(node Node, ctx *Context) *EvalResult {
	if in.Trace != nil {
		in.Trace.WithFields(logrus.Fields{
			"node": fmt.Sprintf("%T", node),
			"pos":  node.Pos().String(),
		}).Trace("visit")
	}
	switch n := node.(type) {
	case *NumberNode:
		return in.visitNumber(n, ctx)
	case *StringNode:
		return in.visitString(n, ctx)
	case *ListNode:
		return in.visitList(n, ctx)
	case *BlockNode:
		return in.visitBlock(n, ctx)
	case *VarAccessNode:
		return in.visitVarAccess(n, ctx)
	case *VarAssignNode:
		return in.visitVarAssign(n, ctx)
	case *BinOpNode:
		return in.visitBinOp(n, ctx)
	case *UnaryOpNode:
		return in.visitUnaryOp(n, ctx)
	case *IfNode:
		return in.visitIf(n, ctx)
	case *ForNode:
		return in.visitFor(n, ctx)
	case *WhileNode:
		return in.visitWhile(n, ctx)
	case *FuncDefNode:
		return in.visitFuncDef(n, ctx)
	case *CallNode:
		return in.visitCall(n, ctx)
	}
	panic(fmt.Sprintf("lugha: no visitor for %T", node))
}

func stamped(v Value, n Node, ctx *Context) Value {
	SetPos(v, n.Pos(), n.End())
	SetContext(v, ctx)
	return v
}

func (in *Interp) visitNumber(n *NumberNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	return res.Success(stamped(NewNumber(n.Value), n, ctx))
}

func (in *Interp) visitString(n *StringNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	return res.Success(stamped(NewString(n.Value), n, ctx))
}

func (in *Interp) visitList(n *ListNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	elements := make([]Value, 0, len(n.Elements))
	for _, e := range n.Elements {
		v := res.Register(in.Visit(e, ctx))
		if res.Err != nil {
			return res
		}
		elements = append(elements, v)
	}
	return res.Success(stamped(NewList(elements), n, ctx))
}

// visitBlock evaluates statements in order; the block's value is the last
// statement's, or tupu for an empty block.
func (in *Interp) visitBlock(n *BlockNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	var last Value = stamped(NewNull(), n, ctx)
	for _, s := range n.Statements {
		last = res.Register(in.Visit(s, ctx))
		if res.Err != nil {
			return res
		}
	}
	return res.Success(last)
}

func (in *Interp) visitVarAccess(n *VarAccessNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	v, ok := ctx.Symbols.Get(n.Name)
	if !ok {
		return res.Failure(newError(ErrUnboundName, ctx, n.Pos(), n.End(), "'%s' is not defined", n.Name))
	}
	// The copy is stamped with the access site, so a later error points
	// at the usage rather than the definition.
	return res.Success(stamped(v.Copy(), n, ctx))
}

func (in *Interp) visitVarAssign(n *VarAssignNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	v := res.Register(in.Visit(n.Value, ctx))
	if res.Err != nil {
		return res
	}
	ctx.Symbols.Set(n.Name, v)
	return res.Success(v)
}

func (in *Interp) visitBinOp(n *BinOpNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	// Both operands always evaluate, left to right; && and || do not
	// short-circuit.
	left := res.Register(in.Visit(n.Left, ctx))
	if res.Err != nil {
		return res
	}
	right := res.Register(in.Visit(n.Right, ctx))
	if res.Err != nil {
		return res
	}
	v, err := BinOp(n.Op, left, right)
	if err != nil {
		return res.Failure(err)
	}
	return res.Success(stamped(v, n, ctx))
}

func (in *Interp) visitUnaryOp(n *UnaryOpNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	operand := res.Register(in.Visit(n.Operand, ctx))
	if res.Err != nil {
		return res
	}
	v, err := UnaryOp(n.Op, operand)
	if err != nil {
		return res.Failure(err)
	}
	return res.Success(stamped(v, n, ctx))
}

func (in *Interp) visitIf(n *IfNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	for _, c := range n.Cases {
		cond := res.Register(in.Visit(c.Cond, ctx))
		if res.Err != nil {
			return res
		}
		if cond.Truth() {
			v := res.Register(in.Visit(c.Body, ctx))
			if res.Err != nil {
				return res
			}
			return res.Success(v)
		}
	}
	if n.Else != nil {
		v := res.Register(in.Visit(n.Else, ctx))
		if res.Err != nil {
			return res
		}
		return res.Success(v)
	}
	return res.Success(stamped(NewNull(), n, ctx))
}

func (in *Interp) loopBound(res *EvalResult, count int, n Node, ctx *Context) bool {
	if count < in.MaxIterations {
		return false
	}
	res.Failure(newError(ErrCallStack, ctx, n.Pos(), n.End(), "Max call stack size exceeded"))
	return true
}

func (in *Interp) visitFor(n *ForNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	from, err := in.numberOperand(res, n.From, ctx, "kwa start")
	if err != nil {
		return res
	}
	to, err := in.numberOperand(res, n.To, ctx, "kwa end")
	if err != nil {
		return res
	}
	step := 1.0
	if n.Step != nil {
		s, err := in.numberOperand(res, n.Step, ctx, "kwa step")
		if err != nil {
			return res
		}
		step = s
	}
	var elements []Value
	count := 0
	for i := from; (step >= 0 && i < to) || (step < 0 && i > to); i += step {
		if in.loopBound(res, count, n, ctx) {
			return res
		}
		count++
		ctx.Symbols.Set(n.VarName, SetContext(NewNumber(i), ctx))
		v := res.Register(in.Visit(n.Body, ctx))
		if res.Err != nil {
			return res
		}
		elements = append(elements, v)
	}
	return res.Success(stamped(NewList(elements), n, ctx))
}

func (in *Interp) visitWhile(n *WhileNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	var elements []Value
	count := 0
	for {
		cond := res.Register(in.Visit(n.Cond, ctx))
		if res.Err != nil {
			return res
		}
		if !cond.Truth() {
			break
		}
		if in.loopBound(res, count, n, ctx) {
			return res
		}
		count++
		v := res.Register(in.Visit(n.Body, ctx))
		if res.Err != nil {
			return res
		}
		elements = append(elements, v)
	}
	return res.Success(stamped(NewList(elements), n, ctx))
}

// numberOperand evaluates a loop-bound expression, requiring a Number.
func (in *Interp) numberOperand(res *EvalResult, n Node, ctx *Context, what string) (float64, *RuntimeError) {
	v := res.Register(in.Visit(n, ctx))
	if res.Err != nil {
		return 0, res.Err
	}
	num, ok := v.(*Number)
	if !ok {
		res.Failure(newError(ErrType, ctx, n.Pos(), n.End(), "%s must be a number, not %s", what, TypeName(v)))
		return 0, res.Err
	}
	return num.Value, nil
}

func (in *Interp) visitFuncDef(n *FuncDefNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	fn := &Function{Name: n.Name, Params: n.Params, Body: n.Body, Defining: ctx}
	stamped(fn, n, ctx)
	if n.Name != "" {
		ctx.Symbols.Set(n.Name, fn)
	}
	return res.Success(fn)
}

func (in *Interp) visitCall(n *CallNode, ctx *Context) *EvalResult {
	res := &EvalResult{}
	callee := res.Register(in.Visit(n.Callee, ctx))
	if res.Err != nil {
		return res
	}
	callee = stamped(callee.Copy(), n, ctx)
	args := make([]Value, 0, len(n.Args))
	for _, a := range n.Args {
		v := res.Register(in.Visit(a, ctx))
		if res.Err != nil {
			return res
		}
		args = append(args, v)
	}
	v := res.Register(in.Call(callee, args, ctx, n.Pos(), n.End()))
	if res.Err != nil {
		return res
	}
	return res.Success(stamped(v.Copy(), n, ctx))
}

// Call applies a function value to already-evaluated arguments, following
// the call protocol: arity check, fresh execution context whose scope parent
// is the function's defining scope, parameter and __hoja binding, then the
// body (or the host handler for builtins).
func (in *Interp) Call(fn Value, args []Value, caller *Context, start, end Position) *EvalResult {
	res := &EvalResult{}
	if in.depth >= in.MaxCallDepth {
		return res.Failure(newError(ErrCallStack, caller, start, end, "Max call stack size exceeded"))
	}
	in.depth++
	defer func() { in.depth-- }()

	switch f := fn.(type) {
	case *Function:
		if err := in.checkArity(f.DisplayName(), f.Params, args, f, caller); err != nil {
			return res.Failure(err)
		}
		ec := in.executionContext(f.DisplayName(), caller, f, f.Defining.Symbols)
		in.bindArgs(ec, f.Params, args)
		v := res.Register(in.Visit(f.Body, ec))
		if res.Err != nil {
			return res
		}
		return res.Success(v)
	case *Builtin:
		if err := in.checkArity(f.Name, f.Params, args, f, caller); err != nil {
			return res.Failure(err)
		}
		ec := in.executionContext(f.Name, caller, f, in.Globals)
		in.bindArgs(ec, f.Params, args)
		return f.Handler(in, ec)
	}
	return res.Failure(newError(ErrIllegalOperation, caller, start, end,
		"value of type %s cannot be called", TypeName(fn)))
}

func (in *Interp) checkArity(name string, params []string, args []Value, fn Value, caller *Context) *RuntimeError {
	if len(args) == len(params) {
		return nil
	}
	start, end := fn.Pos()
	if len(args) > len(params) {
		return newError(ErrArityMismatch, caller, start, end,
			"%d too many arguments passed into %s", len(args)-len(params), name)
	}
	return newError(ErrArityMismatch, caller, start, end,
		"%d too few arguments passed into %s", len(params)-len(args), name)
}

func (in *Interp) executionContext(name string, caller *Context, fn Value, scope *SymbolTable) *Context {
	start, _ := fn.Pos()
	return NewContext(name, caller, start, NewSymbolTable(scope))
}

// bindArgs binds parameters in the execution context only; closures reach
// outer names through the symbol table's parent chain. The full argument
// list is also exposed as __hoja.
func (in *Interp) bindArgs(ec *Context, params []string, args []Value) {
	for i, p := range params {
		SetContext(args[i], ec)
		ec.Symbols.Set(p, args[i])
	}
	hoja := make([]Value, len(args))
	copy(hoja, args)
	ec.Symbols.Set("__hoja", SetContext(NewList(hoja), ec))
}
