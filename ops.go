package lugha

import (
	"math"
	"strings"
)

/*
The operation algebra. BinOp and UnaryOp pattern-match on the operand
variants; every combination outside the supported table is an Illegal
Operation spanning the left operand's start to the right operand's end.
Operands are never mutated; list results are built from fresh element
slices.
*/

func illegalOp(l, r Value) *RuntimeError {
	start, _ := l.Pos()
	_, end := r.Pos()
	return newError(ErrIllegalOperation, l.Context(), start, end,
		"operation not supported between %s and %s", TypeName(l), TypeName(r))
}

// BinOp applies a binary operator to two already-evaluated operands. Values
// built by the operation carry no position stamp, and list indexing returns
// the stored element with its own; callers stamp the result with the
// expression's span.
func BinOp(op TokenKind, l, r Value) (Value, *RuntimeError) {
	switch op {
	case TokenPlus:
		return add(l, r)
	case TokenMinus:
		return sub(l, r)
	case TokenMul:
		return mul(l, r)
	case TokenDiv:
		return div(l, r)
	case TokenPow:
		return pow(l, r)
	case TokenEE:
		return NewBoolean(Equal(l, r)), nil
	case TokenNE:
		return NewBoolean(!Equal(l, r)), nil
	case TokenLT, TokenGT, TokenLTE, TokenGTE:
		return compare(op, l, r)
	case TokenAnd:
		return NewBoolean(l.Truth() && r.Truth()), nil
	case TokenOr:
		return NewBoolean(l.Truth() || r.Truth()), nil
	}
	return nil, illegalOp(l, r)
}

// UnaryOp applies a prefix operator to an operand. Unary minus is a multiply
// by -1, so it is defined exactly where that product is.
func UnaryOp(op TokenKind, v Value) (Value, *RuntimeError) {
	switch op {
	case TokenMinus:
		return mul(v, NewNumber(-1))
	case TokenNot:
		return NewBoolean(!v.Truth()), nil
	}
	return nil, illegalOp(v, v)
}

func add(l, r Value) (Value, *RuntimeError) {
	switch lv := l.(type) {
	case *Number:
		if rv, ok := r.(*Number); ok {
			return NewNumber(lv.Value + rv.Value), nil
		}
	case *String:
		if rv, ok := r.(*String); ok {
			return NewString(lv.Value + rv.Value), nil
		}
	case *List:
		elements := make([]Value, 0, len(lv.Elements)+1)
		elements = append(elements, lv.Elements...)
		elements = append(elements, r)
		return NewList(elements), nil
	}
	return nil, illegalOp(l, r)
}

func sub(l, r Value) (Value, *RuntimeError) {
	switch lv := l.(type) {
	case *Number:
		if rv, ok := r.(*Number); ok {
			return NewNumber(lv.Value - rv.Value), nil
		}
	case *List:
		rv, ok := r.(*Number)
		if !ok {
			break
		}
		i, ok := asIndex(rv.Value, len(lv.Elements))
		if !ok {
			start, _ := l.Pos()
			_, end := r.Pos()
			return nil, newError(ErrIllegalOperation, l.Context(), start, end,
				"element at index %s could not be removed from list because index is out of range", rv)
		}
		elements := make([]Value, 0, len(lv.Elements)-1)
		elements = append(elements, lv.Elements[:i]...)
		elements = append(elements, lv.Elements[i+1:]...)
		return NewList(elements), nil
	}
	return nil, illegalOp(l, r)
}

func mul(l, r Value) (Value, *RuntimeError) {
	switch lv := l.(type) {
	case *Number:
		if rv, ok := r.(*Number); ok {
			return NewNumber(lv.Value * rv.Value), nil
		}
	case *String:
		rv, ok := r.(*Number)
		if !ok {
			break
		}
		n := int(rv.Value)
		if float64(n) != rv.Value || n < 0 {
			return nil, illegalOp(l, r)
		}
		return NewString(strings.Repeat(lv.Value, n)), nil
	case *List:
		rv, ok := r.(*List)
		if !ok {
			break
		}
		elements := make([]Value, 0, len(lv.Elements)+len(rv.Elements))
		elements = append(elements, lv.Elements...)
		elements = append(elements, rv.Elements...)
		return NewList(elements), nil
	}
	return nil, illegalOp(l, r)
}

func div(l, r Value) (Value, *RuntimeError) {
	switch lv := l.(type) {
	case *Number:
		rv, ok := r.(*Number)
		if !ok {
			break
		}
		if rv.Value == 0 {
			start, _ := l.Pos()
			_, end := r.Pos()
			return nil, newError(ErrOverflow, l.Context(), start, end, "Division by zero")
		}
		return NewNumber(lv.Value / rv.Value), nil
	case *List:
		rv, ok := r.(*Number)
		if !ok {
			break
		}
		i, ok := asIndex(rv.Value, len(lv.Elements))
		if !ok {
			start, _ := l.Pos()
			_, end := r.Pos()
			return nil, newError(ErrIllegalOperation, l.Context(), start, end,
				"element at index %s could not be retrieved from list because index is out of range", rv)
		}
		return lv.Elements[i], nil
	}
	return nil, illegalOp(l, r)
}

func pow(l, r Value) (Value, *RuntimeError) {
	lv, ok := l.(*Number)
	if !ok {
		return nil, illegalOp(l, r)
	}
	rv, ok := r.(*Number)
	if !ok {
		return nil, illegalOp(l, r)
	}
	return NewNumber(math.Pow(lv.Value, rv.Value)), nil
}

func compare(op TokenKind, l, r Value) (Value, *RuntimeError) {
	lv, ok := l.(*Number)
	if !ok {
		return nil, illegalOp(l, r)
	}
	rv, ok := r.(*Number)
	if !ok {
		return nil, illegalOp(l, r)
	}
	var b bool
	switch op {
	case TokenLT:
		b = lv.Value < rv.Value
	case TokenGT:
		b = lv.Value > rv.Value
	case TokenLTE:
		b = lv.Value <= rv.Value
	case TokenGTE:
		b = lv.Value >= rv.Value
	}
	return NewBoolean(b), nil
}

// Equal reports structural equality. Cross-variant comparisons are false,
// never an error. Numbers follow IEEE-754, so NaN is not equal to itself.
func Equal(l, r Value) bool {
	switch lv := l.(type) {
	case *Number:
		rv, ok := r.(*Number)
		return ok && lv.Value == rv.Value
	case *String:
		rv, ok := r.(*String)
		return ok && lv.Value == rv.Value
	case *Boolean:
		rv, ok := r.(*Boolean)
		return ok && lv.Value == rv.Value
	case *Null:
		_, ok := r.(*Null)
		return ok
	case *List:
		rv, ok := r.(*List)
		if !ok || len(lv.Elements) != len(rv.Elements) {
			return false
		}
		for i, e := range lv.Elements {
			if !Equal(e, rv.Elements[i]) {
				return false
			}
		}
		return true
	case *Function:
		rv, ok := r.(*Function)
		return ok && lv.Body == rv.Body && lv.Defining == rv.Defining
	case *Builtin:
		rv, ok := r.(*Builtin)
		return ok && lv.Name == rv.Name
	}
	return false
}

// asIndex reports whether f is an integer in [0, length).
func asIndex(f float64, length int) (int, bool) {
	i := int(f)
	if float64(i) != f || i < 0 || i >= length {
		return 0, false
	}
	return i, true
}
