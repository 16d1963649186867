package lugha

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPropagatesError(t *testing.T) {
	boom := newError(ErrOverflow, nil, Position{}, Position{}, "Division by zero")
	res := &EvalResult{}
	v := res.Register((&EvalResult{}).Failure(boom))
	assert.Nil(t, v)
	assert.Equal(t, boom, res.Err)
}

func TestRegisterReturnsValue(t *testing.T) {
	res := &EvalResult{}
	v := res.Register((&EvalResult{}).Success(NewNumber(3)))
	assert.Nil(t, res.Err)
	assert.Equal(t, 3.0, v.(*Number).Value)
}

func TestSuccessNeverClearsError(t *testing.T) {
	boom := newError(ErrType, nil, Position{}, Position{}, "nope")
	res := (&EvalResult{}).Failure(boom)
	res.Success(NewNumber(1))
	assert.Equal(t, boom, res.Err)
	assert.Nil(t, res.Value)
}
