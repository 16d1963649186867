package lugha_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lugha-lang/lugha"
	"github.com/lugha-lang/lugha/testutils"
)

func TestPrograms(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"Precedence": {
			Source: "x = 2 + 3 * 4",
			Pass:   testutils.PassNumber(14),
		},
		"FunctionCall": {
			Source: "shughuli mara(a, b) { rudisha a * b }\nmara(6, 7)",
			Pass:   testutils.PassNumber(42),
		},
		"Closure": {
			Source: "shughuli gen(n) { shughuli add(x) { rudisha x + n } }\ngen(10)(5)",
			Pass:   testutils.PassNumber(15),
		},
		"ForCollectsIterationValues": {
			Source: "kwa i = 1 mpaka 4 { andika(i) }",
			Pass:   testutils.PassListLen(3),
			Check: func(t *testing.T, h *testutils.ScriptHost) {
				assert.Equal(t, []string{"1", "2", "3"}, h.Output)
			},
		},
		"ForNegativeStep": {
			Source: "kwa i = 4 mpaka 0 hatua -1 { i }",
			Pass:   testutils.PassListLen(4),
		},
		"ForEmptyRange": {
			Source: "kwa i = 4 mpaka 4 { i }",
			Pass:   testutils.PassListLen(0),
		},
		"WhileCollects": {
			Source: "x = 0\nwakati x < 3 { x = x + 1 }",
			Pass:   testutils.PassListLen(3),
		},
		"DivisionByZero": {
			Source: "x = 1 / 0",
			Pass:   testutils.PassErrorKind(lugha.ErrOverflow),
		},
		"RunawayLoop": {
			Source: "wakati kweli { 1 }",
			Pass:   testutils.PassErrorKind(lugha.ErrCallStack),
		},
		"RunawayRecursion": {
			Source: "shughuli f(n) { rudisha f(n) }\nf(1)",
			Pass:   testutils.PassErrorKind(lugha.ErrCallStack),
		},
		"IfChain": {
			Source: "x = 2\nkama x == 1 { 10 } sivyo kama x == 2 { 20 } sivyo { 30 }",
			Pass:   testutils.PassNumber(20),
		},
		"IfNoMatchNoElse": {
			Source: "kama uwongo { 1 }",
			Pass:   testutils.PassNull(),
		},
		"Recursion": {
			Source: "shughuli fact(n) { kama n < 2 { rudisha 1 } sivyo { rudisha n * fact(n - 1) } }\nfact(5)",
			Pass:   testutils.PassNumber(120),
		},
		"Constants": {
			Source: "kweli",
			Pass:   testutils.PassBoolean(true),
		},
		"NullConstant": {
			Source: "tupu",
			Pass:   testutils.PassNull(),
		},
		"AssignShadowsInsideFunction": {
			Source: "x = 5\nshughuli f() { x = 3\nrudisha x }\nf() + x",
			Pass:   testutils.PassNumber(8),
		},
		"LastAssignmentWins": {
			Source: "x = 1\nx = 2\nx",
			Pass:   testutils.PassNumber(2),
		},
		"Hoja": {
			Source: "shughuli f(a, b) { rudisha idadi(__hoja) }\nf(1, 2)",
			Pass:   testutils.PassNumber(2),
		},
		"AnonymousCall": {
			Source: "f = shughuli (x) { rudisha x + 1 }\nf(4)",
			Pass:   testutils.PassNumber(5),
		},
		"CallNonFunction": {
			Source: "x = 5\nx(1)",
			Pass:   testutils.PassErrorKind(lugha.ErrIllegalOperation),
		},
		"Unbound": {
			Source: "hakuna",
			Pass:   testutils.PassErrorKind(lugha.ErrUnboundName),
		},
		"TooManyArgs": {
			Source: "shughuli f(a) { rudisha a }\nf(1, 2)",
			Pass:   testutils.PassErrorKind(lugha.ErrArityMismatch),
		},
		"TooFewArgs": {
			Source: "shughuli f(a, b) { rudisha a }\nf(1)",
			Pass:   testutils.PassErrorKind(lugha.ErrArityMismatch),
		},
		"NoShortCircuitAnd": {
			Source: `uwongo && andika("pia")`,
			Pass:   testutils.PassBoolean(false),
			Check: func(t *testing.T, h *testutils.ScriptHost) {
				assert.Equal(t, []string{"pia"}, h.Output)
			},
		},
		"NoShortCircuitOr": {
			Source: `kweli || andika("pia")`,
			Pass:   testutils.PassBoolean(true),
			Check: func(t *testing.T, h *testutils.ScriptHost) {
				assert.Equal(t, []string{"pia"}, h.Output)
			},
		},
		"NotNot": {
			Source: "!!5",
			Pass:   testutils.PassBoolean(true),
		},
		"ListLiteralAndIndex": {
			Source: "l = [10, 20, 30]\nl / 2",
			Pass:   testutils.PassNumber(30),
		},
		"ListAppendLength": {
			Source: "l = [1, 2]\nidadi(l + 3)",
			Pass:   testutils.PassNumber(3),
		},
		"ConcatLengthInvariant": {
			Source: `idadi("ha" + "bari") == idadi("ha") + idadi("bari")`,
			Pass:   testutils.PassBoolean(true),
		},
		"LoopBoundTypeError": {
			Source: `kwa i = "a" mpaka 3 { i }`,
			Pass:   testutils.PassErrorKind(lugha.ErrType),
		},
		"MultiStatementBody": {
			Source: "shughuli f() { a = 1\nb = 2\nrudisha a + b }\nf()",
			Pass:   testutils.PassNumber(3),
		},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc())
	}
}

func TestArityMessageNamesFunction(t *testing.T) {
	in := lugha.New(&testutils.ScriptHost{})
	_, err := in.RunString("shughuli f(a) { rudisha a }\nf(1, 2)", "test")
	re, ok := err.(*lugha.RuntimeError)
	require.True(t, ok, "got %T", err)
	assert.Contains(t, re.Msg, "1 too many")
	assert.Contains(t, re.Msg, "f")
}

func TestGlobalsPersistAcrossRuns(t *testing.T) {
	in := lugha.New(&testutils.ScriptHost{})
	_, err := in.RunString("x = 40", "a")
	require.NoError(t, err)
	v, err := in.RunString("x + 2", "b")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v.(*lugha.Number).Value)
}

func TestErrorInsideLoopPropagates(t *testing.T) {
	in := lugha.New(&testutils.ScriptHost{})
	_, err := in.RunString("kwa i = 0 mpaka 3 { 1 / 0 }", "test")
	re, ok := err.(*lugha.RuntimeError)
	require.True(t, ok, "got %T", err)
	assert.Equal(t, lugha.ErrOverflow, re.Kind)
}

func TestAccessedValueCarriesUseSite(t *testing.T) {
	in := lugha.New(&testutils.ScriptHost{})
	_, err := in.RunString("x = 5\nx - \"a\"", "test")
	re, ok := err.(*lugha.RuntimeError)
	require.True(t, ok, "got %T", err)
	// The error points at line 2, where x is used, not where it was set.
	assert.Equal(t, 2, re.PosStart.Line)
}

func TestRunReader(t *testing.T) {
	in := lugha.New(&testutils.ScriptHost{})
	v, err := in.Run(strings.NewReader("2 ^ 10"), "test")
	require.NoError(t, err)
	assert.Equal(t, 1024.0, v.(*lugha.Number).Value)
}
