package interp

import (
	"testing"

	"github.com/kestrelweb/corebrowser/js/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (Value, *Interp) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	in := New()
	v, err := in.Run(prog)
	require.NoError(t, err)
	return v, in
}

func TestVarAndArithmetic(t *testing.T) {
	v, _ := run(t, "let x = 1 + 2 * 3; x;")
	assert.Equal(t, Number(7), v)
}

func TestFunctionCallAndReturn(t *testing.T) {
	v, _ := run(t, "function add(a, b) { return a + b; } add(2, 3);")
	assert.Equal(t, Number(5), v)
}

func TestClosureCapturesDefiningScope(t *testing.T) {
	v, _ := run(t, `
		function makeCounter() {
			let n = 0;
			function inc() { n = n + 1; return n; }
			inc();
			return inc();
		}
		makeCounter();
	`)
	assert.Equal(t, Number(2), v)
}

func TestArrowInheritsOuterThis(t *testing.T) {
	v, _ := run(t, `
		let obj = {
			value: 41,
			get() {
				let fn = () => this.value + 1;
				return fn();
			}
		};
		obj.get();
	`)
	assert.Equal(t, Number(42), v)
}

func TestImplicitGlobalOnUndeclaredAssign(t *testing.T) {
	_, in := run(t, "y = 5;")
	v, ok := in.global.get("y")
	require.True(t, ok)
	assert.Equal(t, Number(5), v)
}

func TestForLoopAccumulates(t *testing.T) {
	v, _ := run(t, "let sum = 0; for (let i = 0; i < 5; i = i + 1) { sum = sum + i; } sum;")
	assert.Equal(t, Number(10), v)
}

func TestForOfOverArray(t *testing.T) {
	v, _ := run(t, "let sum = 0; for (const x of [1, 2, 3]) { sum = sum + x; } sum;")
	assert.Equal(t, Number(6), v)
}

func TestSwitchFallthrough(t *testing.T) {
	v, _ := run(t, `
		let out = "";
		switch (2) {
			case 1: out = out + "a";
			case 2: out = out + "b";
			case 3: out = out + "c"; break;
			case 4: out = out + "d";
		}
		out;
	`)
	assert.Equal(t, String("bc"), v)
}

func TestTryCatchBindsError(t *testing.T) {
	v, _ := run(t, `
		let msg = "";
		try { throw "boom"; } catch (e) { msg = e; }
		msg;
	`)
	assert.Equal(t, String("Uncaught boom"), v)
}

func TestTryFinallyAlwaysRuns(t *testing.T) {
	v, _ := run(t, `
		let log = "";
		function f() {
			try { return "a"; } finally { log = log + "f"; }
		}
		f();
		log;
	`)
	assert.Equal(t, String("f"), v)
}

func TestFinallyReturnOverridesTryReturn(t *testing.T) {
	v, _ := run(t, `
		function f() {
			try { return 1; } finally { return 2; }
		}
		f();
	`)
	assert.Equal(t, Number(2), v)
}

func TestMemberAssignmentMutatesObject(t *testing.T) {
	v, _ := run(t, "let o = { a: 1 }; o.a = 9; o.a;")
	assert.Equal(t, Number(9), v)
}

func TestArrayIndexAssignmentGrows(t *testing.T) {
	v, _ := run(t, "let arr = [1]; arr[3] = 9; arr.length;")
	assert.Equal(t, Number(4), v)
}

func TestTemplateLiteralInterpolation(t *testing.T) {
	v, _ := run(t, "let name = \"world\"; `hello ${name}!`;")
	assert.Equal(t, String("hello world!"), v)
}

func TestTernaryAndNullish(t *testing.T) {
	v, _ := run(t, "let a; a ?? 3;")
	assert.Equal(t, Number(3), v)
}

func TestTypeofAndStrictEquality(t *testing.T) {
	v, _ := run(t, `typeof 1 === "number";`)
	assert.Equal(t, Bool(true), v)
}
