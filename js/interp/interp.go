package interp

import (
	"math"

	"github.com/kestrelweb/corebrowser/browsererr"
	"github.com/kestrelweb/corebrowser/js/ast"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace { return tracing.Select("corebrowser.js.interp") }

// controlKind is the statement-execution completion signal, grounded on
// ControlFlow { None, Return(JsValue), Break, Continue }.
type controlKind uint8

const (
	flowNone controlKind = iota
	flowReturn
	flowBreak
	flowContinue
)

type control struct {
	kind controlKind
	val  Value
}

var ctrlNone = control{kind: flowNone}
var ctrlBreak = control{kind: flowBreak}
var ctrlContinue = control{kind: flowContinue}

func ctrlReturn(v Value) control { return control{kind: flowReturn, val: v} }

// Interp is a single JavaScript execution environment: one global object,
// a scope stack, and an execution-context stack for `this` binding. It is
// not safe for concurrent use, matching the single-threaded original.
type Interp struct {
	global  *Scope
	scope   *Scope
	ctxs    []execContext
	console []string // buffered console.log output, spec §4.10
}

// New creates an interpreter with the baseline global bindings every
// script expects (undefined/NaN/Infinity). Richer host bindings (console,
// window, document, timers, fetch) are installed separately by js/host so
// this package stays host-agnostic.
func New() *Interp {
	g := newScope(nil)
	g.define("undefined", Undefined)
	g.define("NaN", Number(math.NaN()))
	g.define("Infinity", Number(math.Inf(1)))
	in := &Interp{global: g, scope: g}
	in.ctxs = []execContext{globalContext()}
	return in
}

// DefineGlobal installs a binding in the global scope; js/host uses this to
// register console, Math, document, etc. without interp importing them.
func (in *Interp) DefineGlobal(name string, v Value) { in.global.define(name, v) }

// ConsoleOutput returns everything appended via AppendConsole, in order.
func (in *Interp) ConsoleOutput() []string { return in.console }

// AppendConsole records one line of console output; called by the console
// native function installed in js/host.
func (in *Interp) AppendConsole(line string) { in.console = append(in.console, line) }

func (in *Interp) pushScope() { in.scope = newScope(in.scope) }

func (in *Interp) popScope() {
	if in.scope.parent != nil {
		in.scope = in.scope.parent
	}
}

func (in *Interp) pushContext(c execContext) { in.ctxs = append(in.ctxs, c) }

func (in *Interp) popContext() {
	if len(in.ctxs) > 1 {
		in.ctxs = in.ctxs[:len(in.ctxs)-1]
	}
}

// getThis walks the context stack innermost-first, skipping arrow frames,
// mirroring Interpreter::get_this.
func (in *Interp) getThis() Value {
	for i := len(in.ctxs) - 1; i >= 0; i-- {
		if !in.ctxs[i].isArrow {
			return in.ctxs[i].this
		}
	}
	return Undefined
}

// Run executes a whole program and returns the value of its last
// expression statement, matching Interpreter::execute.
func (in *Interp) Run(prog *ast.Program) (Value, error) {
	result := Undefined
	for _, stmt := range prog.Statements {
		if es, ok := stmt.(*ast.ExprStmt); ok {
			v, err := in.eval(es.X)
			if err != nil {
				return Undefined, err
			}
			result = v
			continue
		}
		flow, err := in.execStmt(stmt)
		if err != nil {
			return Undefined, err
		}
		if flow.kind == flowReturn {
			return flow.val, nil
		}
	}
	return result, nil
}

func (in *Interp) execStmt(stmt ast.Stmt) (control, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		for _, d := range s.Declarators {
			v := Undefined
			if d.Init != nil {
				var err error
				v, err = in.eval(d.Init)
				if err != nil {
					return ctrlNone, err
				}
			}
			in.scope.define(d.Name, v)
		}
		return ctrlNone, nil

	case *ast.ExprStmt:
		if _, err := in.eval(s.X); err != nil {
			return ctrlNone, err
		}
		return ctrlNone, nil

	case *ast.BlockStmt:
		in.pushScope()
		defer in.popScope()
		for _, b := range s.Body {
			flow, err := in.execStmt(b)
			if err != nil {
				return ctrlNone, err
			}
			if flow.kind != flowNone {
				return flow, nil
			}
		}
		return ctrlNone, nil

	case *ast.IfStmt:
		cond, err := in.eval(s.Cond)
		if err != nil {
			return ctrlNone, err
		}
		if cond.IsTruthy() {
			return in.execStmt(s.Then)
		}
		if s.Else != nil {
			return in.execStmt(s.Else)
		}
		return ctrlNone, nil

	case *ast.WhileStmt:
		for {
			cond, err := in.eval(s.Cond)
			if err != nil {
				return ctrlNone, err
			}
			if !cond.IsTruthy() {
				break
			}
			flow, err := in.execStmt(s.Body)
			if err != nil {
				return ctrlNone, err
			}
			if flow.kind == flowBreak {
				break
			}
			if flow.kind == flowReturn {
				return flow, nil
			}
		}
		return ctrlNone, nil

	case *ast.DoWhileStmt:
		for {
			flow, err := in.execStmt(s.Body)
			if err != nil {
				return ctrlNone, err
			}
			if flow.kind == flowBreak {
				break
			}
			if flow.kind == flowReturn {
				return flow, nil
			}
			cond, err := in.eval(s.Cond)
			if err != nil {
				return ctrlNone, err
			}
			if !cond.IsTruthy() {
				break
			}
		}
		return ctrlNone, nil

	case *ast.ForStmt:
		in.pushScope()
		defer in.popScope()
		if s.Init != nil {
			if _, err := in.execStmt(s.Init); err != nil {
				return ctrlNone, err
			}
		}
		for {
			if s.Cond != nil {
				cond, err := in.eval(s.Cond)
				if err != nil {
					return ctrlNone, err
				}
				if !cond.IsTruthy() {
					break
				}
			}
			flow, err := in.execStmt(s.Body)
			if err != nil {
				return ctrlNone, err
			}
			if flow.kind == flowBreak {
				break
			}
			if flow.kind == flowReturn {
				return flow, nil
			}
			if s.Update != nil {
				if _, err := in.eval(s.Update); err != nil {
					return ctrlNone, err
				}
			}
		}
		return ctrlNone, nil

	case *ast.ForInStmt:
		return in.execForIn(s)

	case *ast.ForOfStmt:
		return in.execForOf(s)

	case *ast.FuncDecl:
		in.scope.define(s.Name, FunctionValue(&Function{
			Name: s.Name, Params: s.Params, Body: s.Body, Closure: in.scope,
		}))
		return ctrlNone, nil

	case *ast.ReturnStmt:
		v := Undefined
		if s.X != nil {
			var err error
			v, err = in.eval(s.X)
			if err != nil {
				return ctrlNone, err
			}
		}
		return ctrlReturn(v), nil

	case *ast.BreakStmt:
		return ctrlBreak, nil

	case *ast.ContinueStmt:
		return ctrlContinue, nil

	case *ast.EmptyStmt:
		return ctrlNone, nil

	case *ast.TryStmt:
		return in.execTry(s)

	case *ast.ThrowStmt:
		v, err := in.eval(s.X)
		if err != nil {
			return ctrlNone, err
		}
		return ctrlNone, browsererr.NewRuntimeError(v.ToJsString())

	case *ast.SwitchStmt:
		return in.execSwitch(s)

	case *ast.ClassDecl:
		// Class bodies are parsed-and-discarded (js/ast's documented
		// simplification); define a placeholder constructor function so
		// `new Foo()` and references to the name don't fail outright.
		in.scope.define(s.Name, FunctionValue(&Function{Name: s.Name}))
		return ctrlNone, nil

	case *ast.LabeledStmt:
		// Labels are recorded for introspection (ast.LabeledStmt.Label)
		// but break/continue never target a specific label, matching the
		// original's own simplified Labeled handling.
		return in.execStmt(s.Body)

	case *ast.WithStmt:
		return in.execStmt(s.Body)

	case *ast.DebuggerStmt:
		tracer().Debugf("debugger statement hit")
		return ctrlNone, nil

	default:
		return ctrlNone, browsererr.NewRuntimeError("unsupported statement")
	}
}

func (in *Interp) execTry(s *ast.TryStmt) (control, error) {
	flow, err := in.execStmt(s.Block)
	if err != nil && s.Catch != nil {
		in.pushScope()
		if s.Catch.Param != "" {
			in.scope.define(s.Catch.Param, String(err.Error()))
		}
		flow, err = in.execStmt(s.Catch.Body)
		in.popScope()
	}
	if s.Finally != nil {
		finallyFlow, ferr := in.execStmt(s.Finally)
		if ferr != nil {
			return ctrlNone, ferr
		}
		// A completion started inside try/catch (return, break, continue)
		// cannot be swallowed by finally running to normal completion, but
		// finally's own completion overrides it if finally itself returns,
		// breaks, or continues.
		if finallyFlow.kind != flowNone {
			return finallyFlow, nil
		}
	}
	return flow, err
}

func (in *Interp) execSwitch(s *ast.SwitchStmt) (control, error) {
	disc, err := in.eval(s.Disc)
	if err != nil {
		return ctrlNone, err
	}
	matched := false
	fellThrough := false
	runBody := func(body []ast.Stmt) (control, bool, error) {
		for _, stmt := range body {
			flow, err := in.execStmt(stmt)
			if err != nil {
				return ctrlNone, false, err
			}
			if flow.kind == flowBreak {
				return ctrlNone, true, nil
			}
			if flow.kind == flowReturn {
				return flow, true, nil
			}
		}
		return ctrlNone, false, nil
	}
	for _, c := range s.Cases {
		if c.Test != nil && !matched && !fellThrough {
			testVal, err := in.eval(c.Test)
			if err != nil {
				return ctrlNone, err
			}
			if disc.Equals(testVal) {
				matched = true
			}
		}
		if matched || fellThrough {
			flow, done, err := runBody(c.Body)
			if err != nil {
				return ctrlNone, err
			}
			if done {
				return flow, nil
			}
			fellThrough = true
		}
	}
	return ctrlNone, nil
}

func (in *Interp) execForIn(s *ast.ForInStmt) (control, error) {
	iter, err := in.eval(s.Iterable)
	if err != nil {
		return ctrlNone, err
	}
	in.pushScope()
	defer in.popScope()
	switch iter.Kind {
	case KindObject:
		for _, k := range iter.Obj.Keys {
			in.scope.define(s.VarName, String(k))
			flow, err := in.execStmt(s.Body)
			if err != nil {
				return ctrlNone, err
			}
			if flow.kind == flowBreak {
				break
			}
			if flow.kind == flowReturn {
				return flow, nil
			}
		}
	case KindArray:
		for i := range iter.Arr.Elems {
			in.scope.define(s.VarName, Number(float64(i)))
			flow, err := in.execStmt(s.Body)
			if err != nil {
				return ctrlNone, err
			}
			if flow.kind == flowBreak {
				break
			}
			if flow.kind == flowReturn {
				return flow, nil
			}
		}
	}
	return ctrlNone, nil
}

func (in *Interp) execForOf(s *ast.ForOfStmt) (control, error) {
	iter, err := in.eval(s.Iterable)
	if err != nil {
		return ctrlNone, err
	}
	in.pushScope()
	defer in.popScope()
	switch iter.Kind {
	case KindArray:
		for _, item := range iter.Arr.Elems {
			in.scope.define(s.VarName, item)
			flow, err := in.execStmt(s.Body)
			if err != nil {
				return ctrlNone, err
			}
			if flow.kind == flowBreak {
				break
			}
			if flow.kind == flowReturn {
				return flow, nil
			}
		}
	case KindString:
		for _, c := range iter.Str {
			in.scope.define(s.VarName, String(string(c)))
			flow, err := in.execStmt(s.Body)
			if err != nil {
				return ctrlNone, err
			}
			if flow.kind == flowBreak {
				break
			}
			if flow.kind == flowReturn {
				return flow, nil
			}
		}
	}
	return ctrlNone, nil
}
