package parser

import (
	"testing"

	"github.com/kestrelweb/corebrowser/js/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarDeclaration(t *testing.T) {
	prog, err := Parse("let x = 1 + 2;")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	decl := prog.Statements[0].(*ast.VarDecl)
	assert.Equal(t, ast.VarLet, decl.Kind)
	assert.Equal(t, "x", decl.Declarators[0].Name)
	bin := decl.Declarators[0].Init.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpAdd, bin.Op)
}

func TestIfElse(t *testing.T) {
	prog, err := Parse("if (a) { b; } else { c; }")
	require.NoError(t, err)
	ifStmt := prog.Statements[0].(*ast.IfStmt)
	assert.NotNil(t, ifStmt.Then)
	assert.NotNil(t, ifStmt.Else)
}

func TestFunctionDeclarationAndCall(t *testing.T) {
	prog, err := Parse("function add(a, b) { return a + b; } add(1, 2);")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)
	fn := prog.Statements[0].(*ast.FuncDecl)
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params, 2)
	exprStmt := prog.Statements[1].(*ast.ExprStmt)
	call := exprStmt.X.(*ast.CallExpr)
	assert.Len(t, call.Args, 2)
}

func TestArrowFunctionConciseBody(t *testing.T) {
	prog, err := Parse("let f = x => x * 2;")
	require.NoError(t, err)
	decl := prog.Statements[0].(*ast.VarDecl)
	arrow := decl.Declarators[0].Init.(*ast.ArrowExpr)
	require.Len(t, arrow.Params, 1)
	assert.Equal(t, "x", arrow.Params[0].Name)
	assert.NotNil(t, arrow.ExprBody)
}

func TestArrowFunctionWithParamListAndBlockBody(t *testing.T) {
	prog, err := Parse("let f = (a, b) => { return a + b; };")
	require.NoError(t, err)
	decl := prog.Statements[0].(*ast.VarDecl)
	arrow := decl.Declarators[0].Init.(*ast.ArrowExpr)
	require.Len(t, arrow.Params, 2)
	require.Len(t, arrow.Body, 1)
}

func TestTernaryAndNullish(t *testing.T) {
	prog, err := Parse("let x = a ?? b ? 1 : 2;")
	require.NoError(t, err)
	decl := prog.Statements[0].(*ast.VarDecl)
	tern := decl.Declarators[0].Init.(*ast.TernaryExpr)
	cond := tern.Cond.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpNullish, cond.Op)
}

func TestMemberAndOptionalChaining(t *testing.T) {
	prog, err := Parse("a.b?.c;")
	require.NoError(t, err)
	exprStmt := prog.Statements[0].(*ast.ExprStmt)
	outer := exprStmt.X.(*ast.MemberExpr)
	assert.True(t, outer.Optional)
	inner := outer.Object.(*ast.MemberExpr)
	assert.False(t, inner.Optional)
}

func TestForLoop(t *testing.T) {
	prog, err := Parse("for (let i = 0; i < 10; i = i + 1) { x; }")
	require.NoError(t, err)
	forStmt := prog.Statements[0].(*ast.ForStmt)
	assert.NotNil(t, forStmt.Init)
	assert.NotNil(t, forStmt.Cond)
	assert.NotNil(t, forStmt.Update)
}

func TestForOfLoop(t *testing.T) {
	prog, err := Parse("for (const item of items) { use(item); }")
	require.NoError(t, err)
	forOf := prog.Statements[0].(*ast.ForOfStmt)
	assert.Equal(t, "item", forOf.VarName)
	assert.Equal(t, ast.VarConst, forOf.Kind)
}

func TestTryCatchFinally(t *testing.T) {
	prog, err := Parse("try { risky(); } catch (e) { handle(e); } finally { cleanup(); }")
	require.NoError(t, err)
	tryStmt := prog.Statements[0].(*ast.TryStmt)
	require.NotNil(t, tryStmt.Catch)
	assert.Equal(t, "e", tryStmt.Catch.Param)
	assert.NotNil(t, tryStmt.Finally)
}

func TestSwitchStatement(t *testing.T) {
	prog, err := Parse(`switch (x) { case 1: a(); break; default: b(); }`)
	require.NoError(t, err)
	sw := prog.Statements[0].(*ast.SwitchStmt)
	require.Len(t, sw.Cases, 2)
	assert.NotNil(t, sw.Cases[0].Test)
	assert.Nil(t, sw.Cases[1].Test)
}

func TestObjectAndArrayLiterals(t *testing.T) {
	prog, err := Parse(`let o = { a: 1, b, c() { return 1; } }; let arr = [1, , 3];`)
	require.NoError(t, err)
	objDecl := prog.Statements[0].(*ast.VarDecl)
	obj := objDecl.Declarators[0].Init.(*ast.ObjectLit)
	require.Len(t, obj.Props, 3)
	assert.True(t, obj.Props[1].Shorthand)
	assert.True(t, obj.Props[2].Method)

	arrDecl := prog.Statements[1].(*ast.VarDecl)
	arr := arrDecl.Declarators[0].Init.(*ast.ArrayLit)
	require.Len(t, arr.Elements, 3)
	assert.Nil(t, arr.Elements[1])
}

func TestTemplateLiteralWithSubstitution(t *testing.T) {
	prog, err := Parse("let s = `hello ${name}!`;")
	require.NoError(t, err)
	decl := prog.Statements[0].(*ast.VarDecl)
	tmpl := decl.Declarators[0].Init.(*ast.TemplateLit)
	require.Len(t, tmpl.Quasis, 2)
	assert.Equal(t, "hello ", tmpl.Quasis[0])
	assert.Equal(t, "!", tmpl.Quasis[1])
	require.Len(t, tmpl.Exprs, 1)
	ident := tmpl.Exprs[0].(*ast.Ident)
	assert.Equal(t, "name", ident.Name)
}

func TestClassDeclarationBodySkipped(t *testing.T) {
	prog, err := Parse("class Foo extends Bar { constructor() { this.x = 1; } greet() { return 1; } }")
	require.NoError(t, err)
	cls := prog.Statements[0].(*ast.ClassDecl)
	assert.Equal(t, "Foo", cls.Name)
	assert.Equal(t, "Bar", cls.Extends)
	assert.Contains(t, cls.Methods, "constructor")
	assert.Contains(t, cls.Methods, "greet")
}

func TestLabeledBreak(t *testing.T) {
	prog, err := Parse("outer: while (true) { break outer; }")
	require.NoError(t, err)
	labeled := prog.Statements[0].(*ast.LabeledStmt)
	assert.Equal(t, "outer", labeled.Label)
}

func TestCompoundAssignment(t *testing.T) {
	prog, err := Parse("x += 1;")
	require.NoError(t, err)
	exprStmt := prog.Statements[0].(*ast.ExprStmt)
	ca := exprStmt.X.(*ast.CompoundAssignExpr)
	assert.Equal(t, ast.OpAdd, ca.Op)
}

func TestNewExpression(t *testing.T) {
	prog, err := Parse("new Foo(1, 2);")
	require.NoError(t, err)
	exprStmt := prog.Statements[0].(*ast.ExprStmt)
	n := exprStmt.X.(*ast.NewExpr)
	require.Len(t, n.Args, 2)
}
