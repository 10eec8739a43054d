// Package parser turns a JavaScript token stream into the ast package's
// tree, grounded on original_source/crates/js_engine/src/parser.rs's
// method-per-precedence-level recursive descent. The original's precedence
// chain is extended with the bitwise, shift, nullish-coalescing and
// exponentiation levels spec §4.8 calls for, and with compound assignment,
// optional chaining, for-in/for-of, and labeled statements; automatic
// semicolon insertion keeps the original's documented leniency (no line-
// terminator tracking, so a missing semicolon before `}`, EOF, or a
// statement-starting keyword is simply accepted).
package parser

import (
	"fmt"

	"github.com/kestrelweb/corebrowser/browsererr"
	"github.com/kestrelweb/corebrowser/js/ast"
	"github.com/kestrelweb/corebrowser/js/token"
)

// Parser pulls tokens lazily from a Tokenizer into a buffer, rather than
// pre-lexing the whole source: template literals require resuming the
// tokenizer mid-stream via ReadTemplateContinuation once the parser has
// consumed a `${...}` substitution expression, which a flat pre-lexed
// slice cannot support (spec §4.7/§4.8's lockstep lexer/parser template
// handling). The buffer keeps every token read so far and pos marks the
// next one, so saving and restoring pos backtracks a speculative parse.
type Parser struct {
	tz  *token.Tokenizer
	buf []token.Token
	pos int
	err error
}

// New wraps a tokenizer positioned at the start of its source.
func New(tz *token.Tokenizer) *Parser { return &Parser{tz: tz} }

// Parse lexes and parses src in one step.
func Parse(src string) (*ast.Program, error) {
	return New(token.New(src)).ParseProgram()
}

// ParseProgram parses the whole token stream as a sequence of statements.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	var stmts []ast.Stmt
	for !p.atEnd() {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if p.err != nil {
		return nil, p.err
	}
	return &ast.Program{Statements: stmts}, nil
}

// fill ensures buf holds at least n+1 tokens from pos onward, lexing more
// on demand. Once the tokenizer errors, fill pads with synthetic EOF tokens
// so peek/advance never index out of range; the stored error surfaces at
// ParseProgram.
func (p *Parser) fill(n int) {
	for len(p.buf) <= p.pos+n {
		if p.err != nil {
			p.buf = append(p.buf, token.Token{Kind: token.EOF})
			continue
		}
		tok, err := p.tz.Next()
		if err != nil {
			p.err = err
			p.buf = append(p.buf, token.Token{Kind: token.EOF})
			continue
		}
		p.buf = append(p.buf, tok)
	}
}

func (p *Parser) peek() token.Token {
	p.fill(0)
	return p.buf[p.pos]
}

func (p *Parser) peekAt(off int) token.Token {
	p.fill(off)
	return p.buf[p.pos+off]
}

func (p *Parser) atEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	p.fill(0)
	t := p.buf[p.pos]
	p.pos++
	return t
}

// resumeTemplateContinuation discards the buffered "}" that closed a
// `${...}` substitution (the tokenizer already advanced past it as an
// ordinary Punct token) and resumes template lexing from that position.
func (p *Parser) resumeTemplateContinuation() token.Token {
	if p.pos < len(p.buf) {
		p.pos++
	}
	tok, err := p.tz.ReadTemplateContinuation()
	if err != nil {
		p.err = err
		return token.Token{Kind: token.EOF}
	}
	return tok
}

func (p *Parser) isText(text string) bool { return p.peek().Text == text }

func (p *Parser) isKeyword(word string) bool {
	t := p.peek()
	return t.Kind == token.Keyword && t.Text == word
}

func (p *Parser) matchText(text string) bool {
	if p.isText(text) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchKeyword(word string) bool {
	if p.isKeyword(word) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expectText(text string) error {
	if p.matchText(text) {
		return nil
	}
	return browsererr.NewSyntaxError(fmt.Sprintf("expected %q, got %q", text, p.peek().Text))
}

func (p *Parser) expectIdentifier() (string, error) {
	t := p.peek()
	if t.Kind == token.Identifier {
		p.advance()
		return t.Text, nil
	}
	// Keywords are permitted as property/identifier names, matching the
	// original's expect_identifier_or_keyword leniency.
	if t.Kind == token.Keyword {
		p.advance()
		return t.Text, nil
	}
	return "", browsererr.NewSyntaxError(fmt.Sprintf("expected identifier, got %q", t.Text))
}

// consumeSemicolon implements the original's lenient ASI: a semicolon is
// consumed if present; otherwise it is accepted as inserted before `}`,
// EOF, or the start of a new statement.
func (p *Parser) consumeSemicolon() {
	if p.matchText(";") {
		return
	}
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	t := p.peek()
	if t.Kind == token.Keyword {
		switch t.Text {
		case "var", "let", "const":
			return p.parseVarDecl()
		case "function":
			return p.parseFuncDecl(false)
		case "async":
			if p.peekAt(1).Text == "function" {
				p.advance()
				return p.parseFuncDecl(true)
			}
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "do":
			return p.parseDoWhile()
		case "for":
			return p.parseFor()
		case "return":
			return p.parseReturn()
		case "break":
			p.advance()
			label := p.optionalLabelRef()
			p.consumeSemicolon()
			return &ast.BreakStmt{Label: label}, nil
		case "continue":
			p.advance()
			label := p.optionalLabelRef()
			p.consumeSemicolon()
			return &ast.ContinueStmt{Label: label}, nil
		case "try":
			return p.parseTry()
		case "throw":
			return p.parseThrow()
		case "switch":
			return p.parseSwitch()
		case "class":
			return p.parseClassDecl()
		case "import":
			return p.skipToSemicolon()
		case "export":
			return p.parseExport()
		case "with":
			return p.parseWith()
		case "debugger":
			p.advance()
			p.consumeSemicolon()
			return &ast.DebuggerStmt{}, nil
		}
	}
	if t.Text == "{" {
		return p.parseBlock()
	}
	if t.Text == ";" {
		p.advance()
		return &ast.EmptyStmt{}, nil
	}
	// A leading `identifier :` is a label (spec §4.8's labeled statements).
	if t.Kind == token.Identifier && p.peekAt(1).Text == ":" {
		p.advance()
		p.advance()
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return &ast.LabeledStmt{Label: t.Text, Body: body}, nil
	}
	return p.parseExprStatement()
}

// optionalLabelRef reads a bare identifier following break/continue when
// present on the same statement, without any line-terminator check (the
// tokenizer does not preserve newlines).
func (p *Parser) optionalLabelRef() string {
	if p.peek().Kind == token.Identifier && !p.isText(";") {
		t := p.advance()
		return t.Text
	}
	return ""
}

func (p *Parser) skipToSemicolon() (ast.Stmt, error) {
	p.advance()
	for !p.isText(";") && !p.atEnd() {
		p.advance()
	}
	p.consumeSemicolon()
	return &ast.EmptyStmt{}, nil
}

func (p *Parser) parseExport() (ast.Stmt, error) {
	p.advance() // 'export'
	if p.isKeyword("function") || p.isKeyword("class") {
		return p.parseStatement()
	}
	if p.isKeyword("var") || p.isKeyword("let") || p.isKeyword("const") {
		return p.parseVarDecl()
	}
	for !p.isText(";") && !p.atEnd() {
		p.advance()
	}
	p.consumeSemicolon()
	return &ast.EmptyStmt{}, nil
}

func (p *Parser) parseWith() (ast.Stmt, error) {
	p.advance()
	if err := p.expectText("("); err != nil {
		return nil, err
	}
	obj, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectText(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WithStmt{Object: obj, Body: body}, nil
}

func (p *Parser) varKind(word string) ast.VarKind {
	switch word {
	case "let":
		return ast.VarLet
	case "const":
		return ast.VarConst
	default:
		return ast.VarVar
	}
}

func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	kind := p.varKind(p.advance().Text)
	var decls []ast.VarDeclarator
	for {
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		var init ast.Expr
		if p.matchText("=") {
			init, err = p.parseAssignment()
			if err != nil {
				return nil, err
			}
		}
		decls = append(decls, ast.VarDeclarator{Name: name, Init: init})
		if !p.matchText(",") {
			break
		}
	}
	p.consumeSemicolon()
	return &ast.VarDecl{Kind: kind, Declarators: decls}, nil
}

func (p *Parser) parseParams() ([]ast.Param, error) {
	var params []ast.Param
	if !p.isText(")") {
		for {
			var param ast.Param
			if p.matchText("...") {
				param.Rest = true
			}
			name, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			param.Name = name
			if p.matchText("=") {
				def, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				param.Default = def
			}
			params = append(params, param)
			if !p.matchText(",") {
				break
			}
		}
	}
	return params, nil
}

func (p *Parser) parseFuncDecl(async bool) (ast.Stmt, error) {
	p.advance() // 'function'
	p.matchText("*") // generator marker accepted, not modeled (spec §9)
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expectText("("); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if err := p.expectText(")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatements()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Name: name, Params: params, Body: body, Async: async}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	p.advance()
	if err := p.expectText("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectText(")"); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if p.matchKeyword("else") {
		elseStmt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseStmt}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	p.advance()
	if err := p.expectText("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectText(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body}, nil
}

func (p *Parser) parseDoWhile() (ast.Stmt, error) {
	p.advance()
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("while") {
		return nil, browsererr.NewSyntaxError("expected 'while'")
	}
	p.advance()
	if err := p.expectText("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectText(")"); err != nil {
		return nil, err
	}
	p.consumeSemicolon()
	return &ast.DoWhileStmt{Body: body, Cond: cond}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	p.advance()
	if err := p.expectText("("); err != nil {
		return nil, err
	}

	if p.isKeyword("var") || p.isKeyword("let") || p.isKeyword("const") {
		kind := p.varKind(p.peek().Text)
		// Peek past "kind ident" to see if 'in' or 'of' follows, which
		// distinguishes a for-in/for-of head from a classic C-style head.
		save := p.pos
		p.advance()
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		if p.isKeyword("in") || p.isKeyword("of") {
			isOf := p.isKeyword("of")
			p.advance()
			iterable, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectText(")"); err != nil {
				return nil, err
			}
			body, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			if isOf {
				return &ast.ForOfStmt{Kind: kind, VarName: name, Iterable: iterable, Body: body}, nil
			}
			return &ast.ForInStmt{Kind: kind, VarName: name, Iterable: iterable, Body: body}, nil
		}
		p.pos = save
		initStmt, err := p.parseVarDeclNoConsumeSemi()
		if err != nil {
			return nil, err
		}
		return p.parseForRest(initStmt)
	}

	if p.matchText(";") {
		return p.parseForRest(nil)
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectText(";"); err != nil {
		return nil, err
	}
	return p.parseForRest(&ast.ExprStmt{X: expr})
}

// parseVarDeclNoConsumeSemi re-parses a var/let/const declaration head for
// a classic for-loop initializer, where the trailing ';' is consumed by
// parseForRest rather than consumeSemicolon's ASI leniency.
func (p *Parser) parseVarDeclNoConsumeSemi() (ast.Stmt, error) {
	kind := p.varKind(p.advance().Text)
	var decls []ast.VarDeclarator
	for {
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		var init ast.Expr
		if p.matchText("=") {
			init, err = p.parseAssignment()
			if err != nil {
				return nil, err
			}
		}
		decls = append(decls, ast.VarDeclarator{Name: name, Init: init})
		if !p.matchText(",") {
			break
		}
	}
	if err := p.expectText(";"); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Kind: kind, Declarators: decls}, nil
}

func (p *Parser) parseForRest(init ast.Stmt) (ast.Stmt, error) {
	var cond ast.Expr
	if !p.isText(";") {
		var err error
		cond, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectText(";"); err != nil {
		return nil, err
	}
	var update ast.Expr
	if !p.isText(")") {
		var err error
		update, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectText(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Init: init, Cond: cond, Update: update, Body: body}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	p.advance()
	if p.isText(";") || p.isText("}") || p.atEnd() {
		p.consumeSemicolon()
		return &ast.ReturnStmt{}, nil
	}
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.consumeSemicolon()
	return &ast.ReturnStmt{X: x}, nil
}

func (p *Parser) parseBlock() (ast.Stmt, error) {
	body, err := p.parseBlockStatements()
	if err != nil {
		return nil, err
	}
	return &ast.BlockStmt{Body: body}, nil
}

func (p *Parser) parseBlockStatements() ([]ast.Stmt, error) {
	if err := p.expectText("{"); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.isText("}") && !p.atEnd() {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if err := p.expectText("}"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseTry() (ast.Stmt, error) {
	p.advance()
	blockStmts, err := p.parseBlockStatements()
	if err != nil {
		return nil, err
	}
	block := &ast.BlockStmt{Body: blockStmts}

	var catch *ast.CatchClause
	if p.matchKeyword("catch") {
		var paramName string
		if p.matchText("(") {
			paramName, err = p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			if err := p.expectText(")"); err != nil {
				return nil, err
			}
		}
		catchBody, err := p.parseBlockStatements()
		if err != nil {
			return nil, err
		}
		catch = &ast.CatchClause{Param: paramName, Body: &ast.BlockStmt{Body: catchBody}}
	}

	var finally *ast.BlockStmt
	if p.matchKeyword("finally") {
		finallyBody, err := p.parseBlockStatements()
		if err != nil {
			return nil, err
		}
		finally = &ast.BlockStmt{Body: finallyBody}
	}

	return &ast.TryStmt{Block: block, Catch: catch, Finally: finally}, nil
}

func (p *Parser) parseThrow() (ast.Stmt, error) {
	p.advance()
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.consumeSemicolon()
	return &ast.ThrowStmt{X: x}, nil
}

func (p *Parser) parseSwitch() (ast.Stmt, error) {
	p.advance()
	if err := p.expectText("("); err != nil {
		return nil, err
	}
	disc, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectText(")"); err != nil {
		return nil, err
	}
	if err := p.expectText("{"); err != nil {
		return nil, err
	}
	var cases []ast.SwitchCase
	for !p.isText("}") && !p.atEnd() {
		if p.matchKeyword("case") {
			test, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectText(":"); err != nil {
				return nil, err
			}
			var body []ast.Stmt
			for !p.isKeyword("case") && !p.isKeyword("default") && !p.isText("}") && !p.atEnd() {
				s, err := p.parseStatement()
				if err != nil {
					return nil, err
				}
				body = append(body, s)
			}
			cases = append(cases, ast.SwitchCase{Test: test, Body: body})
		} else if p.matchKeyword("default") {
			if err := p.expectText(":"); err != nil {
				return nil, err
			}
			var body []ast.Stmt
			for !p.isKeyword("case") && !p.isText("}") && !p.atEnd() {
				s, err := p.parseStatement()
				if err != nil {
					return nil, err
				}
				body = append(body, s)
			}
			cases = append(cases, ast.SwitchCase{Test: nil, Body: body})
		} else {
			break
		}
	}
	if err := p.expectText("}"); err != nil {
		return nil, err
	}
	return &ast.SwitchStmt{Disc: disc, Cases: cases}, nil
}

// parseClassDecl records name/superclass/method names but discards member
// bodies, matching the original's "skip class body for now" behavior.
func (p *Parser) parseClassDecl() (ast.Stmt, error) {
	p.advance()
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	var extends string
	if p.matchKeyword("extends") {
		extends, err = p.expectIdentifier()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectText("{"); err != nil {
		return nil, err
	}
	var methods []string
	depth := 1
	for depth > 0 && !p.atEnd() {
		t := p.advance()
		switch t.Text {
		case "{":
			depth++
		case "}":
			depth--
		default:
			if depth == 1 && t.Kind == token.Identifier && p.peek().Text == "(" {
				methods = append(methods, t.Text)
			}
		}
	}
	return &ast.ClassDecl{Name: name, Extends: extends, Methods: methods}, nil
}

func (p *Parser) parseExprStatement() (ast.Stmt, error) {
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.consumeSemicolon()
	return &ast.ExprStmt{X: x}, nil
}

// Expressions, precedence-climbing from lowest to highest:
// sequence > assignment > ternary > nullish > or > and > bitOr > bitXor >
// bitAnd > equality > relational > shift > additive > multiplicative >
// exponent > unary > update > call/member > primary.

func (p *Parser) parseExpression() (ast.Expr, error) {
	first, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if !p.isText(",") {
		return first, nil
	}
	exprs := []ast.Expr{first}
	for p.matchText(",") {
		e, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return &ast.SequenceExpr{Exprs: exprs}, nil
}

var compoundAssignOps = map[string]ast.BinaryOp{
	"+=": ast.OpAdd, "-=": ast.OpSub, "*=": ast.OpMul, "/=": ast.OpDiv,
	"%=": ast.OpMod, "**=": ast.OpExp, "&=": ast.OpBitAnd, "|=": ast.OpBitOr,
	"^=": ast.OpBitXor, "<<=": ast.OpShl, ">>=": ast.OpShr, ">>>=": ast.OpUShr,
	"&&=": ast.OpAnd, "||=": ast.OpOr, "??=": ast.OpNullish,
}

func (p *Parser) parseAssignment() (ast.Expr, error) {
	// Arrow-function lookahead: `ident =>` or `( params ) =>`.
	if arrow, ok, err := p.tryParseArrow(); err != nil {
		return nil, err
	} else if ok {
		return arrow, nil
	}

	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.matchText("=") {
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Target: left, Value: value}, nil
	}
	if op, ok := compoundAssignOps[p.peek().Text]; ok {
		p.advance()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.CompoundAssignExpr{Target: left, Op: op, Value: value}, nil
	}
	return left, nil
}

// tryParseArrow recognizes the two arrow-function heads: a bare identifier
// followed by `=>`, or a parenthesized parameter list followed by `=>`.
// It backtracks (restoring p.pos) whenever the lookahead doesn't pan out,
// mirroring the original's "check for arrow function" inline attempts.
func (p *Parser) tryParseArrow() (ast.Expr, bool, error) {
	save := p.pos
	async := false
	if p.isKeyword("async") && (p.peekAt(1).Kind == token.Identifier || p.peekAt(1).Text == "(") {
		async = true
		p.advance()
	}

	if p.peek().Kind == token.Identifier && p.peekAt(1).Text == "=>" {
		name := p.advance().Text
		p.advance() // =>
		body, exprBody, err := p.parseArrowBody()
		if err != nil {
			p.pos = save
			return nil, false, nil
		}
		return &ast.ArrowExpr{Params: []ast.Param{{Name: name}}, Body: body, ExprBody: exprBody, Async: async}, true, nil
	}

	if p.isText("(") {
		if params, ok := p.tryParseParamList(); ok {
			if p.matchText("=>") {
				body, exprBody, err := p.parseArrowBody()
				if err != nil {
					p.pos = save
					return nil, false, nil
				}
				return &ast.ArrowExpr{Params: params, Body: body, ExprBody: exprBody, Async: async}, true, nil
			}
		}
	}

	p.pos = save
	return nil, false, nil
}

// tryParseParamList speculatively parses a `(a, b = 1, ...rest)` parameter
// list, restoring position and returning ok=false if it does not parse
// cleanly (e.g. it was actually a parenthesized expression).
func (p *Parser) tryParseParamList() ([]ast.Param, bool) {
	save := p.pos
	p.advance() // (
	params, err := p.parseParams()
	if err != nil || !p.matchText(")") {
		p.pos = save
		return nil, false
	}
	return params, true
}

func (p *Parser) parseArrowBody() ([]ast.Stmt, ast.Expr, error) {
	if p.isText("{") {
		body, err := p.parseBlockStatements()
		return body, nil, err
	}
	expr, err := p.parseAssignment()
	return nil, expr, err
}

func (p *Parser) parseTernary() (ast.Expr, error) {
	cond, err := p.parseNullish()
	if err != nil {
		return nil, err
	}
	if p.matchText("?") {
		then, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if err := p.expectText(":"); err != nil {
			return nil, err
		}
		elseExpr, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.TernaryExpr{Cond: cond, Then: then, Else: elseExpr}, nil
	}
	return cond, nil
}

func (p *Parser) parseNullish() (ast.Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for p.isText("??") {
		p.advance()
		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: ast.OpNullish, Right: right}
	}
	return left, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.matchText("||") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: ast.OpOr, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	for p.matchText("&&") {
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: ast.OpAnd, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBitOr() (ast.Expr, error) {
	left, err := p.parseBitXor()
	if err != nil {
		return nil, err
	}
	for p.isText("|") {
		p.advance()
		right, err := p.parseBitXor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: ast.OpBitOr, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBitXor() (ast.Expr, error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.isText("^") {
		p.advance()
		right, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: ast.OpBitXor, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBitAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.isText("&") {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: ast.OpBitAnd, Right: right}
	}
	return left, nil
}

var equalityOps = map[string]ast.BinaryOp{
	"==": ast.OpEq, "!=": ast.OpNotEq, "===": ast.OpStrictEq, "!==": ast.OpStrictNeq,
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := equalityOps[p.peek().Text]
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.isText("<"):
			op = ast.OpLt
		case p.isText(">"):
			op = ast.OpGt
		case p.isText("<="):
			op = ast.OpLe
		case p.isText(">="):
			op = ast.OpGe
		case p.isKeyword("instanceof"):
			op = ast.OpInstanceof
		case p.isKeyword("in"):
			op = ast.OpIn
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
}

var shiftOps = map[string]ast.BinaryOp{"<<": ast.OpShl, ">>": ast.OpShr, ">>>": ast.OpUShr}

func (p *Parser) parseShift() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := shiftOps[p.peek().Text]
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.isText("+"):
			op = ast.OpAdd
		case p.isText("-"):
			op = ast.OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.isText("*"):
			op = ast.OpMul
		case p.isText("/"):
			op = ast.OpDiv
		case p.isText("%"):
			op = ast.OpMod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
}

// parseExponent is right-associative, unlike the other binary levels.
func (p *Parser) parseExponent() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.matchText("**") {
		right, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Left: left, Op: ast.OpExp, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch {
	case p.isText("!"):
		p.advance()
		operand, err := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.UnaryNot, Operand: operand}, err
	case p.isText("-"):
		p.advance()
		operand, err := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.UnaryNeg, Operand: operand}, err
	case p.isText("+"):
		p.advance()
		operand, err := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.UnaryPlus, Operand: operand}, err
	case p.isText("~"):
		p.advance()
		operand, err := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.UnaryBitNot, Operand: operand}, err
	case p.isKeyword("typeof"):
		p.advance()
		operand, err := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.UnaryTypeof, Operand: operand}, err
	case p.isKeyword("delete"):
		p.advance()
		operand, err := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.UnaryDelete, Operand: operand}, err
	case p.isKeyword("void"):
		p.advance()
		operand, err := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.UnaryVoid, Operand: operand}, err
	case p.isKeyword("await"):
		p.advance()
		operand, err := p.parseUnary()
		return &ast.AwaitExpr{X: operand}, err
	case p.isText("++"):
		p.advance()
		operand, err := p.parseUnary()
		return &ast.UpdateExpr{Op: "++", Prefix: true, Operand: operand}, err
	case p.isText("--"):
		p.advance()
		operand, err := p.parseUnary()
		return &ast.UpdateExpr{Op: "--", Prefix: true, Operand: operand}, err
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parseCallOrMember()
	if err != nil {
		return nil, err
	}
	if p.isText("++") {
		p.advance()
		return &ast.UpdateExpr{Op: "++", Prefix: false, Operand: expr}, nil
	}
	if p.isText("--") {
		p.advance()
		return &ast.UpdateExpr{Op: "--", Prefix: false, Operand: expr}, nil
	}
	return expr, nil
}

func (p *Parser) parseCallOrMember() (ast.Expr, error) {
	var expr ast.Expr
	var err error
	if p.isKeyword("new") {
		expr, err = p.parseNew()
	} else {
		expr, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.matchText("."):
			name, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Object: expr, Property: &ast.Ident{Name: name}}
		case p.matchText("?."):
			if p.isText("(") {
				args, err := p.parseArguments()
				if err != nil {
					return nil, err
				}
				expr = &ast.CallExpr{Callee: expr, Args: args, Optional: true}
				continue
			}
			name, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Object: expr, Property: &ast.Ident{Name: name}, Optional: true}
		case p.matchText("["):
			prop, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectText("]"); err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Object: expr, Property: prop, Computed: true}
		case p.isText("("):
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Callee: expr, Args: args}
		case p.peek().Kind == token.TemplateHead || p.peek().Kind == token.NoSubTemplate:
			quasis, exprs, err := p.parseTemplateParts()
			if err != nil {
				return nil, err
			}
			expr = &ast.TaggedTemplate{Tag: expr, Quasis: quasis, Exprs: exprs}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseNew() (ast.Expr, error) {
	p.advance()
	callee, err := p.parseCallOrMemberNoCall()
	if err != nil {
		return nil, err
	}
	if p.isText("(") {
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		return &ast.NewExpr{Callee: callee, Args: args}, nil
	}
	return &ast.NewExpr{Callee: callee}, nil
}

// parseCallOrMemberNoCall parses the `new` callee expression, allowing
// member access but not a call (the call's arguments belong to `new`
// itself), mirroring the original's parse_call reuse for the callee.
func (p *Parser) parseCallOrMemberNoCall() (ast.Expr, error) {
	var expr ast.Expr
	var err error
	if p.isKeyword("new") {
		expr, err = p.parseNew()
	} else {
		expr, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.matchText("."):
			name, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Object: expr, Property: &ast.Ident{Name: name}}
		case p.matchText("["):
			prop, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectText("]"); err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Object: expr, Property: prop, Computed: true}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArguments() ([]ast.Expr, error) {
	if err := p.expectText("("); err != nil {
		return nil, err
	}
	var args []ast.Expr
	if !p.isText(")") {
		for {
			if p.matchText("...") {
				x, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				args = append(args, &ast.SpreadExpr{X: x})
			} else {
				x, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				args = append(args, x)
			}
			if !p.matchText(",") {
				break
			}
			if p.isText(")") {
				break
			}
		}
	}
	if err := p.expectText(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	t := p.peek()
	switch t.Kind {
	case token.Number:
		p.advance()
		return &ast.NumberLit{Value: t.Num}, nil
	case token.String:
		p.advance()
		return &ast.StringLit{Value: t.Str}, nil
	case token.NoSubTemplate, token.TemplateHead:
		quasis, exprs, err := p.parseTemplateParts()
		if err != nil {
			return nil, err
		}
		return &ast.TemplateLit{Quasis: quasis, Exprs: exprs}, nil
	case token.RegExp:
		p.advance()
		return &ast.RegExpLit{Pattern: t.Text, Flags: t.Flags}, nil
	case token.Keyword:
		switch t.Text {
		case "true", "false":
			p.advance()
			return &ast.BoolLit{Value: t.Text == "true"}, nil
		case "null":
			p.advance()
			return &ast.NullLit{}, nil
		case "undefined":
			p.advance()
			return &ast.UndefinedLit{}, nil
		case "this":
			p.advance()
			return &ast.ThisExpr{}, nil
		case "super":
			p.advance()
			return &ast.SuperExpr{}, nil
		case "function":
			return p.parseFuncExpr(false)
		case "async":
			if p.peekAt(1).Text == "function" {
				p.advance()
				return p.parseFuncExpr(true)
			}
			p.advance()
			return &ast.Ident{Name: "async"}, nil
		case "class":
			decl, err := p.parseClassDecl()
			if err != nil {
				return nil, err
			}
			cd := decl.(*ast.ClassDecl)
			return &ast.Ident{Name: cd.Name}, nil
		case "yield":
			p.advance()
			if p.matchText("*") {
				x, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				return x, nil
			}
			if p.isText(")") || p.isText(";") || p.isText(",") || p.isText("}") {
				return &ast.Ident{Name: "yield"}, nil
			}
			return p.parseAssignment()
		default:
			p.advance()
			return &ast.Ident{Name: t.Text}, nil
		}
	case token.Identifier:
		p.advance()
		return &ast.Ident{Name: t.Text}, nil
	case token.Operator, token.Punct:
		switch t.Text {
		case "(":
			return p.parseParenExpr()
		case "[":
			return p.parseArrayLit()
		case "{":
			return p.parseObjectLit()
		}
	}
	// Unknown token: skip it gracefully, matching the original's fallback.
	p.advance()
	return &ast.UndefinedLit{}, nil
}

func (p *Parser) parseFuncExpr(async bool) (ast.Expr, error) {
	p.advance() // 'function'
	p.matchText("*")
	var name string
	if p.peek().Kind == token.Identifier {
		name = p.advance().Text
	}
	if err := p.expectText("("); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if err := p.expectText(")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatements()
	if err != nil {
		return nil, err
	}
	return &ast.FuncExpr{Name: name, Params: params, Body: body, Async: async}, nil
}

func (p *Parser) parseParenExpr() (ast.Expr, error) {
	p.advance() // (
	if p.matchText(")") {
		return nil, browsererr.NewSyntaxError("unexpected token )")
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectText(")"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseArrayLit() (ast.Expr, error) {
	p.advance() // [
	var elements []ast.Expr
	if !p.isText("]") {
		for {
			if p.isText(",") {
				elements = append(elements, nil) // elided hole
			} else if p.matchText("...") {
				x, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				elements = append(elements, &ast.SpreadExpr{X: x})
			} else {
				x, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				elements = append(elements, x)
			}
			if !p.matchText(",") {
				break
			}
			if p.isText("]") {
				break
			}
		}
	}
	if err := p.expectText("]"); err != nil {
		return nil, err
	}
	return &ast.ArrayLit{Elements: elements}, nil
}

func (p *Parser) parseObjectLit() (ast.Expr, error) {
	p.advance() // {
	var props []ast.ObjectProp
	if !p.isText("}") {
		for {
			if p.matchText("...") {
				x, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				props = append(props, ast.ObjectProp{Key: &ast.Ident{Name: "..."}, Value: &ast.SpreadExpr{X: x}})
			} else {
				prop, err := p.parseObjectProp()
				if err != nil {
					return nil, err
				}
				props = append(props, prop)
			}
			if !p.matchText(",") {
				break
			}
			if p.isText("}") {
				break
			}
		}
	}
	if err := p.expectText("}"); err != nil {
		return nil, err
	}
	return &ast.ObjectLit{Props: props}, nil
}

func (p *Parser) parseObjectProp() (ast.ObjectProp, error) {
	var key ast.Expr
	computed := false
	switch {
	case p.peek().Kind == token.String:
		key = &ast.StringLit{Value: p.advance().Str}
	case p.peek().Kind == token.Number:
		key = &ast.NumberLit{Value: p.advance().Num}
	case p.isText("["):
		p.advance()
		k, err := p.parseAssignment()
		if err != nil {
			return ast.ObjectProp{}, err
		}
		if err := p.expectText("]"); err != nil {
			return ast.ObjectProp{}, err
		}
		key = k
		computed = true
	default:
		name, err := p.expectIdentifier()
		if err != nil {
			return ast.ObjectProp{}, err
		}
		key = &ast.Ident{Name: name}
	}

	switch {
	case p.isText(",") || p.isText("}"):
		ident, _ := key.(*ast.Ident)
		name := ""
		if ident != nil {
			name = ident.Name
		}
		return ast.ObjectProp{Key: key, Value: &ast.Ident{Name: name}, Shorthand: true}, nil
	case p.isText("("):
		p.advance() // (
		params, err := p.parseParams()
		if err != nil {
			return ast.ObjectProp{}, err
		}
		if err := p.expectText(")"); err != nil {
			return ast.ObjectProp{}, err
		}
		body, err := p.parseBlockStatements()
		if err != nil {
			return ast.ObjectProp{}, err
		}
		return ast.ObjectProp{Key: key, Value: &ast.FuncExpr{Params: params, Body: body}, Method: true}, nil
	default:
		if err := p.expectText(":"); err != nil {
			return ast.ObjectProp{}, err
		}
		value, err := p.parseAssignment()
		if err != nil {
			return ast.ObjectProp{}, err
		}
		return ast.ObjectProp{Key: key, Value: value, Computed: computed}, nil
	}
}

// parseTemplateParts reads a template literal's quasis and substitution
// expressions in lockstep with the tokenizer (spec §4.7/§4.8): the head is
// an ordinary buffered token, but each continuation is fetched via
// resumeTemplateContinuation once its substitution expression is parsed.
func (p *Parser) parseTemplateParts() ([]string, []ast.Expr, error) {
	head := p.advance()
	if head.Kind == token.NoSubTemplate {
		return []string{head.Str}, nil, nil
	}
	quasis := []string{head.Str}
	var exprs []ast.Expr
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, nil, err
		}
		exprs = append(exprs, expr)
		part := p.resumeTemplateContinuation()
		quasis = append(quasis, part.Str)
		if part.Kind == token.TemplateTail {
			break
		}
		if part.Kind != token.TemplateMiddle {
			return nil, nil, browsererr.NewSyntaxError("malformed template literal")
		}
	}
	return quasis, exprs, nil
}
