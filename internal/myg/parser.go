package myg

import (
	"fmt"
	"strconv"
)

// frameKind tags an open brace on the block stack.
type frameKind int

const (
	frameTop frameKind = iota
	frameButton
	frameLoop
	frameIf
	frameElseIf
	frameElse
	frameBroken // header failed to parse; its body is checked but discarded
)

func (k frameKind) String() string {
	switch k {
	case frameButton:
		return "button"
	case frameLoop:
		return "loop"
	case frameIf:
		return "if"
	case frameElseIf:
		return "else if"
	case frameElse:
		return "else"
	default:
		return "block"
	}
}

// frame is one level of the block stack.
type frame struct {
	kind frameKind
	line int // line of the opening brace
	body []Stmt

	// runtime context of the frame: inside a loop or button body
	inBody bool

	// owner statement the body is attached to on close
	button *ButtonDef
	loop   *Loop
	chain  *If
	branch Branch

	// lastIf is the if chain closed immediately before the next statement
	// in this frame; else/else if attach to it.
	lastIf *If
}

// Parser builds a Program from lexed lines using a brace-matching stack.
type Parser struct {
	stack    []*frame
	loopLine int
	diags    Diagnostics
}

// Parse lexes and parses source. The returned program is nil whenever the
// diagnostics are non-empty.
func Parse(source string) (*Program, Diagnostics) {
	lines, diags := Lex(source)

	p := &Parser{
		stack: []*frame{{kind: frameTop}},
		diags: diags,
	}
	for _, ln := range lines {
		p.parseLine(ln)
	}
	p.finish()

	if len(p.diags) > 0 {
		return nil, p.diags.sorted()
	}
	return &Program{Stmts: p.stack[0].body}, nil
}

func (p *Parser) errorf(line int, format string, args ...any) {
	p.diags = append(p.diags, ParseError{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) top() *frame {
	return p.stack[len(p.stack)-1]
}

// parseLine walks one line. A line may hold several units separated by
// braces: `} else if x > 1 { x = 0 }` is close, header, statement, close.
func (p *Parser) parseLine(ln Line) {
	toks := ln.Tokens
	pos := 0
	for pos < len(toks) {
		if isOp(toks[pos], "}") {
			p.closeFrame(ln.Num)
			pos++
			continue
		}

		end := pos
		for end < len(toks) && !isOp(toks[end], "{") && !isOp(toks[end], "}") {
			end++
		}

		unit := toks[pos:end]
		if end < len(toks) && isOp(toks[end], "{") {
			p.openFrame(ln.Num, unit)
			pos = end + 1
			continue
		}

		p.statement(ln.Num, unit)
		pos = end
	}
}

// finish reports unclosed blocks.
func (p *Parser) finish() {
	for i := len(p.stack) - 1; i > 0; i-- {
		f := p.stack[i]
		p.errorf(f.line, "unclosed %q block: missing '}'", f.kind.String())
	}
	p.stack = p.stack[:1]
}

// openFrame parses a block header (everything before a '{') and pushes a frame.
func (p *Parser) openFrame(line int, unit []Token) {
	cur := p.top()
	f := &frame{line: line, inBody: cur.inBody}

	if len(unit) == 0 {
		p.errorf(line, "'{' without a block header")
		f.kind = frameBroken
		p.stack = append(p.stack, f)
		return
	}

	sp := &stmtParser{toks: unit, line: line}
	head := unit[0]

	switch {
	case isWord(head, "button"):
		f.kind = frameButton
		f.inBody = true
		if len(p.stack) > 1 {
			p.errorf(line, "button blocks must be declared at top level")
			f.kind = frameBroken
			break
		}
		sp.next()
		label := sp.next()
		if label == nil || label.Kind != TokString || !sp.done() {
			p.errorf(line, `malformed button: expected button "<label>" {`)
			f.kind = frameBroken
			break
		}
		f.button = &ButtonDef{Line: line, Label: label.Value}

	case isWord(head, "loop"):
		f.kind = frameLoop
		f.inBody = true
		if len(unit) != 1 {
			p.errorf(line, "malformed loop: expected loop {")
			f.kind = frameBroken
			break
		}
		if len(p.stack) > 1 {
			p.errorf(line, "loop block must be declared at top level")
			f.kind = frameBroken
			break
		}
		if p.loopLine != 0 {
			p.errorf(line, "duplicate loop block (first declared on line %d)", p.loopLine)
			f.kind = frameBroken
			break
		}
		p.loopLine = line
		f.loop = &Loop{Line: line}

	case isWord(head, "if"):
		f.kind = frameIf
		sp.next()
		cond, err := sp.condition("if")
		if err != nil {
			p.errorf(line, "%v", err)
			f.kind = frameBroken
			break
		}
		f.chain = &If{Line: line}
		f.branch = Branch{Line: line, Cond: cond}
		cur.body = append(cur.body, f.chain)

	case isWord(head, "else"):
		chain := cur.lastIf
		if chain == nil {
			p.errorf(line, "else without a preceding if block")
			f.kind = frameBroken
			break
		}
		sp.next()
		if sp.done() {
			f.kind = frameElse
			f.chain = chain
			break
		}
		if !isWord(*sp.peek(), "if") {
			p.errorf(line, "malformed else: expected else { or else if <condition> {")
			f.kind = frameBroken
			break
		}
		sp.next()
		cond, err := sp.condition("else if")
		if err != nil {
			p.errorf(line, "%v", err)
			f.kind = frameBroken
			break
		}
		f.kind = frameElseIf
		f.chain = chain
		f.branch = Branch{Line: line, Cond: cond}

	default:
		p.errorf(line, "unexpected '{' after %q", head.Value)
		f.kind = frameBroken
	}

	cur.lastIf = nil
	p.stack = append(p.stack, f)
}

// closeFrame pops the current frame and attaches its body to its owner.
func (p *Parser) closeFrame(line int) {
	if len(p.stack) == 1 {
		p.errorf(line, "unmatched '}'")
		return
	}

	f := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	parent := p.top()
	parent.lastIf = nil

	switch f.kind {
	case frameButton:
		f.button.Body = f.body
		parent.body = append(parent.body, f.button)
	case frameLoop:
		f.loop.Body = f.body
		parent.body = append(parent.body, f.loop)
	case frameIf, frameElseIf:
		f.branch.Body = f.body
		f.chain.Branches = append(f.chain.Branches, f.branch)
		parent.lastIf = f.chain
	case frameElse:
		f.chain.Else = f.body
		f.chain.HasElse = true
	}
}

// statement parses a simple (non-block) statement and appends it to the
// current frame.
func (p *Parser) statement(line int, unit []Token) {
	if len(unit) == 0 {
		return
	}

	cur := p.top()
	cur.lastIf = nil

	s, err := p.simple(line, unit, cur)
	if err != nil {
		p.errorf(line, "%v", err)
		return
	}
	if s != nil {
		cur.body = append(cur.body, s)
	}
}

func (p *Parser) simple(line int, unit []Token, cur *frame) (Stmt, error) {
	sp := &stmtParser{toks: unit, line: line}
	head := unit[0]

	if head.Kind != TokIdent {
		return nil, fmt.Errorf("unexpected %s %q at start of statement", head.Kind, head.Value)
	}

	switch head.Value {
	case "var":
		sp.next()
		name, err := sp.ident()
		if err != nil {
			return nil, fmt.Errorf("malformed var: %w", err)
		}
		if err := sp.expect("="); err != nil {
			return nil, fmt.Errorf("malformed var: %w", err)
		}
		val, err := sp.exprToEnd()
		if err != nil {
			return nil, err
		}
		return &VarDecl{Line: line, Name: name, Value: Fold(val)}, nil

	case "display":
		if len(p.stack) > 1 {
			return nil, fmt.Errorf("display must be declared at top level")
		}
		sp.next()
		var names []string
		for {
			name, err := sp.ident()
			if err != nil {
				return nil, fmt.Errorf("malformed display: %w", err)
			}
			names = append(names, name)
			if sp.done() {
				break
			}
			if err := sp.expect(","); err != nil {
				return nil, fmt.Errorf("malformed display: %w", err)
			}
		}
		return &Display{Line: line, Names: names}, nil

	case "set":
		sp.next()
		args, err := sp.exprList(3)
		if err != nil {
			return nil, fmt.Errorf("malformed set: %w", err)
		}
		return &Set{Line: line, X: Fold(args[0]), Y: Fold(args[1]), Value: Fold(args[2])}, nil

	case "stop", "update", "draw":
		if len(unit) != 1 {
			return nil, fmt.Errorf("%s takes no arguments", head.Value)
		}
		switch head.Value {
		case "stop":
			if !cur.inBody {
				return nil, fmt.Errorf("stop is only allowed inside a loop or button block")
			}
			return &Stop{Line: line}, nil
		case "update":
			return &UpdateMarker{Line: line}, nil
		default:
			return &DrawMarker{Line: line}, nil
		}

	case "button", "loop", "if", "else":
		return nil, fmt.Errorf("%s requires a '{' on the same line", head.Value)
	}

	if len(unit) > 1 && isOp(unit[1], "=") {
		if IsKeyword(head.Value) {
			return nil, fmt.Errorf("cannot assign to keyword %q", head.Value)
		}
		sp.next()
		sp.next()
		val, err := sp.exprToEnd()
		if err != nil {
			return nil, err
		}
		return &Assign{Line: line, Name: head.Value, Value: Fold(val)}, nil
	}

	return nil, fmt.Errorf("unknown statement %q%s", head.Value, didYouMean(head.Value, Keywords))
}

// stmtParser is a cursor over the tokens of one statement or header.
type stmtParser struct {
	toks []Token
	pos  int
	line int
}

func (sp *stmtParser) peek() *Token {
	if sp.pos >= len(sp.toks) {
		return nil
	}
	return &sp.toks[sp.pos]
}

func (sp *stmtParser) next() *Token {
	t := sp.peek()
	if t != nil {
		sp.pos++
	}
	return t
}

func (sp *stmtParser) done() bool {
	return sp.pos >= len(sp.toks)
}

func (sp *stmtParser) expect(op string) error {
	t := sp.next()
	if t == nil {
		return fmt.Errorf("expected %q at end of line", op)
	}
	if t.Kind != TokOp || t.Value != op {
		return fmt.Errorf("expected %q, found %q", op, t.Value)
	}
	return nil
}

func (sp *stmtParser) ident() (string, error) {
	t := sp.next()
	if t == nil {
		return "", fmt.Errorf("expected a name at end of line")
	}
	if t.Kind != TokIdent || IsKeyword(t.Value) {
		return "", fmt.Errorf("expected a name, found %q", t.Value)
	}
	return t.Value, nil
}

// condition parses the rest of a header as a single expression.
func (sp *stmtParser) condition(what string) (Expr, error) {
	if sp.done() {
		return nil, fmt.Errorf("%s requires a condition", what)
	}
	cond, err := sp.exprToEnd()
	if err != nil {
		return nil, err
	}
	return Fold(cond), nil
}

// exprToEnd parses an expression that must consume the remaining tokens.
func (sp *stmtParser) exprToEnd() (Expr, error) {
	e, err := sp.expr(1)
	if err != nil {
		return nil, err
	}
	if t := sp.peek(); t != nil {
		return nil, fmt.Errorf("unexpected %q after expression", t.Value)
	}
	return e, nil
}

// exprList parses exactly n comma-separated expressions to end of line.
func (sp *stmtParser) exprList(n int) ([]Expr, error) {
	args := make([]Expr, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			if err := sp.expect(","); err != nil {
				return nil, err
			}
		}
		e, err := sp.expr(1)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	if t := sp.peek(); t != nil {
		return nil, fmt.Errorf("expected %d values, found extra %q", n, t.Value)
	}
	return args, nil
}

// Binary operator precedence, higher binds tighter. 0 means not an operator.
const (
	precLogical = iota + 1
	precCompare
	precAdditive
	precMultiplicative
)

func binaryPrec(t *Token) int {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case TokIdent:
		if t.Value == "and" || t.Value == "or" {
			return precLogical
		}
	case TokOp:
		switch t.Value {
		case "==", "!=", "<", ">", "<=", ">=":
			return precCompare
		case "+", "-":
			return precAdditive
		case "*", "/":
			return precMultiplicative
		}
	}
	return 0
}

// expr is a precedence-climbing parser: it parses operands binding at least
// as tightly as minPrec. Recursing with prec+1 makes every level left-associative.
func (sp *stmtParser) expr(minPrec int) (Expr, error) {
	lhs, err := sp.unary()
	if err != nil {
		return nil, err
	}

	for {
		prec := binaryPrec(sp.peek())
		if prec == 0 || prec < minPrec {
			return lhs, nil
		}
		op := sp.next().Value
		rhs, err := sp.expr(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = &Binary{Op: op, Left: lhs, Right: rhs}
	}
}

func (sp *stmtParser) unary() (Expr, error) {
	if t := sp.peek(); t != nil && t.Kind == TokOp && t.Value == "-" {
		sp.next()
		operand, err := sp.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "-", Operand: operand}, nil
	}
	return sp.primary()
}

func (sp *stmtParser) primary() (Expr, error) {
	t := sp.next()
	if t == nil {
		return nil, fmt.Errorf("expected an expression at end of line")
	}

	switch t.Kind {
	case TokInt:
		v, err := strconv.Atoi(t.Value)
		if err != nil {
			return nil, fmt.Errorf("integer %s out of range", t.Value)
		}
		return &Number{Value: v}, nil

	case TokIdent:
		if IsKeyword(t.Value) {
			return nil, fmt.Errorf("unexpected keyword %q in expression", t.Value)
		}
		if n := sp.peek(); n != nil && isOp(*n, "(") {
			return sp.call(t.Value)
		}
		return &Ident{Name: t.Value}, nil

	case TokOp:
		if t.Value == "(" {
			e, err := sp.expr(1)
			if err != nil {
				return nil, err
			}
			if err := sp.expect(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	}

	return nil, fmt.Errorf("unexpected %q in expression", t.Value)
}

// call parses name(args...) and validates it against the built-ins.
func (sp *stmtParser) call(name string) (Expr, error) {
	arity, ok := Builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q%s", name, didYouMean(name, builtinNames()))
	}

	sp.next() // (
	var args []Expr
	if t := sp.peek(); t != nil && isOp(*t, ")") {
		sp.next()
	} else {
		for {
			a, err := sp.expr(1)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			t := sp.next()
			if t == nil {
				return nil, fmt.Errorf("unclosed call to %s", name)
			}
			if isOp(*t, ")") {
				break
			}
			if !isOp(*t, ",") {
				return nil, fmt.Errorf("expected ',' or ')' in call to %s, found %q", name, t.Value)
			}
		}
	}

	if len(args) != arity {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", name, arity, len(args))
	}
	return &Call{Name: name, Args: args}, nil
}

func builtinNames() []string {
	return []string{"get", "random"}
}

func isOp(t Token, v string) bool {
	return t.Kind == TokOp && t.Value == v
}

func isWord(t Token, v string) bool {
	return t.Kind == TokIdent && t.Value == v
}
