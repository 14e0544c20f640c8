package myg

import (
	"fmt"
	"strconv"
	"strings"
)

// Program is a parsed MYG source file: its top-level statements in order.
// It is never modified after Parse returns.
type Program struct {
	Stmts []Stmt
}

// Stmt is one MYG statement. The set of implementations is closed.
type Stmt interface {
	Pos() int
	stmt()
}

// Expr is one MYG expression node. The set of implementations is closed.
type Expr interface {
	String() string
	expr()
}

// Statements

// VarDecl is `var name = expr`.
type VarDecl struct {
	Line  int
	Name  string
	Value Expr
}

// Assign is `name = expr`.
type Assign struct {
	Line  int
	Name  string
	Value Expr
}

// Display is `display a, b, c`.
type Display struct {
	Line  int
	Names []string
}

// Set is `set x, y, value`.
type Set struct {
	Line        int
	X, Y, Value Expr
}

// ButtonDef is `button "label" { ... }`.
type ButtonDef struct {
	Line  int
	Label string
	Body  []Stmt
}

// Loop is `loop { ... }`.
type Loop struct {
	Line int
	Body []Stmt
}

// Branch is one guarded arm of an If chain.
type Branch struct {
	Line int
	Cond Expr
	Body []Stmt
}

// If is an if / else if* / else chain. Branches are tried in order.
type If struct {
	Line     int
	Branches []Branch
	Else     []Stmt
	HasElse  bool
}

// Stop halts the scheduler.
type Stop struct{ Line int }

// UpdateMarker is `update`; kept for source compatibility.
type UpdateMarker struct{ Line int }

// DrawMarker is `draw`; kept for source compatibility.
type DrawMarker struct{ Line int }

func (s *VarDecl) Pos() int      { return s.Line }
func (s *Assign) Pos() int       { return s.Line }
func (s *Display) Pos() int      { return s.Line }
func (s *Set) Pos() int          { return s.Line }
func (s *ButtonDef) Pos() int    { return s.Line }
func (s *Loop) Pos() int         { return s.Line }
func (s *If) Pos() int           { return s.Line }
func (s *Stop) Pos() int         { return s.Line }
func (s *UpdateMarker) Pos() int { return s.Line }
func (s *DrawMarker) Pos() int   { return s.Line }

func (*VarDecl) stmt()      {}
func (*Assign) stmt()       {}
func (*Display) stmt()      {}
func (*Set) stmt()          {}
func (*ButtonDef) stmt()    {}
func (*Loop) stmt()         {}
func (*If) stmt()           {}
func (*Stop) stmt()         {}
func (*UpdateMarker) stmt() {}
func (*DrawMarker) stmt()   {}

// Expressions

// Number is an integer literal.
type Number struct {
	Value int
}

// Ident is a variable reference.
type Ident struct {
	Name string
}

// Binary is a left/right operator application. Op is the source spelling,
// e.g. "+", "==", "and".
type Binary struct {
	Op          string
	Left, Right Expr
}

// Unary is prefix negation.
type Unary struct {
	Op      string
	Operand Expr
}

// Call is a built-in call, random(min,max) or get(x,y).
type Call struct {
	Name string
	Args []Expr
}

func (*Number) expr() {}
func (*Ident) expr()  {}
func (*Binary) expr() {}
func (*Unary) expr()  {}
func (*Call) expr()   {}

func (e *Number) String() string { return strconv.Itoa(e.Value) }
func (e *Ident) String() string  { return e.Name }

func (e *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

func (e *Unary) String() string {
	return fmt.Sprintf("(%s%s)", e.Op, e.Operand)
}

func (e *Call) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
}

// Builtins maps each built-in function to its arity.
var Builtins = map[string]int{
	"random": 2,
	"get":    2,
}

// Keywords lists every reserved word.
var Keywords = []string{
	"var", "display", "set", "button", "loop",
	"if", "else", "stop", "update", "draw",
	"and", "or",
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	for _, k := range Keywords {
		if k == word {
			return true
		}
	}
	return false
}
