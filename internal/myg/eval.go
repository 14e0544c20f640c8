package myg

// Env is what expressions are evaluated against.
type Env interface {
	// Lookup returns a variable's value.
	Lookup(name string) (int, bool)
	// Cell returns the projected grid value at (x, y), 0 out of range.
	Cell(x, y int) int
	// Random returns an inclusive draw from [min, max], min <= max.
	Random(min, max int) int
}

// Eval evaluates e against env. The result is always usable: unknown
// identifiers evaluate to 0, and the returned error (a Warnings) lists them.
func Eval(e Expr, env Env) (int, error) {
	ev := evaluator{env: env}
	v := ev.eval(e)
	if len(ev.warnings) > 0 {
		return v, ev.warnings
	}
	return v, nil
}

type evaluator struct {
	env      Env
	warnings Warnings
}

func (ev *evaluator) eval(e Expr) int {
	switch n := e.(type) {
	case *Number:
		return n.Value

	case *Ident:
		if v, ok := ev.env.Lookup(n.Name); ok {
			return v
		}
		ev.warnings = append(ev.warnings, &EvalError{Kind: UnknownIdentifier, Name: n.Name})
		return 0

	case *Unary:
		return -ev.eval(n.Operand)

	case *Binary:
		switch n.Op {
		case "and":
			if ev.eval(n.Left) == 0 {
				return 0
			}
			return truth(ev.eval(n.Right) != 0)
		case "or":
			if ev.eval(n.Left) != 0 {
				return 1
			}
			return truth(ev.eval(n.Right) != 0)
		}
		return Apply(n.Op, ev.eval(n.Left), ev.eval(n.Right))

	case *Call:
		a, b := ev.eval(n.Args[0]), ev.eval(n.Args[1])
		switch n.Name {
		case "random":
			if a > b {
				a, b = b, a
			}
			return ev.env.Random(a, b)
		case "get":
			return ev.env.Cell(a, b)
		}
	}
	return 0
}

// Apply computes a non-short-circuit binary operator on two integers.
func Apply(op string, a, b int) int {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return FloorDiv(a, b)
	case "==":
		return truth(a == b)
	case "!=":
		return truth(a != b)
	case "<":
		return truth(a < b)
	case ">":
		return truth(a > b)
	case "<=":
		return truth(a <= b)
	case ">=":
		return truth(a >= b)
	case "and":
		return truth(a != 0 && b != 0)
	case "or":
		return truth(a != 0 || b != 0)
	}
	return 0
}

// FloorDiv divides rounding toward negative infinity. Division by zero is 0.
func FloorDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func truth(b bool) int {
	if b {
		return 1
	}
	return 0
}
