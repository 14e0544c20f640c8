package myg

// Fold returns e with every literal-only subtree replaced by a Number.
// Calls are never folded; random must draw at run time.
func Fold(e Expr) Expr {
	switch n := e.(type) {
	case *Unary:
		operand := Fold(n.Operand)
		if num, ok := operand.(*Number); ok {
			return &Number{Value: -num.Value}
		}
		return &Unary{Op: n.Op, Operand: operand}

	case *Binary:
		left, right := Fold(n.Left), Fold(n.Right)
		l, lok := left.(*Number)
		r, rok := right.(*Number)
		if lok && rok {
			return &Number{Value: Apply(n.Op, l.Value, r.Value)}
		}
		return &Binary{Op: n.Op, Left: left, Right: right}

	case *Call:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = Fold(a)
		}
		return &Call{Name: n.Name, Args: args}
	}
	return e
}
