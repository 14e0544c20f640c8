package myg

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func evalString(src string) (int, error) {
	prog, diags := Parse("loop {\nv = " + src + "\n}")
	if len(diags) != 0 {
		return 0, diags
	}
	return Eval(prog.Stmts[0].(*Loop).Body[0].(*Assign).Value, &mapEnv{})
}

func TestEvalProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("multiplication binds tighter than addition", prop.ForAll(
		func(a, b, c int) bool {
			got, err := evalString(fmt.Sprintf("%d + %d * %d", a, b, c))
			return err == nil && got == a+b*c
		},
		gen.IntRange(0, 1000), gen.IntRange(0, 1000), gen.IntRange(0, 1000),
	))

	properties.Property("subtraction is left-associative", prop.ForAll(
		func(a, b, c int) bool {
			got, err := evalString(fmt.Sprintf("%d - %d - %d", a, b, c))
			return err == nil && got == (a-b)-c
		},
		gen.IntRange(0, 1000), gen.IntRange(0, 1000), gen.IntRange(0, 1000),
	))

	properties.Property("division is left-associative", prop.ForAll(
		func(a, b, c int) bool {
			got, err := evalString(fmt.Sprintf("%d / %d / %d", a, b, c))
			return err == nil && got == FloorDiv(FloorDiv(a, b), c)
		},
		gen.IntRange(0, 10000), gen.IntRange(1, 50), gen.IntRange(1, 50),
	))

	properties.Property("floor division satisfies the division identity", prop.ForAll(
		func(a, b int) bool {
			if b == 0 {
				return FloorDiv(a, b) == 0
			}
			q := FloorDiv(a, b)
			r := a - q*b
			if b > 0 {
				return r >= 0 && r < b
			}
			return r <= 0 && r > b
		},
		gen.IntRange(-10000, 10000), gen.IntRange(-100, 100),
	))

	properties.Property("comparisons yield 0 or 1", prop.ForAll(
		func(a, b int) bool {
			for _, op := range []string{"==", "!=", "<", ">", "<=", ">="} {
				got, err := evalString(fmt.Sprintf("%d %s %d", a, op, b))
				if err != nil || (got != 0 && got != 1) {
					return false
				}
			}
			return true
		},
		gen.IntRange(-50, 50), gen.IntRange(-50, 50),
	))

	properties.TestingRun(t)
}
