package vector

import (
	"fmt"

	"github.com/san-kum/nuflux/internal/flux"
)

// BroadcastShape returns the shape that all operands broadcast to.
func BroadcastShape(shapes ...[]int) ([]int, error) {
	rank := 0
	for _, s := range shapes {
		if len(s) > rank {
			rank = len(s)
		}
	}

	out := make([]int, rank)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		pad := rank - len(s)
		for i, d := range s {
			j := pad + i
			switch {
			case d == out[j] || d == 1:
			case out[j] == 1:
				out[j] = d
			default:
				return nil, fmt.Errorf("%w: %v", flux.ErrShapeMismatch, shapes)
			}
		}
	}
	return out, nil
}

// strides maps an index in the broadcast shape to an offset in a.
func strides(a, out []int) []int {
	st := make([]int, len(out))
	pad := len(out) - len(a)
	step := 1
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != 1 {
			st[pad+i] = step
		}
		step *= a[i]
	}
	return st
}
