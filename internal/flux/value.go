package flux

import "math"

type state uint8

const (
	stateValid state = iota
	stateWarned
	stateOutside
)

// Value is the result of evaluating a parametrization at one point.
//
// A warned value is a best-effort number outside the range the fit was
// validated for. An outside value has no physical meaning (below threshold,
// beyond the kinematic limit) and always resolves to zero.
type Value struct {
	x      float64
	reason string
	state  state
}

func Valid(x float64) Value {
	return Value{x: x}
}

func Warned(x float64, reason string) Value {
	return Value{x: x, reason: reason, state: stateWarned}
}

func Outside(reason string) Value {
	return Value{reason: reason, state: stateOutside}
}

// OrZero substitutes zero for outside and non-finite values.
func (v Value) OrZero() float64 {
	if v.state == stateOutside || math.IsNaN(v.x) || math.IsInf(v.x, 0) {
		return 0
	}
	return v.x
}

// Raw returns the stored number without substitution.
func (v Value) Raw() float64 { return v.x }

func (v Value) IsOutside() bool { return v.state == stateOutside }

func (v Value) IsWarned() bool { return v.state == stateWarned }

// Reason is empty for valid values.
func (v Value) Reason() string { return v.reason }

// Scale multiplies a value, keeping its state.
func (v Value) Scale(k float64) Value {
	if v.state == stateOutside {
		return v
	}
	v.x *= k
	return v
}
