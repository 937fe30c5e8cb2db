// Package rational implements exact fractional time arithmetic for the
// pattern engine, eliminating the drift that accumulates when cyclic
// pattern math is done in floating point.
package rational

import (
	"errors"
	"fmt"
)

// ErrTimeOverflow is the value rational operations panic with when they
// would overflow the int64 numerator or denominator.
var ErrTimeOverflow = errors.New("rational: time overflow")

// floatDenominator is the fixed denominator used by FromFloat. It must be
// large enough to preserve ordering at audio sample granularity; 10^6 is
// the minimum per the time quantization policy.
const floatDenominator = 1_000_000

// Rational is an exact fraction Num/Den, always stored reduced with a
// strictly positive denominator.
type Rational struct {
	Num int64
	Den int64
}

// Zero, One are common constants.
var (
	Zero = Rational{Num: 0, Den: 1}
	One  = Rational{Num: 1, Den: 1}
)

// New constructs a reduced Rational from a numerator and denominator.
// It panics if den is zero, mirroring the standard library's treatment
// of division by zero for a programmer error rather than a runtime one.
func New(num, den int64) Rational {
	if den == 0 {
		panic("rational: zero denominator")
	}
	return reduce(num, den)
}

func reduce(num, den int64) Rational {
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Rational{Num: 0, Den: 1}
	}
	g := gcd(abs64(num), den)
	return Rational{Num: num / g, Den: den / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// FromInt wraps an integer as a Rational.
func FromInt(n int64) Rational {
	return Rational{Num: n, Den: 1}
}

// FromFloat quantizes a float64 onto a fixed large denominator. User-facing
// pattern time is rational; floats should only cross this boundary once,
// at the edge of the audio sample clock, never mid-pipeline.
func FromFloat(f float64) Rational {
	return reduce(int64(f*floatDenominator+sign(f)*0.5), floatDenominator)
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// Float projects the rational onto a float64.
func (r Rational) Float() float64 {
	return float64(r.Num) / float64(r.Den)
}

// Add returns r + o.
func (r Rational) Add(o Rational) Rational {
	lhs, ok := checkedMul(r.Num, o.Den)
	if !ok {
		panic(ErrTimeOverflow)
	}
	rhs, ok := checkedMul(o.Num, r.Den)
	if !ok {
		panic(ErrTimeOverflow)
	}
	num, ok := checkedAdd(lhs, rhs)
	if !ok {
		panic(ErrTimeOverflow)
	}
	den, ok := checkedMul(r.Den, o.Den)
	if !ok {
		panic(ErrTimeOverflow)
	}
	return reduce(num, den)
}

// Sub returns r - o.
func (r Rational) Sub(o Rational) Rational {
	return r.Add(Rational{Num: -o.Num, Den: o.Den})
}

// Mul returns r * o.
func (r Rational) Mul(o Rational) Rational {
	num, ok := checkedMul(r.Num, o.Num)
	if !ok {
		panic(ErrTimeOverflow)
	}
	den, ok := checkedMul(r.Den, o.Den)
	if !ok {
		panic(ErrTimeOverflow)
	}
	return reduce(num, den)
}

// Div returns r / o. Division by zero is a data condition, not a
// programmer error, when o derives from user-controlled pattern
// speeds, so it alone is returned as an error; overflow panics with
// ErrTimeOverflow, matching Add and Mul.
func (r Rational) Div(o Rational) (Rational, error) {
	if o.Num == 0 {
		return Rational{}, fmt.Errorf("rational: division by zero")
	}
	num, ok := checkedMul(r.Num, o.Den)
	if !ok {
		panic(ErrTimeOverflow)
	}
	den, ok := checkedMul(r.Den, o.Num)
	if !ok {
		panic(ErrTimeOverflow)
	}
	return reduce(num, den), nil
}

// Neg returns -r.
func (r Rational) Neg() Rational {
	return Rational{Num: -r.Num, Den: r.Den}
}

// Cmp returns -1, 0, or 1 as r is less than, equal to, or greater than o.
// Comparison cross-multiplies rather than projecting to float, so ordering
// is exact even at extreme magnitudes. Panics with ErrTimeOverflow if the
// cross-product itself overflows, matching Add/Mul/Div.
func (r Rational) Cmp(o Rational) int {
	lhs, ok := checkedMul(r.Num, o.Den)
	if !ok {
		panic(ErrTimeOverflow)
	}
	rhs, ok := checkedMul(o.Num, r.Den)
	if !ok {
		panic(ErrTimeOverflow)
	}
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

func (r Rational) Less(o Rational) bool    { return r.Cmp(o) < 0 }
func (r Rational) LessEq(o Rational) bool  { return r.Cmp(o) <= 0 }
func (r Rational) Greater(o Rational) bool { return r.Cmp(o) > 0 }
func (r Rational) Equal(o Rational) bool   { return r.Cmp(o) == 0 }

// Floor returns the greatest integer <= r.
func (r Rational) Floor() int64 {
	q := r.Num / r.Den
	if r.Num%r.Den != 0 && (r.Num < 0) != (r.Den < 0) {
		q--
	}
	return q
}

// CycleIndex returns the cycle index containing t, i.e. floor(t).
func CycleIndex(t Rational) int64 {
	return t.Floor()
}

// String renders the rational as "num/den" (or just "num" when den == 1).
func (r Rational) String() string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func checkedAdd(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}
