package polynomial

import (
	"github.com/smallyu/go-sidh-isogeny/internal/crypto/fp2"
)

// Polynomial represents f(x) = a_0 + a_1*x + ... + a_t*x^t over F_{p^2}.
type Polynomial struct {
	Coefficients []*fp2.Element
	Field        *fp2.Field
}

// New returns the polynomial with the given coefficients, lowest degree first.
// A polynomial always has at least one coefficient.
func New(f *fp2.Field, coeffs ...*fp2.Element) *Polynomial {
	if len(coeffs) == 0 {
		coeffs = []*fp2.Element{f.Zero()}
	}
	return &Polynomial{
		Coefficients: coeffs,
		Field:        f,
	}
}

// FromRoots returns the monic polynomial (x - r_0)(x - r_1)...(x - r_{n-1}).
func FromRoots(f *fp2.Field, roots []*fp2.Element) *Polynomial {
	coeffs := make([]*fp2.Element, 1, len(roots)+1)
	coeffs[0] = f.One()

	for _, r := range roots {
		// multiply the current polynomial by (x - r)
		next := make([]*fp2.Element, len(coeffs)+1)
		next[len(coeffs)] = coeffs[len(coeffs)-1]
		for i := len(coeffs) - 1; i >= 1; i-- {
			next[i] = f.Sub(coeffs[i-1], f.Mul(r, coeffs[i]))
		}
		next[0] = f.Neg(f.Mul(r, coeffs[0]))
		coeffs = next
	}

	return New(f, coeffs...)
}

// Degree returns the index of the highest coefficient.
func (p *Polynomial) Degree() int {
	return len(p.Coefficients) - 1
}

// Evaluate calculates f(x) with Horner's method.
func (p *Polynomial) Evaluate(x *fp2.Element) *fp2.Element {
	f := p.Field
	degree := p.Degree()
	result := p.Coefficients[degree]

	for i := degree - 1; i >= 0; i-- {
		result = f.Add(f.Mul(result, x), p.Coefficients[i])
	}

	return result
}
