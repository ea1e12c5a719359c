package fp2

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

var (
	// ErrModulus is returned when the base prime cannot carry F_p[i]/(i^2+1).
	ErrModulus = errors.New("fp2: modulus must be a prime congruent to 3 mod 4")

	// ErrDivisionByZero is returned when inverting the zero element.
	ErrDivisionByZero = errors.New("fp2: division by zero")
)

var (
	one   = big.NewInt(1)
	three = big.NewInt(3)
	four  = big.NewInt(4)
)

// Field is the quadratic extension F_{p^2} = F_p[i] / (i^2 + 1).
//
// i^2 + 1 is irreducible exactly when p ≡ 3 mod 4, which is also the condition
// that makes y^2 = x^3 + x supersingular over F_p.
type Field struct {
	p *big.Int

	// exponents used by Sqrt, cached at construction
	sqrtExp1 *big.Int // (p - 3) / 4
	sqrtExp2 *big.Int // (p - 1) / 2

	counters Counters
}

// Element represents a0 + a1*i with a0, a1 reduced mod p.
// Elements are immutable; every Field operation returns a fresh value.
type Element struct {
	a0, a1 *big.Int
}

// NewField returns the extension field over the prime p.
func NewField(p *big.Int) (*Field, error) {
	if p == nil || p.Cmp(three) < 0 || !p.ProbablyPrime(20) {
		return nil, errors.Wrapf(ErrModulus, "p = %v", p)
	}
	if new(big.Int).Mod(p, four).Cmp(three) != 0 {
		return nil, errors.Wrapf(ErrModulus, "p = %v", p)
	}

	e1 := new(big.Int).Sub(p, three)
	e1.Rsh(e1, 2)
	e2 := new(big.Int).Sub(p, one)
	e2.Rsh(e2, 1)

	return &Field{
		p:        new(big.Int).Set(p),
		sqrtExp1: e1,
		sqrtExp2: e2,
	}, nil
}

// MustNewField is like NewField but panics on an invalid modulus.
// It is intended for package-level parameter tables.
func MustNewField(p *big.Int) *Field {
	f, err := NewField(p)
	if err != nil {
		panic(err)
	}
	return f
}

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

// Counters exposes the operation counters of this field.
func (f *Field) Counters() *Counters {
	return &f.counters
}

func (f *Field) reduce(v *big.Int) *big.Int {
	return v.Mod(v, f.p)
}

// New returns a0 + a1*i. The inputs are copied and reduced.
func (f *Field) New(a0, a1 *big.Int) *Element {
	return &Element{
		a0: f.reduce(new(big.Int).Set(a0)),
		a1: f.reduce(new(big.Int).Set(a1)),
	}
}

// NewInt64 returns a0 + a1*i for small integers.
func (f *Field) NewInt64(a0, a1 int64) *Element {
	return &Element{
		a0: f.reduce(big.NewInt(a0)),
		a1: f.reduce(big.NewInt(a1)),
	}
}

// Zero returns the additive identity.
func (f *Field) Zero() *Element {
	return &Element{a0: new(big.Int), a1: new(big.Int)}
}

// One returns the multiplicative identity.
func (f *Field) One() *Element {
	return &Element{a0: big.NewInt(1), a1: new(big.Int)}
}

// Add returns x + y.
func (f *Field) Add(x, y *Element) *Element {
	f.counters.add.Inc()
	return &Element{
		a0: f.reduce(new(big.Int).Add(x.a0, y.a0)),
		a1: f.reduce(new(big.Int).Add(x.a1, y.a1)),
	}
}

// Sub returns x - y.
func (f *Field) Sub(x, y *Element) *Element {
	f.counters.add.Inc()
	return &Element{
		a0: f.reduce(new(big.Int).Sub(x.a0, y.a0)),
		a1: f.reduce(new(big.Int).Sub(x.a1, y.a1)),
	}
}

// Neg returns -x.
func (f *Field) Neg(x *Element) *Element {
	return &Element{
		a0: f.reduce(new(big.Int).Neg(x.a0)),
		a1: f.reduce(new(big.Int).Neg(x.a1)),
	}
}

// Mul returns x * y.
// (a0 + a1*i)(b0 + b1*i) = (a0*b0 - a1*b1) + ((a0+a1)(b0+b1) - a0*b0 - a1*b1)*i
func (f *Field) Mul(x, y *Element) *Element {
	f.counters.mul.Inc()
	v0 := new(big.Int).Mul(x.a0, y.a0)
	v1 := new(big.Int).Mul(x.a1, y.a1)
	s := new(big.Int).Add(x.a0, x.a1)
	s.Mul(s, new(big.Int).Add(y.a0, y.a1))
	s.Sub(s, v0)
	s.Sub(s, v1)
	return &Element{
		a0: f.reduce(v0.Sub(v0, v1)),
		a1: f.reduce(s),
	}
}

// Sqr returns x^2 = (a0+a1)(a0-a1) + 2*a0*a1*i.
func (f *Field) Sqr(x *Element) *Element {
	f.counters.sqr.Inc()
	re := new(big.Int).Add(x.a0, x.a1)
	re.Mul(re, new(big.Int).Sub(x.a0, x.a1))
	im := new(big.Int).Mul(x.a0, x.a1)
	im.Lsh(im, 1)
	return &Element{
		a0: f.reduce(re),
		a1: f.reduce(im),
	}
}

// MulInt64 returns k * x.
func (f *Field) MulInt64(x *Element, k int64) *Element {
	kk := big.NewInt(k)
	return &Element{
		a0: f.reduce(new(big.Int).Mul(x.a0, kk)),
		a1: f.reduce(new(big.Int).Mul(x.a1, kk)),
	}
}

// Inv returns x^-1 = (a0 - a1*i) / (a0^2 + a1^2).
func (f *Field) Inv(x *Element) (*Element, error) {
	f.counters.inv.Inc()
	norm := new(big.Int).Mul(x.a0, x.a0)
	norm.Add(norm, new(big.Int).Mul(x.a1, x.a1))
	f.reduce(norm)
	if norm.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	norm.ModInverse(norm, f.p)
	return &Element{
		a0: f.reduce(new(big.Int).Mul(x.a0, norm)),
		a1: f.reduce(new(big.Int).Mul(new(big.Int).Neg(x.a1), norm)),
	}, nil
}

// Exp returns x^k for k >= 0.
func (f *Field) Exp(x *Element, k *big.Int) *Element {
	r := f.One()
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = f.Sqr(r)
		if k.Bit(i) == 1 {
			r = f.Mul(r, x)
		}
	}
	return r
}

// Sqrt returns a square root of x and true, or nil and false if x is not a square.
//
// For p ≡ 3 mod 4: a1 = x^((p-3)/4), alpha = a1^2 * x, x0 = a1 * x. If alpha = -1
// the root is i*x0, otherwise it is (1 + alpha)^((p-1)/2) * x0.
func (f *Field) Sqrt(x *Element) (*Element, bool) {
	if x.IsZero() {
		return f.Zero(), true
	}
	a1 := f.Exp(x, f.sqrtExp1)
	alpha := f.Mul(f.Sqr(a1), x)
	x0 := f.Mul(a1, x)

	var r *Element
	if f.Equal(alpha, f.Neg(f.One())) {
		r = f.Mul(f.NewInt64(0, 1), x0)
	} else {
		b := f.Exp(f.Add(f.One(), alpha), f.sqrtExp2)
		r = f.Mul(b, x0)
	}
	if !f.Equal(f.Sqr(r), x) {
		return nil, false
	}
	return r, true
}

// Equal reports whether x == y.
func (f *Field) Equal(x, y *Element) bool {
	return x.Equal(y)
}

// Equal reports whether x == y. Both operands must come from the same field.
func (x *Element) Equal(y *Element) bool {
	return x.a0.Cmp(y.a0) == 0 && x.a1.Cmp(y.a1) == 0
}

// IsZero reports whether x is the additive identity.
func (x *Element) IsZero() bool {
	return x.a0.Sign() == 0 && x.a1.Sign() == 0
}

// Real returns a copy of a0.
func (x *Element) Real() *big.Int {
	return new(big.Int).Set(x.a0)
}

// Imag returns a copy of a1.
func (x *Element) Imag() *big.Int {
	return new(big.Int).Set(x.a1)
}

func (x *Element) String() string {
	return fmt.Sprintf("(%s, %s)", x.a0.String(), x.a1.String())
}
