package curves

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/fp2"
)

// ErrSingular is returned for curve coefficients with zero discriminant.
var ErrSingular = errors.New("curves: singular curve")

// Curve is the short Weierstrass curve y^2 = x^3 + A*x + B over F_{p^2}.
type Curve struct {
	F *fp2.Field
	A *fp2.Element
	B *fp2.Element
}

// Point is an affine point on a Curve, or the point at infinity.
// Points carry no reference to their curve; the caller keeps track of it.
type Point struct {
	X *fp2.Element
	Y *fp2.Element

	inf bool
}

// New returns the curve y^2 = x^3 + a*x + b, rejecting singular coefficients.
func New(f *fp2.Field, a, b *fp2.Element) (*Curve, error) {
	c := &Curve{F: f, A: a, B: b}
	if c.IsSingular() {
		return nil, errors.Wrapf(ErrSingular, "a = %v, b = %v", a, b)
	}
	return c, nil
}

// discriminantPart returns 4a^3 and 4a^3 + 27b^2.
func (c *Curve) discriminantPart() (*fp2.Element, *fp2.Element) {
	f := c.F
	a3 := f.MulInt64(f.Mul(f.Sqr(c.A), c.A), 4)
	return a3, f.Add(a3, f.MulInt64(f.Sqr(c.B), 27))
}

// IsSingular reports whether 4a^3 + 27b^2 = 0.
func (c *Curve) IsSingular() bool {
	_, d := c.discriminantPart()
	return d.IsZero()
}

// JInvariant returns 1728 * 4a^3 / (4a^3 + 27b^2).
func (c *Curve) JInvariant() (*fp2.Element, error) {
	f := c.F
	a3, d := c.discriminantPart()
	inv, err := f.Inv(d)
	if err != nil {
		return nil, errors.Wrap(ErrSingular, err.Error())
	}
	return f.Mul(f.MulInt64(a3, 1728), inv), nil
}

// Equal reports whether both curves have identical coefficients.
func (c *Curve) Equal(d *Curve) bool {
	return c.A.Equal(d.A) && c.B.Equal(d.B)
}

// Clone returns a shallow copy; the coefficients themselves are immutable.
func (c *Curve) Clone() *Curve {
	return &Curve{F: c.F, A: c.A, B: c.B}
}

func (c *Curve) String() string {
	return fmt.Sprintf("y^2 = x^3 + %v*x + %v", c.A, c.B)
}

// Infinity returns the neutral element.
func Infinity() *Point {
	return &Point{inf: true}
}

// NewPoint returns the affine point (x, y). It does not check the curve equation.
func NewPoint(x, y *fp2.Element) *Point {
	return &Point{X: x, Y: y}
}

// IsInfinity reports whether p is the neutral element.
func (p *Point) IsInfinity() bool {
	return p.inf
}

// Equal reports whether p and q are the same point.
func (p *Point) Equal(q *Point) bool {
	if p.inf || q.inf {
		return p.inf == q.inf
	}
	return p.X.Equal(q.X) && p.Y.Equal(q.Y)
}

func (p *Point) String() string {
	if p.inf {
		return "O"
	}
	return fmt.Sprintf("(%v, %v)", p.X, p.Y)
}

// rhs returns x^3 + a*x + b.
func (c *Curve) rhs(x *fp2.Element) *fp2.Element {
	f := c.F
	return f.Add(f.Mul(f.Add(f.Sqr(x), c.A), x), c.B)
}

// IsOnCurve reports whether p satisfies the curve equation.
func (c *Curve) IsOnCurve(p *Point) bool {
	if p.inf {
		return true
	}
	return c.F.Sqr(p.Y).Equal(c.rhs(p.X))
}

// Neg returns -p.
func (c *Curve) Neg(p *Point) *Point {
	if p.inf {
		return Infinity()
	}
	return NewPoint(p.X, c.F.Neg(p.Y))
}

// IsNegation reports whether q = -p.
func (c *Curve) IsNegation(p, q *Point) bool {
	return c.Neg(p).Equal(q)
}

// IsTwoTorsion reports whether p is a point of order 2.
func (c *Curve) IsTwoTorsion(p *Point) bool {
	return !p.inf && p.Y.IsZero()
}

func (c *Curve) inv(x *fp2.Element) *fp2.Element {
	r, err := c.F.Inv(x)
	if err != nil {
		// the group law only inverts x2 - x1 != 0 and 2y != 0
		panic(errors.Wrap(err, "curves: group law"))
	}
	return r
}

// chord returns the third intersection point for slope lambda through (x1, y1)
// and a second point with abscissa x2.
func (c *Curve) chord(lambda, x1, y1, x2 *fp2.Element) *Point {
	f := c.F
	x3 := f.Sub(f.Sub(f.Sqr(lambda), x1), x2)
	y3 := f.Sub(f.Mul(lambda, f.Sub(x1, x3)), y1)
	return NewPoint(x3, y3)
}

// Add returns p + q.
func (c *Curve) Add(p, q *Point) *Point {
	switch {
	case p.inf:
		return q
	case q.inf:
		return p
	}
	f := c.F
	if p.X.Equal(q.X) {
		if f.Add(p.Y, q.Y).IsZero() {
			return Infinity()
		}
		return c.Double(p)
	}
	lambda := f.Mul(f.Sub(q.Y, p.Y), c.inv(f.Sub(q.X, p.X)))
	return c.chord(lambda, p.X, p.Y, q.X)
}

// Double returns 2p.
func (c *Curve) Double(p *Point) *Point {
	if p.inf || p.Y.IsZero() {
		return Infinity()
	}
	f := c.F
	num := f.Add(f.MulInt64(f.Sqr(p.X), 3), c.A)
	lambda := f.Mul(num, c.inv(f.Add(p.Y, p.Y)))
	return c.chord(lambda, p.X, p.Y, p.X)
}

// ScalarMult returns k*p using left-to-right double-and-add.
func (c *Curve) ScalarMult(p *Point, k *big.Int) *Point {
	if k.Sign() < 0 {
		return c.ScalarMult(c.Neg(p), new(big.Int).Neg(k))
	}
	r := Infinity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = c.Double(r)
		if k.Bit(i) == 1 {
			r = c.Add(r, p)
		}
	}
	return r
}

// ScalarMultInt64 returns k*p.
func (c *Curve) ScalarMultInt64(p *Point, k int64) *Point {
	return c.ScalarMult(p, big.NewInt(k))
}

// HasOrder reports whether p has order exactly l^e.
func (c *Curve) HasOrder(p *Point, l, e int) bool {
	if e == 0 {
		return p.inf
	}
	q := c.ScalarMult(p, Pow(l, e-1))
	if q.inf {
		return false
	}
	return c.ScalarMultInt64(q, int64(l)).inf
}

// Pow returns l^e as a big integer.
func Pow(l, e int) *big.Int {
	return new(big.Int).Exp(big.NewInt(int64(l)), big.NewInt(int64(e)), nil)
}
