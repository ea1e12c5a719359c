package isogeny

import (
	"github.com/pkg/errors"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/curves"
	"github.com/smallyu/go-sidh-isogeny/internal/crypto/fp2"
	"github.com/smallyu/go-sidh-isogeny/pkg/sidh"
)

// Evaluator maps domain points through a computed isogeny.
type Evaluator interface {
	Name() string
	Evaluate(iso *Isogeny, p *curves.Point) (*curves.Point, error)
}

type veluEvaluator struct{}

func (veluEvaluator) Name() string { return "velu" }

func (veluEvaluator) Evaluate(iso *Isogeny, p *curves.Point) (*curves.Point, error) {
	return EvaluateVelu(iso, p)
}

type kohelEvaluator struct{}

func (kohelEvaluator) Name() string { return "kohel" }

func (kohelEvaluator) Evaluate(iso *Isogeny, p *curves.Point) (*curves.Point, error) {
	return EvaluateKohel(iso, p)
}

var (
	// Velu sums over the partition and recomputes the coefficients per call.
	Velu Evaluator = veluEvaluator{}
	// Kohel reuses the coefficients stored by Compute.
	Kohel Evaluator = kohelEvaluator{}
)

// EvaluatorByName returns Velu or Kohel.
func EvaluatorByName(name string) (Evaluator, error) {
	switch name {
	case Velu.Name():
		return Velu, nil
	case Kohel.Name():
		return Kohel, nil
	}
	return nil, errors.Wrapf(sidh.ErrInvalidParameter, "unknown evaluator %q", name)
}

// Preferred picks Velu for a one-off evaluation and Kohel when several
// points share the same isogeny.
func Preferred(numPoints int) Evaluator {
	if numPoints <= 1 {
		return Velu
	}
	return Kohel
}

func (iso *Isogeny) checkPoint(p *curves.Point) error {
	if err := iso.ready(); err != nil {
		return err
	}
	if p.IsInfinity() {
		return sidh.ErrIdentity
	}
	if !iso.Domain.IsOnCurve(p) {
		return errors.Wrapf(sidh.ErrNotOnCurve, "%v", p)
	}
	return nil
}

// inKernel reports whether p shares its abscissa with a partition point.
func (iso *Isogeny) inKernel(p *curves.Point) bool {
	for _, q := range iso.Partition {
		if q.X.Equal(p.X) {
			return true
		}
	}
	return false
}

// EvaluateVelu returns the image of p by direct summation over the partition:
//
//	X = x + sum(v_Q/(x-x_Q) + u_Q/(x-x_Q)^2)
//	Y = y - sum(2y*u_Q/(x-x_Q)^3 + v_Q(y-y_Q)/(x-x_Q)^2 - gx_Q*gy_Q/(x-x_Q)^2)
//
// Kernel points map to the identity.
func EvaluateVelu(iso *Isogeny, p *curves.Point) (*curves.Point, error) {
	if err := iso.checkPoint(p); err != nil {
		return nil, err
	}
	pointEvaluations.WithLabelValues(Velu.Name()).Inc()
	if iso.inKernel(p) {
		return curves.Infinity(), nil
	}

	E := iso.Domain
	f := E.F
	x, y := p.X, p.Y
	y2 := f.Add(y, y)
	X, Y := x, y
	for _, q := range iso.Partition {
		gx := f.Add(f.MulInt64(f.Sqr(q.X), 3), E.A)
		gy := f.MulInt64(q.Y, -2)
		vq := gx
		if !E.IsTwoTorsion(q) {
			vq = f.Add(gx, gx)
		}
		uq := f.Sqr(gy)

		t, err := f.Inv(f.Sub(x, q.X))
		if err != nil {
			return nil, errors.Wrap(err, "velu")
		}
		t2 := f.Sqr(t)
		t3 := f.Mul(t2, t)

		X = f.Add(X, f.Add(f.Mul(vq, t), f.Mul(uq, t2)))

		term := f.Mul(f.Mul(uq, y2), t3)
		term = f.Add(term, f.Mul(f.Mul(vq, f.Sub(y, q.Y)), t2))
		term = f.Sub(term, f.Mul(f.Mul(gx, gy), t2))
		Y = f.Sub(Y, term)
	}
	return curves.NewPoint(X, Y), nil
}

// EvaluateKohel returns the image of p from the coefficients stored by
// Compute. The inverses of x - x_Q are obtained with a single field
// inversion of psi(x), the kernel polynomial at x; psi(x) = 0 means p is in
// the kernel.
func EvaluateKohel(iso *Isogeny, p *curves.Point) (*curves.Point, error) {
	if err := iso.checkPoint(p); err != nil {
		return nil, err
	}
	pointEvaluations.WithLabelValues(Kohel.Name()).Inc()

	f := iso.Domain.F
	x, y := p.X, p.Y
	n := len(iso.Partition)

	// prefix[i] = prod_{j<i} (x - x_j)
	d := make([]*fp2.Element, n)
	prefix := make([]*fp2.Element, n)
	psi := f.One()
	for i, q := range iso.Partition {
		d[i] = f.Sub(x, q.X)
		prefix[i] = psi
		psi = f.Mul(psi, d[i])
	}
	if psi.IsZero() {
		return curves.Infinity(), nil
	}
	inv, err := f.Inv(psi)
	if err != nil {
		return nil, errors.Wrap(err, "kohel")
	}

	y2 := f.Add(y, y)
	X, Y := x, y
	for i := n - 1; i >= 0; i-- {
		t := f.Mul(inv, prefix[i])
		inv = f.Mul(inv, d[i])
		t2 := f.Sqr(t)

		X = f.Add(X, f.Add(f.Mul(iso.V[i], t), f.Mul(iso.U[i], t2)))

		// 2y*u*t^3 + (v*(y - y_Q) - gx*gy)*t^2
		term := f.Mul(f.Mul(iso.U[i], y2), f.Mul(t2, t))
		c := f.Sub(f.Mul(iso.V[i], f.Sub(y, iso.Partition[i].Y)), f.Mul(iso.GX[i], iso.GY[i]))
		term = f.Add(term, f.Mul(c, t2))
		Y = f.Sub(Y, term)
	}
	return curves.NewPoint(X, Y), nil
}
