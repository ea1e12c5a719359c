package curves

import (
	"github.com/pkg/errors"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/fp2"
)

// ErrNoPoint is returned when the deterministic search gives up.
var ErrNoPoint = errors.New("curves: no suitable point found")

const maxSearch = 1 << 16

// FindPoint scans x = c + imag*i for c = start, start+1, ... and returns the
// first point on the curve, together with the next unused c.
// The search is deterministic, which keeps test fixtures reproducible.
func FindPoint(curve *Curve, imag, start int64) (*Point, int64, error) {
	f := curve.F
	for c := start; c < start+maxSearch; c++ {
		x := f.NewInt64(c, imag)
		y, ok := f.Sqrt(curve.rhs(x))
		if !ok {
			continue
		}
		return NewPoint(x, y), c + 1, nil
	}
	return nil, 0, ErrNoPoint
}

// FindTorsionPoint returns a point of exact order l^e on the starting curve of
// params by clearing the cofactor of points found with FindPoint (imag = 1).
func FindTorsionPoint(params *Params, l, e int, start int64) (*Point, int64, error) {
	cofactor, err := params.Cofactor(l, e)
	if err != nil {
		return nil, 0, err
	}
	next := start
	for attempts := 0; attempts < maxSearch; attempts++ {
		var p *Point
		p, next, err = FindPoint(params.Curve, 1, next)
		if err != nil {
			return nil, 0, err
		}
		q := params.Curve.ScalarMult(p, cofactor)
		if params.Curve.HasOrder(q, l, e) {
			return q, next, nil
		}
	}
	return nil, 0, errors.Wrapf(ErrNoPoint, "order %d^%d", l, e)
}

// FindPoints returns n points with x-coordinates of the form c + imag*i.
func FindPoints(curve *Curve, imag int64, n int) ([]*Point, error) {
	points := make([]*Point, 0, n)
	next := int64(0)
	for len(points) < n {
		p, c, err := FindPoint(curve, imag, next)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
		next = c
	}
	return points, nil
}

// PointFromInts builds the affine point (x0 + x1*i, y0 + y1*i), mostly for fixtures.
func PointFromInts(f *fp2.Field, x, y [2]int64) *Point {
	return NewPoint(f.NewInt64(x[0], x[1]), f.NewInt64(y[0], y[1]))
}
