// Package isogeny builds separable isogenies between short Weierstrass curves
// from a kernel generator, evaluates them on points and walks l^e chains.
package isogeny

import (
	"github.com/pkg/errors"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/curves"
	"github.com/smallyu/go-sidh-isogeny/internal/crypto/fp2"
	"github.com/smallyu/go-sidh-isogeny/internal/crypto/polynomial"
	"github.com/smallyu/go-sidh-isogeny/pkg/sidh"
)

// Isogeny describes the isogeny with kernel <gen> where gen has order
// kernelSize+1. Domain, Codomain and the coefficient arrays are only
// meaningful after a successful Compute.
type Isogeny struct {
	Domain   *curves.Curve
	Codomain *curves.Curve

	// One representative per {R, -R} pair of the punctured kernel.
	Partition []*curves.Point

	// Per partition point Q: gx = 3x_Q^2 + a, gy = -2y_Q,
	// v = gx (Q of order 2) or 2gx, u = gy^2.
	GX []*fp2.Element
	GY []*fp2.Element
	U  []*fp2.Element
	V  []*fp2.Element

	kernelSize int
	computed   bool
	released   bool
}

// PartitionSize returns ceil(kernelSize / 2).
func PartitionSize(kernelSize int) int {
	return (kernelSize + 1) / 2
}

// New allocates a descriptor for kernels with kernelSize non-identity points.
func New(kernelSize int) (*Isogeny, error) {
	if kernelSize < 1 {
		return nil, errors.Wrapf(sidh.ErrKernelSize, "kernel size %d", kernelSize)
	}
	n := PartitionSize(kernelSize)
	return &Isogeny{
		Partition:  make([]*curves.Point, n),
		GX:         make([]*fp2.Element, n),
		GY:         make([]*fp2.Element, n),
		U:          make([]*fp2.Element, n),
		V:          make([]*fp2.Element, n),
		kernelSize: kernelSize,
	}, nil
}

// KernelSize returns the number of non-identity kernel points (degree - 1).
func (iso *Isogeny) KernelSize() int {
	return iso.kernelSize
}

// PartitionSize returns the number of partition points.
func (iso *Isogeny) PartitionSize() int {
	return PartitionSize(iso.kernelSize)
}

// Degree returns kernelSize + 1.
func (iso *Isogeny) Degree() int {
	return iso.kernelSize + 1
}

// Computed reports whether Compute has succeeded since the last resize.
func (iso *Isogeny) Computed() bool {
	return iso.computed && !iso.released
}

// Release drops all storage held by the descriptor. It is safe to call more
// than once; any later use returns sidh.ErrReleased.
func (iso *Isogeny) Release() {
	if iso.released {
		return
	}
	iso.Domain, iso.Codomain = nil, nil
	iso.Partition = nil
	iso.GX, iso.GY, iso.U, iso.V = nil, nil, nil, nil
	iso.computed = false
	iso.released = true
}

// SetKernelSize shrinks the descriptor to kernel size k, reusing the arrays.
// Shrinking to the current size is a no-op; growing is rejected. After a
// real shrink the descriptor must be recomputed.
func (iso *Isogeny) SetKernelSize(k int) error {
	if iso.released {
		return sidh.ErrReleased
	}
	if k < 1 || k > iso.kernelSize {
		return errors.Wrapf(sidh.ErrKernelSize, "cannot resize kernel from %d to %d", iso.kernelSize, k)
	}
	if k == iso.kernelSize {
		return nil
	}
	n := PartitionSize(k)
	for i := n; i < len(iso.Partition); i++ {
		iso.Partition[i] = nil
		iso.GX[i], iso.GY[i], iso.U[i], iso.V[i] = nil, nil, nil, nil
	}
	iso.Partition = iso.Partition[:n]
	iso.GX, iso.GY = iso.GX[:n], iso.GY[:n]
	iso.U, iso.V = iso.U[:n], iso.V[:n]
	iso.kernelSize = k
	iso.Codomain = nil
	iso.computed = false
	return nil
}

// Compute builds the isogeny with kernel <kernelGen> on domain. The generator
// must have order exactly KernelSize()+1. Neither argument is modified, and a
// rejected generator leaves the descriptor as it was.
func (iso *Isogeny) Compute(domain *curves.Curve, kernelGen *curves.Point) error {
	if iso.released {
		return sidh.ErrReleased
	}
	if kernelGen.IsInfinity() {
		return errors.Wrap(sidh.ErrIdentity, "kernel generator")
	}
	if !domain.IsOnCurve(kernelGen) {
		return errors.Wrap(sidh.ErrNotOnCurve, "kernel generator")
	}
	if !domain.ScalarMultInt64(kernelGen, int64(iso.kernelSize+1)).IsInfinity() {
		return errors.Wrapf(sidh.ErrKernelOrder, "generator order does not divide %d", iso.kernelSize+1)
	}

	// a generator of smaller order only shows up while partitioning
	partition := make([]*curves.Point, len(iso.Partition))
	if err := PartitionKernel(partition, kernelGen, domain); err != nil {
		return err
	}
	copy(iso.Partition, partition)

	f := domain.F
	v, w := f.Zero(), f.Zero()
	for i, q := range iso.Partition {
		gx := f.Add(f.MulInt64(f.Sqr(q.X), 3), domain.A)
		gy := f.MulInt64(q.Y, -2)
		vq := gx
		if !domain.IsTwoTorsion(q) {
			vq = f.Add(gx, gx)
		}
		uq := f.Sqr(gy)

		iso.GX[i], iso.GY[i], iso.U[i], iso.V[i] = gx, gy, uq, vq
		v = f.Add(v, vq)
		w = f.Add(w, f.Add(uq, f.Mul(q.X, vq)))
	}

	iso.Domain = domain
	iso.Codomain = &curves.Curve{
		F: f,
		A: f.Sub(domain.A, f.MulInt64(v, 5)),
		B: f.Sub(domain.B, f.MulInt64(w, 7)),
	}
	iso.computed = true
	buildsTotal.Inc()
	return nil
}

// KernelPolynomial returns the monic polynomial whose roots are the
// x-coordinates of the partition points.
func (iso *Isogeny) KernelPolynomial() (*polynomial.Polynomial, error) {
	if err := iso.ready(); err != nil {
		return nil, err
	}
	xs := make([]*fp2.Element, len(iso.Partition))
	for i, q := range iso.Partition {
		xs[i] = q.X
	}
	return polynomial.FromRoots(iso.Domain.F, xs), nil
}

func (iso *Isogeny) ready() error {
	if iso.released {
		return sidh.ErrReleased
	}
	if !iso.computed {
		return sidh.ErrNotComputed
	}
	return nil
}
