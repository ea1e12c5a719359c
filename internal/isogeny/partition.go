package isogeny

import (
	"github.com/pkg/errors"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/curves"
	"github.com/smallyu/go-sidh-isogeny/pkg/sidh"
)

// ShouldAdd reports whether neither R nor -R occurs in points[:length].
// All points lie on one curve, where sharing an abscissa means being equal
// or opposite.
func ShouldAdd(points []*curves.Point, R *curves.Point, length int) bool {
	for _, q := range points[:length] {
		if q.IsInfinity() || R.IsInfinity() {
			if q.IsInfinity() == R.IsInfinity() {
				return false
			}
			continue
		}
		if q.X.Equal(R.X) {
			return false
		}
	}
	return true
}

// PartitionKernel fills partition with one representative of every {R, -R}
// pair in the subgroup generated by kernelGen, walking gen, 2gen, ... on E.
// It fails with sidh.ErrKernelOrder when the walk reaches the identity before
// len(partition) representatives are found.
func PartitionKernel(partition []*curves.Point, kernelGen *curves.Point, E *curves.Curve) error {
	n := len(partition)
	R := kernelGen
	found := 0
	for walked := 1; found < n; walked++ {
		if R.IsInfinity() {
			return errors.Wrapf(sidh.ErrKernelOrder, "%d*gen is the identity, expected %d partition points", walked, n)
		}
		if ShouldAdd(partition, R, found) {
			partition[found] = R
			found++
		}
		R = E.Add(R, kernelGen)
	}
	return nil
}
