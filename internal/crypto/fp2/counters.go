package fp2

import (
	"go.uber.org/atomic"
)

// Counters records how many field operations were performed.
// Add covers both additions and subtractions.
type Counters struct {
	add atomic.Uint64
	mul atomic.Uint64
	sqr atomic.Uint64
	inv atomic.Uint64
}

// OpCount is a point-in-time copy of Counters.
type OpCount struct {
	Add uint64
	Mul uint64
	Sqr uint64
	Inv uint64
}

// Snapshot returns the current counts.
func (c *Counters) Snapshot() OpCount {
	return OpCount{
		Add: c.add.Load(),
		Mul: c.mul.Load(),
		Sqr: c.sqr.Load(),
		Inv: c.inv.Load(),
	}
}

// Reset sets every counter back to zero.
func (c *Counters) Reset() {
	c.add.Store(0)
	c.mul.Store(0)
	c.sqr.Store(0)
	c.inv.Store(0)
}

// Sub returns the difference o - prev, useful to measure a single computation.
func (o OpCount) Sub(prev OpCount) OpCount {
	return OpCount{
		Add: o.Add - prev.Add,
		Mul: o.Mul - prev.Mul,
		Sqr: o.Sqr - prev.Sqr,
		Inv: o.Inv - prev.Inv,
	}
}

// Multiplicative returns Mul + Sqr + Inv, the operations that dominate cost.
func (o OpCount) Multiplicative() uint64 {
	return o.Mul + o.Sqr + o.Inv
}
