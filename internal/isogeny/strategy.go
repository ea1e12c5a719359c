package isogeny

import (
	"math"

	"github.com/pkg/errors"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/curves"
	"github.com/smallyu/go-sidh-isogeny/pkg/sidh"
)

// Strategy is the preorder flattening of a split tree for an l^e chain.
// At a node of height n the entry m says: multiply the current generator by
// l^m and recurse on the left subtree of height n-m, then on the right subtree
// of height m. Leaves (height 1) are implicit, so a chain of length e has
// exactly e-1 entries.
type Strategy []int

// NewStrategy splits every node of height n at m = clamp(floor(n*ratio), 1, n-1).
// A larger ratio spends more multiplications to save isogeny evaluations.
func NewStrategy(e int, ratio float64) (Strategy, error) {
	if e < 1 {
		return nil, errors.Wrapf(sidh.ErrInvalidParameter, "e = %d", e)
	}
	if err := sidh.ValidateRatio(ratio); err != nil {
		return nil, err
	}
	return flatten(e, func(n int) int {
		m := int(float64(n) * ratio)
		return max(1, min(n-1, m))
	}), nil
}

// OptimalStrategy returns the strategy of least Cost for the given relative
// costs of one multiplication by l and one l-isogeny evaluation.
func OptimalStrategy(e int, mulCost, isoCost float64) (Strategy, error) {
	if e < 1 {
		return nil, errors.Wrapf(sidh.ErrInvalidParameter, "e = %d", e)
	}
	if !(mulCost > 0) || !(isoCost > 0) {
		return nil, errors.Wrapf(sidh.ErrInvalidParameter, "costs must be positive, got %v and %v", mulCost, isoCost)
	}

	cost := make([]float64, e+1)
	split := make([]int, e+1)
	for n := 2; n <= e; n++ {
		cost[n] = math.Inf(1)
		for m := 1; m < n; m++ {
			c := cost[n-m] + cost[m] + float64(m)*mulCost + float64(n-m)*isoCost
			if c < cost[n] {
				cost[n], split[n] = c, m
			}
		}
	}
	return flatten(e, func(n int) int { return split[n] }), nil
}

// flatten emits the preorder of the split tree of height e without recursion.
func flatten(e int, split func(n int) int) Strategy {
	s := make(Strategy, 0, e-1)
	stack := []int{e}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == 1 {
			continue
		}
		m := split(n)
		s = append(s, m)
		// right subtree below left, so the left one is expanded first
		stack = append(stack, m, n-m)
	}
	return s
}

// Validate checks that s is a well-formed strategy for a chain of length e.
func (s Strategy) Validate(e int) error {
	if e < 1 {
		return errors.Wrapf(sidh.ErrInvalidParameter, "e = %d", e)
	}
	next := 0
	stack := []int{e}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == 1 {
			continue
		}
		if next >= len(s) {
			return errors.Wrapf(sidh.ErrStrategy, "%d entries, expected %d", len(s), e-1)
		}
		m := s[next]
		next++
		if m < 1 || m >= n {
			return errors.Wrapf(sidh.ErrStrategy, "entry %d splits height %d at %d", next-1, n, m)
		}
		stack = append(stack, m, n-m)
	}
	if next != len(s) {
		return errors.Wrapf(sidh.ErrStrategy, "%d entries, expected %d", len(s), e-1)
	}
	return nil
}

// Counts returns the number of multiplications by l and of l-isogeny point
// evaluations spent on pending generators when walking s.
func (s Strategy) Counts() (muls, isos int) {
	e := len(s) + 1
	next := 0
	stack := []int{e}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == 1 || next >= len(s) {
			continue
		}
		m := s[next]
		next++
		muls += m
		isos += n - m
		stack = append(stack, m, n-m)
	}
	return muls, isos
}

// Cost returns the weighted cost of walking s. The e leaf isogenies every
// strategy has to build are not included.
func (s Strategy) Cost(mulCost, isoCost float64) float64 {
	muls, isos := s.Counts()
	return float64(muls)*mulCost + float64(isos)*isoCost
}

// EvaluateStrategy pushes E and points through the l^e isogeny with kernel
// <kernelGen> following NewStrategy(e, ratio). The in/out contract is the
// one of EvaluateNaive, and so is the result.
func (w *Walker) EvaluateStrategy(E *curves.Curve, points []*curves.Point, kernelGen *curves.Point, l, e int, ratio float64) error {
	if err := sidh.ValidateChain(l, e); err != nil {
		return err
	}
	s, err := NewStrategy(e, ratio)
	if err != nil {
		return err
	}
	return w.walk(E, points, kernelGen, l, s)
}

// EvaluateStrategyCurve is EvaluateStrategy without points.
func (w *Walker) EvaluateStrategyCurve(E *curves.Curve, kernelGen *curves.Point, l, e int, ratio float64) error {
	return w.EvaluateStrategy(E, nil, kernelGen, l, e, ratio)
}

// EvaluateWithStrategy walks the chain of length len(s)+1 along s.
func (w *Walker) EvaluateWithStrategy(E *curves.Curve, points []*curves.Point, kernelGen *curves.Point, l int, s Strategy) error {
	if err := sidh.ValidateChain(l, len(s)+1); err != nil {
		return err
	}
	if err := s.Validate(len(s) + 1); err != nil {
		return err
	}
	return w.walk(E, points, kernelGen, l, s)
}

// walk traverses s with explicit stacks. Generators set aside while
// descending the tree are pushed through every isogeny materialised below
// them and resumed once that subtree is done.
func (w *Walker) walk(E *curves.Curve, points []*curves.Point, kernelGen *curves.Point, l int, s Strategy) error {
	e := len(s) + 1
	if err := checkChainInputs(E, points, kernelGen, l, e); err != nil {
		return err
	}

	iso, err := New(l - 1)
	if err != nil {
		return err
	}
	defer iso.Release()
	pool, err := w.walkPool()
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Release()
	}
	ev := w.EvaluatorFor(len(points))

	curve := E.Clone()
	images := append([]*curves.Point(nil), points...)
	pending := make([]*curves.Point, 0, e)
	depths := make([]int, 0, e)

	R := kernelGen
	depth, next, step := 0, 0, 0
	for j := 1; j <= len(s); j++ {
		for depth <= len(s)-j {
			pending = append(pending, R)
			depths = append(depths, depth)
			m := s[next]
			next++
			R = curve.ScalarMult(R, curves.Pow(l, m))
			scalarMultiplications.Add(float64(m))
			depth += m
		}

		step++
		if err := iso.Compute(curve, R); err != nil {
			return sidh.NewStepError(strategyWalker, step, err)
		}
		if err := evaluatePoints(iso, ev, pending, pool); err != nil {
			return sidh.NewStepError(strategyWalker, step, errors.Wrap(err, "pending generators"))
		}
		if err := evaluatePoints(iso, ev, images, pool); err != nil {
			return sidh.NewStepError(strategyWalker, step, err)
		}
		curve = iso.Codomain

		w.log.Debug().
			Str("walker", strategyWalker).
			Int("step", step).
			Int("kernel_size", iso.KernelSize()).
			Int("partition_size", iso.PartitionSize()).
			Int("pending", len(pending)).
			Msg("isogeny step")

		R = pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		depth = depths[len(depths)-1]
		depths = depths[:len(depths)-1]
	}

	step++
	if err := iso.Compute(curve, R); err != nil {
		return sidh.NewStepError(strategyWalker, step, err)
	}
	if err := evaluatePoints(iso, ev, images, pool); err != nil {
		return sidh.NewStepError(strategyWalker, step, err)
	}
	w.log.Debug().
		Str("walker", strategyWalker).
		Int("step", step).
		Int("kernel_size", iso.KernelSize()).
		Int("partition_size", iso.PartitionSize()).
		Msg("isogeny step")

	*E = *iso.Codomain
	copy(points, images)
	w.finish(strategyWalker, ev, l, e, step, len(points))
	return nil
}
