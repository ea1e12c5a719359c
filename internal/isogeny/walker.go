package isogeny

import (
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/curves"
	"github.com/smallyu/go-sidh-isogeny/pkg/sidh"
)

// maxStepKernel bounds the kernel of a single materialised isogeny.
const maxStepKernel = 1 << 20

const (
	naiveWalker    = "naive"
	strategyWalker = "strategy"
)

// Walker evaluates l^e isogeny chains on a curve and a list of points.
// A Walker holds no per-walk state and may be shared between goroutines.
type Walker struct {
	log       *zerolog.Logger
	evaluator Evaluator
	workers   int
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger used for per-step and per-walk events.
func WithLogger(log *zerolog.Logger) Option {
	return func(w *Walker) {
		if log != nil {
			w.log = log
		}
	}
}

// WithEvaluator fixes the point evaluation algorithm. Without it every walk
// asks Preferred.
func WithEvaluator(ev Evaluator) Option {
	return func(w *Walker) {
		if ev != nil {
			w.evaluator = ev
		}
	}
}

// WithWorkers sets how many points are evaluated concurrently per isogeny.
func WithWorkers(n int) Option {
	return func(w *Walker) {
		if n > 0 {
			w.workers = n
		}
	}
}

// NewWalker returns a Walker evaluating on a single worker and discarding
// logs unless configured otherwise.
func NewWalker(opts ...Option) *Walker {
	nop := zerolog.Nop()
	w := &Walker{
		log:     &nop,
		workers: 1,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// EvaluatorFor returns the algorithm a walk carrying numPoints points uses.
// The kernel generator is pushed along with the points, so Preferred sees
// one more.
func (w *Walker) EvaluatorFor(numPoints int) Evaluator {
	if w.evaluator != nil {
		return w.evaluator
	}
	return Preferred(numPoints + 1)
}

// walkPool returns the pool shared by every step of one walk, or nil when
// points are evaluated inline. The caller releases it.
func (w *Walker) walkPool() (*ants.Pool, error) {
	if w.workers <= 1 {
		return nil, nil
	}
	return newPool(w.workers)
}

// EvaluateNaive pushes E and points through the l^e isogeny with kernel
// <kernelGen>, materialising isogenies of degree l^jump (the last one may be
// smaller). On success *E holds the codomain and points[i] the images;
// kernelGen is never modified. On error E and points are left untouched.
func (w *Walker) EvaluateNaive(E *curves.Curve, points []*curves.Point, kernelGen *curves.Point, l, e, jump int) error {
	if err := sidh.ValidateChain(l, e); err != nil {
		return err
	}
	if jump < 1 {
		return errors.Wrapf(sidh.ErrInvalidParameter, "jump = %d", jump)
	}
	jump = min(jump, e)
	size := curves.Pow(l, jump)
	if !size.IsInt64() || size.Int64()-1 > maxStepKernel {
		return errors.Wrapf(sidh.ErrInvalidParameter, "%d^%d is too large for a single step", l, jump)
	}
	if err := checkChainInputs(E, points, kernelGen, l, e); err != nil {
		return err
	}

	iso, err := New(int(size.Int64()) - 1)
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
	K := kernelGen
	remaining := e
	step := 0
	for remaining > 0 {
		step++
		s := min(jump, remaining)
		if s < jump {
			if err := iso.SetKernelSize(int(curves.Pow(l, s).Int64()) - 1); err != nil {
				return sidh.NewStepError(naiveWalker, step, err)
			}
		}

		gen := K
		if remaining > s {
			gen = curve.ScalarMult(K, curves.Pow(l, remaining-s))
			scalarMultiplications.Add(float64(remaining - s))
		}
		if err := iso.Compute(curve, gen); err != nil {
			return sidh.NewStepError(naiveWalker, step, err)
		}
		if err := evaluatePoints(iso, ev, images, pool); err != nil {
			return sidh.NewStepError(naiveWalker, step, err)
		}

		remaining -= s
		if remaining > 0 {
			if K, err = ev.Evaluate(iso, K); err != nil {
				return sidh.NewStepError(naiveWalker, step, errors.Wrap(err, "kernel generator"))
			}
		}
		curve = iso.Codomain

		w.log.Debug().
			Str("walker", naiveWalker).
			Int("step", step).
			Int("kernel_size", iso.KernelSize()).
			Int("partition_size", iso.PartitionSize()).
			Int("remaining", remaining).
			Msg("isogeny step")
	}

	*E = *curve
	copy(points, images)
	w.finish(naiveWalker, ev, l, e, step, len(points))
	return nil
}

// EvaluateNaiveCurve is EvaluateNaive without points.
func (w *Walker) EvaluateNaiveCurve(E *curves.Curve, kernelGen *curves.Point, l, e, jump int) error {
	return w.EvaluateNaive(E, nil, kernelGen, l, e, jump)
}

func (w *Walker) finish(walker string, ev Evaluator, l, e, steps, points int) {
	chainWalks.WithLabelValues(walker).Inc()
	w.log.Info().
		Str("walker", walker).
		Str("evaluator", ev.Name()).
		Int("l", l).
		Int("e", e).
		Int("steps", steps).
		Int("points", points).
		Msg("chain walk complete")
}

// checkChainInputs rejects a generator that is not of order l^e on E, and
// any point that is not on E.
func checkChainInputs(E *curves.Curve, points []*curves.Point, kernelGen *curves.Point, l, e int) error {
	if kernelGen.IsInfinity() {
		return errors.Wrap(sidh.ErrIdentity, "kernel generator")
	}
	if !E.IsOnCurve(kernelGen) {
		return errors.Wrap(sidh.ErrNotOnCurve, "kernel generator")
	}
	if !E.HasOrder(kernelGen, l, e) {
		return errors.Wrapf(sidh.ErrKernelOrder, "kernel generator is not of order %d^%d", l, e)
	}
	for i, p := range points {
		if p == nil || !E.IsOnCurve(p) {
			return errors.Wrapf(sidh.ErrNotOnCurve, "point %d", i)
		}
	}
	return nil
}
