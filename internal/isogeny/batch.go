package isogeny

import (
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/curves"
)

// EvaluatePoints replaces every entry of points by its image under iso.
// Identity entries stay the identity. With workers > 1 the points are
// evaluated concurrently; the descriptor is only read. On error points is
// left untouched.
func EvaluatePoints(iso *Isogeny, ev Evaluator, points []*curves.Point, workers int) error {
	if workers <= 1 || len(points) <= 1 {
		return evaluatePoints(iso, ev, points, nil)
	}
	pool, err := newPool(workers)
	if err != nil {
		return err
	}
	defer pool.Release()
	return evaluatePoints(iso, ev, points, pool)
}

func newPool(workers int) (*ants.Pool, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(err, "unable to start evaluation pool")
	}
	return pool, nil
}

// evaluatePoints runs the evaluations on pool, or inline when pool is nil.
// The pool stays owned by the caller.
func evaluatePoints(iso *Isogeny, ev Evaluator, points []*curves.Point, pool *ants.Pool) error {
	if len(points) == 0 {
		return iso.ready()
	}
	images := make([]*curves.Point, len(points))

	if pool == nil || len(points) == 1 {
		for i, p := range points {
			img, err := evaluateOne(iso, ev, p)
			if err != nil {
				return errors.Wrapf(err, "point %d", i)
			}
			images[i] = img
		}
		copy(points, images)
		return nil
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for i := range points {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			img, err := evaluateOne(iso, ev, points[i])
			if err != nil {
				errOnce.Do(func() { firstErr = errors.Wrapf(err, "point %d", i) })
				return
			}
			images[i] = img
		}); err != nil {
			wg.Done()
			errOnce.Do(func() { firstErr = errors.Wrap(err, "unable to submit evaluation") })
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	copy(points, images)
	return nil
}

func evaluateOne(iso *Isogeny, ev Evaluator, p *curves.Point) (*curves.Point, error) {
	if p.IsInfinity() {
		return p, iso.ready()
	}
	return ev.Evaluate(iso, p)
}
