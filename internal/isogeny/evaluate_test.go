package isogeny

import (
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/curves"
	"github.com/smallyu/go-sidh-isogeny/pkg/sidh"
)

func TestEvaluateReference(t *testing.T) {
	fx := newFixture(t, "p431")
	tp := fx.samples(t, 1)[0]
	require.True(t, tp.Equal(fx.point(0, 2, 36, 395)))

	cases := []struct {
		name       string
		gen        *curves.Point
		kernelSize int
		image      *curves.Point
	}{
		{"order 3", fx.generator(t, 3, 3, 1), 2, fx.point(397, 229, 428, 133)},
		{"order 2", fx.generator(t, 2, 4, 1), 1, fx.point(0, 4, 395, 36)},
		{"order 4", fx.generator(t, 2, 4, 2), 3, fx.point(0, 385, 37, 394)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			iso := fx.build(t, tc.gen, tc.kernelSize)
			for _, ev := range []Evaluator{Velu, Kohel} {
				img, err := ev.Evaluate(iso, tp)
				require.NoError(t, err)
				assert.True(t, img.Equal(tc.image), "%s: %v", ev.Name(), img)
			}
		})
	}
}

func TestEvaluatorsAgree(t *testing.T) {
	for _, name := range []string{"p431", "p62207"} {
		fx := newFixture(t, name)
		points, err := curves.FindPoints(fx.E, 3, 8)
		require.NoError(t, err)

		for _, tor := range fx.params.Torsion {
			for order := 1; order <= tor.E && order <= 3; order++ {
				gen := fx.generator(t, tor.L, tor.E, order)
				kernelSize := int(curves.Pow(tor.L, order).Int64()) - 1
				iso := fx.build(t, gen, kernelSize)

				for _, p := range points {
					v, err := EvaluateVelu(iso, p)
					require.NoError(t, err)
					k, err := EvaluateKohel(iso, p)
					require.NoError(t, err)

					assert.True(t, v.Equal(k), "%s %d^%d: velu %v, kohel %v", name, tor.L, order, v, k)
					assert.True(t, iso.Codomain.IsOnCurve(k), "%s %d^%d: image off the codomain", name, tor.L, order)
				}
			}
		}
	}
}

func TestEvaluateHomomorphism(t *testing.T) {
	fx := newFixture(t, "p431")
	points := fx.samples(t, 3)
	P, Q := points[0], points[1]
	iso := fx.build(t, fx.torsion(t, 3, 3), 26)
	cod := iso.Codomain

	phi := func(p *curves.Point) *curves.Point {
		img, err := EvaluateKohel(iso, p)
		require.NoError(t, err)
		return img
	}

	assert.True(t, phi(fx.E.Add(P, Q)).Equal(cod.Add(phi(P), phi(Q))))
	assert.True(t, phi(fx.E.Double(P)).Equal(cod.Double(phi(P))))
	assert.True(t, phi(fx.E.Neg(Q)).Equal(cod.Neg(phi(Q))))
}

func TestKohelReadsStoredCoefficients(t *testing.T) {
	fx := newFixture(t, "p431")
	tp := fx.samples(t, 1)[0]
	image := fx.point(397, 229, 428, 133)

	for _, tc := range []struct {
		name    string
		corrupt func(iso *Isogeny)
	}{
		{"gx", func(iso *Isogeny) { iso.GX[0] = fx.f.Add(iso.GX[0], fx.f.One()) }},
		{"gy", func(iso *Isogeny) { iso.GY[0] = fx.f.Add(iso.GY[0], fx.f.One()) }},
		{"u", func(iso *Isogeny) { iso.U[0] = fx.f.Add(iso.U[0], fx.f.One()) }},
		{"v", func(iso *Isogeny) { iso.V[0] = fx.f.Add(iso.V[0], fx.f.One()) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			iso := fx.build(t, fx.generator(t, 3, 3, 1), 2)
			tc.corrupt(iso)

			img, err := EvaluateKohel(iso, tp)
			require.NoError(t, err)
			assert.False(t, img.Equal(image))

			img, err = EvaluateVelu(iso, tp)
			require.NoError(t, err)
			assert.True(t, img.Equal(image))
		})
	}
}

func TestEvaluateKernelPoints(t *testing.T) {
	fx := newFixture(t, "p431")
	K := fx.torsion(t, 2, 4)
	iso := fx.build(t, K, 15)

	R := K
	for i := 1; i < 16; i++ {
		for _, ev := range []Evaluator{Velu, Kohel} {
			img, err := ev.Evaluate(iso, R)
			require.NoError(t, err)
			assert.True(t, img.IsInfinity(), "%s: %d*K", ev.Name(), i)
		}
		R = fx.E.Add(R, K)
	}
}

func TestEvaluateErrors(t *testing.T) {
	fx := newFixture(t, "p431")
	tp := fx.samples(t, 1)[0]
	G3 := fx.generator(t, 3, 3, 1)

	fresh, err := New(2)
	require.NoError(t, err)
	iso := fx.build(t, G3, 2)

	for _, ev := range []Evaluator{Velu, Kohel} {
		_, err := ev.Evaluate(fresh, tp)
		assert.True(t, errors.Is(err, sidh.ErrNotComputed), ev.Name())

		_, err = ev.Evaluate(iso, curves.Infinity())
		assert.True(t, errors.Is(err, sidh.ErrIdentity), ev.Name())

		_, err = ev.Evaluate(iso, fx.point(1, 0, 1, 0))
		assert.True(t, errors.Is(err, sidh.ErrNotOnCurve), ev.Name())
	}
}

func TestEvaluatorSelection(t *testing.T) {
	assert.Equal(t, Velu, Preferred(0))
	assert.Equal(t, Velu, Preferred(1))
	assert.Equal(t, Kohel, Preferred(2))

	ev, err := EvaluatorByName("velu")
	require.NoError(t, err)
	assert.Equal(t, Velu, ev)
	ev, err = EvaluatorByName("kohel")
	require.NoError(t, err)
	assert.Equal(t, Kohel, ev)

	_, err = EvaluatorByName("lagrange")
	assert.True(t, errors.Is(err, sidh.ErrInvalidParameter))
}

func TestEvaluatePoints(t *testing.T) {
	fx := newFixture(t, "p62207")
	iso := fx.build(t, fx.generator(t, 3, 5, 3), 26)
	base, err := curves.FindPoints(fx.E, 5, 16)
	require.NoError(t, err)

	expected := make([]*curves.Point, len(base))
	for i, p := range base {
		expected[i], err = EvaluateVelu(iso, p)
		require.NoError(t, err)
	}

	for _, workers := range []int{1, 4} {
		points := append([]*curves.Point(nil), base...)
		require.NoError(t, EvaluatePoints(iso, Kohel, points, workers))
		for i := range points {
			assert.True(t, points[i].Equal(expected[i]), "workers %d, point %d", workers, i)
		}
	}

	t.Run("identity stays", func(t *testing.T) {
		points := []*curves.Point{curves.Infinity(), base[0]}
		require.NoError(t, EvaluatePoints(iso, Kohel, points, 2))
		assert.True(t, points[0].IsInfinity())
		assert.True(t, points[1].Equal(expected[0]))
	})

	t.Run("error leaves points untouched", func(t *testing.T) {
		bad := curves.PointFromInts(fx.f, [2]int64{1, 0}, [2]int64{1, 0})
		for _, workers := range []int{1, 3} {
			points := []*curves.Point{base[0], bad, base[1]}
			err := EvaluatePoints(iso, Velu, points, workers)
			assert.True(t, errors.Is(err, sidh.ErrNotOnCurve))
			assert.True(t, points[0].Equal(base[0]))
			assert.True(t, points[2].Equal(base[1]))
		}
	})

	t.Run("not computed", func(t *testing.T) {
		fresh, err := New(2)
		require.NoError(t, err)
		assert.True(t, errors.Is(EvaluatePoints(fresh, Kohel, nil, 1), sidh.ErrNotComputed))
	})
}

func TestEvaluatePointsSharedPool(t *testing.T) {
	fx := newFixture(t, "p62207")
	base, err := curves.FindPoints(fx.E, 5, 8)
	require.NoError(t, err)

	pool, err := ants.NewPool(3)
	require.NoError(t, err)
	defer pool.Release()

	// two consecutive steps of a 3^2 chain on the same pool
	K := fx.generator(t, 3, 5, 2)
	first := fx.build(t, fx.E.ScalarMultInt64(K, 3), 2)
	kImg, err := EvaluateKohel(first, K)
	require.NoError(t, err)
	second, err := New(2)
	require.NoError(t, err)
	require.NoError(t, second.Compute(first.Codomain, kImg))

	points := append([]*curves.Point(nil), base...)
	require.NoError(t, evaluatePoints(first, Kohel, points, pool))
	require.NoError(t, evaluatePoints(second, Kohel, points, pool))

	for i, p := range base {
		want, err := EvaluateVelu(first, p)
		require.NoError(t, err)
		if !want.IsInfinity() {
			want, err = EvaluateVelu(second, want)
			require.NoError(t, err)
		}
		assert.True(t, points[i].Equal(want), "point %d", i)
	}

	// the batches leave the pool to its owner
	done := make(chan struct{})
	require.NoError(t, pool.Submit(func() { close(done) }))
	<-done
}
