package curves

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func p431(t *testing.T) *Params {
	params, err := ParamsByName("p431")
	require.NoError(t, err)
	return params
}

func TestCurveBasics(t *testing.T) {
	params := p431(t)
	f := params.Field
	E := params.Curve

	assert.False(t, E.IsSingular())

	j, err := E.JInvariant()
	require.NoError(t, err)
	// 1728 mod 431 = 4
	assert.True(t, j.Equal(f.NewInt64(4, 0)))

	_, err = New(f, f.Zero(), f.Zero())
	assert.True(t, errors.Is(err, ErrSingular))

	assert.True(t, E.Equal(E.Clone()))
	assert.Equal(t, "y^2 = x^3 + (1, 0)*x + (0, 0)", E.String())
}

func TestGroupLaw(t *testing.T) {
	params := p431(t)
	E := params.Curve

	points, err := FindPoints(E, 2, 3)
	require.NoError(t, err)
	P, Q, R := points[0], points[1], points[2]
	for _, pt := range points {
		require.True(t, E.IsOnCurve(pt))
	}

	t.Run("identity", func(t *testing.T) {
		assert.True(t, E.Add(P, Infinity()).Equal(P))
		assert.True(t, E.Add(Infinity(), P).Equal(P))
		assert.True(t, E.Add(P, E.Neg(P)).IsInfinity())
		assert.True(t, E.IsNegation(P, E.Neg(P)))
		assert.False(t, E.IsNegation(P, P))
	})

	t.Run("commutative and associative", func(t *testing.T) {
		assert.True(t, E.Add(P, Q).Equal(E.Add(Q, P)))
		assert.True(t, E.Add(E.Add(P, Q), R).Equal(E.Add(P, E.Add(Q, R))))
		assert.True(t, E.IsOnCurve(E.Add(P, Q)))
	})

	t.Run("doubling", func(t *testing.T) {
		assert.True(t, E.Double(P).Equal(E.Add(P, P)))
		assert.True(t, E.ScalarMultInt64(P, 5).Equal(E.Add(E.Double(E.Double(P)), P)))
		assert.True(t, E.ScalarMultInt64(P, -3).Equal(E.Neg(E.ScalarMultInt64(P, 3))))
		assert.True(t, E.ScalarMultInt64(P, 0).IsInfinity())
	})

	t.Run("exponent p+1 kills every point", func(t *testing.T) {
		for _, pt := range points {
			assert.True(t, E.ScalarMult(pt, params.Order).IsInfinity())
		}
	})
}

func TestTwoTorsion(t *testing.T) {
	params := p431(t)
	f := params.Field
	E := params.Curve

	// x = i is a root of x^3 + x
	T := PointFromInts(f, [2]int64{0, 1}, [2]int64{0, 0})
	require.True(t, E.IsOnCurve(T))
	assert.True(t, E.IsTwoTorsion(T))
	assert.True(t, E.IsNegation(T, T))
	assert.True(t, E.Double(T).IsInfinity())
	assert.True(t, E.HasOrder(T, 2, 1))
}

func TestFindTorsionPoint(t *testing.T) {
	params := p431(t)
	f := params.Field
	E := params.Curve

	t.Run("2^4", func(t *testing.T) {
		K, next, err := FindTorsionPoint(params, 2, 4, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(9), next)
		assert.True(t, K.Equal(PointFromInts(f, [2]int64{220, 283}, [2]int64{16, 126})))
		assert.True(t, E.HasOrder(K, 2, 4))
		assert.False(t, E.HasOrder(K, 2, 3))
	})

	t.Run("3^3", func(t *testing.T) {
		K, _, err := FindTorsionPoint(params, 3, 3, 0)
		require.NoError(t, err)
		assert.True(t, K.Equal(PointFromInts(f, [2]int64{286, 0}, [2]int64{0, 40})))
		assert.True(t, E.HasOrder(K, 3, 3))
	})

	t.Run("unsupported torsion", func(t *testing.T) {
		_, _, err := FindTorsionPoint(params, 2, 5, 0)
		assert.Error(t, err)
		_, _, err = FindTorsionPoint(params, 5, 1, 0)
		assert.Error(t, err)
	})
}

func TestFindPoints(t *testing.T) {
	params := p431(t)
	f := params.Field

	points, err := FindPoints(params.Curve, 2, 3)
	require.NoError(t, err)
	expected := []*Point{
		PointFromInts(f, [2]int64{0, 2}, [2]int64{36, 395}),
		PointFromInts(f, [2]int64{1, 2}, [2]int64{0, 410}),
		PointFromInts(f, [2]int64{5, 2}, [2]int64{229, 149}),
	}
	for i := range expected {
		assert.True(t, points[i].Equal(expected[i]), "point %d: %v", i, points[i])
	}
}

func TestParams(t *testing.T) {
	assert.Equal(t, []string{"p431", "p62207", "secp256k1"}, Names())

	_, err := ParamsByName("p503")
	assert.True(t, errors.Is(err, ErrUnknownParams))

	t.Run("p431", func(t *testing.T) {
		params := p431(t)
		assert.Equal(t, int64(431), params.Field.Modulus().Int64())
		assert.True(t, params.Supports(2, 4))
		assert.True(t, params.Supports(3, 3))
		assert.False(t, params.Supports(2, 5))
		assert.False(t, params.Supports(1, 1))

		cof, err := params.Cofactor(2, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(27), cof.Int64())
	})

	t.Run("secp256k1", func(t *testing.T) {
		params, err := ParamsByName("secp256k1")
		require.NoError(t, err)
		p, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)
		assert.Equal(t, 0, p.Cmp(params.Field.Modulus()))
		assert.True(t, params.Supports(2, 4))
		assert.False(t, params.Supports(2, 5))
		assert.False(t, params.Supports(3, 1))

		K, _, err := FindTorsionPoint(params, 2, 4, 0)
		require.NoError(t, err)
		assert.True(t, params.Curve.HasOrder(K, 2, 4))
	})

	t.Run("fresh fields", func(t *testing.T) {
		a := p431(t)
		b := p431(t)
		assert.NotSame(t, a.Field, b.Field)
	})
}

func TestPow(t *testing.T) {
	assert.Equal(t, int64(16), Pow(2, 4).Int64())
	assert.Equal(t, int64(1), Pow(3, 0).Int64())
}
