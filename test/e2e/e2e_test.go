package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/curves"
	"github.com/smallyu/go-sidh-isogeny/internal/isogeny"
	"github.com/smallyu/go-sidh-isogeny/pkg/sidh"
)

func TestOrderThreeKernel(t *testing.T) {
	params, err := curves.ParamsByName("p431")
	if err != nil {
		t.Fatalf("Failed to load parameters: %v", err)
	}
	f := params.Field
	E := params.Curve

	// 1. Kernel generator of order 3
	K27, _, err := curves.FindTorsionPoint(params, 3, 3, 0)
	if err != nil {
		t.Fatalf("Failed to find 3^3-torsion point: %v", err)
	}
	K := E.ScalarMultInt64(K27, 9)

	// 2. Build the 3-isogeny
	iso, err := isogeny.New(2)
	if err != nil {
		t.Fatalf("Failed to allocate isogeny: %v", err)
	}
	defer iso.Release()

	if err := iso.Compute(E, K); err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	expectedA := f.NewInt64(163, 0)
	expectedB := f.NewInt64(172, 0)
	if !iso.Codomain.A.Equal(expectedA) || !iso.Codomain.B.Equal(expectedB) {
		t.Errorf("Unexpected codomain %v", iso.Codomain)
	}

	// 3. Evaluate a known point with both algorithms
	points, err := curves.FindPoints(E, 2, 1)
	if err != nil {
		t.Fatalf("Failed to find test point: %v", err)
	}
	expected := curves.PointFromInts(f, [2]int64{397, 229}, [2]int64{428, 133})
	for _, ev := range []isogeny.Evaluator{isogeny.Velu, isogeny.Kohel} {
		img, err := ev.Evaluate(iso, points[0])
		if err != nil {
			t.Fatalf("%s evaluation failed: %v", ev.Name(), err)
		}
		if !img.Equal(expected) {
			t.Errorf("%s image = %v, want %v", ev.Name(), img, expected)
		}
	}
}

func TestChainFromConfig(t *testing.T) {
	// 1. Load the walk configuration
	path := filepath.Join(t.TempDir(), "walk.toml")
	content := "params = \"p431\"\nl = 2\ne = 4\nratio = 0.5\njump = 1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	cfg, err := sidh.LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	params, err := curves.ParamsByName(cfg.Params)
	if err != nil {
		t.Fatalf("Failed to load parameters: %v", err)
	}
	K, _, err := curves.FindTorsionPoint(params, cfg.L, cfg.E, 0)
	if err != nil {
		t.Fatalf("Failed to find kernel generator: %v", err)
	}
	points, err := curves.FindPoints(params.Curve, 2, cfg.Points)
	if err != nil {
		t.Fatalf("Failed to find test points: %v", err)
	}

	// 2. Walk the chain naively and along the split strategy
	w := isogeny.NewWalker()

	naiveCurve := params.Curve.Clone()
	naivePoints := append([]*curves.Point(nil), points...)
	if err := w.EvaluateNaive(naiveCurve, naivePoints, K, cfg.L, cfg.E, cfg.Jump); err != nil {
		t.Fatalf("Naive walk failed: %v", err)
	}

	strategyCurve := params.Curve.Clone()
	strategyPoints := append([]*curves.Point(nil), points...)
	if err := w.EvaluateStrategy(strategyCurve, strategyPoints, K, cfg.L, cfg.E, cfg.Ratio); err != nil {
		t.Fatalf("Strategy walk failed: %v", err)
	}

	// 3. Both walks compute the same isogeny
	if !naiveCurve.Equal(strategyCurve) {
		t.Fatalf("Codomains differ: %v vs %v", naiveCurve, strategyCurve)
	}
	for i := range points {
		if !naivePoints[i].Equal(strategyPoints[i]) {
			t.Errorf("Image %d differs: %v vs %v", i, naivePoints[i], strategyPoints[i])
		}
		if !naiveCurve.IsOnCurve(naivePoints[i]) {
			t.Errorf("Image %d is not on the codomain", i)
		}
	}

	j, err := naiveCurve.JInvariant()
	if err != nil {
		t.Fatalf("JInvariant failed: %v", err)
	}
	if !j.Equal(params.Field.NewInt64(65, 350)) {
		t.Errorf("Unexpected codomain j-invariant %v", j)
	}
}
