// Package chain runs a configured l^e walk from the starting curve of a
// parameter set. It is shared by the command line and the wasm bridge.
package chain

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/curves"
	"github.com/smallyu/go-sidh-isogeny/internal/isogeny"
	"github.com/smallyu/go-sidh-isogeny/pkg/sidh"
)

// Result is the outcome of one walk, printable as JSON.
type Result struct {
	Params     string   `json:"params"`
	Mode       string   `json:"mode"`
	Evaluator  string   `json:"evaluator"`
	Strategy   []int    `json:"strategy,omitempty"`
	Kernel     string   `json:"kernel"`
	Codomain   string   `json:"codomain"`
	JInvariant string   `json:"jInvariant"`
	Images     []string `json:"images"`
	FieldMuls  uint64   `json:"fieldMultiplications"`
	FieldInvs  uint64   `json:"fieldInversions"`

	// Curve and Points carry the values behind the strings above.
	Curve  *curves.Curve   `json:"-"`
	Points []*curves.Point `json:"-"`
}

// Run validates cfg, picks the kernel generator and sample points with the
// deterministic search and walks the chain in the configured mode.
func Run(cfg sidh.Parameters, log *zerolog.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := curves.ParamsByName(cfg.Params)
	if err != nil {
		return nil, err
	}
	if !params.Supports(cfg.L, cfg.E) {
		return nil, errors.Wrapf(sidh.ErrInvalidParameter, "%s has no rational %d^%d-torsion", params.Name, cfg.L, cfg.E)
	}
	K, _, err := curves.FindTorsionPoint(params, cfg.L, cfg.E, 0)
	if err != nil {
		return nil, err
	}
	points, err := curves.FindPoints(params.Curve, 2, cfg.Points)
	if err != nil {
		return nil, err
	}
	opts := []isogeny.Option{
		isogeny.WithLogger(log),
		isogeny.WithWorkers(cfg.Workers),
	}
	if cfg.Evaluator != sidh.EvaluatorAuto {
		ev, err := isogeny.EvaluatorByName(cfg.Evaluator)
		if err != nil {
			return nil, err
		}
		opts = append(opts, isogeny.WithEvaluator(ev))
	}
	w := isogeny.NewWalker(opts...)

	result := &Result{
		Params:    params.Name,
		Mode:      string(cfg.Mode),
		Evaluator: w.EvaluatorFor(len(points)).Name(),
		Kernel:    K.String(),
	}

	E := params.Curve.Clone()
	before := params.Field.Counters().Snapshot()
	switch cfg.Mode {
	case sidh.ModeNaive:
		err = w.EvaluateNaive(E, points, K, cfg.L, cfg.E, cfg.Jump)
	case sidh.ModeStrategy:
		var s isogeny.Strategy
		if s, err = isogeny.NewStrategy(cfg.E, cfg.Ratio); err == nil {
			result.Strategy = s
			err = w.EvaluateStrategy(E, points, K, cfg.L, cfg.E, cfg.Ratio)
		}
	case sidh.ModeOptimal:
		var s isogeny.Strategy
		if s, err = isogeny.OptimalStrategy(cfg.E, cfg.MulCost, cfg.IsoCost); err == nil {
			result.Strategy = s
			err = w.EvaluateWithStrategy(E, points, K, cfg.L, s)
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s walk failed", cfg.Mode)
	}
	ops := params.Field.Counters().Snapshot().Sub(before)

	j, err := E.JInvariant()
	if err != nil {
		return nil, err
	}
	result.Codomain = E.String()
	result.JInvariant = j.String()
	result.FieldMuls = ops.Multiplicative()
	result.FieldInvs = ops.Inv
	result.Curve = E
	result.Points = points
	result.Images = make([]string, len(points))
	for i, p := range points {
		result.Images[i] = p.String()
	}
	return result, nil
}

// KernelResult describes one isogeny of degree l^order built on the starting
// curve of a parameter set.
type KernelResult struct {
	Params    string `json:"params"`
	Degree    int    `json:"degree"`
	Generator string `json:"generator"`
	Evaluator string `json:"evaluator"`
	Codomain  string `json:"codomain"`
	// Coefficients of the kernel polynomial, lowest degree first.
	KernelPolynomial []string `json:"kernelPolynomial"`
	JInvariant       string   `json:"jInvariant"`
	Images           []string `json:"images"`
}

// Kernel builds the single isogeny whose kernel is generated by
// [l^(e-order)]K, where K is the l^e generator Run would use, and pushes the
// sample points through it.
func Kernel(cfg sidh.Parameters, order int) (*KernelResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if order < 1 || order > cfg.E {
		return nil, errors.Wrapf(sidh.ErrInvalidParameter, "order %d outside [1, %d]", order, cfg.E)
	}
	params, err := curves.ParamsByName(cfg.Params)
	if err != nil {
		return nil, err
	}
	if !params.Supports(cfg.L, cfg.E) {
		return nil, errors.Wrapf(sidh.ErrInvalidParameter, "%s has no rational %d^%d-torsion", params.Name, cfg.L, cfg.E)
	}
	K, _, err := curves.FindTorsionPoint(params, cfg.L, cfg.E, 0)
	if err != nil {
		return nil, err
	}
	points, err := curves.FindPoints(params.Curve, 2, cfg.Points)
	if err != nil {
		return nil, err
	}
	ev := isogeny.Preferred(len(points))
	if cfg.Evaluator != sidh.EvaluatorAuto {
		if ev, err = isogeny.EvaluatorByName(cfg.Evaluator); err != nil {
			return nil, err
		}
	}

	E := params.Curve
	degree := curves.Pow(cfg.L, order)
	gen := E.ScalarMult(K, curves.Pow(cfg.L, cfg.E-order))

	iso, err := isogeny.New(int(degree.Int64()) - 1)
	if err != nil {
		return nil, err
	}
	defer iso.Release()
	if err := iso.Compute(E, gen); err != nil {
		return nil, err
	}
	psi, err := iso.KernelPolynomial()
	if err != nil {
		return nil, err
	}
	if err := isogeny.EvaluatePoints(iso, ev, points, cfg.Workers); err != nil {
		return nil, err
	}
	j, err := iso.Codomain.JInvariant()
	if err != nil {
		return nil, err
	}

	result := &KernelResult{
		Params:           params.Name,
		Degree:           iso.Degree(),
		Generator:        gen.String(),
		Evaluator:        ev.Name(),
		Codomain:         iso.Codomain.String(),
		KernelPolynomial: make([]string, len(psi.Coefficients)),
		JInvariant:       j.String(),
		Images:           make([]string, len(points)),
	}
	for i, c := range psi.Coefficients {
		result.KernelPolynomial[i] = c.String()
	}
	for i, p := range points {
		result.Images[i] = p.String()
	}
	return result, nil
}
