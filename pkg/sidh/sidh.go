package sidh

import (
	"github.com/pkg/errors"
)

// Errors returned by the isogeny engine. Precondition errors are reported
// before any caller-owned buffer is modified.
var (
	ErrKernelOrder      = errors.New("kernel generator does not have the expected order")
	ErrKernelSize       = errors.New("invalid kernel size")
	ErrNotOnCurve       = errors.New("point is not on the curve")
	ErrIdentity         = errors.New("point is the identity")
	ErrRatio            = errors.New("ratio must lie strictly between 0 and 1")
	ErrInvalidParameter = errors.New("invalid chain parameter")
	ErrStrategy         = errors.New("malformed isogeny strategy")
	ErrNotComputed      = errors.New("isogeny has not been computed")
	ErrReleased         = errors.New("isogeny has been released")
)

// Mode selects how an l^e chain is walked.
type Mode string

const (
	ModeNaive    Mode = "naive"
	ModeStrategy Mode = "strategy"
	ModeOptimal  Mode = "optimal"
)

// EvaluatorAuto lets the walker pick the evaluator from the number of points
// pushed through every isogeny.
const EvaluatorAuto = "auto"

// Parameters holds the configuration for one chain evaluation.
type Parameters struct {
	Params    string  `toml:"params"`    // Named parameter set, e.g. "p431"
	L         int     `toml:"l"`         // Prime degree of every step
	E         int     `toml:"e"`         // Chain length
	Jump      int     `toml:"jump"`      // l-steps per isogeny in naive mode
	Ratio     float64 `toml:"ratio"`     // Split ratio in strategy mode
	MulCost   float64 `toml:"mul_cost"`  // Relative cost of one multiplication by l (optimal mode)
	IsoCost   float64 `toml:"iso_cost"`  // Relative cost of one l-isogeny evaluation (optimal mode)
	Mode      Mode    `toml:"mode"`      // naive, strategy or optimal
	Evaluator string  `toml:"evaluator"` // velu, kohel or auto
	Points    int     `toml:"points"`    // Number of sample points pushed through the chain
	Workers   int     `toml:"workers"`   // Concurrent point evaluations per isogeny
}

// DefaultParameters returns a 2^4 chain on the toy p431 curve.
func DefaultParameters() Parameters {
	return Parameters{
		Params:    "p431",
		L:         2,
		E:         4,
		Jump:      1,
		Ratio:     0.5,
		MulCost:   1,
		IsoCost:   1,
		Mode:      ModeStrategy,
		Evaluator: EvaluatorAuto,
		Points:    3,
		Workers:   1,
	}
}

// ValidateRatio checks that 0 < ratio < 1.
func ValidateRatio(ratio float64) error {
	if !(ratio > 0 && ratio < 1) {
		return errors.Wrapf(ErrRatio, "got %v", ratio)
	}
	return nil
}

// ValidateChain checks the shape of an l^e chain.
func ValidateChain(l, e int) error {
	if l < 2 {
		return errors.Wrapf(ErrInvalidParameter, "l = %d", l)
	}
	if e < 1 {
		return errors.Wrapf(ErrInvalidParameter, "e = %d", e)
	}
	return nil
}

// Validate checks the parameters for the selected mode.
func (p *Parameters) Validate() error {
	if err := ValidateChain(p.L, p.E); err != nil {
		return err
	}
	if p.Points < 0 {
		return errors.Wrapf(ErrInvalidParameter, "points = %d", p.Points)
	}
	if p.Workers < 1 {
		return errors.Wrapf(ErrInvalidParameter, "workers = %d", p.Workers)
	}
	switch p.Evaluator {
	case "velu", "kohel", EvaluatorAuto:
	default:
		return errors.Wrapf(ErrInvalidParameter, "evaluator %q", p.Evaluator)
	}

	switch p.Mode {
	case ModeNaive:
		if p.Jump < 1 {
			return errors.Wrapf(ErrInvalidParameter, "jump = %d", p.Jump)
		}
	case ModeStrategy:
		return ValidateRatio(p.Ratio)
	case ModeOptimal:
		if p.MulCost <= 0 || p.IsoCost <= 0 {
			return errors.Wrapf(ErrInvalidParameter, "costs must be positive, got %v and %v", p.MulCost, p.IsoCost)
		}
	default:
		return errors.Wrapf(ErrInvalidParameter, "mode %q", p.Mode)
	}
	return nil
}
