package curves

import (
	"math/big"
	"sort"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/fp2"
)

// ErrUnknownParams is returned by ParamsByName for an unregistered name.
var ErrUnknownParams = errors.New("curves: unknown parameter set")

// Torsion names a rational l^e-torsion subgroup available for isogeny chains.
type Torsion struct {
	L int
	E int
}

// Params is a supersingular starting curve y^2 = x^3 + x over F_{p^2}, p ≡ 3 mod 4.
// Its rational points form (Z/(p+1))^2, so every l^e dividing p+1 gives full
// l^e-torsion over F_{p^2}.
type Params struct {
	Name    string
	Field   *fp2.Field
	Curve   *Curve
	Order   *big.Int // p + 1, the exponent of the rational point group
	Torsion []Torsion
}

// Supports reports whether chains of l-isogenies of length e fit in the
// rational torsion of the starting curve.
func (p *Params) Supports(l, e int) bool {
	if l < 2 || e < 1 {
		return false
	}
	return new(big.Int).Mod(p.Order, Pow(l, e)).Sign() == 0
}

// Cofactor returns (p + 1) / l^e.
func (p *Params) Cofactor(l, e int) (*big.Int, error) {
	if !p.Supports(l, e) {
		return nil, errors.Errorf("curves: %s has no rational %d^%d-torsion", p.Name, l, e)
	}
	return new(big.Int).Quo(p.Order, Pow(l, e)), nil
}

type paramsBuilder func() *Params

var registry = map[string]paramsBuilder{
	"p431":      func() *Params { return sidhPrimeParams("p431", 4, 3) },
	"p62207":    func() *Params { return sidhPrimeParams("p62207", 8, 5) },
	"secp256k1": secp256k1Params,
}

// ParamsByName returns a freshly constructed parameter set. Every call gets its
// own field, so operation counters are not shared between callers.
func ParamsByName(name string) (*Params, error) {
	b, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownParams, "%q", name)
	}
	return b(), nil
}

// Names lists the registered parameter sets in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sidhPrimeParams builds p = 2^ea * 3^eb - 1 (toy sizes, used for tests and demos).
func sidhPrimeParams(name string, ea, eb int) *Params {
	order := new(big.Int).Mul(Pow(2, ea), Pow(3, eb))
	p := new(big.Int).Sub(order, big.NewInt(1))
	return newParams(name, p, []Torsion{{L: 2, E: ea}, {L: 3, E: eb}})
}

// secp256k1Params uses the secp256k1 base-field prime. It is 3 mod 4 and
// p + 1 = 16 * odd, so only 2-power chains up to length 4 are available.
func secp256k1Params() *Params {
	p := secp256k1.S256().Params().P
	return newParams("secp256k1", p, []Torsion{{L: 2, E: 4}})
}

func newParams(name string, p *big.Int, torsion []Torsion) *Params {
	f := fp2.MustNewField(p)
	c, err := New(f, f.One(), f.Zero())
	if err != nil {
		panic(err)
	}
	return &Params{
		Name:    name,
		Field:   f,
		Curve:   c,
		Order:   new(big.Int).Add(p, big.NewInt(1)),
		Torsion: torsion,
	}
}
