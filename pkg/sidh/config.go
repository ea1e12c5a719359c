package sidh

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// LoadConfig reads chain parameters from a TOML file. Keys missing from the
// file keep their DefaultParameters value. Unknown keys are rejected.
func LoadConfig(path string) (Parameters, error) {
	params := DefaultParameters()
	md, err := toml.DecodeFile(path, &params)
	if err != nil {
		return Parameters{}, errors.Wrapf(err, "unable to decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Parameters{}, errors.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	if err := params.Validate(); err != nil {
		return Parameters{}, errors.Wrapf(err, "invalid configuration in %s", path)
	}
	return params, nil
}
