//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-sidh-isogeny/internal/chain"
	"github.com/smallyu/go-sidh-isogeny/internal/isogeny"
	"github.com/smallyu/go-sidh-isogeny/pkg/sidh"
)

func main() {
	c := make(chan struct{}, 0)

	fmt.Println("Go SIDH isogeny WASM Initialized")

	// Expose Go functions to JS
	js.Global().Set("GoIsogeny", map[string]interface{}{
		"Walk":     js.FuncOf(Walk),
		"Kernel":   js.FuncOf(Kernel),
		"Strategy": js.FuncOf(Strategy),
	})

	<-c
}

// Walk runs one chain walk.
// Arguments:
// 0: JSON string of parameters, using the keys of the TOML configuration.
// Missing keys keep their default value.
// Returns:
// JSON string of the result or an "error: ..." string
func Walk(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (jsonParams)"
	}

	cfg, err := parseParams(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: invalid json: %v", err)
	}

	result, err := chain.Run(cfg, nil)
	if err != nil {
		return fmt.Sprintf("error: walk failed: %v", err)
	}

	respBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("error: failed to encode result: %v", err)
	}
	return string(respBytes)
}

// Strategy returns the split strategy for a chain.
// Arguments:
// 0: chain length e (number)
// 1: ratio (number)
// Returns:
// JSON array of split sizes or an "error: ..." string
func Strategy(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (e, ratio)"
	}

	s, err := isogeny.NewStrategy(args[0].Int(), args[1].Float())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	respBytes, _ := json.Marshal([]int(s))
	return string(respBytes)
}

// Kernel builds one isogeny and returns its kernel polynomial.
// Arguments:
// 0: JSON string of parameters, as for Walk
// 1: order (number), the kernel has l^order points
// Returns:
// JSON string of the result or an "error: ..." string
func Kernel(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (jsonParams, order)"
	}

	cfg, err := parseParams(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: invalid json: %v", err)
	}

	result, err := chain.Kernel(cfg, args[1].Int())
	if err != nil {
		return fmt.Sprintf("error: kernel failed: %v", err)
	}

	respBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("error: failed to encode result: %v", err)
	}
	return string(respBytes)
}

// parseParams overrides the default parameters with the keys present in
// input.
func parseParams(input string) (sidh.Parameters, error) {
	type ParamsInput struct {
		Params    *string  `json:"params"`
		L         *int     `json:"l"`
		E         *int     `json:"e"`
		Jump      *int     `json:"jump"`
		Ratio     *float64 `json:"ratio"`
		MulCost   *float64 `json:"mul_cost"`
		IsoCost   *float64 `json:"iso_cost"`
		Mode      *string  `json:"mode"`
		Evaluator *string  `json:"evaluator"`
		Points    *int     `json:"points"`
	}

	var in ParamsInput
	cfg := sidh.DefaultParameters()
	if err := json.Unmarshal([]byte(input), &in); err != nil {
		return cfg, err
	}
	if in.Params != nil {
		cfg.Params = *in.Params
	}
	if in.L != nil {
		cfg.L = *in.L
	}
	if in.E != nil {
		cfg.E = *in.E
	}
	if in.Jump != nil {
		cfg.Jump = *in.Jump
	}
	if in.Ratio != nil {
		cfg.Ratio = *in.Ratio
	}
	if in.MulCost != nil {
		cfg.MulCost = *in.MulCost
	}
	if in.IsoCost != nil {
		cfg.IsoCost = *in.IsoCost
	}
	if in.Mode != nil {
		cfg.Mode = sidh.Mode(*in.Mode)
	}
	if in.Evaluator != nil {
		cfg.Evaluator = *in.Evaluator
	}
	if in.Points != nil {
		cfg.Points = *in.Points
	}

	// the wasm runtime is single threaded
	cfg.Workers = 1
	return cfg, nil
}
