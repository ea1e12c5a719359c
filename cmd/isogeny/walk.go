package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/smallyu/go-sidh-isogeny/internal/chain"
	"github.com/smallyu/go-sidh-isogeny/pkg/sidh"
)

func walkCommand() *cli.Command {
	return &cli.Command{
		Name:  "walk",
		Usage: "Walk an l^e isogeny chain from the starting curve of a parameter set",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "TOML file with the walk parameters; flags override it"},
			&cli.StringFlag{Name: "params", Usage: "Parameter set (see the params command)"},
			&cli.IntFlag{Name: "l", Usage: "Prime degree of every step"},
			&cli.IntFlag{Name: "e", Usage: "Chain length"},
			&cli.StringFlag{Name: "mode", Usage: "naive, strategy or optimal"},
			&cli.IntFlag{Name: "jump", Usage: "l-steps per materialised isogeny in naive mode"},
			&cli.Float64Flag{Name: "ratio", Usage: "Split ratio in strategy mode"},
			&cli.Float64Flag{Name: "mul-cost", Usage: "Relative cost of one multiplication by l in optimal mode"},
			&cli.Float64Flag{Name: "iso-cost", Usage: "Relative cost of one l-isogeny evaluation in optimal mode"},
			&cli.StringFlag{Name: "evaluator", Usage: "velu or kohel"},
			&cli.IntFlag{Name: "points", Usage: "Number of sample points pushed through the chain"},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent point evaluations per isogeny"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
		},
		Action: runWalk,
	}
}

func loadParameters(c *cli.Context) (sidh.Parameters, error) {
	params := sidh.DefaultParameters()
	if path := c.String("config"); path != "" {
		var err error
		if params, err = sidh.LoadConfig(path); err != nil {
			return sidh.Parameters{}, err
		}
	}
	overrideParameters(c, &params)
	if err := params.Validate(); err != nil {
		return sidh.Parameters{}, err
	}
	return params, nil
}

func runWalk(c *cli.Context) error {
	log, err := newLogger(c)
	if err != nil {
		return err
	}
	cfg, err := loadParameters(c)
	if err != nil {
		return err
	}

	result, err := chain.Run(cfg, log)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Printf("kernel: %s\n", result.Kernel)
	if len(result.Strategy) > 0 {
		fmt.Printf("strategy: %v\n", result.Strategy)
	}
	fmt.Printf("codomain: %s\n", result.Codomain)
	fmt.Printf("j-invariant: %s\n", result.JInvariant)
	for i, img := range result.Images {
		fmt.Printf("image %d: %s\n", i, img)
	}
	fmt.Printf("field multiplications: %d, inversions: %d\n", result.FieldMuls, result.FieldInvs)
	return nil
}

func kernelCommand() *cli.Command {
	return &cli.Command{
		Name:  "kernel",
		Usage: "Build a single isogeny of degree l^order and print its kernel polynomial",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "TOML file with the walk parameters; flags override it"},
			&cli.StringFlag{Name: "params", Usage: "Parameter set (see the params command)"},
			&cli.IntFlag{Name: "l", Usage: "Prime degree"},
			&cli.IntFlag{Name: "e", Usage: "Exponent of the torsion the generator is taken from"},
			&cli.IntFlag{Name: "order", Value: 1, Usage: "The kernel has l^order points"},
			&cli.StringFlag{Name: "evaluator", Usage: "velu, kohel or auto"},
			&cli.IntFlag{Name: "points", Usage: "Number of sample points pushed through the isogeny"},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent point evaluations"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
		},
		Action: runKernel,
	}
}

func runKernel(c *cli.Context) error {
	cfg, err := loadParameters(c)
	if err != nil {
		return err
	}
	result, err := chain.Kernel(cfg, c.Int("order"))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Printf("degree: %d\n", result.Degree)
	fmt.Printf("generator: %s\n", result.Generator)
	fmt.Printf("codomain: %s\n", result.Codomain)
	fmt.Printf("j-invariant: %s\n", result.JInvariant)
	fmt.Printf("kernel polynomial (lowest degree first): %v\n", result.KernelPolynomial)
	for i, img := range result.Images {
		fmt.Printf("image %d (%s): %s\n", i, result.Evaluator, img)
	}
	return nil
}
