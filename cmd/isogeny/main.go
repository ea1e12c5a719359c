package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/smallyu/go-sidh-isogeny/internal/crypto/curves"
	"github.com/smallyu/go-sidh-isogeny/internal/isogeny"
	"github.com/smallyu/go-sidh-isogeny/pkg/sidh"
)

var Version = "DEV"

func main() {
	app := &cli.App{
		Name:    "isogeny",
		Usage:   "Compute and evaluate isogeny chains between supersingular curves",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "loglevel",
				Value:   "info",
				Usage:   "Application logging level {debug, info, warn, error}",
				EnvVars: []string{"ISOGENY_LOGLEVEL"},
			},
		},
		Commands: []*cli.Command{
			walkCommand(),
			kernelCommand(),
			strategyCommand(),
			paramsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) (*zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.String("loglevel"))
	if err != nil {
		return nil, err
	}
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()
	return &log, nil
}

func paramsCommand() *cli.Command {
	return &cli.Command{
		Name:  "params",
		Usage: "List the available parameter sets",
		Action: func(c *cli.Context) error {
			for _, name := range curves.Names() {
				params, err := curves.ParamsByName(name)
				if err != nil {
					return err
				}
				fmt.Printf("%s\n  p = %s\n  E: %v\n", params.Name, params.Field.Modulus().Text(10), params.Curve)
				for _, t := range params.Torsion {
					fmt.Printf("  torsion %d^%d\n", t.L, t.E)
				}
			}
			return nil
		},
	}
}

func strategyCommand() *cli.Command {
	return &cli.Command{
		Name:  "strategy",
		Usage: "Print the split strategy of an l^e chain and its cost",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "e", Value: 8, Usage: "Chain length"},
			&cli.Float64Flag{Name: "ratio", Value: 0.5, Usage: "Split ratio, strictly between 0 and 1"},
			&cli.BoolFlag{Name: "optimal", Usage: "Use the cost-minimal strategy instead of the ratio split"},
			&cli.Float64Flag{Name: "mul-cost", Value: 1, Usage: "Relative cost of one multiplication by l"},
			&cli.Float64Flag{Name: "iso-cost", Value: 1, Usage: "Relative cost of one l-isogeny evaluation"},
		},
		Action: func(c *cli.Context) error {
			var (
				s   isogeny.Strategy
				err error
			)
			if c.Bool("optimal") {
				s, err = isogeny.OptimalStrategy(c.Int("e"), c.Float64("mul-cost"), c.Float64("iso-cost"))
			} else {
				s, err = isogeny.NewStrategy(c.Int("e"), c.Float64("ratio"))
			}
			if err != nil {
				return err
			}
			muls, isos := s.Counts()
			fmt.Printf("strategy: %v\n", []int(s))
			fmt.Printf("multiplications: %d, pending evaluations: %d, cost: %v\n",
				muls, isos, s.Cost(c.Float64("mul-cost"), c.Float64("iso-cost")))
			return nil
		},
	}
}

// overrideParameters applies the flags the user actually set on top of params.
func overrideParameters(c *cli.Context, params *sidh.Parameters) {
	if c.IsSet("params") {
		params.Params = c.String("params")
	}
	if c.IsSet("l") {
		params.L = c.Int("l")
	}
	if c.IsSet("e") {
		params.E = c.Int("e")
	}
	if c.IsSet("mode") {
		params.Mode = sidh.Mode(c.String("mode"))
	}
	if c.IsSet("jump") {
		params.Jump = c.Int("jump")
	}
	if c.IsSet("ratio") {
		params.Ratio = c.Float64("ratio")
	}
	if c.IsSet("mul-cost") {
		params.MulCost = c.Float64("mul-cost")
	}
	if c.IsSet("iso-cost") {
		params.IsoCost = c.Float64("iso-cost")
	}
	if c.IsSet("evaluator") {
		params.Evaluator = c.String("evaluator")
	}
	if c.IsSet("points") {
		params.Points = c.Int("points")
	}
	if c.IsSet("workers") {
		params.Workers = c.Int("workers")
	}
}
