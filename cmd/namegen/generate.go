package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/namegen/internal/generate"
	"github.com/samcharles93/namegen/internal/logger"
	"github.com/samcharles93/namegen/internal/model"
	"github.com/samcharles93/namegen/internal/vocab"
)

func generateCmd() *cli.Command {
	var opts generateOptions

	flags := append([]cli.Flag{}, commonModelFlags()...)
	flags = append(flags,
		&cli.Int64Flag{
			Name:        "seed",
			Aliases:     []string{"s"},
			Usage:       "sampling RNG seed (default -1 = random)",
			Value:       -1,
			Destination: &opts.seed,
		},
		&cli.Int64Flag{
			Name:        "max-len",
			Aliases:     []string{"max-length"},
			Usage:       "longest name before generation is aborted",
			Value:       generate.DefaultMaxLength,
			Destination: &opts.maxLength,
		},
		&cli.Float64Flag{
			Name:        "temperature",
			Aliases:     []string{"temp", "t"},
			Usage:       "sampling temperature (1.0 = model distribution)",
			Value:       1.0,
			Destination: &opts.temperature,
		},
		&cli.StringFlag{
			Name:        "prefix",
			Aliases:     []string{"p"},
			Usage:       "characters every name starts with",
			Destination: &opts.prefix,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "output format (list, lines, json)",
			Value:       formatList,
			Destination: &opts.format,
		},
	)

	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Sample names from a trained character model",
		ArgsUsage: "[count]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)

			applyGenerateConfig(c, configFromContext(ctx), &opts)
			if opts.maxLength <= 0 {
				return cli.Exit(fmt.Sprintf("error: --max-len must be positive, got %d", opts.maxLength), 1)
			}

			count, err := parseCount(c.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			m, err := loadModel(ctx)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			seed := opts.seed
			if seed < 0 {
				seed = time.Now().UnixNano()
			}
			log.Debug("generating", "count", count, "seed", seed, "temperature", opts.temperature, "max_len", opts.maxLength)

			g := &generate.Generator{
				Model:       m,
				MaxLength:   int(opts.maxLength),
				Temperature: opts.temperature,
				Prefix:      opts.prefix,
			}
			res, err := g.Run(ctx, count, seed)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: generate: %v", err), 1)
			}
			log.Debug("generation finished", "batch", res.ID, "names", res.Stats.Names, "duration", res.Stats.Duration)

			if err := writeResult(c.Root().Writer, opts.format, res); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return nil
		},
	}
}

// loadModel reads the vocabulary and weights named by the model flags.
func loadModel(ctx context.Context) (*model.Model, error) {
	log := logger.FromContext(ctx)

	weights, chars, err := resolveModelPaths(modelPath, vocabPath, modelDir)
	if err != nil {
		return nil, fmt.Errorf("resolve model: %w", err)
	}

	start := time.Now()
	v, err := vocab.Load(chars)
	if err != nil {
		return nil, err
	}
	m, err := model.LoadSafetensors(weights, v, int(contextLen), model.DefaultTensorNames)
	if err != nil {
		return nil, err
	}
	d := m.Dims()
	log.Debug("model loaded",
		"weights", weights,
		"vocab", chars,
		slog.Group("dims", "vocab", d.Vocab, "embed", d.EmbedDim, "context", d.ContextLen, "hidden", d.Hidden),
		"elapsed", time.Since(start),
	)
	return m, nil
}
