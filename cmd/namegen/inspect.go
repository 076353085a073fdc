package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/namegen/internal/model"
	"github.com/samcharles93/namegen/internal/safetensors"
	"github.com/samcharles93/namegen/internal/vocab"
)

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Show the tensors, vocabulary and dimensions of a model",
		Flags: commonModelFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			applyModelConfig(c, configFromContext(ctx))

			weights, chars, err := resolveModelPaths(modelPath, vocabPath, modelDir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: resolve model: %v", err), 1)
			}
			w := c.Root().Writer

			sf, err := safetensors.Open(weights)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open weights: %v", err), 1)
			}
			printTensors(w, sf)

			v, err := vocab.Load(chars)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			printVocab(w, chars, v)

			m, err := model.LoadSafetensors(weights, v, int(contextLen), model.DefaultTensorNames)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			d := m.Dims()
			_, _ = fmt.Fprintf(w, "\nModel:\n")
			_, _ = fmt.Fprintf(w, "  vocab size:     %d\n", d.Vocab)
			_, _ = fmt.Fprintf(w, "  embedding dim:  %d\n", d.EmbedDim)
			_, _ = fmt.Fprintf(w, "  context length: %d\n", d.ContextLen)
			_, _ = fmt.Fprintf(w, "  hidden width:   %d\n", d.Hidden)
			return nil
		},
	}
}

func printTensors(w io.Writer, sf *safetensors.File) {
	_, _ = fmt.Fprintf(w, "Weights: %s\n", sf.Path)
	for k, v := range sf.Metadata {
		_, _ = fmt.Fprintf(w, "  meta %s=%s\n", k, v)
	}
	for _, name := range sf.Names() {
		info, _ := sf.Tensor(name)
		_, _ = fmt.Fprintf(w, "  %-8s %-5s %v\n", name, info.DType, info.Shape)
	}
}

func printVocab(w io.Writer, path string, v *vocab.Vocabulary) {
	quoted := make([]string, 0, v.Size())
	for _, c := range v.Chars() {
		quoted = append(quoted, fmt.Sprintf("%q", c))
	}
	_, _ = fmt.Fprintf(w, "\nVocabulary: %s (%d characters, boundary at %d)\n", path, v.Size(), v.BoundaryIndex())
	_, _ = fmt.Fprintf(w, "  %s\n", strings.Join(quoted, " "))
}
