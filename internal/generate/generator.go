package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samcharles93/namegen/internal/logger"
	"github.com/samcharles93/namegen/internal/logits"
	"github.com/samcharles93/namegen/internal/model"
	"github.com/samcharles93/namegen/internal/vocab"
)

// DefaultMaxLength bounds a name when Generator.MaxLength is unset.
const DefaultMaxLength = 64

// batchReserve caps the up-front allocation of a batch.
const batchReserve = 1024

var (
	ErrGenerationLimitExceeded = errors.New("generation limit exceeded")
	ErrInvalidCount            = errors.New("invalid batch count")
	ErrInvalidPrefix           = errors.New("invalid prefix")
)

// Generator samples names from a model. The zero values of MaxLength and
// Temperature select DefaultMaxLength and 1.0. A Generator holds no
// per-call state and may be shared.
type Generator struct {
	Model *model.Model

	// MaxLength is the longest name, prefix included, that may be emitted
	// before the boundary symbol is drawn.
	MaxLength   int
	Temperature float64

	// Prefix is emitted before sampling starts and seeds the context.
	Prefix string
}

func (g *Generator) maxLength() int {
	if g.MaxLength <= 0 {
		return DefaultMaxLength
	}
	return g.MaxLength
}

// Generate produces one name. The walk is:
//
//	init:     window full of boundary indices, empty output
//	stepping: encode window, score, sample
//	done:     boundary drawn, output returned without it
//	running:  other character drawn, appended, window slid, back to stepping
//
// A name that would grow past MaxLength fails with
// ErrGenerationLimitExceeded.
func (g *Generator) Generate(rng logits.Source) (string, error) {
	if g.Model == nil {
		return "", fmt.Errorf("generate: model is required")
	}
	r, err := g.newRun()
	if err != nil {
		return "", err
	}
	for {
		done, err := r.step(rng)
		if err != nil {
			return "", err
		}
		if done {
			return r.out.String(), nil
		}
	}
}

// Batch generates count names in request order, continuing the same random
// stream from one name to the next. The first failure aborts the batch.
func (g *Generator) Batch(ctx context.Context, count int, rng logits.Source) ([]string, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	log := logger.FromContext(ctx)

	names := make([]string, 0, min(count, batchReserve))
	for i := range count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, err := g.Generate(rng)
		if err != nil {
			return nil, fmt.Errorf("name %d of %d: %w", i+1, count, err)
		}
		log.Debug("generated name", "index", i, "name", name, "len", len([]rune(name)))
		names = append(names, name)
	}
	return names, nil
}

// run is the mutable state of a single Generate call.
type run struct {
	m        *model.Model
	v        *vocab.Vocabulary
	sampler  *logits.Sampler
	window   *Window
	x        []float64
	out      strings.Builder
	n        int
	maxLen   int
	boundary int
}

func (g *Generator) newRun() (*run, error) {
	d := g.Model.Dims()
	v := g.Model.Vocab()
	r := &run{
		m:        g.Model,
		v:        v,
		sampler:  logits.NewSampler(logits.SamplerConfig{Temperature: g.Temperature}),
		window:   NewWindow(d.ContextLen, v.BoundaryIndex()),
		x:        make([]float64, d.Input),
		maxLen:   g.maxLength(),
		boundary: v.BoundaryIndex(),
	}
	for _, c := range g.Prefix {
		id, err := v.IndexOf(c)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPrefix, err)
		}
		if id == r.boundary {
			return nil, fmt.Errorf("%w: contains boundary symbol %q", ErrInvalidPrefix, vocab.Boundary)
		}
		if err := r.accept(id, c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// step draws one character. It reports true once the boundary is drawn.
func (r *run) step(rng logits.Source) (bool, error) {
	if err := r.m.Encode(r.x, r.window.IDs()); err != nil {
		return false, err
	}
	scores, err := r.m.Score(r.x)
	if err != nil {
		return false, err
	}
	id, err := r.sampler.Sample(scores, rng)
	if err != nil {
		return false, err
	}
	if id == r.boundary {
		return true, nil
	}
	c, err := r.v.CharAt(id)
	if err != nil {
		return false, err
	}
	return false, r.accept(id, c)
}

func (r *run) accept(id int, c rune) error {
	if r.n >= r.maxLen {
		return fmt.Errorf("%w: no boundary after %d characters", ErrGenerationLimitExceeded, r.maxLen)
	}
	r.out.WriteRune(c)
	r.n++
	r.window.Push(id)
	return nil
}
