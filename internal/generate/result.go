package generate

import (
	"context"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/samcharles93/namegen/internal/logger"
)

type Stats struct {
	Names       int           `json:"names"`
	Chars       int           `json:"chars"`
	Duration    time.Duration `json:"duration_ns"`
	NamesPerSec float64       `json:"names_per_sec"`
}

// Result is one batch as reported to the caller.
type Result struct {
	ID    string   `json:"id"`
	Seed  int64    `json:"seed"`
	Names []string `json:"names"`
	Stats Stats    `json:"stats"`
}

// Run generates count names from a stream seeded with seed and records
// timing. Equal seeds against the same model give equal names.
func (g *Generator) Run(ctx context.Context, count int, seed int64) (*Result, error) {
	id := "batch-" + uuid.NewString()
	log := logger.FromContext(ctx).With("batch", id)

	start := time.Now()
	rng := rand.New(rand.NewSource(seed))
	names, err := g.Batch(logger.WithContext(ctx, log), count, rng)
	if err != nil {
		return nil, err
	}

	stats := Stats{Names: len(names), Duration: time.Since(start)}
	for _, n := range names {
		stats.Chars += utf8.RuneCountInString(n)
	}
	if stats.Duration.Seconds() > 0 {
		stats.NamesPerSec = float64(stats.Names) / stats.Duration.Seconds()
	}
	log.Debug("batch complete", "names", stats.Names, "chars", stats.Chars, "duration", stats.Duration)

	return &Result{
		ID:    id,
		Seed:  seed,
		Names: names,
		Stats: stats,
	}, nil
}
