package logits

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrDegenerateDistribution reports logits that cannot be turned into a
// probability distribution. It indicates a broken model.
var ErrDegenerateDistribution = errors.New("degenerate distribution")

// Source is the random stream a draw consumes. Both *math/rand.Rand and
// *math/rand/v2.Rand satisfy it.
type Source interface {
	Float64() float64
}

// SamplerConfig configures the behaviour of a Sampler.
type SamplerConfig struct {
	Temperature float64
}

// Sampler draws indices from logit vectors. It keeps scratch space between
// calls and is not safe for concurrent use; the random stream is supplied
// per call.
type Sampler struct {
	cfg  SamplerConfig
	prob []float64
}

// NewSampler returns a new sampler with the provided configuration.
func NewSampler(cfg SamplerConfig) *Sampler {
	if cfg.Temperature <= 0 || math.IsNaN(cfg.Temperature) {
		cfg.Temperature = 1
	}
	return &Sampler{cfg: cfg}
}

// Sample draws a single index from the provided logits vector:
//
//  1. The logits are scaled by the inverse temperature.
//  2. A softmax is computed with the maximum subtracted for stability.
//  3. A value drawn from [0,1) selects an index by walking the cumulative
//     distribution.
//
// logits is not modified.
func (s *Sampler) Sample(logits []float64, rng Source) (int, error) {
	if cap(s.prob) < len(logits) {
		s.prob = make([]float64, len(logits))
	}
	prob := s.prob[:len(logits)]
	copy(prob, logits)
	if s.cfg.Temperature != 1 {
		floats.Scale(1/s.cfg.Temperature, prob)
	}
	if err := Softmax(prob, prob); err != nil {
		return 0, err
	}
	return draw(prob, rng.Float64()), nil
}

// Sample draws one index from logits at temperature 1.
func Sample(logits []float64, rng Source) (int, error) {
	return NewSampler(SamplerConfig{}).Sample(logits, rng)
}

// Softmax writes the normalised exponentials of x into dst. dst and x may
// alias. Non-finite input or a zero total fails with
// ErrDegenerateDistribution.
func Softmax(dst, x []float64) error {
	if len(x) == 0 {
		return fmt.Errorf("%w: no logits", ErrDegenerateDistribution)
	}
	if len(dst) != len(x) {
		panic("logits: softmax length mismatch")
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: logit %d is %v", ErrDegenerateDistribution, i, v)
		}
	}
	maxv := floats.Max(x)
	for i, v := range x {
		dst[i] = math.Exp(v - maxv)
	}
	sum := floats.Sum(dst)
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return fmt.Errorf("%w: probability mass %v", ErrDegenerateDistribution, sum)
	}
	floats.Scale(1/sum, dst)
	return nil
}

// draw returns the first index whose cumulative probability exceeds r.
// Rounding can leave the total just under r; the last index with non-zero
// mass is returned then.
func draw(prob []float64, r float64) int {
	var c float64
	last := 0
	for i, p := range prob {
		if p <= 0 {
			continue
		}
		c += p
		last = i
		if r < c {
			return i
		}
	}
	return last
}
