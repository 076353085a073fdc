package model

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samcharles93/namegen/internal/safetensors"
	"github.com/samcharles93/namegen/internal/vocab"
)

// seq returns n deterministic values in [-0.5, 0.5].
func seq(n int, seed float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(seed+float64(i)) * 0.5
	}
	return out
}

func testParams(t *testing.T, ctxLen, embedDim, hidden int) Params {
	t.Helper()
	v, err := vocab.New([]rune(".abc"))
	if err != nil {
		t.Fatalf("vocab.New: %v", err)
	}
	nv := v.Size()
	in := ctxLen * embedDim
	return Params{
		Vocab:      v,
		ContextLen: ctxLen,
		Embedding:  mat.NewDense(nv, embedDim, seq(nv*embedDim, 1)),
		W1:         mat.NewDense(in, hidden, seq(in*hidden, 2)),
		B1:         seq(hidden, 3),
		W2:         mat.NewDense(hidden, nv, seq(hidden*nv, 4)),
		B2:         seq(nv, 5),
	}
}

func TestNewShapeMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"nil vocab", func(p *Params) { p.Vocab = nil }},
		{"zero context", func(p *Params) { p.ContextLen = 0 }},
		{"missing W2", func(p *Params) { p.W2 = nil }},
		{"embedding rows", func(p *Params) { p.Embedding = mat.NewDense(3, 2, nil) }},
		{"hidden input width", func(p *Params) { p.ContextLen = 2 }},
		{"hidden bias", func(p *Params) { p.B1 = p.B1[:1] }},
		{"output rows", func(p *Params) { p.W2 = mat.NewDense(4, 4, nil) }},
		{"output width", func(p *Params) { p.W2 = mat.NewDense(5, 3, nil) }},
		{"output bias", func(p *Params) { p.B2 = append(p.B2, 0) }},
	}

	for _, tc := range tests {
		p := testParams(t, 3, 2, 5)
		tc.mutate(&p)
		if _, err := New(p); !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("%s: expected ErrShapeMismatch, got %v", tc.name, err)
		}
	}
}

func TestDims(t *testing.T) {
	t.Parallel()
	m, err := New(testParams(t, 3, 2, 5))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := Dims{Vocab: 4, EmbedDim: 2, ContextLen: 3, Input: 6, Hidden: 5}
	if m.Dims() != want {
		t.Fatalf("expected %+v, got %+v", want, m.Dims())
	}
}

func TestNewCopiesWeights(t *testing.T) {
	t.Parallel()
	p := testParams(t, 3, 2, 5)
	m, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before, _ := m.Embedding(1)
	p.Embedding.Set(1, 0, 42)
	p.B2[0] = 42
	after, _ := m.Embedding(1)
	if before[0] != after[0] {
		t.Fatal("model aliased caller's embedding matrix")
	}
}

func TestEmbeddingAndEncode(t *testing.T) {
	t.Parallel()
	p := testParams(t, 3, 2, 5)
	m, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	e, err := m.Embedding(2)
	if err != nil {
		t.Fatalf("Embedding: %v", err)
	}
	if e[0] != p.Embedding.At(2, 0) || e[1] != p.Embedding.At(2, 1) {
		t.Fatalf("unexpected embedding row: %v", e)
	}
	if _, err := m.Embedding(4); !errors.Is(err, vocab.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}

	dst := make([]float64, 6)
	if err := m.Encode(dst, []int{0, 3, 1}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for k, id := range []int{0, 3, 1} {
		for j := 0; j < 2; j++ {
			if dst[k*2+j] != p.Embedding.At(id, j) {
				t.Fatalf("Encode: slot %d dim %d mismatch", k, j)
			}
		}
	}
	if err := m.Encode(dst, []int{0, 1}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch for short window, got %v", err)
	}
	if err := m.Encode(dst[:5], []int{0, 1, 2}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch for short buffer, got %v", err)
	}
	if err := m.Encode(dst, []int{0, 9, 1}); !errors.Is(err, vocab.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

// TestScoreMatchesNaive compares Score against a hand-written forward pass.
func TestScoreMatchesNaive(t *testing.T) {
	t.Parallel()
	p := testParams(t, 3, 2, 5)
	m, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	x := seq(6, 7)
	got, err := m.Score(x)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	h := make([]float64, 5)
	for j := range h {
		s := p.B1[j]
		for i := range x {
			s += x[i] * p.W1.At(i, j)
		}
		h[j] = math.Tanh(s)
	}
	for k := 0; k < 4; k++ {
		want := p.B2[k]
		for j := range h {
			want += h[j] * p.W2.At(j, k)
		}
		if math.Abs(got[k]-want) > 1e-12 {
			t.Fatalf("logit %d: expected %v, got %v", k, want, got[k])
		}
	}

	if _, err := m.Score(x[:5]); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestScoreZeroWeights(t *testing.T) {
	t.Parallel()
	v, err := vocab.New([]rune("ab.c"))
	if err != nil {
		t.Fatalf("vocab.New: %v", err)
	}
	m, err := New(Params{
		Vocab:      v,
		ContextLen: 3,
		Embedding:  mat.NewDense(4, 2, nil),
		W1:         mat.NewDense(6, 3, nil),
		B1:         make([]float64, 3),
		W2:         mat.NewDense(3, 4, nil),
		B2:         make([]float64, 4),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logits, err := m.Score(make([]float64, 6))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for i, l := range logits {
		if l != 0 {
			t.Fatalf("logit %d: expected 0, got %v", i, l)
		}
	}
}

func TestLoadSafetensors(t *testing.T) {
	t.Parallel()
	p := testParams(t, 3, 2, 5)
	path := filepath.Join(t.TempDir(), "model.safetensors")

	err := safetensors.Write(path, []safetensors.Tensor{
		{Name: "V", Shape: []int{4, 2}, Data: p.Embedding.RawMatrix().Data},
		{Name: "W1", Shape: []int{6, 5}, Data: p.W1.RawMatrix().Data},
		{Name: "b1", Shape: []int{5}, Data: p.B1},
		{Name: "W2", Shape: []int{5, 4}, Data: p.W2.RawMatrix().Data},
		{Name: "b2", Shape: []int{1, 4}, Data: p.B2},
	}, nil)
	if err != nil {
		t.Fatalf("safetensors.Write: %v", err)
	}

	m, err := LoadSafetensors(path, p.Vocab, 3, DefaultTensorNames)
	if err != nil {
		t.Fatalf("LoadSafetensors: %v", err)
	}
	want, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	x := seq(6, 11)
	got, err := m.Score(x)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	ref, _ := want.Score(x)
	for i := range ref {
		// Weights pass through float32 on disk.
		if math.Abs(got[i]-ref[i]) > 1e-5 {
			t.Fatalf("logit %d: expected %v, got %v", i, ref[i], got[i])
		}
	}

	if _, err := LoadSafetensors(path, p.Vocab, 2, DefaultTensorNames); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch for wrong context length, got %v", err)
	}
	names := DefaultTensorNames
	names.W2 = "missing"
	if _, err := LoadSafetensors(path, p.Vocab, 3, names); err == nil {
		t.Fatal("expected error for missing tensor")
	}
	names = DefaultTensorNames
	names.B1 = "W1"
	if _, err := LoadSafetensors(path, p.Vocab, 3, names); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch for matrix bias, got %v", err)
	}
}
