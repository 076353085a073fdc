package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/samcharles93/namegen/internal/vocab"
)

// ErrShapeMismatch reports parameters whose dimensions do not agree.
var ErrShapeMismatch = errors.New("model shape mismatch")

// Params holds the raw trained parameters handed to New.
//
// Embedding is [vocab x embedDim]. W1 is [(ContextLen*embedDim) x hidden]
// and B1 has hidden entries. W2 is [hidden x vocab] and B2 has vocab
// entries.
type Params struct {
	Vocab      *vocab.Vocabulary
	ContextLen int

	Embedding *mat.Dense
	W1        *mat.Dense
	B1        []float64
	W2        *mat.Dense
	B2        []float64
}

// Dims summarises the dimensions of a loaded model.
type Dims struct {
	Vocab      int
	EmbedDim   int
	ContextLen int
	Input      int
	Hidden     int
}

// Model is the immutable bundle of vocabulary, embedding table and scorer
// weights. It is safe to share between goroutines.
type Model struct {
	vocab *vocab.Vocabulary
	dims  Dims

	emb *mat.Dense
	w1  *mat.Dense
	b1  *mat.VecDense
	w2  *mat.Dense
	b2  *mat.VecDense
}

// New validates p and returns a Model holding private copies of its
// weights.
func New(p Params) (*Model, error) {
	if p.Vocab == nil {
		return nil, fmt.Errorf("%w: vocabulary is required", ErrShapeMismatch)
	}
	if p.ContextLen <= 0 {
		return nil, fmt.Errorf("%w: context length %d", ErrShapeMismatch, p.ContextLen)
	}
	if p.Embedding == nil || p.W1 == nil || p.W2 == nil {
		return nil, fmt.Errorf("%w: missing weight matrix", ErrShapeMismatch)
	}

	nv := p.Vocab.Size()
	embRows, embedDim := p.Embedding.Dims()
	if embRows != nv {
		return nil, fmt.Errorf("%w: embedding has %d rows, vocabulary has %d characters", ErrShapeMismatch, embRows, nv)
	}
	in, hidden := p.W1.Dims()
	if in != p.ContextLen*embedDim {
		return nil, fmt.Errorf("%w: hidden layer input width %d != context length %d x embedding dim %d",
			ErrShapeMismatch, in, p.ContextLen, embedDim)
	}
	if len(p.B1) != hidden {
		return nil, fmt.Errorf("%w: hidden bias has %d entries, want %d", ErrShapeMismatch, len(p.B1), hidden)
	}
	w2Rows, out := p.W2.Dims()
	if w2Rows != hidden {
		return nil, fmt.Errorf("%w: output layer has %d rows, hidden width is %d", ErrShapeMismatch, w2Rows, hidden)
	}
	if out != nv {
		return nil, fmt.Errorf("%w: output width %d != vocabulary size %d", ErrShapeMismatch, out, nv)
	}
	if len(p.B2) != nv {
		return nil, fmt.Errorf("%w: output bias has %d entries, want %d", ErrShapeMismatch, len(p.B2), nv)
	}

	return &Model{
		vocab: p.Vocab,
		dims: Dims{
			Vocab:      nv,
			EmbedDim:   embedDim,
			ContextLen: p.ContextLen,
			Input:      in,
			Hidden:     hidden,
		},
		emb: mat.DenseCopyOf(p.Embedding),
		w1:  mat.DenseCopyOf(p.W1),
		b1:  mat.NewVecDense(hidden, append([]float64(nil), p.B1...)),
		w2:  mat.DenseCopyOf(p.W2),
		b2:  mat.NewVecDense(nv, append([]float64(nil), p.B2...)),
	}, nil
}

// Vocab returns the model's vocabulary.
func (m *Model) Vocab() *vocab.Vocabulary { return m.vocab }

// Dims returns the model dimensions.
func (m *Model) Dims() Dims { return m.dims }

// Embedding returns a copy of the embedding vector for index i.
func (m *Model) Embedding(i int) ([]float64, error) {
	if i < 0 || i >= m.dims.Vocab {
		return nil, fmt.Errorf("embedding: %w: %d not in [0, %d)", vocab.ErrIndexOutOfRange, i, m.dims.Vocab)
	}
	return append([]float64(nil), m.emb.RawRowView(i)...), nil
}

// Encode writes the concatenated embeddings of window into dst.
// len(window) must equal the context length and len(dst) the scorer input
// width.
func (m *Model) Encode(dst []float64, window []int) error {
	if len(window) != m.dims.ContextLen {
		return fmt.Errorf("%w: window has %d entries, context length is %d", ErrShapeMismatch, len(window), m.dims.ContextLen)
	}
	if len(dst) != m.dims.Input {
		return fmt.Errorf("%w: encode buffer has %d entries, want %d", ErrShapeMismatch, len(dst), m.dims.Input)
	}
	d := m.dims.EmbedDim
	for k, id := range window {
		if id < 0 || id >= m.dims.Vocab {
			return fmt.Errorf("encode: %w: %d not in [0, %d)", vocab.ErrIndexOutOfRange, id, m.dims.Vocab)
		}
		copy(dst[k*d:(k+1)*d], m.emb.RawRowView(id))
	}
	return nil
}

// Score maps a flattened context embedding to logits over the vocabulary:
//
//	hidden = tanh(x·W1 + b1)
//	logits = hidden·W2 + b2
func (m *Model) Score(x []float64) ([]float64, error) {
	if len(x) != m.dims.Input {
		return nil, fmt.Errorf("%w: scorer input has %d entries, want %d", ErrShapeMismatch, len(x), m.dims.Input)
	}
	xv := mat.NewVecDense(len(x), x)

	var h mat.VecDense
	h.MulVec(m.w1.T(), xv)
	h.AddVec(&h, m.b1)
	for i := 0; i < h.Len(); i++ {
		h.SetVec(i, math.Tanh(h.AtVec(i)))
	}

	logits := make([]float64, m.dims.Vocab)
	out := mat.NewVecDense(len(logits), logits)
	out.MulVec(m.w2.T(), &h)
	out.AddVec(out, m.b2)
	return logits, nil
}
