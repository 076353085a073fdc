package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samcharles93/namegen/internal/safetensors"
	"github.com/samcharles93/namegen/internal/vocab"
)

// TensorNames maps model parameters to tensor names in a weights file.
type TensorNames struct {
	Embedding string
	W1        string
	B1        string
	W2        string
	B2        string
}

// DefaultTensorNames are the names the training script saves under.
var DefaultTensorNames = TensorNames{
	Embedding: "V",
	W1:        "W1",
	B1:        "b1",
	W2:        "W2",
	B2:        "b2",
}

// LoadSafetensors reads the five parameter tensors from a safetensors file
// and builds a Model over v.
func LoadSafetensors(path string, v *vocab.Vocabulary, contextLen int, names TensorNames) (*Model, error) {
	f, err := safetensors.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open weights: %w", err)
	}

	emb, err := readMatrix(f, names.Embedding)
	if err != nil {
		return nil, err
	}
	w1, err := readMatrix(f, names.W1)
	if err != nil {
		return nil, err
	}
	b1, err := readVector(f, names.B1)
	if err != nil {
		return nil, err
	}
	w2, err := readMatrix(f, names.W2)
	if err != nil {
		return nil, err
	}
	b2, err := readVector(f, names.B2)
	if err != nil {
		return nil, err
	}

	m, err := New(Params{
		Vocab:      v,
		ContextLen: contextLen,
		Embedding:  emb,
		W1:         w1,
		B1:         b1,
		W2:         w2,
		B2:         b2,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

func readMatrix(f *safetensors.File, name string) (*mat.Dense, error) {
	data, info, err := f.ReadTensorF64(name)
	if err != nil {
		return nil, err
	}
	if len(info.Shape) != 2 {
		return nil, fmt.Errorf("%w: tensor %s has shape %v, want 2 dims", ErrShapeMismatch, name, info.Shape)
	}
	return mat.NewDense(info.Shape[0], info.Shape[1], data), nil
}

// readVector accepts [n] and [1 n] shaped biases.
func readVector(f *safetensors.File, name string) ([]float64, error) {
	data, info, err := f.ReadTensorF64(name)
	if err != nil {
		return nil, err
	}
	switch {
	case len(info.Shape) == 1:
	case len(info.Shape) == 2 && info.Shape[0] == 1:
	default:
		return nil, fmt.Errorf("%w: tensor %s has shape %v, want a vector", ErrShapeMismatch, name, info.Shape)
	}
	return data, nil
}
