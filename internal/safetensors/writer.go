package safetensors

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	json "github.com/goccy/go-json"
)

// Tensor is an F32 tensor to be written by Write.
type Tensor struct {
	Name  string
	Shape []int
	Data  []float64
}

// Write stores tensors as F32 in a safetensors file at path. Data is laid
// out in argument order.
func Write(path string, tensors []Tensor, metadata map[string]string) error {
	header := make(map[string]any, len(tensors)+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}
	var off int64
	for _, t := range tensors {
		if _, dup := header[t.Name]; dup || t.Name == "" {
			return fmt.Errorf("tensor %q: invalid or duplicate name", t.Name)
		}
		n, err := numElements(t.Shape)
		if err != nil {
			return fmt.Errorf("tensor %s: %w", t.Name, err)
		}
		if n != len(t.Data) {
			return fmt.Errorf("tensor %s: shape %v needs %d values, got %d", t.Name, t.Shape, n, len(t.Data))
		}
		end := off + int64(n*4)
		header[t.Name] = tensorHeader{DType: "F32", Shape: t.Shape, DataOffsets: []int64{off, end}}
		off = end
	}
	headerBytes, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}

	buf := make([]byte, 8, 8+len(headerBytes)+int(off))
	binary.LittleEndian.PutUint64(buf, uint64(len(headerBytes)))
	buf = append(buf, headerBytes...)
	for _, t := range tensors {
		for _, v := range t.Data {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(v)))
		}
	}
	return os.WriteFile(path, buf, 0o644)
}
