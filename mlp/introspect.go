package mlp

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// engineOf returns the single engine backing n, or nil when the
// variant has no single engine.
func engineOf(n Net) *BPNet {
	switch v := n.(type) {
	case *BPNet:
		return v
	case *UESNet:
		return &v.BPNet
	case *HInputNet:
		return &v.BPNet
	}
	return nil
}

// LayerWeights copies layer l's true incoming weight matrix into a
// tensor shaped (nodes in l) × (nodes in l-1); row i holds node i's
// incoming weights. The output-blending variant has two engines, so
// pull one out with Net0 or Net1 first.
func LayerWeights(n Net, l int) (*tensor.Dense, error) {
	b := engineOf(n)
	if b == nil {
		return nil, errors.Errorf("a %v network has no single engine", n.Type())
	}
	if l < 1 || l >= len(b.sizes) {
		return nil, errors.Errorf("layer %d has no incoming weights", l)
	}
	rows, cols := b.sizes[l], b.sizes[l-1]
	backing := make([]float32, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			backing[i*cols+j] = b.weights[l][i+b.largest*j]
		}
	}
	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(backing)), nil
}

// LayerBiases copies layer l's bias vector.
func LayerBiases(n Net, l int) ([]float32, error) {
	b := engineOf(n)
	if b == nil {
		return nil, errors.Errorf("a %v network has no single engine", n.Type())
	}
	if l < 0 || l >= len(b.sizes) {
		return nil, errors.Errorf("no layer %d in a %d-layer network", l, len(b.sizes))
	}
	out := make([]float32, len(b.biases[l]))
	copy(out, b.biases[l])
	return out, nil
}
