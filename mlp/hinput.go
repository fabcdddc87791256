package mlp

// HInputNet conditions a plain network on the modulator by feeding it
// in as an extra input: the engine's input layer carries one more unit
// than the declared input count, hidden from LayerSize, and SetInputs
// writes the current modulator into it alongside the caller's values.
// The gradient math is the plain engine's; the modulator participates
// purely as ordinary input data. Save, Load and DataSize use the true
// geometry, extra unit included.
type HInputNet struct {
	BPNet
}

// NewHInputNet builds an h-as-input network. sizes gives the visible
// layer sizes, input layer first; the modulator unit is added
// internally.
func NewHInputNet(sizes ...int) (*HInputNet, error) {
	ll := make([]int, len(sizes))
	copy(ll, sizes)
	if len(ll) > 0 {
		ll[0]++
	}
	b, err := newBPNet(HInput, 1, ll)
	if err != nil {
		return nil, err
	}
	return &HInputNet{BPNet: *b}, nil
}
