package mlp

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// sanity bounds on file-borne geometry
const (
	maxFileLayers    = 256
	maxFileLayerSize = 65536
)

// trueSizes reports the engine-level layer sizes of n, which for the
// h-as-input variant include the hidden modulator unit. These are the
// sizes that go into file headers.
func trueSizes(n Net) ([]int, error) {
	switch v := n.(type) {
	case *BPNet:
		return v.sizes, nil
	case *UESNet:
		return v.BPNet.sizes, nil
	case *HInputNet:
		return v.BPNet.sizes, nil
	case *BlendNet:
		return v.net0.sizes, nil
	}
	return nil, errors.Errorf("cannot persist a %T", n)
}

// Write serializes n to w: an int32 variant tag, an int32 layer count,
// the true layer sizes as int32s, then the parameter block as float32s
// in Save order. All values are little-endian; files carry no
// byte-order mark.
func Write(w io.Writer, n Net) error {
	sizes, err := trueSizes(n)
	if err != nil {
		return err
	}
	hdr := make([]int32, 0, len(sizes)+2)
	hdr = append(hdr, int32(n.Type()), int32(len(sizes)))
	for _, s := range sizes {
		hdr = append(hdr, int32(s))
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return errors.Wrap(err, "failed to write network header")
	}
	buf := make([]float32, n.DataSize())
	n.Save(buf)
	if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
		return errors.Wrap(err, "failed to write network parameters")
	}
	return nil
}

// Read deserializes a network written by Write, reconstructing the
// variant the type tag names.
func Read(r io.Reader) (Net, error) {
	var tag, nl int32
	if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
		return nil, errors.Wrap(err, "failed to read network type")
	}
	switch NetType(tag) {
	case Plain, OutputBlending, HInput, UESMANN:
	default:
		return nil, errors.Errorf("unrecognized network type tag %d", tag)
	}
	if err := binary.Read(r, binary.LittleEndian, &nl); err != nil {
		return nil, errors.Wrap(err, "failed to read layer count")
	}
	if nl < 2 || nl > maxFileLayers {
		return nil, errors.Errorf("implausible layer count %d", nl)
	}
	raw := make([]int32, nl)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, errors.Wrap(err, "failed to read layer sizes")
	}
	sizes := make([]int, nl)
	for i, s := range raw {
		if s < 1 || s > maxFileLayerSize {
			return nil, errors.Errorf("implausible size %d for layer %d", s, i)
		}
		sizes[i] = int(s)
	}
	if NetType(tag) == HInput {
		// headers carry the true geometry; the constructor re-adds
		// the modulator unit
		sizes[0]--
	}
	n, err := New(NetType(tag), sizes...)
	if err != nil {
		return nil, err
	}
	buf := make([]float32, n.DataSize())
	if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
		return nil, errors.Wrap(err, "failed to read network parameters")
	}
	n.Load(buf)
	return n, nil
}

// WriteFile serializes n to the file at path, replacing it if it
// exists.
func WriteFile(path string, n Net) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	return Write(f, n)
}

// ReadFile deserializes a network from the file at path.
func ReadFile(path string) (Net, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	return Read(f)
}
