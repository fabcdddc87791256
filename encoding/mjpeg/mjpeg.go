// Package mjpeg streams weight maps over HTTP as MJPEG video, so a
// long training run can be watched live in a browser. Point it at a
// layer, mount it on a mux and pass it to the trainer as its Observer.
package mjpeg

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"net/http"

	"github.com/mattn/go-mjpeg"
	"github.com/pkg/errors"

	"github.com/gorgonia/uesmann"
	"github.com/gorgonia/uesmann/encoding/weightmap"
	"github.com/gorgonia/uesmann/mlp"
)

// Encoder renders one JPEG frame per training checkpoint and pushes it
// onto an MJPEG stream. It implements the uesmann.Observer interface
// and http.Handler; watchers that connect mid-run pick up from the
// current frame.
type Encoder struct {
	Layer        int // layer to render; 1 is the first hidden layer
	TileH, TileW int
	Zoom         int

	stream *mjpeg.Stream
}

// NewEncoder streams layer as tileH x tileW tiles zoomed by zoom.
func NewEncoder(layer, tileH, tileW, zoom int) *Encoder {
	return &Encoder{
		Layer:  layer,
		TileH:  tileH,
		TileW:  tileW,
		Zoom:   zoom,
		stream: mjpeg.NewStream(),
	}
}

func (enc *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	enc.stream.ServeHTTP(w, r)
}

// Current returns the most recently pushed JPEG frame.
func (enc *Encoder) Current() []byte { return enc.stream.Current() }

// Encode renders one checkpoint and updates the stream.
func (enc *Encoder) Encode(c uesmann.Checkpoint) error {
	lw, err := mlp.LayerWeights(c.Net, enc.Layer)
	if err != nil {
		return err
	}
	frame, err := weightmap.Frame(lw, enc.TileH, enc.TileW, enc.Zoom,
		fmt.Sprintf("iter %d cv %.5f", c.Iteration, c.CVError))
	if err != nil {
		return err
	}

	var b bytes.Buffer
	if err := jpeg.Encode(&b, frame, nil); err != nil {
		return errors.Wrap(err, "failed to encode frame")
	}
	return errors.Wrap(enc.stream.Update(b.Bytes()), "failed to update stream")
}

// Flush closes the stream, disconnecting any watchers.
func (enc *Encoder) Flush() error { return enc.stream.Close() }
