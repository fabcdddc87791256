// Package mnist loads the classic IDX-format handwritten-digit corpus
// (and anything else in the same format) and converts it into example
// sets.
package mnist

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/gorgonia/uesmann/example"
)

const (
	labelMagic = 2049
	imageMagic = 2051

	maxCount = 100000
	maxDim   = 128
)

// Data is a loaded label/image pair: a stack of same-sized byte images
// and one label byte per image.
type Data struct {
	rows, cols int
	labels     []byte
	imgs       []byte
	maxLabel   byte
}

// Load reads the label and image files at the given paths, starting at
// image number start; count 0 means the whole file.
func Load(labelPath, imgPath string, start, count int) (*Data, error) {
	lf, err := os.Open(labelPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer lf.Close()
	f, err := os.Open(imgPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	return Read(lf, f, start, count)
}

// Read decodes IDX-encoded labels and images. The two streams must
// agree on their example count; dimensions and counts outside sane
// bounds are rejected rather than trusted.
func Read(labelR, imgR io.Reader, start, count int) (*Data, error) {
	var magic, ct uint32
	if err := binary.Read(labelR, binary.BigEndian, &magic); err != nil {
		return nil, errors.Wrap(err, "failed to read label magic")
	}
	if magic != labelMagic {
		return nil, errors.Errorf("incorrect magic number %#x in label data", magic)
	}
	if err := binary.Read(labelR, binary.BigEndian, &ct); err != nil {
		return nil, errors.Wrap(err, "failed to read label count")
	}
	if ct > maxCount {
		return nil, errors.Errorf("unfeasibly large count %d in label data", ct)
	}
	if count == 0 {
		count = int(ct)
	}
	if start < 0 || count < 0 || start+count > int(ct) {
		return nil, errors.Errorf("range [%d, %d) not available, %d examples in data", start, start+count, ct)
	}
	if err := skip(labelR, int64(start)); err != nil {
		return nil, errors.Wrap(err, "failed to skip labels")
	}
	labels := make([]byte, count)
	if _, err := io.ReadFull(labelR, labels); err != nil {
		return nil, errors.Wrap(err, "not enough labels")
	}

	if err := binary.Read(imgR, binary.BigEndian, &magic); err != nil {
		return nil, errors.Wrap(err, "failed to read image magic")
	}
	if magic != imageMagic {
		return nil, errors.Errorf("incorrect magic number %#x in image data", magic)
	}
	var ct2, rows, cols uint32
	if err := binary.Read(imgR, binary.BigEndian, &ct2); err != nil {
		return nil, errors.Wrap(err, "failed to read image count")
	}
	if ct2 != ct {
		return nil, errors.Errorf("image count %d does not agree with label count %d", ct2, ct)
	}
	if err := binary.Read(imgR, binary.BigEndian, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to read image rows")
	}
	if err := binary.Read(imgR, binary.BigEndian, &cols); err != nil {
		return nil, errors.Wrap(err, "failed to read image columns")
	}
	if rows > maxDim || cols > maxDim {
		return nil, errors.Errorf("bad dimensions %dx%d in image data", rows, cols)
	}
	sz := int(rows) * int(cols)
	if err := skip(imgR, int64(start)*int64(sz)); err != nil {
		return nil, errors.Wrap(err, "failed to skip images")
	}
	imgs := make([]byte, count*sz)
	if _, err := io.ReadFull(imgR, imgs); err != nil {
		return nil, errors.Wrap(err, "not enough pixels")
	}

	d := &Data{
		rows:   int(rows),
		cols:   int(cols),
		labels: labels,
		imgs:   imgs,
	}
	for _, l := range labels {
		if l > d.maxLabel {
			d.maxLabel = l
		}
	}
	return d, nil
}

func skip(r io.Reader, n int64) error {
	_, err := io.CopyN(io.Discard, r, n)
	return err
}

// Count returns the number of loaded examples.
func (d *Data) Count() int { return len(d.labels) }

// Rows returns the number of rows in each image.
func (d *Data) Rows() int { return d.rows }

// Cols returns the number of columns in each image.
func (d *Data) Cols() int { return d.cols }

// Label returns the label of example i.
func (d *Data) Label(i int) byte { return d.labels[i] }

// MaxLabel returns the largest label among the loaded examples (9 in
// the original data, but different in other corpora, and in partial
// loads that miss the largest label).
func (d *Data) MaxLabel() byte { return d.maxLabel }

// Image returns the raw pixels of example i, row-major.
func (d *Data) Image(i int) []byte {
	sz := d.rows * d.cols
	return d.imgs[i*sz : (i+1)*sz]
}

// Pixel returns one pixel of example i; x addresses the column and y
// the row.
func (d *Data) Pixel(i, x, y int) byte {
	return d.Image(i)[x+y*d.cols]
}

// Dump writes example i to w as ASCII art, darker pixels as higher
// digits.
func (d *Data) Dump(w io.Writer, i int) {
	if i >= d.Count() {
		fmt.Fprintln(w, "Out of range")
		return
	}
	fmt.Fprintf(w, "Label: %d\n", d.Label(i))
	img := d.Image(i)
	line := make([]byte, d.cols)
	for r := 0; r < d.rows; r++ {
		for c := 0; c < d.cols; c++ {
			q := img[r*d.cols+c] / 25
			if q > 9 {
				q = 9
			}
			if q == 0 {
				line[c] = '.'
			} else {
				line[c] = '0' + q
			}
		}
		fmt.Fprintf(w, "%s\n", line)
	}
}

// ExampleSet converts the corpus into a training set: pixel bytes
// scaled to [0, 1], one-hot targets sized MaxLabel()+1, every
// modulator 0.
func (d *Data) ExampleSet() *example.Set {
	s := example.New(d.Count(), d.rows*d.cols, int(d.maxLabel)+1, 1)
	for i := 0; i < d.Count(); i++ {
		ins := s.Inputs(i)
		for j, p := range d.Image(i) {
			ins[j] = float32(p) / 255
		}
		s.Outputs(i)[int(d.Label(i))] = 1
		s.SetH(i, 0)
	}
	return s
}

// Images returns the image stack as a count x rows*cols tensor of
// [0, 1] values.
func (d *Data) Images() *tensor.Dense {
	backing := make([]float32, len(d.imgs))
	for i, p := range d.imgs {
		backing[i] = float32(p) / 255
	}
	return tensor.New(tensor.WithShape(d.Count(), d.rows*d.cols), tensor.WithBacking(backing))
}
