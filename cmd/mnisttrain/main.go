// Command mnisttrain trains a network on an IDX-format image corpus
// (classically the MNIST digits), reports its accuracy and optionally
// renders the first hidden layer's weights: a PNG of the trained
// network, an animated GIF of training, or a live MJPEG stream while
// the run is going.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/chewxy/math32"

	"github.com/gorgonia/uesmann"
	"github.com/gorgonia/uesmann/encoding/mjpeg"
	"github.com/gorgonia/uesmann/encoding/weightmap"
	"github.com/gorgonia/uesmann/example"
	"github.com/gorgonia/uesmann/mlp"
	"github.com/gorgonia/uesmann/mnist"

	_ "net/http/pprof"
)

var (
	labelFile = flag.String("labels", "", "IDX label file to train on (required)")
	imageFile = flag.String("images", "", "IDX image file to train on (required)")
	start     = flag.Int("start", 0, "first example to load")
	count     = flag.Int("count", 0, "examples to load; 0 loads the whole file")

	testLabelFile = flag.String("testlabels", "", "IDX label file to measure accuracy on")
	testImageFile = flag.String("testimages", "", "IDX image file to measure accuracy on")

	netType = flag.String("type", "plain", "network type: plain, uesmann, hinput or outputblending")
	hidden  = flag.Int("hidden", 64, "hidden nodes")

	eta        = flag.Float64("eta", 0.1, "learning rate")
	iters      = flag.Int("iters", 600000, "single-example training iterations")
	cvSlices   = flag.Int("cvslices", 5, "held-out slices; 0 disables cross-validation")
	cvPerSlice = flag.Int("cvper", 200, "examples per held-out slice")
	cvInterval = flag.Int("cvinterval", 10000, "iterations between held-out evaluations")
	seed       = flag.Int64("seed", 0, "random seed")

	outFile   = flag.String("o", "", "save the trained network here")
	statsFile = flag.String("stats", "", "dump the error curve here as CSV")
	pngFile   = flag.String("png", "", "render the trained first layer here as PNG")
	gifFile   = flag.String("gif", "", "render the training run here as animated GIF")
	zoom      = flag.Int("zoom", 2, "weight map magnification")
	httpAddr  = flag.String("http", "", "serve a live weight map on this address (and pprof)")
)

func main() {
	flag.Parse()
	if *labelFile == "" || *imageFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	typ, err := mlp.ParseNetType(*netType)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	d, err := mnist.Load(*labelFile, *imageFile, *start, *count)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.Printf("loaded %d %dx%d images, labels 0-%d", d.Count(), d.Rows(), d.Cols(), d.MaxLabel())
	set := d.ExampleSet()

	n, err := mlp.FromExamples(typ, set, *hidden)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	params := uesmann.DefaultSGDParams(float32(*eta), *iters)
	params.CVSlices = *cvSlices
	params.CVPerSlice = *cvPerSlice
	if *cvSlices == 0 {
		params.CVPerSlice = 0
	}
	params.CVInterval = *cvInterval
	params.StoreBest = true
	params.SelectBestWithCV = *cvSlices > 0
	params.Seed = *seed

	// weight tiles are image-shaped, which needs an input layer that is
	// exactly one image: hinput carries an extra modulator column and
	// outputblending has no single engine to render
	renderable := typ == mlp.Plain || typ == mlp.UESMANN

	var obs tee
	var stats *uesmann.Statistics
	if *statsFile != "" {
		stats = uesmann.NewStatistics(*netType)
		obs = append(obs, stats)
	}
	var anim *weightmap.Encoder
	if *gifFile != "" {
		if !renderable {
			log.Fatalf("cannot render image-shaped weight tiles for a %v network", typ)
		}
		f, err := os.Create(*gifFile)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		defer f.Close()
		anim = weightmap.NewGifEncoder(f, 1, d.Rows(), d.Cols(), *zoom)
		obs = append(obs, anim)
	}
	if *httpAddr != "" {
		if !renderable {
			log.Fatalf("cannot render image-shaped weight tiles for a %v network", typ)
		}
		live := mjpeg.NewEncoder(1, d.Rows(), d.Cols(), *zoom)
		obs = append(obs, live)
		http.Handle("/live", live)
		go func() {
			log.Printf("live weight map on http://%s/live", *httpAddr)
			if err := http.ListenAndServe(*httpAddr, nil); err != nil {
				log.Printf("http server: %v", err)
			}
		}()
	}
	if len(obs) > 0 {
		params.Observer = obs
	}

	mse, err := uesmann.TrainSGD(n, set, params)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.Printf("trained %v net: final mse %.6f", typ, mse)

	if anim != nil {
		if err := anim.Flush(); err != nil {
			log.Fatalf("%+v", err)
		}
	}
	if stats != nil {
		if err := stats.Dump(*statsFile); err != nil {
			log.Fatalf("%+v", err)
		}
	}

	if *testLabelFile != "" && *testImageFile != "" {
		td, err := mnist.Load(*testLabelFile, *testImageFile, 0, 0)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		fmt.Printf("test accuracy: %.4f\n", accuracy(n, td.ExampleSet()))
	} else {
		fmt.Printf("training accuracy: %.4f\n", accuracy(n, set))
	}

	if *outFile != "" {
		if err := mlp.WriteFile(*outFile, n); err != nil {
			log.Fatalf("%+v", err)
		}
		log.Printf("saved to %s", *outFile)
	}
	if *pngFile != "" {
		if !renderable {
			log.Fatalf("cannot render image-shaped weight tiles for a %v network", typ)
		}
		if err := writeWeightMap(n, d, *pngFile, mse); err != nil {
			log.Fatalf("%+v", err)
		}
		log.Printf("weight map in %s", *pngFile)
	}
}

// accuracy reports the fraction of examples whose strongest output
// matches their strongest target.
func accuracy(n mlp.Net, s *example.Set) float64 {
	correct := 0
	for i := 0; i < s.Count(); i++ {
		n.SetH(s.H(i))
		if argmax(n.Run(s.Inputs(i))) == argmax(s.Outputs(i)) {
			correct++
		}
	}
	return float64(correct) / float64(s.Count())
}

func argmax(xs []float32) int {
	best, bestV := 0, math32.Inf(-1)
	for i, x := range xs {
		if x > bestV {
			best, bestV = i, x
		}
	}
	return best
}

func writeWeightMap(n mlp.Net, d *mnist.Data, path string, mse float32) error {
	lw, err := mlp.LayerWeights(n, 1)
	if err != nil {
		return err
	}
	frame, err := weightmap.Frame(lw, d.Rows(), d.Cols(), *zoom, fmt.Sprintf("final mse %.5f", mse))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return weightmap.WritePNG(f, frame)
}

// tee fans one checkpoint out to several observers.
type tee []uesmann.Observer

func (t tee) Encode(c uesmann.Checkpoint) error {
	for _, o := range t {
		if err := o.Encode(c); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) Flush() error {
	for _, o := range t {
		if err := o.Flush(); err != nil {
			return err
		}
	}
	return nil
}
