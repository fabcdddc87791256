// Command boolmap sweeps pairings of two-input boolean functions: for
// each pairing it trains a population of modulated networks to compute
// the first function at h=0 and the second at h=1, then prints the
// fraction of networks that switch correctly as a CSV table, one row
// per pairing.
package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"

	"github.com/gorgonia/uesmann"
	"github.com/gorgonia/uesmann/boolex"
	"github.com/gorgonia/uesmann/example"
	"github.com/gorgonia/uesmann/mlp"
)

var (
	netType  = flag.String("type", "uesmann", "network type: uesmann, hinput or outputblending")
	hidden   = flag.Int("hidden", 2, "hidden nodes")
	eta      = flag.Float64("eta", 0.1, "learning rate")
	epochs   = flag.Int("epochs", 75000, "epochs of 8 examples per network")
	attempts = flag.Int("attempts", 1000, "networks trained per pairing")
	workers  = flag.Int("workers", runtime.NumCPU(), "networks trained in parallel")
	f1Flag   = flag.Int("f1", -1, "h=0 function index 0-15; -1 sweeps all sixteen")
	f2Flag   = flag.Int("f2", -1, "h=1 function index 0-15; -1 sweeps all sixteen")
	outFile  = flag.String("o", "", "write the CSV here instead of stdout")
)

func main() {
	flag.Parse()

	typ, err := mlp.ParseNetType(*netType)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if typ == mlp.Plain {
		log.Fatal("a plain network cannot switch functions; pick a modulated type")
	}
	if *f1Flag < -1 || *f1Flag > 15 || *f2Flag < -1 || *f2Flag > 15 {
		log.Fatalf("function indices must be 0-15, got %d and %d", *f1Flag, *f2Flag)
	}

	var out io.Writer = os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	defer w.Flush()
	if err := w.Write([]string{"a", "b", "correct"}); err != nil {
		log.Fatalf("%+v", err)
	}

	for _, f1 := range sweep(*f1Flag) {
		for _, f2 := range sweep(*f2Flag) {
			frac := doPairing(typ, f1, f2)
			log.Printf("%q -> %q: %.3f", boolex.Names[f1], boolex.Names[f2], frac)
			err := w.Write([]string{
				strconv.Itoa(f1),
				strconv.Itoa(f2),
				strconv.FormatFloat(frac, 'f', 6, 64),
			})
			if err != nil {
				log.Fatalf("%+v", err)
			}
			w.Flush()
		}
	}
}

// sweep expands -1 to all sixteen function indices.
func sweep(f int) []int {
	if f >= 0 {
		return []int{f}
	}
	all := make([]int, 16)
	for i := range all {
		all[i] = i
	}
	return all
}

// doPairing trains the configured number of networks on the f1/f2
// pairing and returns the fraction that switch correctly. Stride
// shuffling keeps each input case's h=0/h=1 pair together, so training
// alternates between the two modulator levels.
func doPairing(typ mlp.NetType, f1, f2 int) float64 {
	e := boolex.Pairing(f1, f2)

	params := uesmann.DefaultSGDParams(float32(*eta), *epochs*e.Count())
	params.Shuffle = example.ShuffleStride
	params.StoreBest = true

	build := func(seed int64) (mlp.Net, error) {
		return mlp.FromExamples(typ, e, *hidden)
	}
	results := uesmann.Attempts(*attempts, *workers, build, e, params)

	good := 0
	for _, r := range results {
		if r.Err != nil {
			log.Fatalf("attempt with seed %d failed: %+v", r.Seed, r.Err)
		}
		if switches(r.Net, f1, f2) {
			good++
		}
	}
	return float64(good) / float64(len(results))
}

// switches reports whether n lands on the right side of 0.5 for every
// input case of f1 at h=0 and of f2 at h=1.
func switches(n mlp.Net, f1, f2 int) bool {
	in := make([]float32, 2)
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			in[0], in[1] = float32(a), float32(b)
			n.SetH(0)
			if (n.Run(in)[0] > 0.5) != boolex.Func(f1, a != 0, b != 0) {
				return false
			}
			n.SetH(1)
			if (n.Run(in)[0] > 0.5) != boolex.Func(f2, a != 0, b != 0) {
				return false
			}
		}
	}
	return true
}
