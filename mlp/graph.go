package mlp

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/awalterschulze/gographviz"
)

type unitLabel struct {
	Layer     int
	Index     int
	Bias      float32
	Input     bool
	Modulator bool
}

// ToDot renders the network's topology as a Graphviz document: one
// node per unit showing its bias, one edge per connection labelled
// with its weight. The output-blending variant renders its two
// sub-engines as separate clusters. Handy for eyeballing small nets;
// anything MNIST-sized produces an unreadable thicket.
func ToDot(n Net) string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	g.SetDir(true)
	g.AddAttr("G", "rankdir", "LR")

	switch v := n.(type) {
	case *BPNet:
		dotEngine(g, "G", "", v)
	case *UESNet:
		dotEngine(g, "G", "", &v.BPNet)
	case *HInputNet:
		dotEngine(g, "G", "", &v.BPNet)
	case *BlendNet:
		g.AddSubGraph("G", "cluster_net0", map[string]string{"label": "net0"})
		g.AddSubGraph("G", "cluster_net1", map[string]string{"label": "net1"})
		dotEngine(g, "cluster_net0", "a", v.net0)
		dotEngine(g, "cluster_net1", "b", v.net1)
	}
	return g.String()
}

func dotEngine(g *gographviz.Graph, parent, prefix string, b *BPNet) {
	var buf bytes.Buffer
	for l := 0; l < len(b.sizes); l++ {
		for j := 0; j < b.sizes[l]; j++ {
			u := unitLabel{
				Layer:     l,
				Index:     j,
				Bias:      b.biases[l][j],
				Input:     l == 0,
				Modulator: l == 0 && b.hidden > 0 && j == b.sizes[0]-1,
			}
			unitTmpl.Execute(&buf, u)
			attrs := map[string]string{
				"fontname": "Monaco",
				"shape":    "none",
				"label":    buf.String(),
			}
			g.AddNode(parent, dotID(prefix, l, j), attrs)
			buf.Reset()
		}
	}
	for l := 1; l < len(b.sizes); l++ {
		for j := 0; j < b.sizes[l]; j++ {
			for k := 0; k < b.sizes[l-1]; k++ {
				attrs := map[string]string{
					"label": fmt.Sprintf(`"%.4f"`, b.weights[l][j+b.largest*k]),
				}
				g.AddEdge(dotID(prefix, l-1, k), dotID(prefix, l, j), true, attrs)
			}
		}
	}
}

func dotID(prefix string, l, j int) string {
	return fmt.Sprintf("%sl%dn%d", prefix, l, j)
}

const unitTmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>unit</TD><TD>{{.Layer}}:{{.Index}}</TD></TR>
{{if .Modulator}}<TR><TD COLSPAN="2">modulator</TD></TR>{{else if .Input}}<TR><TD COLSPAN="2">input</TD></TR>{{else}}<TR><TD>bias</TD><TD>{{printf "%.4f" .Bias}}</TD></TR>{{end}}
</TABLE>
>
`

var unitTmpl *template.Template

func init() {
	unitTmpl = template.Must(template.New("unit").Parse(unitTmplRaw))
}
