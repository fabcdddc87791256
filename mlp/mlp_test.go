package mlp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gorgonia/uesmann/example"
)

var (
	_ Net = &BPNet{}
	_ Net = &UESNet{}
	_ Net = &HInputNet{}
	_ Net = &BlendNet{}
)

func TestFactory(t *testing.T) {
	assert := assert.New(t)
	cases := []struct {
		typ  NetType
		name string
	}{
		{Plain, "plain"},
		{OutputBlending, "outputblending"},
		{HInput, "hinput"},
		{UESMANN, "uesmann"},
	}
	for _, c := range cases {
		n, err := New(c.typ, 2, 3, 1)
		assert.NoError(err)
		assert.Equal(c.typ, n.Type())
		assert.Equal(c.name, c.typ.String())

		parsed, err := ParseNetType(c.name)
		assert.NoError(err)
		assert.Equal(c.typ, parsed)
	}

	_, err := New(NetType(42), 2, 1)
	assert.Error(err)
	_, err = ParseNetType("perceptron")
	assert.Error(err)
	assert.Equal("unknown", NetType(42).String())
}

func TestFromExamples(t *testing.T) {
	assert := assert.New(t)
	s := example.New(3, 5, 2, 1)
	n, err := FromExamples(UESMANN, s, 7)
	assert.NoError(err)
	assert.Equal(3, n.LayerCount())
	assert.Equal(5, n.LayerSize(0))
	assert.Equal(7, n.LayerSize(1))
	assert.Equal(2, n.LayerSize(2))
}
