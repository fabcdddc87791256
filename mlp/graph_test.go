package mlp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDot(t *testing.T) {
	assert := assert.New(t)
	n, err := NewBPNet(2, 3, 1)
	assert.NoError(err)
	n.Seed(1)
	n.InitWeights(-1)

	dot := ToDot(n)
	assert.Contains(dot, "digraph G")
	assert.Contains(dot, "rankdir=LR")
	assert.Contains(dot, "l0n0")
	assert.Contains(dot, "l2n0")
	// 2 inputs into 3 hidden into 1 output is 9 connections
	assert.Equal(9, strings.Count(dot, "->"))
}

func TestToDotBlend(t *testing.T) {
	assert := assert.New(t)
	n, err := NewBlendNet(1, 2, 1)
	assert.NoError(err)

	dot := ToDot(n)
	assert.Contains(dot, "cluster_net0")
	assert.Contains(dot, "cluster_net1")
	assert.Contains(dot, "al0n0")
	assert.Contains(dot, "bl0n0")
	assert.Equal(8, strings.Count(dot, "->"))
}

func TestToDotHInput(t *testing.T) {
	assert := assert.New(t)
	n, err := NewHInputNet(2, 2, 1)
	assert.NoError(err)

	dot := ToDot(n)
	assert.Contains(dot, "l0n2")
	assert.Equal(1, strings.Count(dot, "modulator"))
}
