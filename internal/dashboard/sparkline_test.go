package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSparklineLevels(t *testing.T) {
	// Fixed 0-100 scale: 0 maps to the lowest block, 100 to the highest.
	out := RenderSparkline([]float64{0, 50, 100}, 3)
	runes := []rune(out)
	assert.Len(t, runes, 3)
	assert.Equal(t, '▁', runes[0])
	assert.Equal(t, '█', runes[2])
}

func TestRenderSparklineEmpty(t *testing.T) {
	assert.Equal(t, "", RenderSparkline(nil, 10))
	assert.Equal(t, "", RenderSparkline([]float64{50}, 0))
}

func TestRenderSparklineShortDataKeepsLength(t *testing.T) {
	out := RenderSparkline([]float64{25, 75}, 10)
	assert.Len(t, []rune(out), 2)
}

func TestRenderSparklineClampsOutOfRange(t *testing.T) {
	out := RenderSparkline([]float64{-10, 150}, 2)
	runes := []rune(out)
	assert.Equal(t, '▁', runes[0])
	assert.Equal(t, '█', runes[1])
}

func TestResampleDownsamplingPreservesPeaks(t *testing.T) {
	data := []float64{10, 10, 95, 10, 10, 10}
	out := resampleData(data, 3)
	assert.Len(t, out, 3)

	// The spike survives max-bucket downsampling.
	found := false
	for _, v := range out {
		if v == 95 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResampleShortDataPassesThrough(t *testing.T) {
	data := []float64{1, 2}
	assert.Equal(t, data, resampleData(data, 5))
	assert.Nil(t, resampleData(nil, 5))
}
