package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparklineBlocks are block characters for 8-level vertical resolution,
// lowest to highest.
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline renders a single-row percentage sparkline. The scale is
// fixed 0-100 so successive frames stay comparable.
func RenderSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	resampled := resampleData(data, width)

	var result strings.Builder
	for _, val := range resampled {
		normalized := val / 100
		if normalized < 0 {
			normalized = 0
		}
		if normalized > 1 {
			normalized = 1
		}
		idx := int(normalized * float64(len(sparklineBlocks)-1))
		result.WriteRune(sparklineBlocks[idx])
	}
	return result.String()
}

// RenderColoredSparkline colors the sparkline by the severity of the most
// recent sample.
func RenderColoredSparkline(data []float64, width int) string {
	sparkline := RenderSparkline(data, width)
	if len(data) == 0 {
		return sparkline
	}
	color := MetricColor(data[len(data)-1])
	return lipgloss.NewStyle().Foreground(color).Render(sparkline)
}

// resampleData fits data into targetSize points. Downsampling takes the
// max of each bucket to preserve spikes; short data is used as-is so the
// graph fills from the left.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}
	if len(data) <= targetSize {
		return data
	}

	result := make([]float64, targetSize)
	bucketSize := float64(len(data)) / float64(targetSize)
	for i := 0; i < targetSize; i++ {
		start := int(float64(i) * bucketSize)
		end := int(float64(i+1) * bucketSize)
		if end > len(data) {
			end = len(data)
		}
		if start >= end {
			start = end - 1
		}

		maxVal := data[start]
		for j := start + 1; j < end; j++ {
			if data[j] > maxVal {
				maxVal = data[j]
			}
		}
		result[i] = maxVal
	}
	return result
}
