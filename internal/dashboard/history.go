package dashboard

import (
	"sync"

	"github.com/hostscope/hostscope/internal/sysinfo"
)

// DefaultHistorySize is the number of samples retained per metric.
const DefaultHistorySize = 60

// History keeps recent usage samples in fixed-size ring buffers so the
// view can draw sparklines without holding full snapshots.
type History struct {
	mu  sync.RWMutex
	cpu *ringBuffer
	mem *ringBuffer
	gpu *ringBuffer
}

// NewHistory creates a history tracker holding size samples per metric.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		cpu: newRingBuffer(size),
		mem: newRingBuffer(size),
		gpu: newRingBuffer(size),
	}
}

// Push records the usage percentages from one snapshot. Unavailable
// categories leave their buffer untouched so the sparkline keeps its
// last known shape.
func (h *History) Push(snap *sysinfo.Snapshot) {
	if snap == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if snap.CPU != nil {
		h.cpu.push(snap.CPU.UsagePercent)
	}
	if snap.Memory != nil && snap.Memory.Total > 0 {
		h.mem.push(float64(snap.Memory.Used) / float64(snap.Memory.Total) * 100)
	}
	if snap.GPU != nil {
		h.gpu.push(snap.GPU.Percent)
	}
}

// CPU returns up to count CPU samples, oldest first.
func (h *History) CPU(count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cpu.getLast(count)
}

// Memory returns up to count memory samples, oldest first.
func (h *History) Memory(count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.mem.getLast(count)
}

// GPU returns up to count GPU samples, oldest first.
func (h *History) GPU(count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.gpu.getLast(count)
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{data: make([]float64, size), size: size}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order.
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
