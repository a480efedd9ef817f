package dashboard

import (
	"testing"

	"github.com/hostscope/hostscope/internal/sysinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapWithUsage(cpu float64, memUsed, memTotal uint64) *sysinfo.Snapshot {
	return &sysinfo.Snapshot{
		CPU:    &sysinfo.CPUInfo{UsagePercent: cpu},
		Memory: &sysinfo.MemoryInfo{Used: memUsed, Total: memTotal},
		Errors: map[string]string{},
	}
}

func TestHistoryPushAndRead(t *testing.T) {
	h := NewHistory(4)
	h.Push(snapWithUsage(10, 1, 4))
	h.Push(snapWithUsage(20, 2, 4))
	h.Push(snapWithUsage(30, 3, 4))

	assert.Equal(t, []float64{10, 20, 30}, h.CPU(10))
	assert.Equal(t, []float64{25, 50, 75}, h.Memory(10))
	assert.Nil(t, h.GPU(10))
}

func TestHistoryRingWrapsOldestOut(t *testing.T) {
	h := NewHistory(3)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		h.Push(snapWithUsage(v, 0, 0))
	}
	assert.Equal(t, []float64{3, 4, 5}, h.CPU(10))
	assert.Equal(t, []float64{4, 5}, h.CPU(2))
}

func TestHistorySkipsUnavailableCategories(t *testing.T) {
	h := NewHistory(4)
	h.Push(snapWithUsage(50, 2, 4))
	h.Push(&sysinfo.Snapshot{Errors: map[string]string{}})

	// The failed pass leaves both buffers untouched.
	assert.Equal(t, []float64{50}, h.CPU(10))
	assert.Equal(t, []float64{50}, h.Memory(10))
}

func TestHistoryZeroMemTotalNotRecorded(t *testing.T) {
	h := NewHistory(4)
	h.Push(snapWithUsage(50, 10, 0))
	assert.Nil(t, h.Memory(10))
}

func TestHistoryNilSnapshot(t *testing.T) {
	h := NewHistory(4)
	require.NotPanics(t, func() { h.Push(nil) })
}
