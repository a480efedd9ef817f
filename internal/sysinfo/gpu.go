package sysinfo

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// gpuProbeTimeout bounds the nvidia-smi subprocess so a wedged driver
// can't stall a collection pass.
const gpuProbeTimeout = 3 * time.Second

// nvidiaSMIArgs asks for exactly the fields ParseNvidiaSMI expects,
// comma-separated, one line per GPU.
var nvidiaSMIArgs = []string{
	"--query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu,power.draw",
	"--format=csv,noheader,nounits",
}

// ProbeGPU runs nvidia-smi and parses its output. A missing binary or a
// host with no GPU returns (nil, nil): absence is a normal state, not a
// collection failure.
func ProbeGPU(ctx context.Context) (*GPUInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, gpuProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "nvidia-smi", nvidiaSMIArgs...).Output()
	if err != nil {
		// exec.ErrNotFound, non-zero exit (no devices), or timeout all
		// mean the same thing to the report: no GPU to show.
		return nil, nil
	}

	return ParseNvidiaSMI(string(out))
}

// ParseNvidiaSMI parses one line of nvidia-smi CSV output, as produced by:
//
//	nvidia-smi --query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu,power.draw --format=csv,noheader,nounits
//
// Returns (nil, nil) when the output indicates no GPU is present.
// Multi-GPU hosts report the first device.
func ParseNvidiaSMI(output string) (*GPUInfo, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, nil
	}

	// Common failure banners printed instead of CSV.
	lower := strings.ToLower(output)
	if strings.Contains(lower, "no devices") ||
		strings.Contains(lower, "not found") ||
		strings.Contains(lower, "failed") ||
		strings.Contains(lower, "error") ||
		strings.Contains(lower, "command not found") {
		return nil, nil
	}

	if idx := strings.IndexByte(output, '\n'); idx >= 0 {
		output = output[:idx]
	}

	// Example: "NVIDIA GeForce RTX 3080, 45, 2048, 10240, 65, 220"
	fields := strings.Split(output, ",")
	if len(fields) < 6 {
		return nil, fmt.Errorf("nvidia-smi output has insufficient fields: expected 6, got %d", len(fields))
	}

	info := &GPUInfo{Name: strings.TrimSpace(fields[0])}

	if v, ok := smiFloat(fields[1]); ok {
		info.Percent = v
	}
	if v, ok := smiInt(fields[2]); ok {
		info.MemoryUsed = v * 1024 * 1024 // MiB to bytes
	}
	if v, ok := smiInt(fields[3]); ok {
		info.MemoryTotal = v * 1024 * 1024
	}
	if v, ok := smiInt(fields[4]); ok {
		info.Temperature = int(v)
	}
	if v, ok := smiFloat(fields[5]); ok {
		info.PowerWatts = int(v)
	}

	return info, nil
}

// smiFloat parses a numeric nvidia-smi field, tolerating the "[N/A]"
// placeholder the tool emits for unsupported queries.
func smiFloat(field string) (float64, bool) {
	s := strings.TrimSpace(field)
	if s == "" || s == "[N/A]" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func smiInt(field string) (int64, bool) {
	s := strings.TrimSpace(field)
	if s == "" || s == "[N/A]" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
