package sysinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNvidiaSMI(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    *GPUInfo
		wantNil bool
		wantErr bool
	}{
		{
			name:   "full output",
			output: "NVIDIA GeForce RTX 3080, 45, 2048, 10240, 65, 220",
			want: &GPUInfo{
				Name:        "NVIDIA GeForce RTX 3080",
				Percent:     45,
				MemoryUsed:  2048 * 1024 * 1024,
				MemoryTotal: 10240 * 1024 * 1024,
				Temperature: 65,
				PowerWatts:  220,
			},
		},
		{
			name:   "fractional power draw",
			output: "Tesla T4, 12, 512, 15360, 41, 27.54",
			want: &GPUInfo{
				Name:        "Tesla T4",
				Percent:     12,
				MemoryUsed:  512 * 1024 * 1024,
				MemoryTotal: 15360 * 1024 * 1024,
				Temperature: 41,
				PowerWatts:  27,
			},
		},
		{
			name:   "not-applicable placeholders",
			output: "NVIDIA GeForce GT 710, [N/A], 128, 2048, [N/A], [N/A]",
			want: &GPUInfo{
				Name:        "NVIDIA GeForce GT 710",
				MemoryUsed:  128 * 1024 * 1024,
				MemoryTotal: 2048 * 1024 * 1024,
			},
		},
		{
			name:   "multi gpu keeps first device",
			output: "GPU A, 10, 100, 1000, 50, 60\nGPU B, 90, 900, 1000, 70, 80",
			want: &GPUInfo{
				Name:        "GPU A",
				Percent:     10,
				MemoryUsed:  100 * 1024 * 1024,
				MemoryTotal: 1000 * 1024 * 1024,
				Temperature: 50,
				PowerWatts:  60,
			},
		},
		{name: "empty output", output: "", wantNil: true},
		{name: "whitespace only", output: "  \n ", wantNil: true},
		{name: "no devices banner", output: "No devices were found", wantNil: true},
		{name: "command not found", output: "bash: nvidia-smi: command not found", wantNil: true},
		{name: "driver error banner", output: "NVIDIA-SMI has failed because it couldn't communicate with the NVIDIA driver", wantNil: true},
		{name: "truncated csv", output: "GeForce, 45, 2048", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNvidiaSMI(tt.output)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
