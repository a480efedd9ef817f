// Package remote inspects a host over SSH. One batched shell command
// gathers every category in a single exec, and the output is split on a
// separator line and parsed section by section. A section that fails to
// parse marks only its own category unavailable.
package remote

import (
	"fmt"
	"strings"
)

// Platform is the remote operating system family.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformUnknown Platform = "unknown"
)

// OutputSeparator splits the batched command output into sections.
const OutputSeparator = "---"

// Section indices in the batched command output. Both platform commands
// emit the same number of sections in the same order; a platform that
// cannot supply a section emits it empty.
const (
	sectionHost = iota
	sectionUptime
	sectionCPUModel
	sectionStat
	sectionLoadavg
	sectionMeminfo
	sectionDisk
	sectionNetDev
	sectionGPU
	sectionProcesses
	sectionCount
)

// PlatformDetectCommand returns the command used to identify the remote OS.
func PlatformDetectCommand() string {
	return "uname -s"
}

// ParsePlatform converts uname output to a Platform value.
func ParsePlatform(unameOutput string) Platform {
	switch strings.TrimSpace(unameOutput) {
	case "Linux":
		return PlatformLinux
	case "Darwin":
		return PlatformDarwin
	default:
		return PlatformUnknown
	}
}

// BuildMetricsCommand returns the single batched command that collects
// every category for the platform. Unknown platforms get the Linux
// command; its /proc sections come back empty and degrade to N/A.
func BuildMetricsCommand(platform Platform, topProcesses int) string {
	if topProcesses <= 0 {
		topProcesses = 8
	}
	// One extra line for the ps header.
	psLines := topProcesses + 1

	switch platform {
	case PlatformDarwin:
		return buildDarwinCommand(psLines)
	default:
		return buildLinuxCommand(psLines)
	}
}

func buildLinuxCommand(psLines int) string {
	parts := []string{
		`hostname; whoami; uname -s; uname -r; uname -m`,
		`cat /proc/uptime 2>/dev/null`,
		`grep -m1 'model name' /proc/cpuinfo 2>/dev/null`,
		`cat /proc/stat 2>/dev/null`,
		`cat /proc/loadavg 2>/dev/null`,
		`cat /proc/meminfo 2>/dev/null`,
		`df -kP 2>/dev/null`,
		`cat /proc/net/dev 2>/dev/null`,
		`nvidia-smi --query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu,power.draw --format=csv,noheader,nounits 2>/dev/null || true`,
		fmt.Sprintf(`ps aux --sort=-%%cpu 2>/dev/null | head -%d || ps aux 2>/dev/null | head -%d`, psLines, psLines),
	}
	return strings.Join(parts, `; echo "`+OutputSeparator+`"; `)
}

// buildDarwinCommand covers the POSIX subset. The CPU section needs
// /proc/stat, which has no portable equivalent, so the whole CPU category
// stays empty rather than fetching fragments the parser would discard.
func buildDarwinCommand(psLines int) string {
	parts := []string{
		`hostname; whoami; uname -s; uname -r; uname -m`,
		`sysctl -n kern.boottime 2>/dev/null`,
		`true`,
		`true`,
		`true`,
		`true`,
		`df -kP 2>/dev/null`,
		`true`,
		`true`,
		fmt.Sprintf(`ps aux -r 2>/dev/null | head -%d`, psLines),
	}
	return strings.Join(parts, `; echo "`+OutputSeparator+`"; `)
}

// SplitSections splits batched output into exactly sectionCount pieces,
// padding with empty strings when the tail is missing. Separator matching
// is line-based so empty sections don't collapse into their neighbors.
func SplitSections(output string) []string {
	sections := make([]string, sectionCount)
	idx := 0
	var current []string

	flush := func() {
		if idx < sectionCount {
			sections[idx] = strings.Trim(strings.Join(current, "\n"), "\n")
		}
		idx++
		current = current[:0]
	}

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == OutputSeparator {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return sections
}
