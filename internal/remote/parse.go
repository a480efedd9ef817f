package remote

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hostscope/hostscope/internal/sysinfo"
)

// parseHost reads the host identity section: hostname, username, and the
// three uname fields, one per line.
func parseHost(section string, now time.Time, uptime time.Duration) (*sysinfo.HostInfo, error) {
	lines := strings.Split(strings.TrimSpace(section), "\n")
	if len(lines) < 5 {
		return nil, fmt.Errorf("expected 5 identity lines, got %d", len(lines))
	}

	info := &sysinfo.HostInfo{
		Hostname:      strings.TrimSpace(lines[0]),
		Username:      strings.TrimSpace(lines[1]),
		OS:            strings.ToLower(strings.TrimSpace(lines[2])),
		KernelVersion: strings.TrimSpace(lines[3]),
		Arch:          strings.TrimSpace(lines[4]),
		Uptime:        uptime,
	}
	info.Platform = info.OS
	if uptime > 0 {
		info.BootTime = now.Add(-uptime)
	}
	return info, nil
}

// parseUptime handles both forms the uptime section can take: Linux
// /proc/uptime ("12345.67 98765.43") and the Darwin kern.boottime sysctl
// ("{ sec = 1724567890, usec = 0 } Mon Aug 25 ...").
func parseUptime(section string, now time.Time) (time.Duration, error) {
	section = strings.TrimSpace(section)
	if section == "" {
		return 0, fmt.Errorf("empty uptime output")
	}

	if strings.HasPrefix(section, "{") {
		if idx := strings.Index(section, "sec ="); idx != -1 {
			rest := strings.TrimSpace(section[idx+len("sec ="):])
			end := strings.IndexAny(rest, ", }")
			if end == -1 {
				end = len(rest)
			}
			sec, err := strconv.ParseInt(strings.TrimSpace(rest[:end]), 10, 64)
			if err != nil {
				return 0, fmt.Errorf("parsing boottime seconds: %w", err)
			}
			return now.Sub(time.Unix(sec, 0)), nil
		}
		return 0, fmt.Errorf("unrecognized boottime format: %s", section)
	}

	fields := strings.Fields(section)
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parsing uptime seconds: %w", err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// parseCPUModel extracts the model string from a /proc/cpuinfo "model
// name" line or a raw brand string.
func parseCPUModel(section string) string {
	line := strings.TrimSpace(section)
	if idx := strings.Index(line, ":"); idx != -1 && strings.HasPrefix(line, "model name") {
		line = strings.TrimSpace(line[idx+1:])
	}
	return line
}

// parseCPU computes usage from the aggregate /proc/stat cpu line and
// counts cores from the per-core lines. A single read gives usage since
// boot rather than an instantaneous sample, which is good enough for a
// one-shot report.
func parseCPU(procStat, procLoadavg, model string) (*sysinfo.CPUInfo, error) {
	info := &sysinfo.CPUInfo{Model: model}

	scanner := bufio.NewScanner(strings.NewReader(procStat))
	var totalJiffies, idleJiffies int64
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "cpu") && len(line) > 3 && line[3] >= '0' && line[3] <= '9' {
			info.LogicalCores++
			continue
		}

		if strings.HasPrefix(line, "cpu ") {
			fields := strings.Fields(line)
			if len(fields) < 5 {
				return nil, fmt.Errorf("short /proc/stat cpu line: %s", line)
			}
			// Fields: user nice system idle iowait irq softirq steal ...
			// idle and iowait both count as idle time.
			for i := 1; i < len(fields); i++ {
				val, err := strconv.ParseInt(fields[i], 10, 64)
				if err != nil {
					return nil, fmt.Errorf("parsing /proc/stat field %d: %w", i, err)
				}
				totalJiffies += val
				if i == 4 || i == 5 {
					idleJiffies += val
				}
			}
		}
	}

	if totalJiffies == 0 {
		return nil, fmt.Errorf("no aggregate cpu line in /proc/stat output")
	}
	info.UsagePercent = float64(totalJiffies-idleJiffies) / float64(totalJiffies) * 100

	if loadFields := strings.Fields(strings.TrimSpace(procLoadavg)); len(loadFields) >= 3 {
		ok := true
		var load [3]float64
		for i := 0; i < 3; i++ {
			val, err := strconv.ParseFloat(loadFields[i], 64)
			if err != nil {
				ok = false
				break
			}
			load[i] = val
		}
		if ok {
			info.LoadAvg = load
			info.HasLoadAvg = true
		}
	}

	return info, nil
}

// parseMemory reads /proc/meminfo. Values are in kB.
func parseMemory(procMeminfo string) (*sysinfo.MemoryInfo, error) {
	values := map[string]uint64{}
	scanner := bufio.NewScanner(strings.NewReader(procMeminfo))
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}
		val, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			continue
		}
		values[strings.TrimSuffix(parts[0], ":")] = val * 1024
	}

	total, ok := values["MemTotal"]
	if !ok || total == 0 {
		return nil, fmt.Errorf("no MemTotal in /proc/meminfo output")
	}

	free := values["MemFree"]
	buffers := values["Buffers"]
	cached := values["Cached"]
	used := total - free - buffers - cached

	info := &sysinfo.MemoryInfo{
		Total:       total,
		Used:        used,
		Available:   values["MemAvailable"],
		UsedPercent: float64(used) / float64(total) * 100,
		SwapTotal:   values["SwapTotal"],
	}
	if info.SwapTotal > 0 {
		info.SwapUsed = info.SwapTotal - values["SwapFree"]
		info.SwapUsedPercent = float64(info.SwapUsed) / float64(info.SwapTotal) * 100
	}
	return info, nil
}

// parseDisk reads POSIX df -kP output. Pseudo filesystems without a real
// backing device are skipped.
func parseDisk(dfOutput string) (*sysinfo.DiskInfo, error) {
	info := &sysinfo.DiskInfo{}
	scanner := bufio.NewScanner(strings.NewReader(dfOutput))

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum == 1 {
			continue
		}

		// Filesystem 1024-blocks Used Available Capacity Mounted-on
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}
		device := fields[0]
		if !strings.HasPrefix(device, "/") {
			continue
		}

		total, err1 := strconv.ParseUint(fields[1], 10, 64)
		used, err2 := strconv.ParseUint(fields[2], 10, 64)
		free, err3 := strconv.ParseUint(fields[3], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}

		part := sysinfo.DiskPartition{
			Device:     device,
			Mountpoint: fields[5],
			Total:      total * 1024,
			Used:       used * 1024,
			Free:       free * 1024,
		}
		if part.Total > 0 {
			part.UsedPercent = float64(part.Used) / float64(part.Total) * 100
		}
		info.Partitions = append(info.Partitions, part)
	}

	if lineNum == 0 {
		return nil, fmt.Errorf("empty df output")
	}
	return info, nil
}

// parseNetwork reads /proc/net/dev. Interface flags and addresses are not
// in this file; an interface with traffic is reported as up.
func parseNetwork(procNetDev string) (*sysinfo.NetworkInfo, error) {
	info := &sysinfo.NetworkInfo{}
	scanner := bufio.NewScanner(strings.NewReader(procNetDev))

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum <= 2 {
			continue
		}

		parts := strings.SplitN(scanner.Text(), ":", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		fields := strings.Fields(parts[1])
		if len(fields) < 16 {
			continue
		}

		recv, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing rx bytes for %s: %w", name, err)
		}
		sent, err := strconv.ParseUint(fields[8], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing tx bytes for %s: %w", name, err)
		}

		info.Interfaces = append(info.Interfaces, sysinfo.NetworkInterface{
			Name:      name,
			Up:        recv > 0 || sent > 0,
			BytesSent: sent,
			BytesRecv: recv,
		})
		if name != "lo" {
			info.BytesSent += sent
			info.BytesRecv += recv
		}
	}

	if lineNum < 3 {
		return nil, fmt.Errorf("no interface lines in /proc/net/dev output")
	}
	return info, nil
}

// parseProcesses reads ps aux output: USER PID %CPU %MEM VSZ RSS TTY STAT
// START TIME COMMAND. The command column is reduced to its base name.
func parseProcesses(psOutput string, limit int) ([]sysinfo.ProcessInfo, error) {
	scanner := bufio.NewScanner(strings.NewReader(psOutput))
	procs := []sysinfo.ProcessInfo{}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum == 1 {
			continue
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < 11 {
			continue
		}

		pid, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			continue
		}
		cpu, _ := strconv.ParseFloat(fields[2], 64)
		mem, _ := strconv.ParseFloat(fields[3], 64)

		name := fields[10]
		// Kernel threads come bracketed; keep the brackets, strip paths.
		if !strings.HasPrefix(name, "[") {
			name = filepath.Base(name)
		}

		procs = append(procs, sysinfo.ProcessInfo{
			PID:        int32(pid),
			Name:       name,
			Username:   fields[0],
			CPUPercent: cpu,
			MemPercent: mem,
		})
		if limit > 0 && len(procs) >= limit {
			break
		}
	}

	if lineNum == 0 {
		return nil, fmt.Errorf("empty ps output")
	}
	return procs, nil
}
