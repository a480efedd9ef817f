// Package sysinfo collects host metrics through gopsutil and normalizes
// them into a Snapshot. Every category is queried independently: a failing
// category is recorded in Snapshot.Errors and the rest of the pass
// continues.
package sysinfo

import (
	"context"
	"os/user"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/hostscope/hostscope/internal/logger"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// cpuSampleWindow is the interval cpu.Percent blocks for when sampling
// usage. Kept short so a refresh stays responsive.
const cpuSampleWindow = 200 * time.Millisecond

// Options control what a Collector gathers.
type Options struct {
	// TopProcesses is how many processes to keep, sorted by CPU descending.
	TopProcesses int
	// Mounts filters disk partitions to these mountpoints. Empty = all.
	Mounts []string
	// GPU toggles the nvidia-smi probe.
	GPU bool
}

// Collector gathers a Snapshot from the local host. The probe fields
// default to gopsutil-backed implementations; tests replace them with
// fakes to exercise isolation and formatting without touching the host.
type Collector struct {
	opts Options
	log  logger.Logger

	hostProbe    func(ctx context.Context) (*HostInfo, error)
	cpuProbe     func(ctx context.Context) (*CPUInfo, error)
	memoryProbe  func(ctx context.Context) (*MemoryInfo, error)
	diskProbe    func(ctx context.Context, mounts []string) (*DiskInfo, error)
	networkProbe func(ctx context.Context) (*NetworkInfo, error)
	gpuProbe     func(ctx context.Context) (*GPUInfo, error)
	processProbe func(ctx context.Context, limit int) ([]ProcessInfo, error)
}

// NewCollector creates a local collector with gopsutil-backed probes.
func NewCollector(opts Options, log logger.Logger) *Collector {
	if log == nil {
		log = logger.Noop()
	}
	return &Collector{
		opts:         opts,
		log:          log,
		hostProbe:    probeHost,
		cpuProbe:     probeCPU,
		memoryProbe:  probeMemory,
		diskProbe:    probeDisk,
		networkProbe: probeNetwork,
		gpuProbe:     ProbeGPU,
		processProbe: probeProcesses,
	}
}

// Collect runs one inspection pass. It always returns a Snapshot; per
// category failures are recorded in Snapshot.Errors instead of aborting.
func (c *Collector) Collect(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		Timestamp: time.Now(),
		Errors:    make(map[string]string),
	}

	if info, err := c.hostProbe(ctx); err != nil {
		c.fail(snap, CategoryHost, err)
	} else {
		snap.Host = info
	}

	if info, err := c.cpuProbe(ctx); err != nil {
		c.fail(snap, CategoryCPU, err)
	} else {
		snap.CPU = info
	}

	if info, err := c.memoryProbe(ctx); err != nil {
		c.fail(snap, CategoryMemory, err)
	} else {
		snap.Memory = info
	}

	if info, err := c.diskProbe(ctx, c.opts.Mounts); err != nil {
		c.fail(snap, CategoryDisk, err)
	} else {
		snap.Disk = info
	}

	if info, err := c.networkProbe(ctx); err != nil {
		c.fail(snap, CategoryNetwork, err)
	} else {
		snap.Network = info
	}

	if c.opts.GPU {
		if info, err := c.gpuProbe(ctx); err != nil {
			c.fail(snap, CategoryGPU, err)
		} else {
			// info may be nil: no GPU present is not an error.
			snap.GPU = info
		}
	}

	limit := c.opts.TopProcesses
	if limit <= 0 {
		limit = 8
	}
	if procs, err := c.processProbe(ctx, limit); err != nil {
		c.fail(snap, CategoryProcesses, err)
	} else {
		snap.Processes = procs
	}

	return snap
}

func (c *Collector) fail(snap *Snapshot, category string, err error) {
	c.log.Warn("%s collection failed: %v", category, err)
	snap.Errors[category] = err.Error()
}

func probeHost(ctx context.Context) (*HostInfo, error) {
	stat, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}

	info := &HostInfo{
		Hostname:        stat.Hostname,
		OS:              stat.OS,
		Platform:        stat.Platform,
		PlatformVersion: stat.PlatformVersion,
		KernelVersion:   stat.KernelVersion,
		Arch:            stat.KernelArch,
		BootTime:        time.Unix(int64(stat.BootTime), 0),
		Uptime:          time.Duration(stat.Uptime) * time.Second,
	}

	if u, err := user.Current(); err == nil {
		info.Username = u.Username
	}

	return info, nil
}

func probeCPU(ctx context.Context) (*CPUInfo, error) {
	stats, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}

	info := &CPUInfo{}
	if len(stats) > 0 {
		info.Model = stats[0].ModelName
		info.MaxFreqMHz = stats[0].Mhz
	}

	if logical, err := cpu.CountsWithContext(ctx, true); err == nil {
		info.LogicalCores = logical
	}
	if physical, err := cpu.CountsWithContext(ctx, false); err == nil {
		info.PhysicalCores = physical
	}

	// Total first, then per-core. Both sample over cpuSampleWindow.
	if total, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false); err == nil && len(total) > 0 {
		info.UsagePercent = total[0]
	}
	if perCore, err := cpu.PercentWithContext(ctx, cpuSampleWindow, true); err == nil {
		info.PerCore = perCore
	}

	// Load averages are a bonus; not every platform reports them.
	if avg, err := load.AvgWithContext(ctx); err == nil && avg != nil {
		info.LoadAvg = [3]float64{avg.Load1, avg.Load5, avg.Load15}
		info.HasLoadAvg = true
	}

	return info, nil
}

func probeMemory(ctx context.Context) (*MemoryInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}

	info := &MemoryInfo{
		Total:       vm.Total,
		Used:        vm.Used,
		Available:   vm.Available,
		UsedPercent: vm.UsedPercent,
	}

	// Swap failing is not worth losing the memory section over.
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		info.SwapTotal = swap.Total
		info.SwapUsed = swap.Used
		info.SwapUsedPercent = swap.UsedPercent
	}

	return info, nil
}

func probeDisk(ctx context.Context, mounts []string) (*DiskInfo, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(mounts))
	for _, m := range mounts {
		wanted[m] = true
	}

	info := &DiskInfo{}
	for _, p := range parts {
		if len(wanted) > 0 && !wanted[p.Mountpoint] {
			continue
		}

		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			// Unreadable mounts (permissions, stale NFS) are skipped, not fatal.
			continue
		}

		info.Partitions = append(info.Partitions, DiskPartition{
			Device:      p.Device,
			Mountpoint:  p.Mountpoint,
			Fstype:      p.Fstype,
			Total:       usage.Total,
			Used:        usage.Used,
			Free:        usage.Free,
			UsedPercent: usage.UsedPercent,
		})
	}

	// Some containerized hosts enumerate nothing; fall back to the root
	// filesystem so the disk section isn't empty for no visible reason.
	if len(info.Partitions) == 0 && len(wanted) == 0 {
		if usage, err := disk.UsageWithContext(ctx, defaultDiskPath()); err == nil {
			info.Partitions = append(info.Partitions, DiskPartition{
				Mountpoint:  defaultDiskPath(),
				Total:       usage.Total,
				Used:        usage.Used,
				Free:        usage.Free,
				UsedPercent: usage.UsedPercent,
			})
		}
	}

	return info, nil
}

func probeNetwork(ctx context.Context) (*NetworkInfo, error) {
	ifaces, err := net.InterfacesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	counters := make(map[string]net.IOCountersStat)
	if perNIC, err := net.IOCountersWithContext(ctx, true); err == nil {
		for _, c := range perNIC {
			counters[c.Name] = c
		}
	}

	info := &NetworkInfo{}
	for _, iface := range ifaces {
		ni := NetworkInterface{Name: iface.Name}

		for _, flag := range iface.Flags {
			if strings.EqualFold(flag, "up") {
				ni.Up = true
				break
			}
		}

		for _, addr := range iface.Addrs {
			ni.Addrs = append(ni.Addrs, addr.Addr)
		}

		if c, ok := counters[iface.Name]; ok {
			ni.BytesSent = c.BytesSent
			ni.BytesRecv = c.BytesRecv
		}

		info.Interfaces = append(info.Interfaces, ni)
	}

	if totals, err := net.IOCountersWithContext(ctx, false); err == nil && len(totals) > 0 {
		info.BytesSent = totals[0].BytesSent
		info.BytesRecv = totals[0].BytesRecv
	}

	return info, nil
}

func probeProcesses(ctx context.Context, limit int) ([]ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		row := ProcessInfo{PID: p.Pid}

		// Individual processes can vanish mid-enumeration; skip quietly.
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		row.Name = name

		if cpuPct, err := p.CPUPercentWithContext(ctx); err == nil {
			row.CPUPercent = cpuPct
		}
		if memPct, err := p.MemoryPercentWithContext(ctx); err == nil {
			row.MemPercent = float64(memPct)
		}
		if username, err := p.UsernameWithContext(ctx); err == nil {
			row.Username = username
		}

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CPUPercent != rows[j].CPUPercent {
			return rows[i].CPUPercent > rows[j].CPUPercent
		}
		return rows[i].MemPercent > rows[j].MemPercent
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// defaultDiskPath is the fallback filesystem when partition enumeration
// comes back empty.
func defaultDiskPath() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}
