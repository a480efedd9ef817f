package sysinfo

import "time"

// Snapshot is the result of one inspection pass. Each category is a tagged
// optional: a nil pointer (or nil slice for Processes) means the category
// was unavailable, and Errors carries the reason keyed by category name.
// Category failures never abort the pass.
type Snapshot struct {
	Timestamp time.Time

	Host      *HostInfo
	CPU       *CPUInfo
	Memory    *MemoryInfo
	Disk      *DiskInfo
	Network   *NetworkInfo
	GPU       *GPUInfo
	Processes []ProcessInfo

	// Errors maps category name (CategoryHost, CategoryCPU, ...) to the
	// error message that made it unavailable.
	Errors map[string]string
}

// Category names used as keys in Snapshot.Errors.
const (
	CategoryHost      = "host"
	CategoryCPU       = "cpu"
	CategoryMemory    = "memory"
	CategoryDisk      = "disk"
	CategoryNetwork   = "network"
	CategoryGPU       = "gpu"
	CategoryProcesses = "processes"
)

// HostInfo contains platform identity and uptime.
type HostInfo struct {
	Hostname        string
	Username        string
	OS              string
	Platform        string
	PlatformVersion string
	KernelVersion   string
	Arch            string
	BootTime        time.Time
	Uptime          time.Duration
}

// CPUInfo contains processor identity and usage.
type CPUInfo struct {
	Model         string
	PhysicalCores int
	LogicalCores  int
	MaxFreqMHz    float64
	UsagePercent  float64
	PerCore       []float64
	LoadAvg       [3]float64
	HasLoadAvg    bool
}

// MemoryInfo contains virtual memory and swap usage in bytes.
type MemoryInfo struct {
	Total           uint64
	Used            uint64
	Available       uint64
	UsedPercent     float64
	SwapTotal       uint64
	SwapUsed        uint64
	SwapUsedPercent float64
}

// DiskInfo wraps the enumerated partitions so the category as a whole can
// be tagged unavailable while an empty partition list stays a valid result.
type DiskInfo struct {
	Partitions []DiskPartition
}

// DiskPartition contains usage for one mounted filesystem.
type DiskPartition struct {
	Device      string
	Mountpoint  string
	Fstype      string
	Total       uint64
	Used        uint64
	Free        uint64
	UsedPercent float64
}

// NetworkInfo contains per-interface state and aggregate I/O counters.
type NetworkInfo struct {
	Interfaces []NetworkInterface
	BytesSent  uint64
	BytesRecv  uint64
}

// NetworkInterface contains one NIC's addresses and counters.
type NetworkInterface struct {
	Name      string
	Up        bool
	Addrs     []string
	BytesSent uint64
	BytesRecv uint64
}

// GPUInfo contains GPU identity and usage, typically from nvidia-smi.
type GPUInfo struct {
	Name        string
	Percent     float64
	MemoryUsed  int64
	MemoryTotal int64
	Temperature int
	PowerWatts  int
}

// ProcessInfo contains one row of the top-processes table.
type ProcessInfo struct {
	PID        int32
	Name       string
	Username   string
	CPUPercent float64
	MemPercent float64
}
