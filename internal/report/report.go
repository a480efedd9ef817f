// Package report turns a sysinfo.Snapshot into the ordered, display-ready
// SystemReport. Everything here is pure: no host queries, no I/O. All
// numeric values are formatted into human units before they enter a Field,
// so no raw machine-native numbers reach the display or export layers.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/hostscope/hostscope/internal/sysinfo"
)

// Field is one label/value pair inside a section.
type Field struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Section is a named, ordered group of fields.
type Section struct {
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Report is the full ordered collection of sections for one inspection
// pass. Built fresh per pass and never mutated afterwards.
type Report struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Sections    []Section `json:"sections" yaml:"sections"`
}

// Section names, in presentation order.
const (
	SectionSystem    = "System"
	SectionCPU       = "CPU"
	SectionMemory    = "Memory"
	SectionDisk      = "Disk"
	SectionNetwork   = "Network"
	SectionGPU       = "GPU"
	SectionProcesses = "Top Processes"
)

// NotAvailable is the placeholder for values that cannot be computed.
const NotAvailable = "N/A"

// Build converts a Snapshot into a Report. Unavailable categories still
// produce their section, with a single N/A status field, so reports are
// structurally stable across hosts.
func Build(snap *sysinfo.Snapshot) Report {
	r := Report{GeneratedAt: snap.Timestamp}

	r.Sections = append(r.Sections,
		buildSystem(snap),
		buildCPU(snap),
		buildMemory(snap),
		buildDisk(snap),
		buildNetwork(snap),
		buildGPU(snap),
		buildProcesses(snap),
	)

	return r
}

// Section returns the named section, or nil if absent.
func (r Report) Section(name string) *Section {
	for i := range r.Sections {
		if r.Sections[i].Name == name {
			return &r.Sections[i]
		}
	}
	return nil
}

// unavailable builds the placeholder section body for a failed category.
func unavailable(snap *sysinfo.Snapshot, category string) []Field {
	value := NotAvailable
	if reason, ok := snap.Errors[category]; ok && reason != "" {
		value = fmt.Sprintf("%s (%s)", NotAvailable, reason)
	}
	return []Field{{Label: "Status", Value: value}}
}

func buildSystem(snap *sysinfo.Snapshot) Section {
	s := Section{Name: SectionSystem}

	h := snap.Host
	if h == nil {
		s.Fields = unavailable(snap, sysinfo.CategoryHost)
		return s
	}

	hostname := h.Hostname
	if h.Username != "" {
		hostname = h.Username + "@" + h.Hostname
	}

	platform := strings.TrimSpace(fmt.Sprintf("%s %s", h.Platform, h.PlatformVersion))
	if platform == "" {
		platform = NotAvailable
	}
	if h.Arch != "" {
		platform += " (" + h.Arch + ")"
	}

	s.Fields = []Field{
		{Label: "Host", Value: hostname},
		{Label: "OS", Value: platform},
		{Label: "Kernel", Value: orNA(h.KernelVersion)},
		{Label: "Boot Time", Value: formatBootTime(h.BootTime)},
		{Label: "Uptime", Value: FormatDuration(h.Uptime)},
	}
	return s
}

func buildCPU(snap *sysinfo.Snapshot) Section {
	s := Section{Name: SectionCPU}

	c := snap.CPU
	if c == nil {
		s.Fields = unavailable(snap, sysinfo.CategoryCPU)
		return s
	}

	s.Fields = []Field{
		{Label: "Model", Value: orNA(c.Model)},
		{Label: "Cores", Value: formatCores(c.LogicalCores, c.PhysicalCores)},
		{Label: "Frequency", Value: FormatFrequency(c.MaxFreqMHz)},
		{Label: "Usage", Value: FormatPercent(c.UsagePercent)},
	}

	if c.HasLoadAvg {
		s.Fields = append(s.Fields, Field{
			Label: "Load Average",
			Value: fmt.Sprintf("%.2f %.2f %.2f", c.LoadAvg[0], c.LoadAvg[1], c.LoadAvg[2]),
		})
	}

	if len(c.PerCore) > 0 {
		parts := make([]string, len(c.PerCore))
		for i, pct := range c.PerCore {
			parts[i] = FormatPercent(pct)
		}
		s.Fields = append(s.Fields, Field{Label: "Per Core", Value: strings.Join(parts, " ")})
	}

	return s
}

func buildMemory(snap *sysinfo.Snapshot) Section {
	s := Section{Name: SectionMemory}

	m := snap.Memory
	if m == nil {
		s.Fields = unavailable(snap, sysinfo.CategoryMemory)
		return s
	}

	s.Fields = []Field{
		{Label: "Total", Value: FormatBytes(m.Total)},
		{Label: "Used", Value: FormatBytes(m.Used)},
		{Label: "Available", Value: FormatBytes(m.Available)},
		{Label: "Usage", Value: FormatRatio(m.Used, m.Total)},
		{Label: "Swap Total", Value: FormatBytes(m.SwapTotal)},
		{Label: "Swap Used", Value: FormatBytes(m.SwapUsed)},
		{Label: "Swap Usage", Value: FormatRatio(m.SwapUsed, m.SwapTotal)},
	}
	return s
}

func buildDisk(snap *sysinfo.Snapshot) Section {
	s := Section{Name: SectionDisk}

	d := snap.Disk
	if d == nil {
		s.Fields = unavailable(snap, sysinfo.CategoryDisk)
		return s
	}

	if len(d.Partitions) == 0 {
		s.Fields = []Field{{Label: "Partitions", Value: "none detected"}}
		return s
	}

	for _, p := range d.Partitions {
		label := p.Mountpoint
		if p.Fstype != "" {
			label = fmt.Sprintf("%s (%s)", p.Mountpoint, p.Fstype)
		}
		s.Fields = append(s.Fields, Field{
			Label: label,
			Value: fmt.Sprintf("%s / %s used (%s), %s free",
				FormatBytes(p.Used), FormatBytes(p.Total),
				FormatRatio(p.Used, p.Total), FormatBytes(p.Free)),
		})
	}
	return s
}

func buildNetwork(snap *sysinfo.Snapshot) Section {
	s := Section{Name: SectionNetwork}

	n := snap.Network
	if n == nil {
		s.Fields = unavailable(snap, sysinfo.CategoryNetwork)
		return s
	}

	// An empty interface list is valid, not an error.
	for _, iface := range n.Interfaces {
		state := "down"
		if iface.Up {
			state = "up"
		}
		value := state
		if len(iface.Addrs) > 0 {
			value += ", " + strings.Join(iface.Addrs, " ")
		}
		s.Fields = append(s.Fields, Field{Label: iface.Name, Value: value})
	}

	s.Fields = append(s.Fields,
		Field{Label: "Total Sent", Value: FormatBytes(n.BytesSent)},
		Field{Label: "Total Received", Value: FormatBytes(n.BytesRecv)},
	)
	return s
}

func buildGPU(snap *sysinfo.Snapshot) Section {
	s := Section{Name: SectionGPU}

	g := snap.GPU
	if g == nil {
		if _, failed := snap.Errors[sysinfo.CategoryGPU]; failed {
			s.Fields = unavailable(snap, sysinfo.CategoryGPU)
		} else {
			s.Fields = []Field{{Label: "GPU", Value: NotAvailable}}
		}
		return s
	}

	s.Fields = []Field{
		{Label: "Model", Value: orNA(g.Name)},
		{Label: "Usage", Value: FormatPercent(g.Percent)},
		{Label: "Memory", Value: fmt.Sprintf("%s / %s",
			FormatBytes(uint64(g.MemoryUsed)), FormatBytes(uint64(g.MemoryTotal)))},
	}
	if g.Temperature > 0 {
		s.Fields = append(s.Fields, Field{Label: "Temperature", Value: fmt.Sprintf("%d°C", g.Temperature)})
	}
	if g.PowerWatts > 0 {
		s.Fields = append(s.Fields, Field{Label: "Power", Value: fmt.Sprintf("%d W", g.PowerWatts)})
	}
	return s
}

func buildProcesses(snap *sysinfo.Snapshot) Section {
	s := Section{Name: SectionProcesses}

	if snap.Processes == nil {
		s.Fields = unavailable(snap, sysinfo.CategoryProcesses)
		return s
	}

	if len(snap.Processes) == 0 {
		s.Fields = []Field{{Label: "Processes", Value: "none visible"}}
		return s
	}

	for _, p := range snap.Processes {
		value := fmt.Sprintf("%s CPU %s MEM %s",
			p.Name, FormatPercent(p.CPUPercent), FormatPercent(p.MemPercent))
		if p.Username != "" {
			value += " (" + p.Username + ")"
		}
		s.Fields = append(s.Fields, Field{
			Label: fmt.Sprintf("PID %d", p.PID),
			Value: value,
		})
	}
	return s
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func formatBootTime(t time.Time) string {
	if t.IsZero() || t.Unix() <= 0 {
		return NotAvailable
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatCores(logical, physical int) string {
	if logical <= 0 && physical <= 0 {
		return NotAvailable
	}
	if physical > 0 && physical != logical {
		return fmt.Sprintf("%d logical / %d physical", logical, physical)
	}
	return fmt.Sprintf("%d logical", logical)
}
