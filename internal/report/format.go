package report

import (
	"fmt"
	"time"
)

// byteUnits in ascending magnitude. Binary steps (1024), decimal labels,
// matching what the rest of the tooling around this report expects.
var byteUnits = [...]string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatBytes renders a byte count with the largest unit that keeps the
// value above 1: 1073741824 -> "1.00 GB". Plain bytes stay integral
// ("512 B"); every larger unit gets two decimals.
func FormatBytes(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, byteUnits[unit])
}

// FormatPercent renders a percentage with one decimal: "42.5%".
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatRatio renders used/total as a percentage, or NotAvailable when the
// total is zero. This is the only place a capacity division happens, so a
// zero-capacity device can never divide by zero.
func FormatRatio(used, total uint64) string {
	if total == 0 {
		return NotAvailable
	}
	return FormatPercent(float64(used) / float64(total) * 100)
}

// FormatFrequency renders a CPU frequency given in MHz: "3.60 GHz" above
// 1000 MHz, "800 MHz" below, NotAvailable for zero.
func FormatFrequency(mhz float64) string {
	if mhz <= 0 {
		return NotAvailable
	}
	if mhz >= 1000 {
		return fmt.Sprintf("%.2f GHz", mhz/1000)
	}
	return fmt.Sprintf("%.0f MHz", mhz)
}

// FormatDuration renders an uptime-style duration: "3d 4h 5m", dropping
// leading zero components; sub-minute durations render as seconds.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return NotAvailable
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
