package remote

import (
	"context"
	"time"

	"github.com/hostscope/hostscope/internal/errors"
	"github.com/hostscope/hostscope/internal/logger"
	"github.com/hostscope/hostscope/internal/sysinfo"
)

// Runner executes a shell command on the remote host. *sshx.Client
// satisfies it; tests substitute canned output.
type Runner interface {
	Output(ctx context.Context, command string) (string, error)
}

// Options control what the remote pass collects.
type Options struct {
	TopProcesses int
}

// Collector inspects one remote host through a Runner.
type Collector struct {
	runner Runner
	opts   Options
	log    logger.Logger

	now func() time.Time
}

// NewCollector builds a remote collector on an established connection.
func NewCollector(runner Runner, opts Options, log logger.Logger) *Collector {
	if log == nil {
		log = logger.Noop()
	}
	return &Collector{runner: runner, opts: opts, log: log, now: time.Now}
}

// Collect runs the platform detection and batched metrics commands, then
// parses each section independently. Parse failures mark their own
// category unavailable and never abort the pass; only a transport failure
// on the batched command itself returns an error.
func (c *Collector) Collect(ctx context.Context) (*sysinfo.Snapshot, error) {
	snap := &sysinfo.Snapshot{
		Timestamp: c.now(),
		Errors:    map[string]string{},
	}

	platform := PlatformUnknown
	if out, err := c.runner.Output(ctx, PlatformDetectCommand()); err != nil {
		c.log.Warn("platform detection failed: %v", err)
	} else {
		platform = ParsePlatform(out)
	}
	c.log.Debug("remote platform: %s", platform)

	output, err := c.runner.Output(ctx, BuildMetricsCommand(platform, c.opts.TopProcesses))
	if err != nil {
		return nil, errors.Wrap(err, "Remote metrics collection failed")
	}

	c.parseSections(snap, SplitSections(output))
	return snap, nil
}

func (c *Collector) parseSections(snap *sysinfo.Snapshot, sections []string) {
	fail := func(category string, err error) {
		c.log.Warn("remote %s unavailable: %v", category, err)
		snap.Errors[category] = err.Error()
	}

	uptime, err := parseUptime(sections[sectionUptime], snap.Timestamp)
	if err != nil {
		c.log.Debug("remote uptime unavailable: %v", err)
	}

	if host, err := parseHost(sections[sectionHost], snap.Timestamp, uptime); err != nil {
		fail(sysinfo.CategoryHost, err)
	} else {
		snap.Host = host
	}

	model := parseCPUModel(sections[sectionCPUModel])
	if cpu, err := parseCPU(sections[sectionStat], sections[sectionLoadavg], model); err != nil {
		fail(sysinfo.CategoryCPU, err)
	} else {
		snap.CPU = cpu
	}

	if mem, err := parseMemory(sections[sectionMeminfo]); err != nil {
		fail(sysinfo.CategoryMemory, err)
	} else {
		snap.Memory = mem
	}

	if disk, err := parseDisk(sections[sectionDisk]); err != nil {
		fail(sysinfo.CategoryDisk, err)
	} else {
		snap.Disk = disk
	}

	if network, err := parseNetwork(sections[sectionNetDev]); err != nil {
		fail(sysinfo.CategoryNetwork, err)
	} else {
		snap.Network = network
	}

	// nvidia-smi absence is the common case and comes back as empty
	// output, which parses to a nil GPU without an error.
	if gpu, err := sysinfo.ParseNvidiaSMI(sections[sectionGPU]); err != nil {
		fail(sysinfo.CategoryGPU, err)
	} else {
		snap.GPU = gpu
	}

	if procs, err := parseProcesses(sections[sectionProcesses], c.opts.TopProcesses); err != nil {
		fail(sysinfo.CategoryProcesses, err)
	} else {
		snap.Processes = procs
	}
}
