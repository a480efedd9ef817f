package surface

import (
	"context"
	"fmt"
	"io"

	"github.com/hostscope/hostscope/internal/report"
	"github.com/hostscope/hostscope/internal/sysinfo"
)

// CollectFunc produces one snapshot. Both the local and remote collectors
// satisfy it.
type CollectFunc func(ctx context.Context) (*sysinfo.Snapshot, error)

// Plain writes a single text report to Out and exits. It is the surface
// of last resort and runs anywhere stdout goes somewhere.
type Plain struct {
	Collect CollectFunc
	Out     io.Writer
}

func (p *Plain) Name() string { return "plain" }

func (p *Plain) CanRun() error {
	if p.Out == nil {
		return fmt.Errorf("no output stream")
	}
	return nil
}

// Run collects once and prints the same text the export path writes.
func (p *Plain) Run(ctx context.Context) error {
	snap, err := p.Collect(ctx)
	if err != nil {
		return err
	}

	_, err = io.WriteString(p.Out, report.RenderText(report.Build(snap)))
	return err
}
