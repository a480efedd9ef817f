// Package cli wires the hostscope commands. The root command runs an
// inspection pass and shows it on the best available surface; subcommands
// cover export, config scaffolding, and version info.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hostscope/hostscope/internal/config"
	"github.com/hostscope/hostscope/internal/dashboard"
	"github.com/hostscope/hostscope/internal/export"
	"github.com/hostscope/hostscope/internal/logger"
	"github.com/hostscope/hostscope/internal/remote"
	"github.com/hostscope/hostscope/internal/report"
	"github.com/hostscope/hostscope/internal/surface"
	"github.com/hostscope/hostscope/internal/sshx"
	"github.com/hostscope/hostscope/internal/sysinfo"
)

var (
	flagConfig   string
	flagPlain    bool
	flagInterval time.Duration
	flagTop      int
	flagHost     string
	flagExport   string
)

var rootCmd = &cobra.Command{
	Use:   "hostscope",
	Short: "Inspect system health at a glance",
	Long: `hostscope collects CPU, memory, disk, network, GPU, and process
information from the local machine or a remote host over SSH, and shows
it as a live dashboard, plain text, or an exported report file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().DurationVarP(&flagInterval, "interval", "i", 0, "dashboard refresh interval (e.g. 5s)")
	rootCmd.PersistentFlags().IntVarP(&flagTop, "top", "t", 0, "number of processes to list")
	rootCmd.PersistentFlags().StringVarP(&flagHost, "host", "H", "", "inspect a remote host over SSH (user@host or ssh_config alias)")

	rootCmd.Flags().BoolVarP(&flagPlain, "plain", "p", false, "print a one-shot text report instead of the dashboard")
	rootCmd.Flags().StringVarP(&flagExport, "export", "e", "", "write the report to a file and exit")
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	defer sshx.CloseAgent()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.Default()

	collect, label, closeFn, err := buildCollect(cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// --export short-circuits the surface selection entirely.
	if flagExport != "" {
		return exportOnce(ctx, collect, cfg, flagExport)
	}

	var candidates []surface.Surface
	if !flagPlain {
		candidates = append(candidates, &dashboard.Dashboard{
			Collect: collect,
			Opts: dashboard.Options{
				Interval:  cfg.Interval,
				ExportDir: cfg.ExportDir,
				HostLabel: label,
			},
		})
	}
	candidates = append(candidates, &surface.Plain{Collect: collect, Out: os.Stdout})

	s, err := surface.Select(candidates, log)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// exportOnce collects a single snapshot and writes it to path.
func exportOnce(ctx context.Context, collect surface.CollectFunc, cfg *config.Config, path string) error {
	snap, err := collect(ctx)
	if err != nil {
		return err
	}

	resolved := export.ResolvePath(path, cfg.ExportDir)
	if err := export.Write(report.Build(snap), resolved, export.FormatForPath(resolved)); err != nil {
		return err
	}
	fmt.Printf("Report saved to %s\n", resolved)
	return nil
}

// loadConfig reads the config file and layers the shared flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(flagConfig)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("interval") || cmd.InheritedFlags().Changed("interval") {
		cfg.Interval = flagInterval
	}
	if cmd.Flags().Changed("top") || cmd.InheritedFlags().Changed("top") {
		cfg.TopProcesses = flagTop
	}
	cfg.Normalize()
	return cfg, nil
}

// buildCollect returns the collect function for the target host, a label
// for display, and a cleanup function.
func buildCollect(cfg *config.Config, log logger.Logger) (surface.CollectFunc, string, func(), error) {
	if flagHost == "" {
		collector := sysinfo.NewCollector(sysinfo.Options{
			TopProcesses: cfg.TopProcesses,
			Mounts:       cfg.Mounts,
			GPU:          cfg.GPU,
		}, log)
		collect := func(ctx context.Context) (*sysinfo.Snapshot, error) {
			return collector.Collect(ctx), nil
		}
		return collect, "", func() {}, nil
	}

	client, err := sshx.Dial(flagHost, log)
	if err != nil {
		return nil, "", nil, err
	}
	collector := remote.NewCollector(client, remote.Options{TopProcesses: cfg.TopProcesses}, log)
	return collector.Collect, flagHost, func() { client.Close() }, nil
}
