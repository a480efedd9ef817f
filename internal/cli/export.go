package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hostscope/hostscope/internal/export"
	"github.com/hostscope/hostscope/internal/logger"
	"github.com/hostscope/hostscope/internal/report"
)

var flagFormat string

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write a system report to a file",
	Long: `Collect one snapshot and write the report to a file.

Without a path, an interactive prompt suggests a timestamped filename;
in scripts the suggestion is used directly. The exported text format is
byte-for-byte identical to what --plain prints.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "output format: text, json, or yaml")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.Default()

	format, err := export.ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path, err = promptPath(format)
		if err != nil {
			return err
		}
	}

	// Without an explicit --format the extension decides.
	if flagFormat == "" {
		format = export.FormatForPath(path)
	}

	collect, _, closeFn, err := buildCollect(cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	snap, err := collect(ctx)
	if err != nil {
		return err
	}

	resolved := export.ResolvePath(path, cfg.ExportDir)
	if err := export.Write(report.Build(snap), resolved, format); err != nil {
		return err
	}

	fmt.Printf("Report saved to %s\n", resolved)
	return nil
}

// promptPath asks for a destination filename, defaulting to the
// timestamped name. Non-interactive runs skip the prompt and use the
// default directly.
func promptPath(format export.Format) (string, error) {
	path := export.DefaultFilename(time.Now(), format)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return path, nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Export report to").
				Value(&path),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	if path == "" {
		path = export.DefaultFilename(time.Now(), format)
	}
	return path, nil
}
