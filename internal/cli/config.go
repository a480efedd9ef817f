package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostscope/hostscope/internal/config"
)

var (
	flagInitForce  bool
	flagInitGlobal bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage hostscope configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a commented default config file to the current directory, or to
~/.config/hostscope/config.yaml with --global.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := config.ConfigFileName
		if flagInitGlobal {
			path = config.GlobalPath()
		}

		if err := config.WriteDefault(path, flagInitForce); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&flagInitForce, "force", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVar(&flagInitGlobal, "global", false, "write the global config instead of a project one")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
