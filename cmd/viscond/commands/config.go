package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govisibility/internal/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Create ~/.viscond/config.yaml with local and prod profiles. Edit the
file afterwards to point at your servers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.InitConfig(); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}

		path, err := cli.GetConfigPath()
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("Created config at %s\n", path)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cli.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
