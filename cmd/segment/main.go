// Segment CLI - boots an object-model runtime and reports on it
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/segment/manifest"
	"github.com/chazu/segment/vm"
)

var (
	verbosity  int
	configDir  string
	ignoreFile bool
)

var rootCmd = &cobra.Command{
	Use:   "segment",
	Short: "Inspect the segment object model",
	Long: `segment boots a runtime (classes, symbol table, bootstrap objects) and
reports on it. Symbol table settings come from segment.toml, found by walking
up from the working directory, and SEG_SYMTABLE_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(verbosity, nil)
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory to search for segment.toml (default: working directory)")
	rootCmd.PersistentFlags().BoolVar(&ignoreFile, "no-config", false, "ignore segment.toml")

	rootCmd.AddCommand(internCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the symbol table configuration: defaults, then the
// nearest segment.toml, then the environment.
func loadConfig() (manifest.SymbolTable, error) {
	cfg := manifest.DefaultSymbolTable()
	if !ignoreFile {
		dir := configDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return cfg, err
			}
			dir = wd
		}
		m, err := manifest.FindAndLoad(dir)
		if err != nil {
			return cfg, err
		}
		if m != nil {
			cfg = m.SymbolTable
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

func newRuntime() (*vm.Runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return vm.NewRuntimeWithConfig(cfg)
}
