package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/segment/vm"
)

var internCmd = &cobra.Command{
	Use:   "intern <name>...",
	Short: "Intern symbols and show how each is represented",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		seen := make(map[string]vm.Object)
		for _, name := range args {
			sym, err := rt.CSymbol(name)
			if err != nil {
				return fmt.Errorf("interning %q: %w", name, err)
			}
			repr := "immediate"
			if sym.IsHeap() {
				repr = "heap"
			}
			note := ""
			if prev, ok := seen[name]; ok && vm.Same(prev, sym) {
				note = " (same as before)"
			}
			seen[name] = sym
			fmt.Fprintf(out, "#%s\t%d bytes\t%s%s\n", name, len(name), repr, note)
		}
		fmt.Fprintf(out, "symbol table: %d symbols in %d buckets\n",
			rt.Symbols().Count(), rt.Symbols().Capacity())
		return nil
	},
}
