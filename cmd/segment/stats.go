package main

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/chazu/segment/vm"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("segment: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	statsCmd.Flags().StringVar(&statsFormat, "format", "text", "output format (text|cbor)")
}

type symbolTableStats struct {
	Count              int     `cbor:"count"`
	Capacity           int     `cbor:"capacity"`
	InitBucketCapacity int     `cbor:"bucket_capacity"`
	BucketGrowthFactor int     `cbor:"bucket_growth"`
	MaxLoad            float64 `cbor:"max_load"`
	TableGrowthFactor  int     `cbor:"table_growth"`
}

type statsReport struct {
	Runtime     string           `cbor:"runtime"`
	SymbolTable symbolTableStats `cbor:"symbol_table"`
	Classes     []classInfo      `cbor:"classes"`
}

func collectStats(rt *vm.Runtime) (*statsReport, error) {
	classes, err := describeClasses(rt)
	if err != nil {
		return nil, err
	}
	st := rt.Symbols()
	s := st.Settings()
	return &statsReport{
		Runtime: rt.ID().String(),
		SymbolTable: symbolTableStats{
			Count:              st.Count(),
			Capacity:           st.Capacity(),
			InitBucketCapacity: s.InitBucketCapacity,
			BucketGrowthFactor: s.BucketGrowthFactor,
			MaxLoad:            s.MaxLoad,
			TableGrowthFactor:  s.TableGrowthFactor,
		},
		Classes: classes,
	}, nil
}

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report runtime, symbol table and class statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		report, err := collectStats(rt)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch strings.ToLower(statsFormat) {
		case "cbor":
			data, err := cborEncMode.Marshal(report)
			if err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			_, err = out.Write(data)
			return err
		case "text":
			st := report.SymbolTable
			fmt.Fprintf(out, "runtime       %s\n", report.Runtime)
			fmt.Fprintf(out, "classes       %d\n", len(report.Classes))
			fmt.Fprintf(out, "symbols       %d in %d buckets (load %.3f, max %.3f)\n",
				st.Count, st.Capacity, float64(st.Count)/float64(st.Capacity), st.MaxLoad)
			fmt.Fprintf(out, "growth        bucket %d x%d, table x%d\n",
				st.InitBucketCapacity, st.BucketGrowthFactor, st.TableGrowthFactor)
			return nil
		default:
			return fmt.Errorf("unknown format %q (want text or cbor)", statsFormat)
		}
	},
}
