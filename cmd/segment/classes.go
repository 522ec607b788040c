package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chazu/segment/vm"
)

type classInfo struct {
	Name    string   `cbor:"name"`
	Storage string   `cbor:"storage"`
	Length  int      `cbor:"preferred_length"`
	Fields  []string `cbor:"instance_variables"`
}

func describeClasses(rt *vm.Runtime) ([]classInfo, error) {
	var infos []classInfo
	err := rt.EachClass(func(class vm.Object) error {
		name, err := rt.ClassName(class)
		if err != nil {
			return err
		}
		storage, err := rt.ClassStorage(class)
		if err != nil {
			return err
		}
		length, err := rt.ClassPreferredLength(class)
		if err != nil {
			return err
		}
		fields, err := rt.ClassFields(class)
		if err != nil {
			return err
		}
		infos = append(infos, classInfo{Name: name, Storage: storage.String(), Length: length, Fields: fields})
		return nil
	})
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, err
}

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the classes created by bootstrap",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		infos, err := describeClasses(rt)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CLASS\tSTORAGE\tLENGTH\tFIELDS")
		for _, c := range infos {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.Name, c.Storage, c.Length, strings.Join(c.Fields, " "))
		}
		return w.Flush()
	},
}
