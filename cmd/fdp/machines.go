package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ktritz/fdp/internal/machine"
)

type machinesOptions struct {
	jsonOutput bool
}

func newMachinesCmd() *cobra.Command {
	opts := &machinesOptions{}

	cmd := &cobra.Command{
		Use:   "machines",
		Short: "List facilities and the names accepted for each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMachines(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runMachines(cmd *cobra.Command, opts *machinesOptions) error {
	identities := machine.Default().Identities()

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(identities)
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "MACHINE\tALIASES")
	for _, id := range identities {
		fmt.Fprintf(writer, "%s\t%s\n", id.Name, strings.Join(id.Aliases, ", "))
	}
	return writer.Flush()
}
