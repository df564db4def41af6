package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ktritz/fdp/internal/namespace"
	"github.com/ktritz/fdp/internal/signal"
)

type signalsOptions struct {
	jsonOutput bool
}

func newSignalsCmd(flags *rootFlags) *cobra.Command {
	opts := &signalsOptions{}

	cmd := &cobra.Command{
		Use:   "signals <machine>",
		Short: "List the signals a facility document declares, expanded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignals(cmd, flags, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

type containerSignal struct {
	Container string `json:"container"`
	signal.Spec
}

func runSignals(cmd *cobra.Command, flags *rootFlags, opts *signalsOptions, name string) error {
	if flags.configDir == "" {
		return newCommandError("list signals", "locating facility documents", fmt.Errorf("no config directory"),
			"Pass --config <dir> or set $"+configDirEnv+".")
	}

	s, err := newSession(cmd, flags)
	if err != nil {
		return err
	}
	defer s.flushMetrics(cmd)

	node, err := s.root.Resolve(name)
	if err != nil {
		return resolveError("list signals", name, err)
	}

	var rows []containerSignal
	if err := collectSignals(node, &rows); err != nil {
		return resolveError("list signals", name, err)
	}

	if opts.jsonOutput {
		if rows == nil {
			rows = []containerSignal{}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "CONTAINER\tNAME\tTREE\tPATH\tUNITS\tAXES")
	for _, row := range rows {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Container,
			row.Name,
			valueOrFallback(row.Tree, "-"),
			valueOrFallback(row.Path, "-"),
			valueOrFallback(row.Units, "-"),
			valueOrFallback(strings.Join(row.Axes, ","), "-"),
		)
	}
	return writer.Flush()
}

// collectSignals appends the specs of node and its loaded containers,
// depth-first in name order.
func collectSignals(node *namespace.Node, rows *[]containerSignal) error {
	label := node.Type().ID()
	for _, spec := range node.Signals() {
		*rows = append(*rows, containerSignal{Container: label, Spec: spec})
	}
	for _, name := range node.Children() {
		child, err := node.Child(name)
		if err != nil {
			return err
		}
		if err := collectSignals(child, rows); err != nil {
			return err
		}
	}
	return nil
}
