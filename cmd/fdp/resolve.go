package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResolveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name>",
		Short: "Resolve a facility name or alias and show its attached methods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, flags, args[0])
		},
	}
}

func runResolve(cmd *cobra.Command, flags *rootFlags, name string) error {
	s, err := newSession(cmd, flags)
	if err != nil {
		return err
	}
	defer s.flushMetrics(cmd)

	node, err := s.root.Resolve(name)
	if err != nil {
		return resolveError("resolve", name, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "machine: %s\n", node.Identity())
	fmt.Fprintf(out, "methods: %s\n", valueOrFallback(strings.Join(node.Methods(), ", "), "(none)"))
	fmt.Fprintf(out, "signals: %d\n", len(node.Signals()))
	fmt.Fprintf(out, "containers: %s\n", valueOrFallback(strings.Join(node.Children(), ", "), "(none)"))
	return nil
}

func valueOrFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
