package main

import (
	"fmt"

	"github.com/spf13/cobra"

	configpkg "github.com/minhyannv/persona-chat/pkg/config"
)

func newPersonasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List configured personas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := configpkg.BuildRegistry(a.config)
			if err != nil {
				return fmt.Errorf("personas: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, p := range registry.All() {
				marker := " "
				if p.Name == registry.Default() {
					marker = "*"
				}
				_, _ = fmt.Fprintf(out, "%s %-10s %s\n", marker, p.Name, p.Summary())
			}
			return nil
		},
	}
}
