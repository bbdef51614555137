package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LianelaSky/Project-Alyssa/internal/persona"
)

// ═══════════════════════════════════════════════════════════════════════════════
// CONFIG COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.cfgPath)
		},
	})

	return cmd
}

func personaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persona",
		Short: "Inspect character presets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range persona.Presets() {
				p, err := persona.Preset(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-8s %s\n", name, p.Name, p.Description)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export [path]",
		Short: "Write the active persona to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPersona()
			if err != nil {
				return err
			}
			if err := p.SaveToFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s to %s\n", p.Name, args[0])
			return nil
		},
	})

	return cmd
}
