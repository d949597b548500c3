package main

import (
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/arolang/aro-sub008/ast"
)

// newActionsCommand renders the registry's RegistrySnapshot as a table:
// a capabilities-introspection diagnostic for this repo's cmd/aro.
func newActionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List every registered action, its role and valid prepositions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := newConfig()
			cfg.bind(cmd.Root())
			reg, _ := newRuntime(cfg)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Verb", "Role", "Valid Prepositions"})
			table.SetAutoWrapText(false)
			table.SetRowLine(true)

			for _, snap := range reg.RegistrySnapshot() {
				preps := make([]string, len(snap.ValidPrepositions))
				for i, p := range snap.ValidPrepositions {
					preps[i] = string(p)
				}
				table.Append([]string{
					snap.Verb,
					roleColor(snap.Role)(string(snap.Role)),
					strings.Join(preps, ", "),
				})
			}
			table.Render()
			return nil
		},
	}
}

func roleColor(role ast.ActionRole) func(...any) string {
	switch role {
	case ast.RoleRequest:
		return color.New(color.FgCyan).SprintFunc()
	case ast.RoleOwn:
		return color.New(color.FgGreen).SprintFunc()
	case ast.RoleResponse:
		return color.New(color.FgYellow).SprintFunc()
	case ast.RoleExport:
		return color.New(color.FgMagenta).SprintFunc()
	case ast.RoleServer:
		return color.New(color.FgBlue).SprintFunc()
	default:
		return color.New(color.Reset).SprintFunc()
	}
}
