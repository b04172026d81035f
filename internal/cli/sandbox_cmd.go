package cli

import (
	"fmt"

	"github.com/alexanderramin/plancraft/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSandboxCmd(r *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Sandbox image helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <image>",
		Short: "Verify a sandbox image is available locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.app.Sandbox.Ensure(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("Sandbox image ready: "+args[0]))
			return nil
		},
	})
	return cmd
}
