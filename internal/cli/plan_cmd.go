package cli

import (
	"strings"

	"github.com/alexanderramin/plancraft/internal/app"
	"github.com/alexanderramin/plancraft/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPlanCmd(r *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <goal...>",
		Short: "Start or resume a plan for a goal",
		Long: `Generate a questionnaire for the goal and answer it section by section.
Reusing an existing plan name resumes it with its saved answers.`,
		Example: `  plancraft plan plan a trip to Lisbon
  plancraft plan "migrate the billing service to Postgres"
  plancraft plan --questions ./trip.yaml plan a trip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.dispatch(cmd, strings.TrimSpace("/plan "+strings.Join(args, " ")))
		},
	}
	cmd.Flags().String("questions", "", "use the question set in this JSON or YAML file instead of the backend")
	return cmd
}

func newSendCmd(r *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "send <message...>",
		Short: "Handle a chat-style command message such as \"/plans show <name>\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.dispatch(cmd, strings.Join(args, " "))
		},
	}
}

func formatReply(reply app.Reply) string {
	return formatter.FormatReply(reply.Text, reply.Failed())
}
