package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/plancraft/internal/app"
	"github.com/alexanderramin/plancraft/internal/cli/formatter"
	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPlansCmd(r *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List and inspect saved plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlansList(r, cmd)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List plans, most recently updated first",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runPlansList(r, cmd)
			},
		},
		newPlansShowCmd(r),
		newPlansHistoryCmd(r),
	)
	return cmd
}

func runPlansList(r *Root, cmd *cobra.Command) error {
	plans, err := r.app.Queries.List(cmd.Context(), r.app.Workspace)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(plans, r.app.Now()))
	return nil
}

func newPlansShowCmd(r *Root) *cobra.Command {
	var (
		answers bool
		format  string
	)
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a plan document, or its answers with --answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !answers {
				doc, err := r.app.Queries.Document(r.app.Workspace, name)
				if errors.Is(err, app.ErrPlanNotFound) {
					return fmt.Errorf("plan not found: %s", name)
				}
				if err != nil {
					return fmt.Errorf("plan %s has not been finalized yet", name)
				}
				fmt.Fprint(cmd.OutOrStdout(), doc)
				return nil
			}

			got, err := r.app.Queries.Answers(r.app.Workspace, name)
			if errors.Is(err, app.ErrPlanNotFound) {
				return fmt.Errorf("plan not found: %s", name)
			}
			if err != nil {
				return err
			}
			return writeAnswers(cmd.OutOrStdout(), got, format)
		},
	}
	cmd.Flags().BoolVar(&answers, "answers", false, "print the saved answers instead of plan.md")
	cmd.Flags().StringVar(&format, "format", "json", "answers format (json, yaml)")
	return cmd
}

func writeAnswers(w io.Writer, answers domain.AnswerMap, format string) error {
	if answers == nil {
		answers = domain.AnswerMap{}
	}
	switch format {
	case "json":
		data, err := json.MarshalIndent(answers, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding answers: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(answers)); err != nil {
			return fmt.Errorf("encoding answers: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func newPlansHistoryCmd(r *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "history <name>",
		Short: "Show the recorded runs of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			runs, err := r.app.Queries.History(cmd.Context(), name)
			switch {
			case errors.Is(err, app.ErrCatalogDisabled):
				return errors.New("plan history needs the catalog; it is disabled (catalog.enabled=false)")
			case errors.Is(err, app.ErrPlanNotFound):
				return fmt.Errorf("plan not found: %s", name)
			case err != nil:
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(name, runs))
			return nil
		},
	}
}
