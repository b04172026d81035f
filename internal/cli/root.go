package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/plancraft/internal/app"
	"github.com/alexanderramin/plancraft/internal/config"
	"github.com/spf13/cobra"
)

// ErrReplyFailed is returned after a failed command reply has already
// been printed; callers exit non-zero without printing it again.
var ErrReplyFailed = errors.New("command failed")

// Streams are the standard streams a command talks to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// ImageChecker verifies that a sandbox image is present locally.
type ImageChecker interface {
	Ensure(ctx context.Context, image string) error
}

// App holds everything the commands run against.
type App struct {
	Workspace string
	Handler   app.Handler
	Queries   *app.PlanQueries
	Sandbox   ImageChecker
	Now       func() time.Time
	// Close releases the catalog database and log file, if any.
	Close func() error
}

// Builder wires an App once configuration is loaded.
type Builder func(cfg *config.Config, streams Streams) (*App, error)

// BuildInfo is stamped in by the linker.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Root is the plancraft command tree and the App it builds on demand.
type Root struct {
	Cmd *cobra.Command

	build   Builder
	app     *App
	cfgFile string
}

// NewRoot creates the top-level "plancraft" command.
func NewRoot(build Builder, info BuildInfo) *Root {
	r := &Root{build: build}

	root := &cobra.Command{
		Use:   "plancraft",
		Short: "Build plans through a generated, resumable questionnaire",
		Long: `plancraft turns a goal into a short questionnaire generated by a local
reasoning backend, walks you through it section by section and writes
the answers and a Markdown plan under <workspace>/plans/<name>/.

Answers are saved after every question, so an interrupted plan resumes
where it stopped when started again under the same name.`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipsInit(cmd) {
				return nil
			}
			return r.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&r.cfgFile, "config", "c", "", "config file (default: ./.plancraft.yaml or ~/.config/plancraft/config.yaml)")
	pf.StringP("workspace", "w", "", "workspace directory holding plans/")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (console, json)")
	pf.String("llm-endpoint", "", "reasoning backend base URL")
	pf.String("llm-model", "", "reasoning backend model")
	pf.Bool("no-catalog", false, "do not record plans in the catalog database")

	root.AddCommand(
		newPlanCmd(r),
		newSendCmd(r),
		newPlansCmd(r),
		newSandboxCmd(r),
		newVersionCmd(info),
	)
	root.SetVersionTemplate(fmt.Sprintf("plancraft %s\n", info.Version))

	r.Cmd = root
	return r
}

// Execute runs the command tree and releases whatever the App opened.
func (r *Root) Execute(ctx context.Context) error {
	defer r.close()
	return r.Cmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args[1:]; used by tests.
func (r *Root) SetArgs(args ...string) {
	r.Cmd.SetArgs(args)
}

func (r *Root) init(cmd *cobra.Command) error {
	if r.app != nil {
		return nil
	}
	cfg, err := config.Load(r.cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a, err := r.build(cfg, Streams{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	r.app = a
	return nil
}

// skipsInit reports commands that run without configuration.
func skipsInit(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion":
			return true
		}
	}
	return false
}

func (r *Root) close() {
	if r.app != nil && r.app.Close != nil {
		_ = r.app.Close()
	}
}

func (r *Root) dispatch(cmd *cobra.Command, body string) error {
	reply, err := r.app.Handler.Handle(cmd.Context(), app.CommandRequest{
		Body:         body,
		Source:       app.SourceCLI,
		WorkspaceDir: r.app.Workspace,
	})
	if err != nil {
		return err
	}
	if !reply.Handled {
		return fmt.Errorf("not a plancraft command: %q (try /plan <goal> or /plans)", body)
	}
	if reply.Failed() {
		fmt.Fprintln(cmd.ErrOrStderr(), formatReply(reply))
		return ErrReplyFailed
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatReply(reply))
	return nil
}

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "plancraft %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", info.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", info.Date)
		},
	}
}
