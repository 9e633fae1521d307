package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cliadapter "github.com/example/crispr/internal/adapters/cli"
	"github.com/example/crispr/internal/ports/primary"
	"github.com/example/crispr/internal/wire"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive design session",
	Long: `Start an interactive session. The sequence, region and candidates are kept
in memory until you quit. Type "help" for the list of commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sh := &Shell{
			session:     wire.SessionAdapter(),
			diagnostics: wire.DiagnosticAdapter(),
			exportDir:   wire.Config().Export.Dir,
			out:         os.Stdout,
		}
		return sh.Run(NewContext(), os.Stdin)
	},
}

// ShellCmd returns the shell command
func ShellCmd() *cobra.Command {
	return shellCmd
}

const shellHelp = `Commands:
  gene <id>                   set the current gene
  fetch [id]                  fetch the sequence (sets the gene)
  seq                         print the loaded sequence
  region <start> <end>        set both region bounds
  start <n> | end <n>         set one region bound
  design [id]                 design guides for the current region
  retrain                     re-run the design after feedback
  show [sort] [desc]          show candidates (sort: rank, composite, on-target, off-target, gc, locus)
  status                      show the session state
  feedback <id> <1-5> [notes] rate a candidate
  export [dir]                write crispr_guides.csv
  config                      show the service scoring configuration
  metrics                     show the service metrics
  log [kind]                  list diagnostics
  clear-log                   empty the diagnostic journal
  help                        show this help
  quit                        leave the shell`

// Shell is a line-oriented front end for one design session.
// Errors from a command are printed and the shell continues.
type Shell struct {
	session     *cliadapter.SessionAdapter
	diagnostics *cliadapter.DiagnosticAdapter
	exportDir   string
	out         io.Writer

	gene string
}

// NewShell creates a shell over the given adapters.
func NewShell(session *cliadapter.SessionAdapter, diagnostics *cliadapter.DiagnosticAdapter, exportDir string, out io.Writer) *Shell {
	return &Shell{
		session:     session,
		diagnostics: diagnostics,
		exportDir:   exportDir,
		out:         out,
	}
}

// Run reads commands from in until EOF or quit.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(sh.out, "crispr shell. Type \"help\" for commands.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, sh.prompt())
		if !scanner.Scan() {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		quit, err := sh.exec(ctx, fields[0], fields[1:])
		if err != nil {
			fmt.Fprintf(sh.out, "%s %v\n", color.New(color.FgRed).Sprint("error:"), err)
		}
		if quit {
			return nil
		}
	}
	fmt.Fprintln(sh.out)
	return scanner.Err()
}

func (sh *Shell) prompt() string {
	if sh.gene == "" {
		return "crispr> "
	}
	return fmt.Sprintf("crispr[%s]> ", sh.gene)
}

// exec runs one command and reports whether the shell should exit.
func (sh *Shell) exec(ctx context.Context, name string, args []string) (bool, error) {
	switch name {
	case "quit", "exit":
		return true, nil

	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)

	case "gene":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: gene <id>")
		}
		sh.gene = args[0]

	case "fetch":
		if len(args) > 0 {
			sh.gene = args[0]
		}
		return false, sh.session.Fetch(ctx, sh.gene)

	case "seq":
		return false, sh.session.Sequence(ctx, 60)

	case "region":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: region <start> <end>")
		}
		start, err := parseInt("start", args[0])
		if err != nil {
			return false, err
		}
		end, err := parseInt("end", args[1])
		if err != nil {
			return false, err
		}
		return false, sh.session.SetRegion(ctx, start, end)

	case "start", "end":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: %s <n>", name)
		}
		n, err := parseInt(name, args[0])
		if err != nil {
			return false, err
		}
		return false, sh.setBound(ctx, name, n)

	case "design":
		if len(args) > 0 {
			sh.gene = args[0]
		}
		return false, sh.session.Design(ctx, sh.gene, "", false)

	case "retrain":
		return false, sh.session.Retrain(ctx, sh.gene, "", false)

	case "show":
		sortBy, desc := "", false
		if len(args) > 0 {
			sortBy = args[0]
		}
		if len(args) > 1 {
			desc = args[1] == "desc"
		}
		return false, sh.session.Show(ctx, sortBy, desc)

	case "status":
		return false, sh.session.Status(ctx)

	case "feedback":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: feedback <candidate-id> <1-5> [notes]")
		}
		rating, err := parseInt("rating", args[1])
		if err != nil {
			return false, err
		}
		return false, sh.session.Feedback(ctx, args[0], rating, strings.Join(args[2:], " "))

	case "export":
		dir := sh.exportDir
		if len(args) > 0 {
			dir = args[0]
		}
		return false, sh.session.Export(ctx, dir)

	case "config":
		return false, sh.session.ServiceConfig(ctx)

	case "metrics":
		return false, sh.session.ServiceMetrics(ctx)

	case "log":
		filters := primary.DiagnosticFilters{Limit: 50}
		if len(args) > 0 {
			filters.Kind = args[0]
		}
		return false, sh.diagnostics.List(ctx, filters)

	case "clear-log":
		return false, sh.diagnostics.Clear(ctx)

	default:
		return false, fmt.Errorf("unknown command %q (try \"help\")", name)
	}
	return false, nil
}

func (sh *Shell) setBound(ctx context.Context, which string, n int) error {
	if which == "start" {
		return sh.session.SetRegionStart(ctx, n)
	}
	return sh.session.SetRegionEnd(ctx, n)
}

func parseInt(name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number: %q", name, raw)
	}
	return n, nil
}
