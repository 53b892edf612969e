package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkgen-dev/pkgen/internal/config"
	"github.com/pkgen-dev/pkgen/internal/flavor"
	"github.com/pkgen-dev/pkgen/internal/generator"
	"github.com/pkgen-dev/pkgen/internal/journal"
	"github.com/pkgen-dev/pkgen/internal/naming"
	"github.com/pkgen-dev/pkgen/internal/netprobe"
	"github.com/pkgen-dev/pkgen/internal/project"
	"github.com/pkgen-dev/pkgen/internal/prompt"
	"github.com/pkgen-dev/pkgen/internal/runner"
	"github.com/pkgen-dev/pkgen/internal/ui"
)

// journalOff disables the run history when set as the journal path.
const journalOff = "off"

type createFlags struct {
	target       string
	description  string
	license      string
	authorName   string
	authorEmail  string
	private      bool
	yes          bool
	strictCommit bool
}

var createOpts createFlags

func init() {
	addCreateFlags(createCmd)
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create [project-directory]",
	Short: "Create a new TypeScript package",
	Long: `Create a new TypeScript package in <project-directory>.

The directory is created when missing and must otherwise be empty (dotfiles
are ignored). Its last path segment becomes the package name.

Examples:
  pkgen create my-lib
  pkgen create services/api --target server
  pkgen my-lib --yes --license ISC --author-name "Ada Lovelace"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func addCreateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&createOpts.target, "target", "t", "", "Project flavor: library (npm) or server (koa)")
	f.StringVar(&createOpts.description, "description", "", "Package description")
	f.StringVar(&createOpts.license, "license", "", "Package license (default from config, MIT)")
	f.StringVar(&createOpts.authorName, "author-name", "", "Author name")
	f.StringVar(&createOpts.authorEmail, "author-email", "", "Author email")
	f.BoolVar(&createOpts.private, "private", false, "Mark the package private")
	f.BoolVarP(&createOpts.yes, "yes", "y", false, "Do not prompt; use defaults for anything not given")
	f.BoolVar(&createOpts.strictCommit, "strict-commit", false, "Fail when the initial git commit fails")
}

func runCreate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	p := ui.New(out, cmd.ErrOrStderr())

	f, ok := flavor.Parse(targetName(createOpts.target))
	if !ok {
		p.Warn(fmt.Sprintf("Unknown target %q, using %s.", targetName(createOpts.target), f.Name()))
	}

	var prompter *prompt.Prompter
	if !createOpts.yes {
		prompter = prompt.New(cmd.InOrStdin(), out)
	}
	opts, err := prompt.Resolve(buildInput(cmd, args, f), prompter)
	if errors.Is(err, project.ErrMissingPackageName) {
		fmt.Fprintln(out, "Please specify the project directory.")
		return &ExitError{Code: ExitMissingInput}
	}
	if err != nil {
		return &ExitError{Code: ExitMissingInput, Err: err}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return &ExitError{Code: ExitFailed, Err: fmt.Errorf("resolving working directory: %w", err)}
	}
	opts.Cwd = cwd
	opts.StrictCommit = createOpts.strictCommit

	gen := generator.New(p, netprobe.New(config.Get(config.KeyRegistryHost), runner.New("")))
	gen.InstallURL = config.Get(config.KeyYarnURL)
	if path := config.JournalPath(); path != journalOff {
		j, err := journal.Open(path)
		if err != nil {
			p.Warn(fmt.Sprintf("Run history unavailable: %v", err))
		} else {
			defer j.Close()
			gen.Journal = j
		}
	}

	res, err := gen.Run(cmd.Context(), opts)
	if err != nil {
		reportFailure(p, err)
		return &ExitError{Code: ExitFailed}
	}
	printSummary(p, res)
	return nil
}

// targetName falls back to the configured default flavor.
func targetName(flag string) string {
	if flag != "" {
		return flag
	}
	return config.Get(config.KeyFlavor)
}

// buildInput collects what the command line already answers.
func buildInput(cmd *cobra.Command, args []string, f flavor.Flavor) prompt.Input {
	in := prompt.Input{
		Flavor:         f,
		Description:    createOpts.description,
		License:        createOpts.license,
		AuthorName:     createOpts.authorName,
		AuthorEmail:    createOpts.authorEmail,
		DefaultLicense: config.Get(config.KeyLicense),
	}
	if len(args) > 0 {
		in.PackageName = args[0]
	}
	if cmd.Flags().Changed("private") {
		private := createOpts.private
		in.Private = &private
	}
	return in
}

func reportFailure(p *ui.Printer, err error) {
	var invalid *naming.InvalidNameError
	if errors.As(err, &invalid) {
		p.Error(fmt.Sprintf("Could not create a project called %q because of npm naming restrictions:", invalid.Name))
		for _, problem := range invalid.Problems() {
			p.Bullet(problem)
		}
		return
	}
	p.Error(err.Error())
}

func printSummary(p *ui.Printer, res *generator.Result) {
	if res.CommitHash != "" {
		p.Infof("Initial commit %s.", res.CommitHash)
	}
	for i, step := range res.NextSteps {
		if i == 0 {
			p.Infof("Now run command: '%s' to see the magic!", ui.Command(step))
			continue
		}
		p.Infof("And also you can run command: '%s'.", ui.Command(step))
	}
	p.Infof("")
}
