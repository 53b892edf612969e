// Package prompt assembles fully resolved generator options, asking on the
// terminal for anything the command line left out. The generator itself never
// prompts.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pkgen-dev/pkgen/internal/flavor"
	"github.com/pkgen-dev/pkgen/internal/generator"
	"github.com/pkgen-dev/pkgen/internal/manifest"
	"github.com/pkgen-dev/pkgen/internal/project"
)

// Input holds values already known from flags and configuration.
type Input struct {
	PackageName    string
	Flavor         flavor.Flavor
	Description    string
	License        string
	AuthorName     string
	AuthorEmail    string
	Private        *bool
	DefaultLicense string
}

// Prompter asks questions on a line-oriented terminal.
type Prompter struct {
	reader *bufio.Reader
	w      io.Writer
}

// New returns a Prompter reading answers from r and writing questions to w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(r), w: w}
}

// Ask prints question and returns the trimmed answer, or def when the answer
// is blank. End of input counts as a blank answer.
func (p *Prompter) Ask(question, def string) (string, error) {
	fmt.Fprint(p.w, question)
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// YesNo asks question until the answer is y or n (yes/no, any case).
func (p *Prompter) YesNo(question string) (bool, error) {
	for {
		fmt.Fprint(p.w, question+"[y/n]: ")
		line, err := p.reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("reading answer: %w", err)
		}
	}
}

// Author combines a name and an email into the package.json author field.
func Author(name, email string) string {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if email == "" {
		return name
	}
	return strings.TrimSpace(name + " <" + email + ">")
}

// Resolve fills in the options. A nil p never prompts: missing values take
// their defaults. The returned options lack Cwd and StrictCommit, which the
// caller owns.
func Resolve(in Input, p *Prompter) (generator.Options, error) {
	f := in.Flavor
	if f == nil {
		f = flavor.Library
	}
	opts := generator.Options{PackageName: strings.TrimSpace(in.PackageName), Flavor: f}

	var err error
	if opts.PackageName == "" && p != nil {
		if opts.PackageName, err = p.Ask("What's your package name [required]: ", ""); err != nil {
			return opts, err
		}
	}
	if opts.PackageName == "" {
		return opts, project.ErrMissingPackageName
	}

	if !f.Prompts() {
		private := true
		opts.Private = &private
		return opts, nil
	}

	defLicense := in.DefaultLicense
	if defLicense == "" {
		defLicense = manifest.DefaultLicense
	}
	opts.Description, opts.License, opts.Private = in.Description, in.License, in.Private
	name, email := in.AuthorName, in.AuthorEmail

	if p != nil {
		if opts.Description == "" {
			if opts.Description, err = p.Ask("Please describe your package [optional]: ", ""); err != nil {
				return opts, err
			}
		}
		if opts.License == "" {
			q := fmt.Sprintf("Specify the license of the package [optional] (%s): ", defLicense)
			if opts.License, err = p.Ask(q, defLicense); err != nil {
				return opts, err
			}
		}
		if name == "" {
			if name, err = p.Ask("The author's name [optional]: ", ""); err != nil {
				return opts, err
			}
		}
		if email == "" {
			if email, err = p.Ask("The author's email [optional]: ", ""); err != nil {
				return opts, err
			}
		}
		if opts.Private == nil {
			private, err := p.YesNo("Is the package private? [required] ")
			if err != nil {
				return opts, err
			}
			opts.Private = &private
		}
	}

	if opts.License == "" {
		opts.License = defLicense
	}
	if opts.Private == nil {
		private := false
		opts.Private = &private
	}
	opts.Author = Author(name, email)
	return opts, nil
}
