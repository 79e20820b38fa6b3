package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dshills/pgline/internal/input/fuzzy"
	"github.com/dshills/pgline/internal/logging"
	"github.com/dshills/pgline/internal/prompt"
)

// ErrNoDatabase is returned by the default executor.
var ErrNoDatabase = errors.New("no database attached")

// Executor runs one statement and returns its printable result.
type Executor interface {
	Execute(ctx context.Context, statement string) (string, error)
}

type noDatabase struct{}

func (noDatabase) Execute(context.Context, string) (string, error) {
	return "", ErrNoDatabase
}

type prompter interface {
	Prompt(ctx context.Context) (string, error)
}

type repl struct {
	prompt   prompter
	exec     Executor
	out      io.Writer
	log      *logging.Logger
	commands func() []string
	history  func() []string // oldest first
	matcher  *fuzzy.Matcher
}

// historyResults caps \s output.
const historyResults = 10

// needsMore reports whether Enter should continue the statement on a new
// line.
func needsMore(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" || strings.HasPrefix(t, `\`) {
		return false
	}
	return !strings.HasSuffix(t, ";")
}

func (r *repl) run(ctx context.Context) error {
	for {
		text, err := r.prompt.Prompt(ctx)
		switch {
		case errors.Is(err, prompt.ErrEOF):
			return nil
		case errors.Is(err, prompt.ErrInterrupt):
			continue
		case err != nil:
			return err
		}

		stmt := strings.TrimSpace(text)
		if stmt == "" {
			continue
		}
		if strings.HasPrefix(stmt, `\`) {
			if r.meta(stmt) {
				return nil
			}
			continue
		}
		r.execute(ctx, stmt)
	}
}

// execute runs stmt. Ctrl-C cancels the statement, not the program.
func (r *repl) execute(ctx context.Context, stmt string) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	r.log.Debug("executing %q", stmt)
	result, err := r.exec.Execute(ctx, stmt)
	if err != nil {
		r.log.Warn("statement failed: %v", err)
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	if result != "" {
		fmt.Fprintln(r.out, strings.TrimRight(result, "\n"))
	}
}

// meta runs a backslash command and reports whether the REPL should quit.
func (r *repl) meta(cmd string) bool {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case `\q`:
		return true
	case `\?`:
		fmt.Fprint(r.out, `\?                   show this help
\commands [pattern]  list editing commands for key bindings
\s [pattern]         search the history
\q                   quit
`)
	case `\commands`:
		if r.commands != nil {
			for _, c := range r.match().Filter(arg, r.commands(), 0) {
				fmt.Fprintln(r.out, c)
			}
		}
	case `\s`:
		r.searchHistory(arg)
	default:
		fmt.Fprintf(r.out, "invalid command %s, try \\?\n", name)
	}
	return false
}

// searchHistory prints the best history matches for pattern, most recent
// first among equals.
func (r *repl) searchHistory(pattern string) {
	if r.history == nil {
		return
	}
	entries := r.history()
	recent := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		recent = append(recent, entries[i])
	}
	for _, e := range r.match().Filter(pattern, recent, historyResults) {
		fmt.Fprintln(r.out, strings.ReplaceAll(e, "\n", "\n    "))
	}
}

func (r *repl) match() *fuzzy.Matcher {
	if r.matcher == nil {
		r.matcher = fuzzy.NewMatcher(fuzzy.Options{Dedupe: true})
	}
	return r.matcher
}
