package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	sexp "github.com/epronk/xtickertape"
	"github.com/spf13/cobra"
)

const (
	newPrompt    = "\033[32m>\033[0m "
	contPrompt   = "\033[32m.\033[0m "
	resultPrompt = "\033[31m=\033[0m "
)

var replEval bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Read s-expressions interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := parserOptions(rootMaxToken, rootMaxDepth)
		if err != nil {
			return err
		}
		return runRepl(opts)
	},
}

func historyFile() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ".sexpread_history")
}

func runRepl(opts []sexp.Option) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newPrompt,
		HistoryFile:       historyFile(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	out := l.Stdout()
	s := newSession(replEval, func(a *sexp.Atom) error {
		fmt.Fprint(out, resultPrompt)
		return sexp.Print(out, a)
	}, opts...)
	defer s.close()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if !s.parser.Incomplete() && len(line) == 0 {
				return nil
			}
			s.parser.Reset()
			l.SetPrompt(newPrompt)
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		prompt, err := replLine(s, line)
		if err != nil {
			fmt.Fprintln(l.Stderr(), "error:", err)
		}
		l.SetPrompt(prompt)
	}
}

// replLine feeds one line of input and returns the prompt for the next.
func replLine(s *session, line string) (prompt string, err error) {
	err = s.feed([]byte(line + "\n"))
	if s.parser.Incomplete() {
		return contPrompt, err
	}
	return newPrompt, err
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().BoolVar(&replEval, "eval", false,
		"Print the value of each expression instead of the expression")
}
