package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	sexp "github.com/epronk/xtickertape"
	"github.com/spf13/cobra"
)

var (
	readExpression bool
	readEval       bool
)

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read [file ...]",
	Short: "Parse s-expressions and print them",
	Long: `Parse s-expressions from files, standard input ("-", the default) or,
with -e, from the arguments themselves, and print every expression read.
Files ending in .gz, .xz or .lz4 are decompressed first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := parserOptions(rootMaxToken, rootMaxDepth)
		if err != nil {
			return err
		}
		return runRead(cmd.OutOrStdout(), args, readExpression, readEval, opts)
	},
}

func runRead(w io.Writer, args []string, expression, eval bool, opts []sexp.Option) error {
	if len(args) == 0 && !expression {
		args = []string{"-"}
	}
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for i, arg := range args {
		s := newSession(eval, printTo(bw), opts...)
		var name string
		var err error
		if expression {
			name = fmt.Sprintf("argument %d", i+1)
			err = s.readFrom(strings.NewReader(arg))
		} else {
			name = arg
			err = readFile(s, arg)
		}
		s.close()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func readFile(s *session, name string) error {
	r, err := openInput(name)
	if err != nil {
		return err
	}
	defer r.Close()
	return s.readFrom(r)
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().BoolVarP(&readExpression, "expression", "e", false,
		"Read arguments as s-expressions instead of file names")
	readCmd.Flags().BoolVar(&readEval, "eval", false,
		"Print the value of each expression instead of the expression")
}
