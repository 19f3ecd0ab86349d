package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dc0d/onexit"
	"github.com/docker/go-units"
	sexp "github.com/epronk/xtickertape"
	"github.com/spf13/cobra"
)

var (
	rootMaxToken string
	rootMaxDepth int
	rootVerbose  bool
	rootStats    bool
)

// totals over every session of the process, for --stats
var (
	totalBytes atomic.Int64
	totalExprs atomic.Int64
	statsOnce  sync.Once
)

var rootCmd = &cobra.Command{
	Use:          "sexpread",
	Short:        "Read tickertape s-expressions",
	Long:         `Read, print and serve s-expressions in the tickertape data language.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetPrefix("sexpread: ")
		log.SetFlags(0)
		if !rootVerbose {
			log.SetOutput(io.Discard)
		}
		if rootStats {
			onexit.Register(printStats)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rootStats {
			printStats()
		}
	},
}

func printStats() {
	statsOnce.Do(func() {
		fmt.Fprintf(os.Stderr, "read %s in %d expressions, %d atoms live\n",
			units.HumanSize(float64(totalBytes.Load())), totalExprs.Load(), sexp.Live())
	})
}

// parserOptions turns the global limit flags into parser options. maxToken
// is a size such as "64KiB"; empty or zero values leave growth unbounded.
func parserOptions(maxToken string, maxDepth int) ([]sexp.Option, error) {
	var opts []sexp.Option
	if maxToken != "" {
		n, err := units.RAMInBytes(maxToken)
		if err != nil {
			return nil, fmt.Errorf("--max-token: %w", err)
		}
		if n < 0 {
			return nil, fmt.Errorf("--max-token: negative size %q", maxToken)
		}
		if n > 0 {
			opts = append(opts, sexp.WithMaxTokenSize(int(n)))
		}
	}
	if maxDepth < 0 {
		return nil, fmt.Errorf("--max-depth: negative depth %d", maxDepth)
	}
	if maxDepth > 0 {
		opts = append(opts, sexp.WithMaxDepth(maxDepth))
	}
	return opts, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootMaxToken, "max-token", "",
		"Largest token the parser may buffer (e.g. 64KiB)")
	rootCmd.PersistentFlags().IntVar(&rootMaxDepth, "max-depth", 0,
		"Deepest nesting the parser may reach")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false,
		"Log session activity to stderr")
	rootCmd.PersistentFlags().BoolVar(&rootStats, "stats", false,
		"Print reader statistics on exit")
}
