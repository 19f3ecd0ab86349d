package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	sexp "github.com/epronk/xtickertape"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Print a file's s-expressions every time it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := parserOptions(rootMaxToken, rootMaxDepth)
		if err != nil {
			return err
		}
		return runWatch(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
	},
}

func runWatch(ctx context.Context, w io.Writer, path string, opts []sexp.Option) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err = watcher.Add(path); err != nil {
		return err
	}

	reread := func() {
		if err := runRead(w, []string{path}, false, false, opts); err != nil {
			fmt.Fprintln(w, "error:", err)
		}
	}
	reread()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch %s: %v", path, err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !settle(watcher.Events) {
				return nil
			}
			log.Printf("watch %s: %v", path, ev.Op)
			reread()
			// editors that save by renaming drop the watch
			if err := watcher.Add(path); err != nil {
				log.Printf("watch %s: %v", path, err)
				fmt.Fprintln(w, "error:", err)
			}
		}
	}
}

// settle lets a burst of events from one save pass before the file is read.
// It reports false once events is closed.
func settle(events <-chan fsnotify.Event) bool {
	for {
		time.Sleep(10 * time.Millisecond)
		select {
		case _, ok := <-events:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
