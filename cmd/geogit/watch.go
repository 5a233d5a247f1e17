package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"geogit/internal/render"
)

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "Quiet period before replaying after a change")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Replay a script every time it changes and print the latest version",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := loadEnv()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		path := args[0]
		replay := func() {
			db, err := env.load(path, nil)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				return
			}
			if err := render.Table(os.Stdout, db.Latest(), env.renderOptions()); err != nil {
				log.Printf("⚠️ Render failed: %v", err)
			}
		}

		fmt.Printf("👀 Watching %s (Ctrl-C to stop)\n", path)
		replay()
		if err := watchFile(ctx, path, watchDebounce, replay); err != nil {
			log.Fatalf("Watch failed: %v", err)
		}
	},
}

// watchFile calls onChange once per burst of writes to path until ctx is
// done. The parent directory is watched so editors that replace the file
// on save are still seen.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("⚠️ Watcher error: %v", err)
		case <-fire:
			fire = nil
			onChange()
		}
	}
}
