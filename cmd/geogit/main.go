package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"geogit/internal/geo"
	"geogit/internal/render"
	"geogit/internal/report"
	"geogit/internal/store"
)

var (
	rootCmd = &cobra.Command{
		Use:   "geogit",
		Short: "Versioned geometry store driven by commit scripts",
	}
	configPath string
	verbose    bool

	reportPath  string
	sliceAt     int64
	sliceFormat string
	historyLine bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "geogit.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log store activity at debug level")

	replayCmd.Flags().StringVarP(&reportPath, "report", "r", "", "Write a JSON replay report to this path")
	sliceCmd.Flags().Int64Var(&sliceAt, "at", -1, "Version to slice (default: latest)")
	sliceCmd.Flags().StringVarP(&sliceFormat, "format", "f", "", "Output format: table, markdown or json (default from config)")
	historyCmd.Flags().BoolVar(&historyLine, "line", false, "Look up a line instead of a rect")

	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(sliceCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(diffCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Parse a script, replay every commit and print the resulting store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := loadEnv()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		fmt.Printf("📂 Replaying %s\n", args[0])
		rep := report.New(args[0], env.policy.Mode.String())
		db, err := env.load(args[0], rep)

		if reportPath != "" {
			if serr := rep.Save(reportPath); serr != nil {
				log.Printf("⚠️ Failed to write report: %v", serr)
			} else {
				fmt.Printf("📊 Report written to %s\n", reportPath)
			}
		}
		if err != nil {
			log.Fatalf("Replay failed: %v", err)
		}

		latest := db.Latest()
		fmt.Printf("✅ Version %d: %d rect(s), %d line(s) live\n", latest.Version, len(latest.Rects), len(latest.Lines))
	},
}

var sliceCmd = &cobra.Command{
	Use:   "slice FILE",
	Short: "Print every entity live at one version",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, db := mustLoad(args[0])

		v := db.Version()
		if sliceAt >= 0 {
			var err error
			if v, err = checkVersion(db, strconv.FormatInt(sliceAt, 10)); err != nil {
				log.Fatalf("Invalid version: %v", err)
			}
		}

		format := sliceFormat
		if format == "" {
			format = env.cfg.Output.Format
		}
		snap := db.Slice(v)

		switch format {
		case "table", "":
			err := render.Table(os.Stdout, snap, env.renderOptions())
			if err != nil {
				log.Fatalf("Render failed: %v", err)
			}
		case "markdown", "md":
			if err := render.Markdown(os.Stdout, snap); err != nil {
				log.Fatalf("Render failed: %v", err)
			}
		case "json":
			if err := render.JSON(os.Stdout, snap); err != nil {
				log.Fatalf("Render failed: %v", err)
			}
		default:
			log.Fatalf("Unknown format %q", format)
		}
	},
}

var historyCmd = &cobra.Command{
	Use:   "history FILE NAME",
	Short: "Print the timeline of one entity",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		env, db := mustLoad(args[0])

		kind := geo.KindRect
		if historyLine {
			kind = geo.KindLine
		}
		records, ok := db.Timeline(kind, args[1])
		if !ok {
			log.Fatalf("No %s named %q", kind, args[1])
		}
		if err := render.History(os.Stdout, kind, args[1], records, env.renderOptions()); err != nil {
			log.Fatalf("Render failed: %v", err)
		}
	},
}

var logCmd = &cobra.Command{
	Use:   "log FILE",
	Short: "Print what every version changed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, db := mustLoad(args[0])
		if err := render.Log(os.Stdout, db.Log(), env.renderOptions()); err != nil {
			log.Fatalf("Render failed: %v", err)
		}
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff FILE V1 V2",
	Short: "Show a unified diff between two versions",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		env, db := mustLoad(args[0])

		from, err := checkVersion(db, args[1])
		if err != nil {
			log.Fatalf("Invalid version: %v", err)
		}
		to, err := checkVersion(db, args[2])
		if err != nil {
			log.Fatalf("Invalid version: %v", err)
		}

		unified, err := db.Slice(from).Diff(db.Slice(to))
		if err != nil {
			log.Fatalf("Diff failed: %v", err)
		}
		if err := render.Diff(os.Stdout, unified, env.renderOptions()); err != nil {
			log.Fatalf("Render failed: %v", err)
		}
	},
}

func mustLoad(path string) (*appEnv, *store.Db) {
	e, err := loadEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	db, err := e.load(path, nil)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", path, err)
	}
	return e, db
}

var errVersionRange = errors.New("version out of range")

// checkVersion parses raw and makes sure db has created it.
func checkVersion(db *store.Db, raw string) (store.VersionID, error) {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", raw, err)
	}
	v := store.VersionID(n)
	if v > db.Version() {
		return 0, fmt.Errorf("%w: %d (latest is %d)", errVersionRange, v, db.Version())
	}
	return v, nil
}
