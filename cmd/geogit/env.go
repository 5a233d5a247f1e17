package main

import (
	"fmt"
	"log/slog"
	"os"

	"geogit/internal/config"
	"geogit/internal/palette"
	"geogit/internal/parser"
	"geogit/internal/render"
	"geogit/internal/report"
	"geogit/internal/script"
	"geogit/internal/store"
)

// appEnv is the configuration shared by every command.
type appEnv struct {
	cfg    *config.Config
	policy palette.Policy
	logger *slog.Logger
}

func loadEnv() (*appEnv, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return &appEnv{cfg: cfg, policy: policy, logger: logger}, nil
}

func (e *appEnv) renderOptions() render.Options {
	return render.Options{Color: render.ColorEnabled(e.cfg.Output.Color, os.Stdout)}
}

// load reads the script at path and replays it into a new store, recording
// stage metrics into rep when it is non-nil.
func (e *appEnv) load(path string, rep *report.Report) (*store.Db, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	h := rep.BeginStage(report.StageParse)
	commits, err := parser.ParseCommits(string(src))
	rep.EndStage(h, map[string]float64{"bytes": float64(len(src)), "commits": float64(len(commits))}, nil, err)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	e.logger.Debug("script parsed", "path", path, "commits", len(commits))

	db, err := store.New(e.policy, store.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}

	h = rep.BeginStage(report.StageReplay)
	err = script.Replay(db, commits)
	rep.EndStage(h, map[string]float64{"versions": float64(db.Version())}, nil, err)
	rep.RecordVersions(db.Log())
	if err != nil {
		return nil, err
	}
	e.logger.Info("script replayed", "path", path, "version", db.Version())
	return db, nil
}
