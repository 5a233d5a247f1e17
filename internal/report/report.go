// Package report collects timing and outcome metrics for one script replay
// and writes them as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"geogit/internal/store"
)

const (
	StageParse  = "lex+parse"
	StageReplay = "replay"
)

const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

type Signal struct {
	Code     string  `json:"code"`
	Stage    string  `json:"stage"`
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
	Value    float64 `json:"value,omitempty"`
}

type StageMetric struct {
	Name       string             `json:"name"`
	Status     string             `json:"status"`
	StartedAt  string             `json:"started_at"`
	FinishedAt string             `json:"finished_at"`
	DurationMS int64              `json:"duration_ms"`
	Counters   map[string]float64 `json:"counters,omitempty"`
	Notes      []string           `json:"notes,omitempty"`
	Error      string             `json:"error,omitempty"`
}

type Summary struct {
	StageCount        int            `json:"stage_count"`
	FailedStages      int            `json:"failed_stages"`
	VersionCount      int            `json:"version_count"`
	ActionCount       int            `json:"action_count"`
	ChangeCount       int            `json:"change_count"`
	NoopVersions      int            `json:"noop_versions"`
	SignalsBySeverity map[string]int `json:"signals_by_severity"`
}

// Report describes one replay of a script file.
type Report struct {
	Format      string              `json:"format"`
	Script      string              `json:"script"`
	ColorMode   string              `json:"color_mode"`
	GeneratedAt string              `json:"generated_at"`
	Stages      []StageMetric       `json:"stages"`
	Versions    []store.VersionInfo `json:"versions"`
	Signals     []Signal            `json:"signals,omitempty"`
	Summary     Summary             `json:"summary"`
}

type StageHandle struct {
	name    string
	started time.Time
}

func New(script, colorMode string) *Report {
	return &Report{
		Format:      "v1",
		Script:      script,
		ColorMode:   colorMode,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Stages:      []StageMetric{},
		Versions:    []store.VersionInfo{},
		Signals:     []Signal{},
	}
}

func (r *Report) BeginStage(name string) StageHandle {
	return StageHandle{name: strings.TrimSpace(name), started: time.Now().UTC()}
}

func (r *Report) EndStage(h StageHandle, counters map[string]float64, notes []string, err error) {
	if r == nil || h.name == "" {
		return
	}
	finished := time.Now().UTC()
	m := StageMetric{
		Name:       h.name,
		Status:     "ok",
		StartedAt:  h.started.Format(time.RFC3339Nano),
		FinishedAt: finished.Format(time.RFC3339Nano),
		DurationMS: finished.Sub(h.started).Milliseconds(),
		Counters:   cleanCounters(counters),
		Notes:      cleanNotes(notes),
	}
	if err != nil {
		m.Status = "error"
		m.Error = err.Error()
		r.AddSignal(h.name+"_failed", h.name, SeverityCritical, err.Error(), 0)
	}
	r.Stages = append(r.Stages, m)
}

func (r *Report) AddSignal(code, stage, severity, message string, value float64) {
	if r == nil {
		return
	}
	s := Signal{
		Code:     strings.TrimSpace(code),
		Stage:    strings.TrimSpace(stage),
		Severity: strings.ToLower(strings.TrimSpace(severity)),
		Message:  strings.TrimSpace(message),
		Value:    value,
	}
	if s.Code == "" || s.Stage == "" || s.Severity == "" || s.Message == "" {
		return
	}
	r.Signals = append(r.Signals, s)
}

// RecordVersions copies the store's version log into the report and raises
// a signal for every commit that changed nothing.
func (r *Report) RecordVersions(log []store.VersionInfo) {
	if r == nil {
		return
	}
	r.Versions = append(r.Versions[:0], log...)
	for _, vi := range log {
		switch {
		case vi.Actions == 0:
			r.AddSignal("empty_commit", StageReplay, SeverityInfo,
				fmt.Sprintf("version %d has no actions", vi.Version), float64(vi.Version))
		case vi.Changes == 0:
			r.AddSignal("noop_commit", StageReplay, SeverityWarning,
				fmt.Sprintf("version %d: %d action(s) left every entity unchanged", vi.Version, vi.Actions),
				float64(vi.Version))
		}
	}
}

func (r *Report) Finalize() {
	if r == nil {
		return
	}
	r.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	severityCount := map[string]int{
		SeverityCritical: 0,
		SeverityWarning:  0,
		SeverityInfo:     0,
	}
	sort.SliceStable(r.Signals, func(i, j int) bool {
		pi := signalPriority(r.Signals[i].Severity)
		pj := signalPriority(r.Signals[j].Severity)
		if pi == pj {
			if r.Signals[i].Stage == r.Signals[j].Stage {
				return r.Signals[i].Code < r.Signals[j].Code
			}
			return r.Signals[i].Stage < r.Signals[j].Stage
		}
		return pi > pj
	})
	for _, s := range r.Signals {
		severityCount[s.Severity]++
	}

	failed := 0
	for _, st := range r.Stages {
		if st.Status != "ok" {
			failed++
		}
	}

	var actions, changes, noop int
	for _, vi := range r.Versions {
		actions += vi.Actions
		changes += vi.Changes
		if vi.Changes == 0 {
			noop++
		}
	}

	r.Summary = Summary{
		StageCount:        len(r.Stages),
		FailedStages:      failed,
		VersionCount:      len(r.Versions),
		ActionCount:       actions,
		ChangeCount:       changes,
		NoopVersions:      noop,
		SignalsBySeverity: severityCount,
	}
}

func (r *Report) Save(path string) error {
	if r == nil {
		return nil
	}
	r.Finalize()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func cleanCounters(raw map[string]float64) map[string]float64 {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		out[key] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cleanNotes(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, n := range raw {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func signalPriority(severity string) int {
	switch severity {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	default:
		return 1
	}
}
