package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geogit/internal/store"
)

func TestReport_StagesAndSignals(t *testing.T) {
	r := New("demo.geo", "rgb")

	h := r.BeginStage(StageParse)
	r.EndStage(h, map[string]float64{"commits": 3, " ": 1}, []string{" ", "ok"}, nil)

	h = r.BeginStage(StageReplay)
	r.EndStage(h, nil, nil, errors.New("commit 2: duplicate add"))

	r.RecordVersions([]store.VersionInfo{
		{Version: 1, Actions: 2, Changes: 2},
		{Version: 2, Actions: 0, Changes: 0},
		{Version: 3, Actions: 1, Changes: 0},
	})
	r.Finalize()

	require.Len(t, r.Stages, 2)
	assert.Equal(t, map[string]float64{"commits": 3}, r.Stages[0].Counters)
	assert.Equal(t, []string{"ok"}, r.Stages[0].Notes)
	assert.Equal(t, "error", r.Stages[1].Status)

	require.Len(t, r.Signals, 3)
	assert.Equal(t, "replay_failed", r.Signals[0].Code)
	assert.Equal(t, "noop_commit", r.Signals[1].Code)
	assert.Equal(t, "empty_commit", r.Signals[2].Code)

	assert.Equal(t, Summary{
		StageCount:        2,
		FailedStages:      1,
		VersionCount:      3,
		ActionCount:       3,
		ChangeCount:       2,
		NoopVersions:      2,
		SignalsBySeverity: map[string]int{SeverityCritical: 1, SeverityWarning: 1, SeverityInfo: 1},
	}, r.Summary)
}

func TestReport_AddSignalRejectsIncomplete(t *testing.T) {
	r := New("x", "rgb")
	r.AddSignal("code", "", SeverityInfo, "msg", 0)
	r.AddSignal("code", StageReplay, SeverityInfo, "  ", 0)
	assert.Empty(t, r.Signals)

	var nilReport *Report
	assert.NotPanics(t, func() {
		nilReport.AddSignal("a", "b", "c", "d", 0)
		nilReport.Finalize()
	})
	assert.NoError(t, nilReport.Save("unused"))
}

func TestReport_Save(t *testing.T) {
	r := New("demo.geo", "gradient")
	r.RecordVersions([]store.VersionInfo{{Version: 1, Actions: 1, Changes: 1}})

	path := filepath.Join(t.TempDir(), "nested", "report.json")
	require.NoError(t, r.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "gradient", got.ColorMode)
	assert.Equal(t, 1, got.Summary.VersionCount)
	assert.Equal(t, []store.VersionInfo{{Version: 1, Actions: 1, Changes: 1}}, got.Versions)
}
