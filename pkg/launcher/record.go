package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

// Record is the persisted outcome of one run.
type Record struct {
	Invocation  *Invocation `yaml:"invocation"`
	CommandLine string      `yaml:"commandLine"`
	Runner      string      `yaml:"runner"`
	StartedAt   string      `yaml:"startedAt"`
	FinishedAt  string      `yaml:"finishedAt"`
	Duration    string      `yaml:"duration"`
	ExitCode    int         `yaml:"exitCode"`
	Error       string      `yaml:"error,omitempty"`
}

// Recorder writes one YAML file per run into Dir.
type Recorder struct {
	Dir string
}

func (r *Recorder) path(runID string) string {
	return filepath.Join(r.Dir, runID+".yaml")
}

// Write persists rec as <Dir>/<run id>.yaml and returns the file path.
func (r *Recorder) Write(rec *Record) (string, error) {
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create record directory: %w", err)
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run record: %w", err)
	}
	path := r.path(rec.Invocation.RunID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run record: %w", err)
	}
	return path, nil
}

// Read loads the record of runID.
func (r *Recorder) Read(runID string) (*Record, error) {
	data, err := os.ReadFile(r.path(runID))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse run record: %w", err)
	}
	return &rec, nil
}

func newRecord(inv *Invocation, runner string, started, finished time.Time, err error) *Record {
	rec := &Record{
		Invocation:  inv,
		CommandLine: inv.CommandLine(),
		Runner:      runner,
		StartedAt:   started.UTC().Format(time.RFC3339),
		FinishedAt:  finished.UTC().Format(time.RFC3339),
		Duration:    finished.Sub(started).Round(time.Millisecond).String(),
		ExitCode:    ExitCode(err),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}
