package hparams

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tasks accepted by the training program's output head.
var Tasks = []string{"node_level", "link_level", "graph_level"}

// Dataset describes how the training program treats a benchmark dataset.
type Dataset struct {
	Name    string `json:"name" yaml:"name"`
	Encoder string `json:"encoder" yaml:"encoder"`
	Metric  string `json:"metric" yaml:"metric"`
}

// Datasets is the set of benchmarks the training program can load.
var Datasets = map[string]Dataset{
	"ZINC":          {"ZINC", "embedding", "MAE"},
	"QM9":           {"QM9", "linear", "MAE"},
	"TSP":           {"TSP", "linear", "binary_f1_score"},
	"MNIST":         {"MNIST", "linear", "accuracy_MNIST_CIFAR"},
	"CIFAR10":       {"CIFAR10", "linear", "accuracy_MNIST_CIFAR"},
	"SBM_CLUSTER":   {"SBM_CLUSTER", "embedding", "accuracy_SBM"},
	"SBM_PATTERN":   {"SBM_PATTERN", "embedding", "accuracy_SBM"},
	"Cora":          {"Cora", "linear", "CoraAccuracy"},
	"ENZYMES":       {"ENZYMES", "linear", "accuracy_TU"},
	"DD":            {"DD", "linear", "accuracy_TU"},
	"PROTEINS_full": {"PROTEINS_full", "linear", "accuracy_TU"},
}

var positiveInts = []string{
	"nb_classes", "batch", "epochs", "nb_layers", "nb_nodes", "node_dim", "in_dim_V",
}

// ValidationError collects every problem found in a profile.
type ValidationError struct {
	Profile  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("profile %s is invalid: %s", e.Profile, strings.Join(e.Problems, "; "))
}

// Validate checks the flags the training program dispatches on. Flags it
// does not know about are passed through untouched.
func (p *Profile) Validate() error {
	var problems []string

	if task, ok := p.Get("task"); ok && !contains(Tasks, task) {
		problems = append(problems, fmt.Sprintf("unknown task %q (want one of %s)", task, strings.Join(Tasks, ", ")))
	}
	if data, ok := p.Get("data"); ok {
		if _, known := Datasets[data]; !known {
			problems = append(problems, fmt.Sprintf("unknown dataset %q", data))
		}
	}
	for _, name := range positiveInts {
		v, ok := p.Get(name)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(v); err != nil || n <= 0 {
			problems = append(problems, fmt.Sprintf("--%s must be a positive integer, got %q", name, v))
		}
	}
	if v, ok := p.Get("dropout"); ok {
		if f, err := parseFinite(v); err != nil || f < 0 || f >= 1 {
			problems = append(problems, fmt.Sprintf("--dropout must be in [0,1), got %q", v))
		}
	}
	if v, ok := p.Get("lr"); ok {
		if f, err := parseFinite(v); err != nil || f <= 0 {
			problems = append(problems, fmt.Sprintf("--lr must be a positive number, got %q", v))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Profile: p.Name, Problems: problems}
	}
	return nil
}

// parseFinite parses a float and rejects NaN and infinities, which
// ParseFloat accepts and every range comparison lets through.
func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
