package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/fsmx/internal/primitives"
)

// Report is a point-in-time observability dump of one machine: its history and
// metrics. It carries no resumable machine state.
type Report struct {
	MachineID   string                `json:"machineID" yaml:"machineID"`
	Version     string                `json:"version" yaml:"version"`
	GeneratedAt time.Time             `json:"generatedAt" yaml:"generatedAt"`
	SuccessRate float64               `json:"successRate" yaml:"successRate"`
	AverageTime time.Duration         `json:"averageTime,omitempty" yaml:"averageTime,omitempty"`
	Metrics     primitives.Metrics    `json:"metrics" yaml:"metrics"`
	History     []primitives.Envelope `json:"history,omitempty" yaml:"history,omitempty"`
}

// Format selects the report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ReportWriter is a file-based report store, one file per machine ID.
type ReportWriter struct {
	dir    string
	format Format
}

// NewReportWriter creates a ReportWriter, ensuring the directory exists.
func NewReportWriter(dir string, format Format) (*ReportWriter, error) {
	switch format {
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &ReportWriter{dir: dir, format: format}, nil
}

// Path returns the file a machine's report is written to.
func (w *ReportWriter) Path(machineID string) string {
	return filepath.Join(w.dir, machineID+"."+string(w.format))
}

// Save encodes the report and writes it, replacing any previous report.
func (w *ReportWriter) Save(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if w.format == FormatYAML {
		data, err = yaml.Marshal(report)
	} else {
		data, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("%s marshal: %w", w.format, err)
	}

	fn := w.Path(report.MachineID)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

// Load reads back a previously saved report.
func (w *ReportWriter) Load(ctx context.Context, machineID string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	fn := w.Path(machineID)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Report{}, fmt.Errorf("machine %q: %w", machineID, os.ErrNotExist)
		}
		return Report{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var report Report
	if w.format == FormatYAML {
		err = yaml.Unmarshal(data, &report)
	} else {
		err = json.Unmarshal(data, &report)
	}
	if err != nil {
		return Report{}, fmt.Errorf("%s unmarshal: %w", w.format, err)
	}
	report.MachineID = machineID // Ensure ID
	return report, nil
}
