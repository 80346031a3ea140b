package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/dpsim/internal/config"
	"github.com/san-kum/dpsim/internal/dynamo"
	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

// FrameHeader is the column layout of frames.csv.
var FrameHeader = []string{"time", "theta1", "theta2", "omega1", "omega2", "x1", "y1", "x2", "y2"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string                `json:"id"`
	Preset      string                `json:"preset,omitempty"`
	Timestamp   time.Time             `json:"timestamp"`
	Dt          float64               `json:"dt"`
	Duration    float64               `json:"duration"`
	Integrator  string                `json:"integrator"`
	Pendulum    config.PendulumConfig `json:"pendulum"`
	TrailLimit  int                   `json:"trail_limit"`
	Steps       int                   `json:"steps"`
	DivergedAt  int                   `json:"diverged_at"`
	EnergyDrift *float64              `json:"energy_drift,omitempty"`
	Metrics     map[string]float64    `json:"metrics"`
}

// NewMetadata describes a finished run of cfg. The ID and timestamp are
// assigned by Save. Non-finite values are dropped since JSON cannot
// represent them; a diverged run has no energy drift.
func NewMetadata(preset string, cfg *config.Config, result *sim.Result) RunMetadata {
	metrics := make(map[string]float64, len(result.Metrics))
	for k, v := range result.Metrics {
		if isFinite(v) {
			metrics[k] = v
		}
	}

	var drift *float64
	if isFinite(result.EnergyDrift) {
		d := result.EnergyDrift
		drift = &d
	}

	return RunMetadata{
		Preset:      preset,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		Integrator:  sim.Scheme,
		Pendulum:    cfg.Pendulum,
		TrailLimit:  cfg.Trail.Limit,
		Steps:       result.StepsTaken,
		DivergedAt:  result.DivergedAt,
		EnergyDrift: drift,
		Metrics:     metrics,
	}
}

func (s *Store) Save(meta RunMetadata, frames []sim.Frame) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("run_%d", now.UnixNano())
	meta.Timestamp = now
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, frames); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

func WriteCSV(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(FrameHeader); err != nil {
		return err
	}

	for _, f := range frames {
		row := make([]string, 0, len(FrameHeader))
		row = append(row, formatFloat(f.Time))
		for _, v := range f.State {
			row = append(row, formatFloat(v))
		}
		row = append(row,
			formatFloat(f.Joint1.X), formatFloat(f.Joint1.Y),
			formatFloat(f.Joint2.X), formatFloat(f.Joint2.Y),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) ([]sim.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(FrameHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, FrameHeader[j], err)
			}
			vals[j] = v
		}

		frames = append(frames, sim.Frame{
			Time:   vals[0],
			State:  dynamo.State{vals[1], vals[2], vals[3], vals[4]},
			Joint1: pendulum.Point{X: vals[5], Y: vals[6]},
			Joint2: pendulum.Point{X: vals[7], Y: vals[8]},
		})
	}

	return frames, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
