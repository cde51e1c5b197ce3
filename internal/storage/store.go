package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/particlesim/internal/experiment"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var sampleHeader = []string{
	"frame", "time", "alpha", "steps", "recycled",
	"mean_speed", "max_speed", "kinetic_energy",
}

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
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint64             `json:"seed"`
	Particles int                `json:"particles"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Rate      float64            `json:"rate"`
	FPS       float64            `json:"fps"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Steps     uint64             `json:"steps"`
	Recycled  uint64             `json:"recycled"`
	WallMs    float64            `json:"wall_ms"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(result *experiment.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", result.Scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	cfg := result.Config
	meta := RunMetadata{
		ID:        runID,
		Scenario:  result.Scenario,
		Timestamp: now,
		Seed:      cfg.Seed,
		Particles: cfg.Particles,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Rate:      cfg.Rate,
		FPS:       cfg.FPS,
		Duration:  cfg.Duration,
		Frames:    len(result.Samples),
		Steps:     result.Steps,
		Recycled:  result.Recycled,
		WallMs:    float64(result.Wall.Microseconds()) / 1000,
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Samples); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, samples []experiment.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Frame),
			formatFloat(s.Time),
			formatFloat(s.Alpha),
			strconv.FormatUint(s.Steps, 10),
			strconv.FormatUint(s.Recycled, 10),
			formatFloat(s.MeanSpeed),
			formatFloat(s.MaxSpeed),
			formatFloat(s.KineticEnergy),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns all readable runs, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]experiment.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(sampleHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []experiment.Sample{}, nil
	}

	samples := make([]experiment.Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		s, err := parseSample(rec)
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", runID, i+2, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func parseSample(rec []string) (experiment.Sample, error) {
	var (
		s    experiment.Sample
		errs []error
	)
	intField := func(str string) int {
		v, err := strconv.Atoi(str)
		errs = append(errs, err)
		return v
	}
	uintField := func(str string) uint64 {
		v, err := strconv.ParseUint(str, 10, 64)
		errs = append(errs, err)
		return v
	}
	floatField := func(str string) float64 {
		v, err := strconv.ParseFloat(str, 64)
		errs = append(errs, err)
		return v
	}

	s.Frame = intField(rec[0])
	s.Time = floatField(rec[1])
	s.Alpha = floatField(rec[2])
	s.Steps = uintField(rec[3])
	s.Recycled = uintField(rec[4])
	s.MeanSpeed = floatField(rec[5])
	s.MaxSpeed = floatField(rec[6])
	s.KineticEnergy = floatField(rec[7])

	for _, err := range errs {
		if err != nil {
			return s, err
		}
	}
	return s, nil
}
