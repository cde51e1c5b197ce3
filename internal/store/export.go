package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/storage"
)

type ExportData struct {
	Run      storage.RunMetadata `json:"run"`
	Times    []float64           `json:"times"`
	Alpha    []float64           `json:"alpha"`
	Steps    []uint64            `json:"steps"`
	Recycled []uint64            `json:"recycled"`
	Speed    []float64           `json:"mean_speed"`
	Energy   []float64           `json:"kinetic_energy"`
}

// NewExportData lays the samples out column-wise.
func NewExportData(meta storage.RunMetadata, samples []experiment.Sample) ExportData {
	data := ExportData{
		Run:      meta,
		Times:    make([]float64, len(samples)),
		Alpha:    make([]float64, len(samples)),
		Steps:    make([]uint64, len(samples)),
		Recycled: make([]uint64, len(samples)),
		Speed:    make([]float64, len(samples)),
		Energy:   make([]float64, len(samples)),
	}
	for i, s := range samples {
		data.Times[i] = s.Time
		data.Alpha[i] = s.Alpha
		data.Steps[i] = s.Steps
		data.Recycled[i] = s.Recycled
		data.Speed[i] = s.MeanSpeed
		data.Energy[i] = s.KineticEnergy
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}
