package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/mcollide/internal/sim"
)

type ExportData struct {
	Scene     string             `json:"scene"`
	Algorithm string             `json:"algorithm"`
	Steps     int                `json:"steps"`
	Dt        float64            `json:"dt"`
	Series    []sim.StepStats    `json:"series"`
	Contacts  []ContactRecord    `json:"contacts"`
	Metrics   map[string]float64 `json:"metrics"`
}

func NewExportData(meta RunMetadata, result *sim.Result) ExportData {
	return ExportData{
		Scene:     meta.Scene,
		Algorithm: meta.Algorithm,
		Steps:     result.StepsTaken,
		Dt:        meta.Dt,
		Series:    result.Steps,
		Contacts:  toRecords(result.Contacts),
		Metrics:   result.Metrics,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes data to path, or to stdout when path is "-".
func ExportJSON(path string, data ExportData) error {
	if path == "-" {
		return WriteJSON(os.Stdout, data)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}
