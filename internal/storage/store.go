package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/mcollide/internal/collision"
	"github.com/san-kum/mcollide/internal/sim"
)

const (
	metadataFile = "metadata.json"
	stepsFile    = "steps.csv"
	contactsFile = "contacts.msgpack"
)

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
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint64             `json:"seed"`
	Steps     int                `json:"steps"`
	Dt        float64            `json:"dt"`
	Algorithm string             `json:"algorithm"`
	Envelope  float64            `json:"envelope"`
	Bodies    int                `json:"bodies"`
	Shapes    int                `json:"shapes"`
	Metrics   map[string]float64 `json:"metrics"`
}

// ContactRecord is the on-disk form of one rigid contact.
type ContactRecord struct {
	BodyA  int        `msgpack:"ba"`
	BodyB  int        `msgpack:"bb"`
	ShapeA int        `msgpack:"sa"`
	ShapeB int        `msgpack:"sb"`
	PointA [3]float64 `msgpack:"pa"`
	PointB [3]float64 `msgpack:"pb"`
	Normal [3]float64 `msgpack:"n"`
	Depth  float64    `msgpack:"d"`
}

func toRecords(cs []collision.Contact) []ContactRecord {
	out := make([]ContactRecord, len(cs))
	for i, c := range cs {
		out[i] = ContactRecord{
			BodyA:  c.BodyA,
			BodyB:  c.BodyB,
			ShapeA: c.ShapeA,
			ShapeB: c.ShapeB,
			PointA: c.PointA,
			PointB: c.PointB,
			Normal: c.Normal,
			Depth:  c.Depth,
		}
	}
	return out
}

var stepHeader = []string{"step", "time", "shapes", "pairs", "contacts", "fluid_contacts", "active_bins", "broad_ms", "narrow_ms", "max_depth"}

// Save writes metadata, the per-step series and the final contacts of a
// run into a new run directory and returns its id. meta.ID and
// meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Metrics = result.Metrics

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

	if err := writeSteps(filepath.Join(runDir, stepsFile), result.Steps); err != nil {
		return "", err
	}

	data, err := msgpack.Marshal(toRecords(result.Contacts))
	if err != nil {
		return "", fmt.Errorf("storage: encode contacts: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, contactsFile), data, 0644); err != nil {
		return "", err
	}

	return runID, nil
}

func writeSteps(path string, steps []sim.StepStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(stepHeader); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, st := range steps {
		row := []string{
			strconv.Itoa(st.Step),
			ff(st.Time),
			strconv.Itoa(st.Shapes),
			strconv.Itoa(st.Pairs),
			strconv.Itoa(st.Contacts),
			strconv.Itoa(st.FluidContacts),
			strconv.Itoa(st.ActiveBins),
			ff(st.BroadSeconds * 1e3),
			ff(st.NarrowSeconds * 1e3),
			ff(st.MaxDepth),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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

	slices.SortFunc(runs, func(a, b RunMetadata) int { return a.Timestamp.Compare(b.Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadSteps reads the per-step series back. Malformed rows are skipped.
func (s *Store) LoadSteps(runID string) ([]sim.StepStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, stepsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.StepStats{}, nil
	}

	steps := make([]sim.StepStats, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(stepHeader) {
			continue
		}
		var ints [6]int
		var floats [4]float64
		ok := true
		for j, col := range []int{0, 2, 3, 4, 5, 6} {
			if ints[j], err = strconv.Atoi(record[col]); err != nil {
				ok = false
			}
		}
		for j, col := range []int{1, 7, 8, 9} {
			if floats[j], err = strconv.ParseFloat(record[col], 64); err != nil {
				ok = false
			}
		}
		if !ok {
			continue
		}
		steps = append(steps, sim.StepStats{
			Step:          ints[0],
			Time:          floats[0],
			Shapes:        ints[1],
			Pairs:         ints[2],
			Contacts:      ints[3],
			FluidContacts: ints[4],
			ActiveBins:    ints[5],
			BroadSeconds:  floats[1] / 1e3,
			NarrowSeconds: floats[2] / 1e3,
			MaxDepth:      floats[3],
		})
	}

	return steps, nil
}

func (s *Store) LoadContacts(runID string) ([]ContactRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, contactsFile))
	if err != nil {
		return nil, err
	}
	var out []ContactRecord
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("storage: run %s contacts: %w", runID, err)
	}
	return out, nil
}
