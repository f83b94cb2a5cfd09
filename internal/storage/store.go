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

	"github.com/google/uuid"
	"github.com/san-kum/ctmqc/internal/config"
	"github.com/san-kum/ctmqc/internal/ensemble"
	"github.com/san-kum/ctmqc/internal/validate"
)

const (
	metadataFile = "metadata.json"
	diffsFile    = "diffs.csv"
	ensembleFile = "ensemble.csv"
	configFile   = "config.yaml"
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
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Seed            int64     `json:"seed"`
	Replicas        int       `json:"replicas"`
	Dofs            int       `json:"dofs"`
	StepSize        float64   `json:"step_size"`
	WidthConst      float64   `json:"width_const"`
	RecomputeWidths bool      `json:"recompute_widths"`
	Compared        int       `json:"compared"`
	ZeroCrossings   int       `json:"zero_crossings"`
	Skipped         int       `json:"skipped"`
	MeanPct         float64   `json:"mean_pct"`
	StdPct          float64   `json:"std_pct"`
	MaxAbsPct       float64   `json:"max_abs_pct"`
	MinAbsPct       float64   `json:"min_abs_pct"`
}

// Diff is one row of diffs.csv.
type Diff struct {
	Replica  int
	Dof      int
	Position float64
	Pct      float64
}

// Save writes a validation run: metadata, per-cell differences and the
// ensemble positions and widths the check was run on.
func (s *Store) Save(seed int64, e *ensemble.Ensemble, r *validate.Report) (string, error) {
	runID := "validate_" + uuid.New().String()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Timestamp:       time.Now(),
		Seed:            seed,
		Replicas:        e.Replicas(),
		Dofs:            e.Dofs(),
		StepSize:        e.Params.StepSize,
		WidthConst:      e.Params.WidthConst,
		RecomputeWidths: e.Params.RecomputeWidths,
		Compared:        len(r.Diffs),
		ZeroCrossings:   r.Zeros,
		Skipped:         r.Skipped,
		MeanPct:         r.Mean,
		StdPct:          r.Std,
		MaxAbsPct:       r.MaxAbs,
		MinAbsPct:       r.MinAbs,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	diffs := [][]string{{"replica", "dof", "position", "pct_diff"}}
	for k, c := range r.Cells {
		diffs = append(diffs, []string{
			strconv.Itoa(c.Replica),
			strconv.Itoa(c.Dof),
			formatFloat(r.Positions[k]),
			formatFloat(r.Diffs[k]),
		})
	}
	if err := writeCSV(filepath.Join(runDir, diffsFile), diffs); err != nil {
		return "", err
	}

	cells := [][]string{{"replica", "dof", "position", "width"}}
	for i := 0; i < e.Replicas(); i++ {
		for v := 0; v < e.Dofs(); v++ {
			cells = append(cells, []string{
				strconv.Itoa(i),
				strconv.Itoa(v),
				formatFloat(e.Positions[i][v]),
				formatFloat(e.Widths[i][v]),
			})
		}
	}
	if err := writeCSV(filepath.Join(runDir, ensembleFile), cells); err != nil {
		return "", err
	}

	return runID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
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

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 4
	return r.ReadAll()
}

// List returns the metadata of every stored run, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadDiffs(runID string) ([]Diff, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, diffsFile))
	if err != nil {
		return nil, err
	}

	diffs := make([]Diff, 0, len(records))
	for i, rec := range records {
		if i == 0 {
			continue
		}
		var d Diff
		if d.Replica, err = strconv.Atoi(rec[0]); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", diffsFile, i+1, err)
		}
		if d.Dof, err = strconv.Atoi(rec[1]); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", diffsFile, i+1, err)
		}
		if d.Position, err = strconv.ParseFloat(rec[2], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", diffsFile, i+1, err)
		}
		if d.Pct, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", diffsFile, i+1, err)
		}
		diffs = append(diffs, d)
	}
	return diffs, nil
}

// LoadEnsemble returns the positions and widths of a stored run as
// [replica][dof] grids.
func (s *Store) LoadEnsemble(runID string) (positions, widths [][]float64, err error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	records, err := readCSV(filepath.Join(s.baseDir, runID, ensembleFile))
	if err != nil {
		return nil, nil, err
	}

	positions = make([][]float64, meta.Replicas)
	widths = make([][]float64, meta.Replicas)
	for i := range positions {
		positions[i] = make([]float64, meta.Dofs)
		widths[i] = make([]float64, meta.Dofs)
	}

	for n, rec := range records {
		if n == 0 {
			continue
		}
		i, err1 := strconv.Atoi(rec[0])
		v, err2 := strconv.Atoi(rec[1])
		x, err3 := strconv.ParseFloat(rec[2], 64)
		w, err4 := strconv.ParseFloat(rec[3], 64)
		for _, e := range []error{err1, err2, err3, err4} {
			if e != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", ensembleFile, n+1, e)
			}
		}
		if i < 0 || i >= meta.Replicas || v < 0 || v >= meta.Dofs {
			return nil, nil, fmt.Errorf("%s line %d: %w", ensembleFile, n+1, ensemble.ErrIndexOutOfRange)
		}
		positions[i][v] = x
		widths[i][v] = w
	}
	return positions, widths, nil
}

// SaveConfig stores the configuration a run was generated from, so the run
// can be repeated with `validate --config`.
func (s *Store) SaveConfig(runID string, cfg *config.Config) error {
	runDir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(runDir); err != nil {
		return err
	}
	return config.Save(filepath.Join(runDir, configFile), cfg)
}

// LoadConfig returns the configuration stored with a run.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}
