package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smartspray-data/sprayer.report/internal/engine"
)

// Fixed artifact filenames within a model directory.
const (
	ClassifierFile    = "classifier.json"
	RegressorFile     = "regressor.json"
	SectionLabelsFile = "section_labels.json"
	StateLabelsFile   = "state_labels.json"
)

// maxArtifactSize caps artifact reads (a trained forest dump is well under
// this).
const maxArtifactSize = 32 * 1024 * 1024 // 32MB

// ArtifactSet holds the four frozen artifacts the engine depends on, loaded
// once at process start and shared read-only across all predictions.
type ArtifactSet struct {
	Classifier *ForestClassifier
	Regressor  *ForestRegressor
	Sections   *LabelEncoder
	States     *LabelEncoder
}

// LoadArtifacts reads and validates the full artifact set from dir. All four
// files must be present and well-formed; a partial set is useless, so the
// first failure aborts the load. Callers map any error to a disabled engine
// rather than exiting.
func LoadArtifacts(dir string) (*ArtifactSet, error) {
	var (
		set ArtifactSet
		err error
	)

	if set.Classifier, err = loadClassifier(filepath.Join(dir, ClassifierFile)); err != nil {
		return nil, err
	}
	if set.Regressor, err = loadRegressor(filepath.Join(dir, RegressorFile)); err != nil {
		return nil, err
	}
	if set.Sections, err = loadEncoder(filepath.Join(dir, SectionLabelsFile)); err != nil {
		return nil, err
	}
	if set.States, err = loadEncoder(filepath.Join(dir, StateLabelsFile)); err != nil {
		return nil, err
	}

	if set.Classifier.NumFeatures != engine.FeatureCount {
		return nil, fmt.Errorf("classifier expects %d features, engine produces %d",
			set.Classifier.NumFeatures, engine.FeatureCount)
	}
	if set.Regressor.NumFeatures != engine.FeatureCount {
		return nil, fmt.Errorf("regressor expects %d features, engine produces %d",
			set.Regressor.NumFeatures, engine.FeatureCount)
	}

	return &set, nil
}

// NewPredictor loads the artifact set from dir and wires it into an engine
// predictor. On any load failure it returns a disabled predictor alongside
// the error so callers can keep serving non-prediction routes.
func NewPredictor(dir string) (*engine.Predictor, error) {
	set, err := LoadArtifacts(dir)
	if err != nil {
		return engine.Disabled(), fmt.Errorf("%w: %v", engine.ErrModelsUnavailable, err)
	}
	return engine.NewPredictor(set.Classifier, set.Regressor, set.Sections, set.States), nil
}

func loadClassifier(path string) (*ForestClassifier, error) {
	forest, err := loadForest(path)
	if err != nil {
		return nil, err
	}
	return &ForestClassifier{Forest: *forest}, nil
}

func loadRegressor(path string) (*ForestRegressor, error) {
	forest, err := loadForest(path)
	if err != nil {
		return nil, err
	}
	return &ForestRegressor{Forest: *forest}, nil
}

// loadForest reads and validates one serialised forest.
func loadForest(path string) (*Forest, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, err
	}

	var forest Forest
	if err := json.Unmarshal(data, &forest); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	return &forest, nil
}

func loadEncoder(path string) (*LabelEncoder, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	enc, err := UnmarshalLabelEncoder(data)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	return enc, nil
}

// readArtifact validates and reads one artifact file.
func readArtifact(path string) ([]byte, error) {
	if ext := filepath.Ext(path); ext != ".json" {
		return nil, fmt.Errorf("artifact %s must have .json extension, got %q", filepath.Base(path), ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("missing artifact %s: %w", filepath.Base(path), err)
	}
	if info.Size() > maxArtifactSize {
		return nil, fmt.Errorf("artifact %s too large: %d bytes (max %d)",
			filepath.Base(path), info.Size(), maxArtifactSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", filepath.Base(path), err)
	}
	return data, nil
}
