package seasonal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/golang/snappy"
)

const (
	artifactVersion = 1
	kindHoltWinters = "holt_winters"
)

type artifactFile struct {
	Version int             `json:"version"`
	Models  []artifactEntry `json:"models"`
}

type artifactEntry struct {
	ProductID int64           `json:"product_id"`
	Kind      string          `json:"kind"`
	State     json.RawMessage `json:"state"`
}

// EncodeArtifact serialises models into a snappy-compressed JSON envelope.
func EncodeArtifact(models map[int64]Model) ([]byte, error) {
	ids := make([]int64, 0, len(models))
	for id := range models {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	file := artifactFile{Version: artifactVersion, Models: make([]artifactEntry, 0, len(ids))}
	for _, id := range ids {
		hw, ok := models[id].(*HoltWintersModel)
		if !ok {
			return nil, fmt.Errorf("%w: product %d has %T", ErrUnsupportedModel, id, models[id])
		}
		state, err := json.Marshal(hw)
		if err != nil {
			return nil, err
		}
		file.Models = append(file.Models, artifactEntry{ProductID: id, Kind: kindHoltWinters, State: state})
	}

	raw, err := json.Marshal(file)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, raw), nil
}

// DecodeArtifact is the inverse of EncodeArtifact.
func DecodeArtifact(data []byte) (map[int64]Model, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("decompress artifact: %w", err)
	}

	var file artifactFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if file.Version != artifactVersion {
		return nil, fmt.Errorf("%w: artifact version %d", ErrUnsupportedModel, file.Version)
	}

	models := make(map[int64]Model, len(file.Models))
	for _, entry := range file.Models {
		if entry.Kind != kindHoltWinters {
			return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedModel, entry.Kind)
		}
		var hw HoltWintersModel
		if err := json.Unmarshal(entry.State, &hw); err != nil {
			return nil, fmt.Errorf("decode model %d: %w", entry.ProductID, err)
		}
		models[entry.ProductID] = &hw
	}
	return models, nil
}

// SaveArtifact writes models to path, replacing any previous artifact atomically.
func SaveArtifact(path string, models map[int64]Model) error {
	data, err := EncodeArtifact(models)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func LoadArtifact(path string) (map[int64]Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, err
	}
	return DecodeArtifact(data)
}
