package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tnqbao/gau-craft-catalog/entity"
	"github.com/tnqbao/gau-craft-catalog/infra"
)

// JSONFileCraftRepository keeps every craft in a single JSON array on disk.
// Each mutation loads the whole array, changes it in memory and writes the
// whole array back. Mutations are serialized through locker; with
// infra.NoopLocker overlapping mutations lose updates.
type JSONFileCraftRepository struct {
	path   string
	locker infra.Locker
}

func NewJSONFileCraftRepository(path string, locker infra.Locker) *JSONFileCraftRepository {
	if locker == nil {
		locker = infra.NoopLocker{}
	}
	return &JSONFileCraftRepository{path: path, locker: locker}
}

func (r *JSONFileCraftRepository) List(_ context.Context) ([]entity.Craft, error) {
	return r.load()
}

func (r *JSONFileCraftRepository) Create(ctx context.Context, craft entity.Craft, imageRef string) error {
	return r.mutate(ctx, func(crafts []entity.Craft) ([]entity.Craft, error) {
		created := craft.Clone()
		created.Image = imageRef
		return append(crafts, created), nil
	})
}

func (r *JSONFileCraftRepository) Update(ctx context.Context, name string, craft entity.Craft, imageRef *string) error {
	return r.mutate(ctx, func(crafts []entity.Craft) ([]entity.Craft, error) {
		idx := indexByName(crafts, name)
		if idx == -1 {
			return nil, ErrCraftNotFound
		}

		updated := craft.Clone()
		crafts[idx].Name = updated.Name
		crafts[idx].Description = updated.Description
		crafts[idx].Supplies = updated.Supplies
		if imageRef != nil {
			crafts[idx].Image = *imageRef
		}
		return crafts, nil
	})
}

func (r *JSONFileCraftRepository) Delete(ctx context.Context, name string) error {
	return r.mutate(ctx, func(crafts []entity.Craft) ([]entity.Craft, error) {
		idx := indexByName(crafts, name)
		if idx == -1 {
			return nil, ErrCraftNotFound
		}
		return append(crafts[:idx], crafts[idx+1:]...), nil
	})
}

func (r *JSONFileCraftRepository) mutate(ctx context.Context, fn func([]entity.Craft) ([]entity.Craft, error)) error {
	unlock, err := r.locker.Lock(ctx, r.path)
	if err != nil {
		return fmt.Errorf("failed to lock crafts file: %w", err)
	}
	defer unlock()

	crafts, err := r.load()
	if err != nil {
		return err
	}

	crafts, err = fn(crafts)
	if err != nil {
		return err
	}

	return r.save(crafts)
}

// load reads the full array. A missing or empty file is an empty catalog.
func (r *JSONFileCraftRepository) load() ([]entity.Craft, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []entity.Craft{}, nil
		}
		return nil, fmt.Errorf("failed to read crafts file: %w", err)
	}
	if len(data) == 0 {
		return []entity.Craft{}, nil
	}

	var crafts []entity.Craft
	if err := json.Unmarshal(data, &crafts); err != nil {
		return nil, fmt.Errorf("failed to decode crafts file: %w", err)
	}
	if crafts == nil {
		crafts = []entity.Craft{}
	}
	return crafts, nil
}

// save replaces the file with the full array via a temp file and rename.
func (r *JSONFileCraftRepository) save(crafts []entity.Craft) error {
	data, err := json.Marshal(crafts)
	if err != nil {
		return fmt.Errorf("failed to encode crafts: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create crafts directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp crafts file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write crafts file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write crafts file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace crafts file: %w", err)
	}

	return nil
}

func indexByName(crafts []entity.Craft, name string) int {
	for i := range crafts {
		if crafts[i].Name == name {
			return i
		}
	}
	return -1
}
