package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnqbao/gau-craft-catalog/entity"
	"github.com/tnqbao/gau-craft-catalog/infra"
)

func newJSONRepo(t *testing.T) *JSONFileCraftRepository {
	t.Helper()
	return NewJSONFileCraftRepository(filepath.Join(t.TempDir(), "crafts.json"), infra.NewLocalLocker())
}

func TestJSONFileCraftRepository_Contract(t *testing.T) {
	runCraftRepositoryContract(t, func(t *testing.T) CraftRepository {
		return newJSONRepo(t)
	})
}

func TestJSONFileCraftRepository_WritesWholeArray(t *testing.T) {
	repo := newJSONRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, birdhouse(), "bird.png"))

	data, err := os.ReadFile(repo.path)
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "Birdhouse", raw[0]["name"])
	assert.Equal(t, "Wooden birdhouse", raw[0]["description"])
	assert.Equal(t, "bird.png", raw[0]["image"])
	assert.Equal(t, []interface{}{"wood", "nails"}, raw[0]["supplies"])

	matches, err := filepath.Glob(repo.path + ".*.tmp")
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files must not be left behind")
}

func TestJSONFileCraftRepository_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crafts.json")
	seed := `[{"name":"Kite","description":"Paper kite","image":"kite.png","supplies":["paper","string"]}]`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	repo := NewJSONFileCraftRepository(path, nil)
	crafts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, crafts, 1)
	assert.Equal(t, "Kite", crafts[0].Name)
	assert.Equal(t, []string{"paper", "string"}, crafts[0].Supplies)
}

func TestJSONFileCraftRepository_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crafts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	repo := NewJSONFileCraftRepository(path, nil)
	ctx := context.Background()

	_, err := repo.List(ctx)
	assert.Error(t, err)
	assert.Error(t, repo.Create(ctx, birdhouse(), "bird.png"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{not json`, string(data), "a failed load must not rewrite the file")
}

func TestJSONFileCraftRepository_SerializedCreatesAllSurvive(t *testing.T) {
	repo := newJSONRepo(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			craft := birdhouse()
			craft.Name = fmt.Sprintf("Craft %d", i)
			assert.NoError(t, repo.Create(ctx, craft, "img.png"))
		}(i)
	}
	wg.Wait()

	crafts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, crafts, writers)
}

// Two concurrent updates to one record are never merged: the survivor is
// exactly one of the two submitted versions.
func TestJSONFileCraftRepository_ConcurrentUpdatesLastWriterWins(t *testing.T) {
	repo := newJSONRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, birdhouse(), "bird.png"))

	versions := []entity.Craft{
		{Name: "Birdhouse", Description: "version A", Supplies: []string{"pine"}},
		{Name: "Birdhouse", Description: "version B", Supplies: []string{"oak", "glue"}},
	}

	var wg sync.WaitGroup
	for _, v := range versions {
		wg.Add(1)
		go func(v entity.Craft) {
			defer wg.Done()
			assert.NoError(t, repo.Update(ctx, "Birdhouse", v, nil))
		}(v)
	}
	wg.Wait()

	crafts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, crafts, 1)

	got := crafts[0]
	switch got.Description {
	case "version A":
		assert.Equal(t, []string{"pine"}, got.Supplies)
	case "version B":
		assert.Equal(t, []string{"oak", "glue"}, got.Supplies)
	default:
		t.Fatalf("unexpected surviving description %q", got.Description)
	}
	assert.Equal(t, "bird.png", got.Image)
}

// Writers that do not share a lock (two processes on one file, or
// infra.NoopLocker) interleave their read-modify-write cycles and the later
// write silently discards the earlier one.
func TestJSONFileCraftRepository_UnsynchronizedWritersLoseUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crafts.json")
	processA := NewJSONFileCraftRepository(path, infra.NoopLocker{})
	processB := NewJSONFileCraftRepository(path, infra.NoopLocker{})
	ctx := context.Background()

	kite := entity.Craft{Name: "Kite", Description: "Paper kite", Supplies: []string{"paper"}}
	require.NoError(t, processA.Create(ctx, birdhouse(), "bird.png"))
	require.NoError(t, processA.Create(ctx, kite, "kite.png"))

	// Both load before either writes.
	snapshotA, err := processA.load()
	require.NoError(t, err)
	snapshotB, err := processB.load()
	require.NoError(t, err)

	snapshotA[0].Description = "changed by A"
	require.NoError(t, processA.save(snapshotA))

	snapshotB[1].Description = "changed by B"
	require.NoError(t, processB.save(snapshotB))

	crafts, err := processA.List(ctx)
	require.NoError(t, err)
	require.Len(t, crafts, 2)
	assert.Equal(t, "Wooden birdhouse", crafts[0].Description, "A's update was lost")
	assert.Equal(t, "changed by B", crafts[1].Description)
}
