package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnqbao/gau-craft-catalog/entity"
)

func birdhouse() entity.Craft {
	return entity.Craft{
		Name:        "Birdhouse",
		Description: "Wooden birdhouse",
		Supplies:    []string{"wood", "nails"},
	}
}

func strPtr(s string) *string {
	return &s
}

// runCraftRepositoryContract checks the behavior every backend shares.
func runCraftRepositoryContract(t *testing.T, newRepo func(t *testing.T) CraftRepository) {
	ctx := context.Background()

	t.Run("ListEmptyCatalog", func(t *testing.T) {
		repo := newRepo(t)

		crafts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, crafts)
		assert.Empty(t, crafts)
	})

	t.Run("CreateThenListRoundTrip", func(t *testing.T) {
		repo := newRepo(t)

		require.NoError(t, repo.Create(ctx, birdhouse(), "1700000000000-bird.png"))

		crafts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, crafts, 1)
		assert.Equal(t, entity.Craft{
			Name:        "Birdhouse",
			Description: "Wooden birdhouse",
			Image:       "1700000000000-bird.png",
			Supplies:    []string{"wood", "nails"},
		}, crafts[0])
	})

	t.Run("CreateIgnoresImageOnInput", func(t *testing.T) {
		repo := newRepo(t)

		craft := birdhouse()
		craft.Image = "client-chosen.png"
		require.NoError(t, repo.Create(ctx, craft, "generated.png"))

		crafts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, crafts, 1)
		assert.Equal(t, "generated.png", crafts[0].Image)
	})

	t.Run("UpdateWithoutImageKeepsImage", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, birdhouse(), "bird.png"))

		err := repo.Update(ctx, "Birdhouse", entity.Craft{
			Name:        "Birdhouse Deluxe",
			Description: "Two-story birdhouse",
			Supplies:    []string{"cedar", "screws", "paint"},
		}, nil)
		require.NoError(t, err)

		crafts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, crafts, 1)
		assert.Equal(t, "Birdhouse Deluxe", crafts[0].Name)
		assert.Equal(t, "Two-story birdhouse", crafts[0].Description)
		assert.Equal(t, []string{"cedar", "screws", "paint"}, crafts[0].Supplies)
		assert.Equal(t, "bird.png", crafts[0].Image)
	})

	t.Run("UpdateWithImageReplacesImage", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, birdhouse(), "bird.png"))

		require.NoError(t, repo.Update(ctx, "Birdhouse", birdhouse(), strPtr("new-bird.png")))

		crafts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, crafts, 1)
		assert.Equal(t, "new-bird.png", crafts[0].Image)
	})

	t.Run("UpdateUnknownNameReturnsNotFound", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, birdhouse(), "bird.png"))

		err := repo.Update(ctx, "Nonexistent", birdhouse(), nil)
		assert.ErrorIs(t, err, ErrCraftNotFound)

		crafts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, crafts, 1)
	})

	t.Run("DeleteTwiceReportsNotFoundSecondTime", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, birdhouse(), "bird.png"))

		require.NoError(t, repo.Delete(ctx, "Birdhouse"))
		assert.ErrorIs(t, repo.Delete(ctx, "Birdhouse"), ErrCraftNotFound)

		crafts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, crafts)
	})

	t.Run("SuppliesKeptVerbatim", func(t *testing.T) {
		repo := newRepo(t)
		supplies := []string{"twine", "beads", "beads", " glue "}
		require.NoError(t, repo.Create(ctx, entity.Craft{
			Name:        "Necklace",
			Description: "Beaded necklace",
			Supplies:    supplies,
		}, "necklace.png"))

		crafts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, crafts, 1)
		assert.Equal(t, []string{"twine", "beads", "beads", " glue "}, crafts[0].Supplies)
	})

	t.Run("ListKeepsInsertionOrder", func(t *testing.T) {
		repo := newRepo(t)
		for _, name := range []string{"Kite", "Birdhouse", "Anklet"} {
			craft := birdhouse()
			craft.Name = name
			require.NoError(t, repo.Create(ctx, craft, name+".png"))
		}

		crafts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, crafts, 3)
		assert.Equal(t, "Kite", crafts[0].Name)
		assert.Equal(t, "Birdhouse", crafts[1].Name)
		assert.Equal(t, "Anklet", crafts[2].Name)
	})

	t.Run("OnlyTargetedRecordIsAffected", func(t *testing.T) {
		repo := newRepo(t)
		for _, name := range []string{"Kite", "Birdhouse", "Anklet"} {
			craft := birdhouse()
			craft.Name = name
			require.NoError(t, repo.Create(ctx, craft, name+".png"))
		}

		require.NoError(t, repo.Update(ctx, "Birdhouse", entity.Craft{
			Name:        "Birdhouse",
			Description: "Painted",
			Supplies:    []string{"paint"},
		}, nil))
		require.NoError(t, repo.Delete(ctx, "Anklet"))

		crafts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, crafts, 2)
		assert.Equal(t, "Kite", crafts[0].Name)
		assert.Equal(t, "Wooden birdhouse", crafts[0].Description)
		assert.Equal(t, "Birdhouse", crafts[1].Name)
		assert.Equal(t, "Painted", crafts[1].Description)
	})

	// Names are not unique: update and delete act on the first match only.
	t.Run("DuplicateNamesTargetFirstMatch", func(t *testing.T) {
		repo := newRepo(t)
		first := entity.Craft{Name: "Vase", Description: "first", Supplies: []string{"clay"}}
		second := entity.Craft{Name: "Vase", Description: "second", Supplies: []string{"glass"}}
		require.NoError(t, repo.Create(ctx, first, "first.png"))
		require.NoError(t, repo.Create(ctx, second, "second.png"))

		require.NoError(t, repo.Update(ctx, "Vase", entity.Craft{
			Name:        "Vase",
			Description: "first, glazed",
			Supplies:    []string{"clay", "glaze"},
		}, nil))

		crafts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, crafts, 2)
		assert.Equal(t, "first, glazed", crafts[0].Description)
		assert.Equal(t, "second", crafts[1].Description)

		require.NoError(t, repo.Delete(ctx, "Vase"))

		crafts, err = repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, crafts, 1)
		assert.Equal(t, "second", crafts[0].Description)
		assert.Equal(t, "second.png", crafts[0].Image)
	})
}
