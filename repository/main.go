package repository

import (
	"fmt"

	"github.com/tnqbao/gau-craft-catalog/config"
	"github.com/tnqbao/gau-craft-catalog/entity"
	"github.com/tnqbao/gau-craft-catalog/infra"
	"gorm.io/gorm"
)

type Repository struct {
	CraftRepo CraftRepository
}

var repository *Repository

func InitRepository(cfg *config.Config, infra *infra.Infra) *Repository {
	if repository != nil {
		return repository
	}

	switch cfg.EnvConfig.Store.Backend {
	case config.StoreBackendPostgres:
		if infra.Postgres == nil {
			panic("Postgres is not initialized for the postgres craft store")
		}
		if err := MigrateCrafts(infra.Postgres.DB); err != nil {
			panic(err)
		}
		repository = &Repository{CraftRepo: NewGormCraftRepository(infra.Postgres.DB)}
	default:
		repository = &Repository{CraftRepo: NewJSONFileCraftRepository(cfg.EnvConfig.Store.CraftsFile, infra.Locker)}
	}

	return repository
}

func MigrateCrafts(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.CraftDocument{}); err != nil {
		return fmt.Errorf("failed to migrate crafts table: %w", err)
	}
	return nil
}
