package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tnqbao/gau-craft-catalog/entity"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormCraftRepository stores one craft per row. Every operation is a single
// find plus a single write; Update's find and write are not atomic together.
type GormCraftRepository struct {
	db *gorm.DB
}

func NewGormCraftRepository(db *gorm.DB) *GormCraftRepository {
	return &GormCraftRepository{db: db}
}

func (r *GormCraftRepository) List(ctx context.Context) ([]entity.Craft, error) {
	var docs []entity.CraftDocument
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list crafts: %w", err)
	}

	crafts := make([]entity.Craft, 0, len(docs))
	for i := range docs {
		crafts = append(crafts, docs[i].ToCraft())
	}
	return crafts, nil
}

func (r *GormCraftRepository) Create(ctx context.Context, craft entity.Craft, imageRef string) error {
	doc := entity.NewCraftDocument(craft)
	doc.Image = imageRef
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create craft: %w", err)
	}
	return nil
}

func (r *GormCraftRepository) Update(ctx context.Context, name string, craft entity.Craft, imageRef *string) error {
	doc, err := r.findFirstByName(ctx, name)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"name":        craft.Name,
		"description": craft.Description,
		"supplies":    datatypes.NewJSONSlice(append([]string{}, craft.Supplies...)),
	}
	if imageRef != nil {
		updates["image"] = *imageRef
	}

	result := r.db.WithContext(ctx).Model(doc).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update craft: %w", result.Error)
	}
	// Removed by a concurrent request between find and update
	if result.RowsAffected == 0 {
		return ErrCraftNotFound
	}
	return nil
}

func (r *GormCraftRepository) Delete(ctx context.Context, name string) error {
	doc, err := r.findFirstByName(ctx, name)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&entity.CraftDocument{}, "id = ?", doc.ID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete craft: %w", result.Error)
	}
	// Removed by a concurrent request between find and delete
	if result.RowsAffected == 0 {
		return ErrCraftNotFound
	}
	return nil
}

func (r *GormCraftRepository) findFirstByName(ctx context.Context, name string) (*entity.CraftDocument, error) {
	var doc entity.CraftDocument
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCraftNotFound
		}
		return nil, fmt.Errorf("failed to find craft: %w", err)
	}
	return &doc, nil
}
