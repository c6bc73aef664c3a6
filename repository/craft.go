package repository

import (
	"context"
	"errors"

	"github.com/tnqbao/gau-craft-catalog/entity"
)

var ErrCraftNotFound = errors.New("craft not found")

// CraftRepository is implemented by every craft backend. Name is the only
// lookup key; when several records share a name, Update and Delete act on
// the first one in stored order.
type CraftRepository interface {
	List(ctx context.Context) ([]entity.Craft, error)
	// Create appends craft with its image set to imageRef. Names are not
	// checked for uniqueness.
	Create(ctx context.Context, craft entity.Craft, imageRef string) error
	// Update overwrites name, description and supplies of the first record
	// named name. The image is replaced only when imageRef is non-nil.
	Update(ctx context.Context, name string, craft entity.Craft, imageRef *string) error
	Delete(ctx context.Context, name string) error
}
