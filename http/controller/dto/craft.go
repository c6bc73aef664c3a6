package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/tnqbao/gau-craft-catalog/entity"
	"github.com/tnqbao/gau-craft-catalog/utils"
)

// CraftRequest is the body of POST /api/addItem and PUT /api/crafts/:name.
// Browsers send supplies as repeated "supply[]" form fields; "supply" is
// accepted too and JSON bodies use "supply".
type CraftRequest struct {
	ItemName        string   `form:"itemName" json:"itemName" binding:"required"`
	ItemDescription string   `form:"itemDescription" json:"itemDescription" binding:"required"`
	Supply          []string `form:"supply[]" json:"supply"`
	SupplyField     []string `form:"supply" json:"-"`
	// Image is a reference returned by POST /api/uploadImage. Only honored on update.
	Image string `form:"image" json:"image"`
}

// Supplies merges both form spellings, keeping submission order.
func (r *CraftRequest) Supplies() []string {
	supplies := make([]string, 0, len(r.Supply)+len(r.SupplyField))
	supplies = append(supplies, r.Supply...)
	supplies = append(supplies, r.SupplyField...)
	return supplies
}

// Validate checks what binding tags cannot express.
func (r *CraftRequest) Validate() error {
	supplies := r.Supplies()
	if len(supplies) == 0 {
		return errors.New(`"supply" is required`)
	}
	for i, s := range supplies {
		if s == "" {
			return fmt.Errorf(`"supply[%d]" is not allowed to be empty`, i)
		}
	}
	if r.Image != "" && !utils.IsValidImageName(r.Image) {
		return errors.New(`"image" must be the name of an uploaded image`)
	}
	return nil
}

func (r *CraftRequest) ToCraft() entity.Craft {
	return entity.Craft{
		Name:        r.ItemName,
		Description: r.ItemDescription,
		Supplies:    r.Supplies(),
	}
}

var fieldNames = map[string]string{
	"ItemName":        "itemName",
	"ItemDescription": "itemDescription",
	"Supply":          "supply",
	"Image":           "image",
}

// BindingErrorMessage turns a gin binding error into a client-facing message.
// ok is false when err is not a validation or shape problem.
func BindingErrorMessage(err error) (message string, ok bool) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		field := fieldNames[fe.Field()]
		if field == "" {
			field = fe.Field()
		}
		if fe.Tag() == "required" {
			return fmt.Sprintf(`"%s" is required`, field), true
		}
		return fmt.Sprintf(`"%s" failed %s validation`, field, fe.Tag()), true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf(`"%s" must be of type %s`, typeErr.Field, jsonKind(typeErr.Type.String())), true
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "Request body is not valid JSON", true
	}

	return "", false
}

func jsonKind(goType string) string {
	switch goType {
	case "[]string":
		return "array"
	case "string":
		return "string"
	default:
		return goType
	}
}
