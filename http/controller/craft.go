package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-craft-catalog/http/controller/dto"
	"github.com/tnqbao/gau-craft-catalog/infra"
	"github.com/tnqbao/gau-craft-catalog/infra/produce"
	"github.com/tnqbao/gau-craft-catalog/repository"
	"github.com/tnqbao/gau-craft-catalog/utils"
)

const (
	msgInternalError = "Internal Server Error"
	msgCraftNotFound = "Craft not found"
)

func (ctrl *Controller) ListCrafts(c *gin.Context) {
	ctx := c.Request.Context()

	crafts, err := ctrl.Repository.CraftRepo.List(ctx)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Craft] Failed to list crafts: %v", err)
		ctrl.Infra.Metrics.RecordOperation(ctx, "list", infra.ResultError)
		utils.JSON500(c, msgInternalError)
		return
	}

	ctrl.Infra.Metrics.RecordOperation(ctx, "list", infra.ResultSuccess)
	utils.JSON200(c, crafts)
}

func (ctrl *Controller) AddCraft(c *gin.Context) {
	ctx := c.Request.Context()

	req, ok := ctrl.bindCraftRequest(c)
	if !ok {
		return
	}

	imageRef, err := ctrl.saveRequestImage(c)
	if err != nil {
		if errors.Is(err, infra.ErrNoImage) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Craft] Add rejected: no image file")
			utils.Text400(c, `"itemImage" is required`)
			return
		}
		ctrl.respondUploadError(c, err)
		return
	}

	craft := req.ToCraft()
	if err := ctrl.Repository.CraftRepo.Create(ctx, craft, imageRef); err != nil {
		// The stored image stays orphaned.
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Craft] Failed to create craft '%s' (image '%s' left orphaned): %v", craft.Name, imageRef, err)
		ctrl.Infra.Metrics.RecordOperation(ctx, "create", infra.ResultError)
		utils.JSON500(c, msgInternalError)
		return
	}

	craft.Image = imageRef
	ctrl.Infra.Metrics.RecordOperation(ctx, "create", infra.ResultSuccess)
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Craft] Created craft '%s' with image '%s'", craft.Name, imageRef)
	ctrl.publish(c, produce.CraftEvent{
		Type:         produce.CraftCreatedRoutingKey,
		Name:         craft.Name,
		Craft:        &craft,
		ImageChanged: true,
	})

	utils.Text200(c, "Item added successfully")
}

func (ctrl *Controller) UpdateCraft(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	req, ok := ctrl.bindCraftRequest(c)
	if !ok {
		return
	}

	var newImage *string
	imageRef, err := ctrl.saveRequestImage(c)
	switch {
	case err == nil:
		newImage = &imageRef
	case errors.Is(err, infra.ErrNoImage):
		// Keep the current image unless a previously uploaded reference was sent
		if req.Image != "" {
			ref := req.Image
			newImage = &ref
		}
	default:
		ctrl.respondUploadError(c, err)
		return
	}

	craft := req.ToCraft()
	err = ctrl.Repository.CraftRepo.Update(ctx, name, craft, newImage)
	if errors.Is(err, repository.ErrCraftNotFound) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Craft] Update target '%s' not found", name)
		ctrl.Infra.Metrics.RecordOperation(ctx, "update", infra.ResultNotFound)
		utils.Text404(c, msgCraftNotFound)
		return
	}
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Craft] Failed to update craft '%s': %v", name, err)
		ctrl.Infra.Metrics.RecordOperation(ctx, "update", infra.ResultError)
		utils.JSON500(c, msgInternalError)
		return
	}

	if newImage != nil {
		craft.Image = *newImage
	}
	ctrl.Infra.Metrics.RecordOperation(ctx, "update", infra.ResultSuccess)
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Craft] Updated craft '%s' -> '%s'", name, craft.Name)
	ctrl.publish(c, produce.CraftEvent{
		Type:         produce.CraftUpdatedRoutingKey,
		Name:         name,
		Craft:        &craft,
		ImageChanged: newImage != nil,
	})

	utils.Text200(c, "Craft updated successfully")
}

func (ctrl *Controller) DeleteCraft(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	err := ctrl.Repository.CraftRepo.Delete(ctx, name)
	if errors.Is(err, repository.ErrCraftNotFound) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Craft] Delete target '%s' not found", name)
		ctrl.Infra.Metrics.RecordOperation(ctx, "delete", infra.ResultNotFound)
		utils.Text404(c, msgCraftNotFound)
		return
	}
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Craft] Failed to delete craft '%s': %v", name, err)
		ctrl.Infra.Metrics.RecordOperation(ctx, "delete", infra.ResultError)
		utils.JSON500(c, msgInternalError)
		return
	}

	ctrl.Infra.Metrics.RecordOperation(ctx, "delete", infra.ResultSuccess)
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Craft] Deleted craft '%s'", name)
	ctrl.publish(c, produce.CraftEvent{
		Type: produce.CraftDeletedRoutingKey,
		Name: name,
	})

	utils.Text200(c, "Craft deleted successfully")
}

// bindCraftRequest binds and validates the craft fields, writing the error
// response itself when it returns false.
func (ctrl *Controller) bindCraftRequest(c *gin.Context) (*dto.CraftRequest, bool) {
	ctx := c.Request.Context()

	var req dto.CraftRequest
	if err := c.ShouldBind(&req); err != nil {
		if isBodyTooLarge(err) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Craft] Request body exceeds %d bytes", ctrl.Infra.UploadService.MaxBytes())
			utils.JSON413(c, "Request body too large")
			return nil, false
		}
		if msg, ok := dto.BindingErrorMessage(err); ok {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Craft] Invalid craft request: %s", msg)
			utils.Text400(c, msg)
			return nil, false
		}
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Craft] Malformed craft request: %v", err)
		utils.Text400(c, "Invalid request payload")
		return nil, false
	}

	if err := req.Validate(); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Craft] Invalid craft request: %v", err)
		utils.Text400(c, err.Error())
		return nil, false
	}

	return &req, true
}

// publish reports a change to the broker. Failures never affect the response.
func (ctrl *Controller) publish(c *gin.Context, event produce.CraftEvent) {
	ctx := c.Request.Context()
	if err := ctrl.Infra.Produce.CraftService.PublishCraftEvent(ctx, event); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Craft] Failed to publish %s event for '%s': %v", event.Type, event.Name, err)
	}
}
