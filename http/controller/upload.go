package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-craft-catalog/infra"
	"github.com/tnqbao/gau-craft-catalog/utils"
)

const imageField = "itemImage"

var errMalformedUpload = errors.New("malformed multipart upload")

// UploadImage stores a replacement image ahead of a JSON craft update.
func (ctrl *Controller) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()

	imageRef, err := ctrl.saveRequestImage(c)
	if err != nil {
		if errors.Is(err, infra.ErrNoImage) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] No image file in request")
			utils.JSON400(c, `"itemImage" is required`)
			return
		}
		ctrl.respondUploadError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Upload] Stored image '%s'", imageRef)
	utils.JSON200(c, gin.H{"imageUrl": imageRef})
}

func (ctrl *Controller) GetImage(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	reader, info, err := ctrl.Infra.ImageStorage.Open(ctx, name)
	if err != nil {
		if errors.Is(err, infra.ErrImageNotFound) || errors.Is(err, infra.ErrInvalidImageName) {
			utils.JSON404(c, "Image not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to open image '%s': %v", name, err)
		utils.JSON500(c, msgInternalError)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, reader, nil)
}

// saveRequestImage runs the upload step: it stores the itemImage file part,
// if any, and returns its generated reference. Requests without the part
// (including non-multipart bodies) yield infra.ErrNoImage.
func (ctrl *Controller) saveRequestImage(c *gin.Context) (string, error) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", infra.ErrNoImage
		}
		if isBodyTooLarge(err) {
			return "", fmt.Errorf("%w: %v", infra.ErrImageTooLarge, err)
		}
		return "", fmt.Errorf("%w: %v", errMalformedUpload, err)
	}

	imageRef, err := ctrl.Infra.UploadService.SaveImage(ctx, fileHeader)
	if err != nil {
		return "", err
	}

	ctrl.Infra.Metrics.RecordUpload(ctx, fileHeader.Size)
	return imageRef, nil
}

func (ctrl *Controller) respondUploadError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, infra.ErrImageTooLarge):
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] Rejected oversized image: %v", err)
		utils.JSON413(c, fmt.Sprintf("Image exceeds the %d byte limit", ctrl.Infra.UploadService.MaxBytes()))
	case errors.Is(err, errMalformedUpload):
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] Malformed upload: %v", err)
		utils.JSON400(c, "Malformed multipart payload")
	case errors.Is(err, infra.ErrInvalidImageName):
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] Invalid image filename: %v", err)
		utils.JSON400(c, "Invalid image filename")
	default:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to store image: %v", err)
		utils.JSON500(c, "File upload error")
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
