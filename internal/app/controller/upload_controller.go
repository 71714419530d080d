package controller

import (
	"context"
	"net/http"

	apperrors "github.com/clothely/clothely-backend/internal/errors"
	"github.com/clothely/clothely-backend/internal/middleware"
	"github.com/clothely/clothely-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

// ObjectStorage is the slice of the S3 layer the upload endpoints use.
type ObjectStorage interface {
	PresignUpload(filename, contentType, folder string) (*storage.PresignedURLResponse, error)
	DeleteObject(ctx context.Context, key string) error
	ValidateContentType(contentType string, allowedTypes []string) error
	ValidateFileSize(size int64, maxSize int64) error
}

type UploadController struct {
	storage ObjectStorage
}

func NewUploadController(store ObjectStorage) *UploadController {
	return &UploadController{storage: store}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required,gt=0"`
}

type DeleteUploadRequest struct {
	Key string `json:"key" binding:"required"`
}

// PresignUpload hands out a presigned PUT URL for a product image
// POST /api/v1/admin/uploads/presign
func (ctrl *UploadController) PresignUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid upload request")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, storage.AllowedImageTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFile, "Only image uploads are allowed")
		return
	}
	if err := ctrl.storage.ValidateFileSize(req.Size, storage.MaxImageSize); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFile, "File is too large")
		return
	}

	resp, err := ctrl.storage.PresignUpload(req.Filename, req.ContentType, "products")
	if err != nil {
		log.Error("Failed to presign upload", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.UploadFailed, "Failed to prepare upload")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteUpload removes an uploaded object that never made it onto a
// product. Deletion is fire and forget: a storage failure is logged
// and the orphan is left behind, never surfaced to the admin.
// DELETE /api/v1/admin/uploads
func (ctrl *UploadController) DeleteUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req DeleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid delete request")
		return
	}

	if err := ctrl.storage.DeleteObject(c.Request.Context(), req.Key); err != nil {
		log.Error("Failed to delete uploaded object", err, map[string]interface{}{
			"key": req.Key,
		})
	}

	c.Status(http.StatusNoContent)
}
