package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clothely/clothely-backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubObjectStorage struct {
	deleted   []string
	deleteErr error
}

func (s *stubObjectStorage) PresignUpload(filename, contentType, folder string) (*storage.PresignedURLResponse, error) {
	key := folder + "/" + filename
	return &storage.PresignedURLResponse{
		UploadURL: "https://bucket.example.com/" + key + "?signature=abc",
		FileURL:   "https://cdn.example.com/" + key,
		Key:       key,
	}, nil
}

func (s *stubObjectStorage) DeleteObject(_ context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubObjectStorage) ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}

func (s *stubObjectStorage) ValidateFileSize(size int64, maxSize int64) error {
	if size > maxSize {
		return fmt.Errorf("file too large")
	}
	return nil
}

func setupUploadTest(store *stubObjectStorage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := NewUploadController(store)
	router.POST("/admin/uploads/presign", ctrl.PresignUpload)
	router.DELETE("/admin/uploads", ctrl.DeleteUpload)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadController_PresignUpload(t *testing.T) {
	router := setupUploadTest(&stubObjectStorage{})

	w := doJSON(t, router, http.MethodPost, "/admin/uploads/presign", map[string]interface{}{
		"filename":     "shirt.jpg",
		"content_type": "image/jpeg",
		"size":         1024,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp storage.PresignedURLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "products/shirt.jpg", resp.Key)
	assert.NotEmpty(t, resp.UploadURL)
}

func TestUploadController_PresignUpload_RejectsNonImages(t *testing.T) {
	router := setupUploadTest(&stubObjectStorage{})

	w := doJSON(t, router, http.MethodPost, "/admin/uploads/presign", map[string]interface{}{
		"filename":     "report.pdf",
		"content_type": "application/pdf",
		"size":         1024,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadController_DeleteUpload(t *testing.T) {
	store := &stubObjectStorage{}
	router := setupUploadTest(store)

	w := doJSON(t, router, http.MethodDelete, "/admin/uploads", map[string]interface{}{
		"key": "products/abc123.jpg",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"products/abc123.jpg"}, store.deleted)
}

func TestUploadController_DeleteUpload_StorageFailureStillSucceeds(t *testing.T) {
	store := &stubObjectStorage{deleteErr: errors.New("bucket unavailable")}
	router := setupUploadTest(store)

	// Deletion is fire and forget: the admin UI never sees a storage
	// failure, the orphan just stays behind.
	w := doJSON(t, router, http.MethodDelete, "/admin/uploads", map[string]interface{}{
		"key": "products/abc123.jpg",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, store.deleted)
}

func TestUploadController_DeleteUpload_RequiresKey(t *testing.T) {
	store := &stubObjectStorage{}
	router := setupUploadTest(store)

	w := doJSON(t, router, http.MethodDelete, "/admin/uploads", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.deleted)
}
