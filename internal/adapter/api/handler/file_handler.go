package handler

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"playverse/internal/infrastructure/storage"
	"playverse/pkg/errors"
	"playverse/pkg/logger"
	"playverse/pkg/response"
)

type FileHandler struct {
	storageClient *storage.CloudStorageClient
	maxFileSize   int64
}

var fileHandler *FileHandler

func NewFileHandler(storageClient *storage.CloudStorageClient) *FileHandler {
	return &FileHandler{
		storageClient: storageClient,
		maxFileSize:   5 * 1024 * 1024,
	}
}

func SetupFileHandler(storageClient *storage.CloudStorageClient) {
	fileHandler = NewFileHandler(storageClient)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

// UploadFile stores a multipart upload (avatar, screenshot, forum media,
// chat attachment) and returns its public URL.
func (h *FileHandler) UploadFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	fileType := file.Header.Get("Content-Type")
	if !isAllowedFileType(fileType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	folder := sanitizeFolderName(c.FormValue("folder"))
	if folder == "" {
		folder = "uploads"
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	url, err := h.storageClient.UploadFile(c.Request().Context(), src, fileType, folder)
	if err != nil {
		logger.Error("Upload to storage failed: %v", err)
		return response.Error(c, errors.Internal("Failed to upload file", err))
	}

	return response.Created(c, map[string]interface{}{
		"url":      url,
		"filename": file.Filename,
		"size":     file.Size,
	})
}

func (h *FileHandler) DeleteFile(c echo.Context) error {
	var req struct {
		URL string `json:"url" validate:"required,url"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.storageClient.DeleteFile(c.Request().Context(), req.URL); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "File deleted"})
}

func isAllowedFileType(fileType string) bool {
	switch fileType {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "video/mp4":
		return true
	}
	return false
}

func sanitizeFolderName(folder string) string {
	folder = strings.ToLower(strings.TrimSpace(folder))
	folder = strings.ReplaceAll(folder, "..", "")
	folder = strings.Trim(folder, "/")
	return folder
}
