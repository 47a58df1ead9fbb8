package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/service"
)

const maxPhotoSize = 10 << 20 // 10 MB

// PhotoHandler uploads meal photos to S3.
type PhotoHandler struct {
	photos *service.PhotoService
}

func NewPhotoHandler(photos *service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

func (h *PhotoHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/photos", h.Upload)
}

func (h *PhotoHandler) Upload(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	if h.photos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo uploads are not configured"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds the 10MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read photo"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read photo"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.photos.UploadMealPhoto(c.Request.Context(), data, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload photo"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
