package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/timmyloos/Meal-Planner-for-Students/config"
)

// PhotoService stores user-uploaded meal photos in S3. The returned public
// URL goes into the event's image field.
type PhotoService struct {
	s3Config *config.S3Config
}

func NewPhotoService(s3Config *config.S3Config) *PhotoService {
	return &PhotoService{s3Config: s3Config}
}

// UploadMealPhoto uploads the image bytes and returns the public URL.
func (s *PhotoService) UploadMealPhoto(ctx context.Context, imageData []byte, contentType string) (string, error) {
	if s.s3Config == nil || s.s3Config.Client == nil {
		return "", fmt.Errorf("photo storage is not configured")
	}

	fileName := fmt.Sprintf("meal-photos/%s%s", uuid.New().String(), extensionFor(contentType))

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("photos: uploaded meal photo %s", publicURL)
	return publicURL, nil
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
