package service

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// StorageService keeps deliverable files (mixes, masters, video cuts) in
// Cloudinary. Configured through CLOUDINARY_URL.
type StorageService struct {
	cld *cloudinary.Cloudinary
}

func NewStorageService() (*StorageService, error) {
	cld, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &StorageService{cld: cld}, nil
}

// UploadDeliverable stores the file under the booking's folder and returns
// the permanent public ID.
func (s *StorageService) UploadDeliverable(ctx context.Context, file io.Reader, bookingCode string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       "deliverables/" + bookingCode,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload deliverable: %w", err)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("no public ID returned from upload")
	}
	return result.PublicID, nil
}

// DownloadURL builds the delivery URL for a stored asset.
func (s *StorageService) DownloadURL(publicID string) (string, error) {
	media, err := s.cld.Media(publicID)
	if err != nil {
		return "", fmt.Errorf("failed to build asset for %s: %w", publicID, err)
	}
	url, err := media.String()
	if err != nil {
		return "", fmt.Errorf("failed to build download URL for %s: %w", publicID, err)
	}
	return url, nil
}
