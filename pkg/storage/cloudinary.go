package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"zoo/pkg/logger"
)

var ErrUploadsDisabled = errors.New("image storage is not configured")

type cloudinaryStore struct {
	cld        *cloudinary.Cloudinary
	rootFolder string
	log        *logger.Logger
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, rootFolder string, log *logger.Logger) (ImageStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &cloudinaryStore{cld: cld, rootFolder: rootFolder, log: log}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, folder string, file *Upload) (*StoredImage, error) {
	if file == nil || file.Reader == nil {
		return nil, errors.New("no file provided")
	}

	publicID := uuid.NewString()
	if base := strings.TrimSuffix(path.Base(file.Filename), path.Ext(file.Filename)); base != "" && base != "." && base != "/" {
		publicID = base + "-" + publicID[:8]
	}

	result, err := s.cld.Upload.Upload(ctx, file.Reader, uploader.UploadParams{
		Folder:   path.Join(s.rootFolder, folder),
		PublicID: publicID,
	})
	if err != nil {
		return nil, err
	}
	if result.Error.Message != "" {
		return nil, errors.New(result.Error.Message)
	}

	s.log.Debug("image uploaded", "public_id", result.PublicID, "size", file.Size)
	return &StoredImage{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

func (s *cloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if result.Error.Message != "" {
		return errors.New(result.Error.Message)
	}
	return nil
}

type disabledStore struct{}

// NewDisabledStore returns a store that rejects every upload. It is used when
// no object storage credentials are configured.
func NewDisabledStore() ImageStore {
	return disabledStore{}
}

func (disabledStore) Upload(context.Context, string, *Upload) (*StoredImage, error) {
	return nil, ErrUploadsDisabled
}

func (disabledStore) Delete(context.Context, string) error {
	return nil
}
