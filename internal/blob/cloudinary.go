package blob

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads blobs to a Cloudinary folder.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore builds a store from account credentials.
func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("configuring cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

// Put uploads data under name (without its extension) and returns the
// secure delivery URL.
func (s *CloudinaryStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}

	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID: publicID(name),
		Folder:   s.folder,
	})
	if err != nil {
		return "", fmt.Errorf("uploading to cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("uploading to cloudinary: %s", resp.Error.Message)
	}

	return resp.SecureURL, nil
}

// Delete destroys the asset uploaded under name.
func (s *CloudinaryStore) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}

	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: path.Join(s.folder, publicID(name)),
	})
	if err != nil {
		return fmt.Errorf("deleting from cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("deleting from cloudinary: %s", resp.Error.Message)
	}
	return nil
}

func publicID(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
