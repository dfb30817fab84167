package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads journal photos to Cloudinary and hands back the
// public delivery URLs that end up embedded in the generated narrative.
//
// Key layout: {root}/{owner}/{noteID}/{yyyymmdd}/{filename}.
type CloudinaryStore struct {
	cld  *cloudinary.Cloudinary
	root string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, rootFolder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryStore{cld: cld, root: rootFolder}, nil
}

func (s *CloudinaryStore) folder(owner, noteID string) string {
	datePart := time.Now().Format("20060102")
	return fmt.Sprintf("%s/%s/%s/%s", s.root, owner, noteID, datePart)
}

// Upload stores one photo and returns its public URL.
func (s *CloudinaryStore) Upload(ctx context.Context, owner, noteID, filename string, data []byte) (string, error) {
	publicID := strings.TrimSuffix(filename, path.Ext(filename))

	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       s.folder(owner, noteID),
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return "", &StorageError{Filename: filename, Err: err}
	}
	if result.Error.Message != "" {
		return "", &StorageError{Filename: filename, Err: fmt.Errorf("%s", result.Error.Message)}
	}

	return result.SecureURL, nil
}

var uploadVersionRe = regexp.MustCompile(`^v\d+$`)

// publicIDFromURL recovers the Cloudinary public ID from a delivery URL:
// everything after /upload/, minus the version segment and file extension.
func publicIDFromURL(url string) (string, error) {
	idx := strings.Index(url, "/upload/")
	if idx == -1 {
		return "", fmt.Errorf("not a cloudinary delivery URL: %s", url)
	}
	rest := url[idx+len("/upload/"):]

	parts := strings.Split(rest, "/")
	if len(parts) > 1 && uploadVersionRe.MatchString(parts[0]) {
		parts = parts[1:]
	}
	id := strings.Join(parts, "/")
	return strings.TrimSuffix(id, path.Ext(id)), nil
}

// Delete removes a previously uploaded photo by its public URL.
func (s *CloudinaryStore) Delete(ctx context.Context, publicURL string) error {
	publicID, err := publicIDFromURL(publicURL)
	if err != nil {
		return &StorageError{Filename: publicURL, Err: err}
	}

	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return &StorageError{Filename: publicURL, Err: err}
	}
	return nil
}

// ListUnder lists the public URLs of all photos stored for one owner/journal.
func (s *CloudinaryStore) ListUnder(ctx context.Context, owner, noteID string) ([]string, error) {
	prefix := fmt.Sprintf("%s/%s/%s/", s.root, owner, noteID)

	result, err := s.cld.Admin.Assets(ctx, admin.AssetsParams{
		DeliveryType: "upload",
		Prefix:       prefix,
		MaxResults:   500,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list photos under %s: %w", prefix, err)
	}

	urls := make([]string, 0, len(result.Assets))
	for _, asset := range result.Assets {
		urls = append(urls, asset.SecureURL)
	}
	return urls, nil
}
