package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
	projectID  string
}

func NewCloudStorageClient(ctx context.Context, bucketName, projectID string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
		projectID:  projectID,
	}, nil
}

// UploadFile streams the file into the bucket and returns its public URL.
func (c *CloudStorageClient) UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	filename := fmt.Sprintf("%s/%s-%s", folder, uuid.New().String(), time.Now().Format("20060102150405"))

	switch contentType {
	case "image/jpeg", "image/jpg":
		filename += ".jpg"
	case "image/png":
		filename += ".png"
	case "image/gif":
		filename += ".gif"
	case "image/webp":
		filename += ".webp"
	case "video/mp4":
		filename += ".mp4"
	default:
		filename += ".bin"
	}

	obj := c.client.Bucket(c.bucketName).Object(filename)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, file); err != nil {
		return "", fmt.Errorf("failed to copy file to GCS: %v", err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %v", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, filename), nil
}

func (c *CloudStorageClient) DeleteFile(ctx context.Context, fileURL string) error {
	// Expected URL format: https://storage.googleapis.com/bucket-name/file-path
	const prefix = "https://storage.googleapis.com/"
	objectName := ""
	if len(fileURL) > len(prefix) && fileURL[:len(prefix)] == prefix {
		path := fileURL[len(prefix):]
		for i := 0; i < len(path); i++ {
			if path[i] == '/' {
				if path[:i] != c.bucketName {
					return fmt.Errorf("invalid GCS URL format or bucket mismatch")
				}
				objectName = path[i+1:]
				break
			}
		}
	}
	if objectName == "" {
		return fmt.Errorf("invalid GCS URL format")
	}

	obj := c.client.Bucket(c.bucketName).Object(objectName)
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}

	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
