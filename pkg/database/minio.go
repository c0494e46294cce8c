package database

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClientRepo definition blob store operations used by the pipeline
type MinIOClientRepo interface {
	PutStream(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GetStream(ctx context.Context, objectName string) (io.ReadCloser, error)
	UploadFile(ctx context.Context, objectName, filePath, contentType string) error
	DownloadFile(ctx context.Context, objectName, destPath string) error
	PublicURL(objectName string) string
}

// MinIOClient definition minio client
type MinIOClient struct {
	Client     *minio.Client
	BucketName string
	endpoint   string
	useSSL     bool
}

// NewMinIOConnection create a new minio connection with retry
func NewMinIOConnection(d MinIOConnection) (*MinIOClient, error) {
	var mc *MinIOClient
	var err error

	for i := 1; i <= d.RetryCount; i++ {
		mc, err = NewMinioClient(d.Endpoint, d.User, d.Password, d.BucketName, d.UseSSL)
		if err == nil {
			log.Printf("minIO[%s] connected (attempt %d)", d.Endpoint, i)
			return mc, nil
		}

		log.Printf("minIO[%s] connect failed (attempt %d/%d): %v", d.Endpoint, i, d.RetryCount, err)
		time.Sleep(d.RetryInterval * time.Second)
	}

	return mc, err
}

// NewMinioClient create a new minio client, making the bucket when missing
func NewMinioClient(endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOClient, error) {
	minioClient, err := minio.New(endpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
			Secure: useSSL,
		})
	if err != nil {
		return nil, fmt.Errorf("minio init failed: %v", err)
	}

	ctx := context.Background()
	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket [%s] failed: %v", bucketName, err)
	}

	if !exists {
		if err = minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket [%s] failed: %v", bucketName, err)
		}
		log.Printf("Bucket [%s] created", bucketName)
	}

	return &MinIOClient{
		Client:     minioClient,
		BucketName: bucketName,
		endpoint:   endpoint,
		useSSL:     useSSL,
	}, nil
}

// PutStream stream an object into the bucket without buffering it in memory.
// size may be -1 when the caller does not know the length up front.
func (m *MinIOClient) PutStream(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := m.Client.PutObject(ctx, m.BucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// GetStream open a streamed reader over the object body
func (m *MinIOClient) GetStream(ctx context.Context, objectName string) (io.ReadCloser, error) {
	obj, err := m.Client.GetObject(ctx, m.BucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object failed: %v", err)
	}
	return obj, nil
}

// UploadFile minio upload file func
func (m *MinIOClient) UploadFile(ctx context.Context, objectName, filePath, contentType string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file failed: %v", err)
	}
	defer file.Close()

	_, err = m.Client.PutObject(ctx, m.BucketName, objectName, file, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// DownloadFile minio download file func, copied through in fixed-size chunks
func (m *MinIOClient) DownloadFile(ctx context.Context, objectName, destPath string) error {
	obj, err := m.Client.GetObject(ctx, m.BucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("get object failed: %v", err)
	}
	defer obj.Close()

	destFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create file failed: %v", err)
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, obj)
	return err
}

// PublicURL derive the retrieval URL for an object key. Pure string
// templating, no network call, so callers can persist the result.
func (m *MinIOClient) PublicURL(objectName string) string {
	scheme := "http"
	if m.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.endpoint, m.BucketName, objectName)
}
