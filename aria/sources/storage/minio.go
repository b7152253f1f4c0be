package storage

import (
	"aria/aria/config"
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient archives raw session transcripts as JSON objects. Writes are
// best-effort from the engine's point of view; callers log and move on.
type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(cfg config.Config) (*MinIOClient, error) {
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}
	// Create bucket if not exists
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MinIOClient{client: client, bucket: bucket}, nil
}

// ArchiveTranscript uploads the transcript JSON for a session, overwriting
// any previous archive for the same session id.
func (m *MinIOClient) ArchiveTranscript(ctx context.Context, sessionID string, transcript []byte) error {
	key := filepath.Join("transcripts", fmt.Sprintf("%s.json", sessionID))
	_, err := m.client.PutObject(ctx, m.bucket, key,
		bytes.NewReader(transcript), int64(len(transcript)),
		minio.PutObjectOptions{ContentType: "application/json"})
	return err
}

// GetTranscript fetches an archived transcript by session id.
func (m *MinIOClient) GetTranscript(ctx context.Context, sessionID string) ([]byte, error) {
	key := filepath.Join("transcripts", fmt.Sprintf("%s.json", sessionID))
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
