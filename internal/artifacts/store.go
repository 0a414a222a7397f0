// Package artifacts persists solver session transcripts in object
// storage so failed or suspicious runs can be inspected later.
package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/CS101-o/CFD-leetcode/internal/platform/objectstore"
)

const transcriptContentType = "text/plain; charset=utf-8"

type Store struct {
	client *minio.Client
	bucket string
}

func NewStore(cfg objectstore.Config) (*Store, error) {
	client, err := objectstore.NewMinIOClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{client: client, bucket: cfg.BucketArtifacts}, nil
}

func NewStoreWithClient(client *minio.Client, bucket string) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("minio client is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	return &Store{client: client, bucket: bucket}, nil
}

// PutTranscript stores one solver session transcript under a fresh key
// and returns the key.
func (s *Store) PutTranscript(ctx context.Context, body []byte) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("artifact store not initialized")
	}
	key := TranscriptKey(uuid.NewString())
	opts := minio.PutObjectOptions{ContentType: transcriptContentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), opts); err != nil {
		return "", fmt.Errorf("put transcript: %w", err)
	}
	return key, nil
}

// OpenTranscript streams a previously stored transcript.
func (s *Store) OpenTranscript(ctx context.Context, key string) (io.ReadCloser, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("artifact store not initialized")
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get transcript: %w", err)
	}
	return obj, nil
}

// TranscriptKey is the object key layout for solver transcripts.
func TranscriptKey(id string) string {
	return path.Join("simulations", id, "transcript.txt")
}
