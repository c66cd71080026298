// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/redis/go-redis/v9"
)

const testBucket = "sakan-test"

// fakeBucket is an in-memory stand-in for the S3 object and presign APIs.
type fakeBucket struct {
	mu        sync.Mutex
	objects   map[string][]byte
	presigned []*s3.PutObjectInput
	headErr   error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (bucket *fakeBucket) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	if bucket.headErr != nil {
		return nil, bucket.headErr
	}
	body, ok := bucket.objects[*params.Key]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	}
	size := int64(len(body))
	return &s3.HeadObjectOutput{ContentLength: &size}, nil
}

func (bucket *fakeBucket) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	bucket.objects[*params.Key] = body
	return &s3.PutObjectOutput{}, nil
}

func (bucket *fakeBucket) PresignPutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	bucket.presigned = append(bucket.presigned, params)
	return &v4.PresignedHTTPRequest{
		URL:    "https://" + *params.Bucket + ".s3.test/" + *params.Key + "?X-Amz-Signature=test",
		Method: "PUT",
	}, nil
}

// put simulates the client completing a presigned upload.
func (bucket *fakeBucket) put(path string, body []byte) {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	bucket.objects[path] = body
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

// newTestStore builds an S3 store over a fake bucket and a miniredis registry.
func newTestStore(t *testing.T) (*S3Store, *fakeBucket, *miniredis.Miniredis) {
	t.Helper()
	server, client := newTestRedis(t)
	bucket := newFakeBucket()
	store := NewS3Store(bucket, bucket, NewUploadRegistry(client, time.Hour), testBucket, time.Hour)
	return store, bucket, server
}
