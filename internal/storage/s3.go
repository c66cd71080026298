// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Options describes how to reach the bucket.
type S3Options struct {
	Endpoint       string
	Region         string
	AccessKey      string
	SecretKey      string
	Bucket         string
	ForcePathStyle bool
}

// NewS3Client builds an S3 client with static credentials. Endpoint and path
// style support S3-compatible servers such as MinIO.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if opts.Endpoint != "" {
			options.BaseEndpoint = aws.String(opts.Endpoint)
		}
		options.UsePathStyle = opts.ForcePathStyle
	})

	return client, nil
}

// ObjectAPI is the subset of [*s3.Client] the S3 backend calls.
type ObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Presigner is the subset of [*s3.PresignClient] the S3 backend calls.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store implements [Store] on top of an S3 bucket.
type S3Store struct {
	objects   ObjectAPI
	presigner Presigner
	registry  UploadRegistry
	bucket    string
	urlTTL    time.Duration
}

// NewS3Store wires an S3 backend. Use s3.NewPresignClient(client) for presigner.
func NewS3Store(objects ObjectAPI, presigner Presigner, registry UploadRegistry, bucket string, urlTTL time.Duration) *S3Store {
	return &S3Store{
		objects:   objects,
		presigner: presigner,
		registry:  registry,
		bucket:    bucket,
		urlTTL:    urlTTL,
	}
}

/*
CreatePresignedURL signs a PUT for a fresh object key and records the pending upload.

Parameters:
  - context: context.Context
  - request: PresignRequest (validated)

Returns:
  - *PresignedURL: URL to PUT to and the object path to reference later
  - error: Signing or registry failures
*/
func (store *S3Store) CreatePresignedURL(context context.Context, request PresignRequest) (*PresignedURL, error) {
	path, err := objectPath(request.Type, request.Mime)
	if err != nil {
		return nil, err
	}

	presigned, err := store.presigner.PresignPutObject(context, &s3.PutObjectInput{
		Bucket:        aws.String(store.bucket),
		Key:           aws.String(path),
		ContentType:   aws.String(string(request.Mime)),
		ContentLength: aws.Int64(request.Size),
	}, s3.WithPresignExpires(store.urlTTL))
	if err != nil {
		return nil, fmt.Errorf("s3_store_presign_failed: %w", err)
	}

	if err := store.registry.Record(context, path, UploadingFile{Type: request.Type, Mime: request.Mime}); err != nil {
		return nil, err
	}

	return &PresignedURL{URL: presigned.URL, Path: path}, nil
}

/*
VerifyFileUpload checks that a path was handed out for uploadType and that the
object now exists in the bucket.

Returns:
  - error: ErrFileNotFound, ErrInvalidType or S3 failures
*/
func (store *S3Store) VerifyFileUpload(context context.Context, path string, uploadType UploadType) error {
	pending, err := store.registry.Lookup(context, path)
	if err != nil {
		return err
	}

	if pending.Type != uploadType {
		return ErrInvalidType(uploadType)
	}

	_, err = store.objects.HeadObject(context, &s3.HeadObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return ErrFileNotFound()
		}
		return fmt.Errorf("s3_store_head_object_failed: %w", err)
	}

	return nil
}

/*
Upload writes a file received by the API into the bucket and records it so
that it can be verified like a presigned upload.

Returns:
  - string: The object path
  - error: S3 or registry failures
*/
func (store *S3Store) Upload(context context.Context, uploadType UploadType, mime Mime, body io.Reader, size int64) (string, error) {
	path, err := objectPath(uploadType, mime)
	if err != nil {
		return "", err
	}

	_, err = store.objects.PutObject(context, &s3.PutObjectInput{
		Bucket:        aws.String(store.bucket),
		Key:           aws.String(path),
		Body:          body,
		ContentType:   aws.String(string(mime)),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("s3_store_put_object_failed: %w", err)
	}

	if err := store.registry.Record(context, path, UploadingFile{Type: uploadType, Mime: mime}); err != nil {
		return "", err
	}

	return path, nil
}
