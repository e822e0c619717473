// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package media

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/narcomap/narcomap/internal/config"
)

// S3Storage stores photos in an S3-compatible bucket.
type S3Storage struct {
	client s3iface.S3API
	bucket string
	prefix string
}

// NewS3Storage builds an S3 client from the configured region and
// optional custom endpoint (MinIO and friends).
func NewS3Storage(cfg config.S3Config) (*S3Storage, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("creating aws session: %w", err)
	}
	return &S3Storage{
		client: s3.New(sess),
		bucket: cfg.Bucket,
		prefix: cfg.KeyPrefix,
	}, nil
}

// NewS3StorageWithClient is used by tests to inject a fake client.
func NewS3StorageWithClient(client s3iface.S3API, bucket, prefix string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, prefix: prefix}
}

// Save implements Storage.
func (s *S3Storage) Save(ctx context.Context, ext string, data []byte) (string, error) {
	name := newObjectName(ext)
	key := path.Join(s.prefix, name)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading photo to s3: %w", err)
	}
	return name, nil
}

// Delete implements Storage.
func (s *S3Storage) Delete(ctx context.Context, ref string) error {
	key := path.Join(s.prefix, ref)
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting photo from s3: %w", err)
	}
	return nil
}
