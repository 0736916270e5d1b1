package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

type s3Storage struct {
	uploader *s3manager.Uploader
	cfg      S3Configs
}

func NewS3Storage(cfg S3Configs) (*s3Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(cfg.SSLDisabled),
	})
	if err != nil {
		return nil, err
	}

	return &s3Storage{
		uploader: s3manager.NewUploader(sess),
		cfg:      cfg,
	}, nil
}

func (s *s3Storage) bucket(object *UploadObject) string {
	if object.Bucket != "" {
		return object.Bucket
	}

	return s.cfg.Bucket
}

func (s *s3Storage) generateUploadURL(object *UploadObject) *UploadResponse {
	fileName := fmt.Sprintf("%s/%s-%s", object.Prefix, uuid.NewString(), sanitizeFileName(object.FileName))

	return &UploadResponse{
		Url:      fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.PublicEndpoint, "/"), s.bucket(object), fileName),
		FileName: fileName,
	}
}

func (s *s3Storage) uploadInput(object *UploadObject, key string) *s3manager.UploadInput {
	return &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket(object)),
		Key:         aws.String(key),
		Body:        bytes.NewReader(object.Data),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(object.Mime),
	}
}

func (s *s3Storage) Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error) {
	resp := s.generateUploadURL(object)
	_, err := s.uploader.UploadWithContext(ctx, s.uploadInput(object, resp.FileName))
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w, bucket %s, key %s", err, s.bucket(object), resp.FileName)
	}

	return resp, nil
}

func (s *s3Storage) BulkUpload(ctx context.Context, objects []*UploadObject) ([]*UploadResponse, error) {
	batch := make([]s3manager.BatchUploadObject, 0, len(objects))
	out := make([]*UploadResponse, 0, len(objects))
	for _, o := range objects {
		resp := s.generateUploadURL(o)
		batch = append(batch, s3manager.BatchUploadObject{Object: s.uploadInput(o, resp.FileName)})
		out = append(out, resp)
	}

	if err := s.uploader.UploadWithIterator(ctx, &s3manager.UploadObjectsIterator{
		Objects: batch,
	}); err != nil {
		return nil, err
	}

	return out, nil
}

func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
