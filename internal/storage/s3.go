package storage

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ======================================================
// S3 BLOB STORE
// ======================================================

// Store guarda avatares e documentos dos cuidadores num bucket S3. As
// chaves levam uuid para nunca colidir entre uploads do mesmo usuário.
type Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

type Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string
}

func New(cfg Config) *Store {
	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	})

	return &Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
}

// NewKey gera a chave do objeto: prefixo por tipo + uuid + extensão
func NewKey(prefix, ext string) string {
	return prefix + "/" + uuid.NewString() + ext
}

// Put sobe o objeto e devolve a URL pública
func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return s.publicURL + "/" + key, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
