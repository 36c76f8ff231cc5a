package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"volunteer-network-backend/internal/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadURLTTL = 5 * time.Minute

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// MediaConfig holds what the media service needs to reach the bucket
type MediaConfig struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
	PublicURL string
}

// Presigner signs upload requests
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// MediaService hands out pre-signed URLs for post images
type MediaService struct {
	presigner Presigner
	bucket    string
	publicURL string
}

// NewMediaService creates a media service backed by S3 or an S3-compatible store
func NewMediaService(ctx context.Context, mc MediaConfig) (*MediaService, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(mc.Region)}
	if mc.AccessKey != "" && mc.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(mc.AccessKey, mc.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if mc.Endpoint != "" {
			o.BaseEndpoint = aws.String(mc.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := mc.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", mc.Bucket, mc.Region)
	}

	return NewMediaServiceWithPresigner(s3.NewPresignClient(client), mc.Bucket, publicURL), nil
}

// NewMediaServiceWithPresigner creates a media service around an existing presigner
func NewMediaServiceWithPresigner(presigner Presigner, bucket, publicURL string) *MediaService {
	return &MediaService{
		presigner: presigner,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// UploadResponse carries the pre-signed URL and where the image will live
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	ImageURL  string `json:"image_url"`
	ExpiresIn int    `json:"expires_in"`
}

// GetImageUploadURL generates a pre-signed URL for uploading a post image
func (s *MediaService) GetImageUploadURL(ctx context.Context, userID, contentType string) (*UploadResponse, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, errs.Invalidf("unsupported content type %q", contentType)
	}

	key := path.Join("posts", userID, uuid.New().String()+ext)

	request, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLTTL
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		ImageURL:  s.publicURL + "/" + key,
		ExpiresIn: int(uploadURLTTL.Seconds()),
	}, nil
}
