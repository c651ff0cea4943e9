// Package recog wraps the remote face-recognition provider behind the
// Provider interface. The production implementation is AWS Rekognition.
package recog

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rekotypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"go.uber.org/zap"

	"github.com/mhollander/limen/internal/config"
)

// Ensure Rekognition implements Provider.
var _ Provider = (*Rekognition)(nil)

// rekognitionAPI is the subset of the Rekognition client used here,
// extracted so tests can substitute a fake.
type rekognitionAPI interface {
	DescribeCollection(ctx context.Context, in *rekognition.DescribeCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.DescribeCollectionOutput, error)
	CreateCollection(ctx context.Context, in *rekognition.CreateCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.CreateCollectionOutput, error)
	ListFaces(ctx context.Context, in *rekognition.ListFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.ListFacesOutput, error)
	IndexFaces(ctx context.Context, in *rekognition.IndexFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error)
	SearchFacesByImage(ctx context.Context, in *rekognition.SearchFacesByImageInput, optFns ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error)
}

// Rekognition implements Provider against an AWS Rekognition collection.
type Rekognition struct {
	client       rekognitionAPI
	collectionID string
	logger       *zap.Logger
}

// Option is a functional option for configuring Rekognition.
type Option func(*Rekognition)

// WithLogger sets a custom logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Rekognition) {
		r.logger = logger
	}
}

// NewRekognition builds a Rekognition-backed Provider from configuration.
// When AccessKey/SecretKey are set they are used as static credentials;
// otherwise the SDK's default chain applies.
func NewRekognition(ctx context.Context, cfg *config.RecognitionConfig, opts ...Option) (*Rekognition, error) {
	if cfg == nil {
		return nil, errors.New("recognition configuration is required")
	}
	if cfg.CollectionID == "" {
		return nil, errors.New("collection id is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	r := &Rekognition{
		client:       rekognition.NewFromConfig(awsCfg),
		collectionID: cfg.CollectionID,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Rekognition) EnsureCollection(ctx context.Context) error {
	_, err := r.client.DescribeCollection(ctx, &rekognition.DescribeCollectionInput{
		CollectionId: aws.String(r.collectionID),
	})
	if err == nil {
		r.logger.Info("collection exists", zap.String("collection_id", r.collectionID))
		return nil
	}

	r.logger.Info("creating collection", zap.String("collection_id", r.collectionID))
	if _, err := r.client.CreateCollection(ctx, &rekognition.CreateCollectionInput{
		CollectionId: aws.String(r.collectionID),
	}); err != nil {
		return fmt.Errorf("create collection %q: %w", r.collectionID, err)
	}
	return nil
}

func (r *Rekognition) ListFaces(ctx context.Context) ([]Face, error) {
	var (
		faces []Face
		token *string
	)
	for {
		out, err := r.client.ListFaces(ctx, &rekognition.ListFacesInput{
			CollectionId: aws.String(r.collectionID),
			NextToken:    token,
		})
		if err != nil {
			return nil, fmt.Errorf("list faces: %w", err)
		}
		faces = append(faces, facesFromList(out.Faces)...)
		if out.NextToken == nil {
			return faces, nil
		}
		token = out.NextToken
	}
}

func (r *Rekognition) IndexFace(ctx context.Context, image []byte, externalID string) (string, error) {
	out, err := r.client.IndexFaces(ctx, &rekognition.IndexFacesInput{
		CollectionId:    aws.String(r.collectionID),
		ExternalImageId: aws.String(externalID),
		Image:           &rekotypes.Image{Bytes: image},
		MaxFaces:        aws.Int32(1),
		QualityFilter:   rekotypes.QualityFilterAuto,
	})
	if err != nil {
		return "", fmt.Errorf("index face: %w", err)
	}
	return faceIDFromIndexOutput(out)
}

func (r *Rekognition) SearchFace(ctx context.Context, image []byte, threshold float64) (*Match, error) {
	out, err := r.client.SearchFacesByImage(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(r.collectionID),
		Image:              &rekotypes.Image{Bytes: image},
		MaxFaces:           aws.Int32(1),
		FaceMatchThreshold: aws.Float32(float32(threshold)),
	})
	if err != nil {
		return nil, fmt.Errorf("search faces: %w", err)
	}
	return bestMatch(out), nil
}

func facesFromList(in []rekotypes.Face) []Face {
	out := make([]Face, 0, len(in))
	for _, f := range in {
		if f.FaceId == nil || f.ExternalImageId == nil {
			continue
		}
		out = append(out, Face{
			FaceID:     aws.ToString(f.FaceId),
			ExternalID: aws.ToString(f.ExternalImageId),
		})
	}
	return out
}

// faceIDFromIndexOutput extracts the single indexed face id, translating
// an empty record set into ErrNoFaceDetected.
func faceIDFromIndexOutput(out *rekognition.IndexFacesOutput) (string, error) {
	if out == nil || len(out.FaceRecords) == 0 {
		return "", ErrNoFaceDetected
	}
	face := out.FaceRecords[0].Face
	if face == nil || face.FaceId == nil {
		return "", ErrNoFaceDetected
	}
	return aws.ToString(face.FaceId), nil
}

// bestMatch translates the provider's ranked matches into the single
// candidate callers asked for, or nil when nothing cleared the threshold.
func bestMatch(out *rekognition.SearchFacesByImageOutput) *Match {
	if out == nil || len(out.FaceMatches) == 0 {
		return nil
	}
	m := out.FaceMatches[0]
	if m.Face == nil || m.Face.ExternalImageId == nil || m.Similarity == nil {
		return nil
	}
	return &Match{
		ExternalID: aws.ToString(m.Face.ExternalImageId),
		Similarity: float64(aws.ToFloat32(m.Similarity)),
	}
}
