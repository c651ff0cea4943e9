package recog

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rekotypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	describeErr error
	createErr   error
	createCalls int

	listPages []*rekognition.ListFacesOutput
	listCall  int

	indexOut *rekognition.IndexFacesOutput
	indexErr error
	indexIn  *rekognition.IndexFacesInput

	searchOut *rekognition.SearchFacesByImageOutput
	searchErr error
	searchIn  *rekognition.SearchFacesByImageInput
}

func (f *fakeAPI) DescribeCollection(_ context.Context, _ *rekognition.DescribeCollectionInput, _ ...func(*rekognition.Options)) (*rekognition.DescribeCollectionOutput, error) {
	return &rekognition.DescribeCollectionOutput{}, f.describeErr
}

func (f *fakeAPI) CreateCollection(_ context.Context, _ *rekognition.CreateCollectionInput, _ ...func(*rekognition.Options)) (*rekognition.CreateCollectionOutput, error) {
	f.createCalls++
	return &rekognition.CreateCollectionOutput{}, f.createErr
}

func (f *fakeAPI) ListFaces(_ context.Context, _ *rekognition.ListFacesInput, _ ...func(*rekognition.Options)) (*rekognition.ListFacesOutput, error) {
	out := f.listPages[f.listCall]
	f.listCall++
	return out, nil
}

func (f *fakeAPI) IndexFaces(_ context.Context, in *rekognition.IndexFacesInput, _ ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error) {
	f.indexIn = in
	return f.indexOut, f.indexErr
}

func (f *fakeAPI) SearchFacesByImage(_ context.Context, in *rekognition.SearchFacesByImageInput, _ ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error) {
	f.searchIn = in
	return f.searchOut, f.searchErr
}

func newTestRekognition(api rekognitionAPI) *Rekognition {
	return &Rekognition{
		client:       api,
		collectionID: "test-faces",
		logger:       zap.NewNop(),
	}
}

func TestEnsureCollection_ExistingCollection(t *testing.T) {
	api := &fakeAPI{}
	r := newTestRekognition(api)

	require.NoError(t, r.EnsureCollection(context.Background()))
	assert.Zero(t, api.createCalls, "must not create a collection that exists")
}

func TestEnsureCollection_CreatesOnMiss(t *testing.T) {
	api := &fakeAPI{describeErr: errors.New("ResourceNotFoundException")}
	r := newTestRekognition(api)

	require.NoError(t, r.EnsureCollection(context.Background()))
	assert.Equal(t, 1, api.createCalls)
}

func TestEnsureCollection_CreateFailure(t *testing.T) {
	api := &fakeAPI{
		describeErr: errors.New("ResourceNotFoundException"),
		createErr:   errors.New("AccessDeniedException"),
	}
	r := newTestRekognition(api)

	assert.Error(t, r.EnsureCollection(context.Background()))
}

func TestListFaces_Paginates(t *testing.T) {
	api := &fakeAPI{
		listPages: []*rekognition.ListFacesOutput{
			{
				Faces: []rekotypes.Face{
					{FaceId: aws.String("f1"), ExternalImageId: aws.String("alice")},
				},
				NextToken: aws.String("page-2"),
			},
			{
				Faces: []rekotypes.Face{
					{FaceId: aws.String("f2"), ExternalImageId: aws.String("bob")},
					{FaceId: aws.String("f3")}, // missing external id, skipped
				},
			},
		},
	}
	r := newTestRekognition(api)

	faces, err := r.ListFaces(context.Background())
	require.NoError(t, err)
	require.Len(t, faces, 2)
	assert.Equal(t, Face{FaceID: "f1", ExternalID: "alice"}, faces[0])
	assert.Equal(t, Face{FaceID: "f2", ExternalID: "bob"}, faces[1])
}

func TestIndexFace_ReturnsFaceID(t *testing.T) {
	api := &fakeAPI{
		indexOut: &rekognition.IndexFacesOutput{
			FaceRecords: []rekotypes.FaceRecord{
				{Face: &rekotypes.Face{FaceId: aws.String("face-123")}},
			},
		},
	}
	r := newTestRekognition(api)

	faceID, err := r.IndexFace(context.Background(), []byte("jpeg"), "alice")
	require.NoError(t, err)
	assert.Equal(t, "face-123", faceID)

	require.NotNil(t, api.indexIn)
	assert.Equal(t, "alice", aws.ToString(api.indexIn.ExternalImageId))
	assert.Equal(t, int32(1), aws.ToInt32(api.indexIn.MaxFaces))
	assert.Equal(t, rekotypes.QualityFilterAuto, api.indexIn.QualityFilter)
}

func TestIndexFace_NoFaceDetected(t *testing.T) {
	api := &fakeAPI{indexOut: &rekognition.IndexFacesOutput{}}
	r := newTestRekognition(api)

	_, err := r.IndexFace(context.Background(), []byte("jpeg"), "alice")
	assert.ErrorIs(t, err, ErrNoFaceDetected)
}

func TestSearchFace_Match(t *testing.T) {
	api := &fakeAPI{
		searchOut: &rekognition.SearchFacesByImageOutput{
			FaceMatches: []rekotypes.FaceMatch{
				{
					Face:       &rekotypes.Face{ExternalImageId: aws.String("alice")},
					Similarity: aws.Float32(87.5),
				},
			},
		},
	}
	r := newTestRekognition(api)

	m, err := r.SearchFace(context.Background(), []byte("jpeg"), 75.0)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "alice", m.ExternalID)
	assert.InDelta(t, 87.5, m.Similarity, 0.001)

	// Threshold is passed through at the raw 0-100 scale.
	require.NotNil(t, api.searchIn)
	assert.InDelta(t, 75.0, float64(aws.ToFloat32(api.searchIn.FaceMatchThreshold)), 0.001)
	assert.Equal(t, int32(1), aws.ToInt32(api.searchIn.MaxFaces))
}

func TestSearchFace_NoMatchIsNotAnError(t *testing.T) {
	api := &fakeAPI{searchOut: &rekognition.SearchFacesByImageOutput{}}
	r := newTestRekognition(api)

	m, err := r.SearchFace(context.Background(), []byte("jpeg"), 75.0)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestSearchFace_ProviderFailure(t *testing.T) {
	api := &fakeAPI{searchErr: errors.New("ThrottlingException")}
	r := newTestRekognition(api)

	_, err := r.SearchFace(context.Background(), []byte("jpeg"), 75.0)
	assert.Error(t, err)
}
