package recog

import (
	"context"
	"errors"
)

// ErrNoFaceDetected is returned by IndexFace when the provider finds no
// usable face in the submitted image (including faces filtered out for
// low quality).
var ErrNoFaceDetected = errors.New("no usable face detected in image")

// Face is one entry in the provider's collection.
type Face struct {
	FaceID     string
	ExternalID string
}

// Match is the best candidate the provider returned for a probe image.
// Similarity is the provider's raw 0–100 score; normalization for
// display happens in the decision engine.
type Match struct {
	ExternalID string
	Similarity float64
}

// Provider is the remote face-matching capability. Implementations must
// distinguish "no match" (nil Match, nil error) from a transport or
// service failure (non-nil error): callers deny on the former and refuse
// to decide on the latter.
type Provider interface {
	// EnsureCollection verifies the collection exists, creating it on
	// first run. Failure here is fatal at startup.
	EnsureCollection(ctx context.Context) error

	// ListFaces enumerates every face currently in the collection.
	ListFaces(ctx context.Context) ([]Face, error)

	// IndexFace enrolls at most one face from image under externalID
	// and returns the provider-assigned face id. Returns
	// ErrNoFaceDetected when the image has no usable face. The registry
	// is not touched; that is the caller's responsibility.
	IndexFace(ctx context.Context, image []byte, externalID string) (string, error)

	// SearchFace looks for the single best match at or above threshold
	// (raw 0–100 scale). A nil Match with nil error means nothing
	// cleared the threshold.
	SearchFace(ctx context.Context, image []byte, threshold float64) (*Match, error)
}
