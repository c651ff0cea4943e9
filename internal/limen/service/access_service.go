package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhollander/limen/internal/limen/device"
	"github.com/mhollander/limen/internal/limen/recog"
	"github.com/mhollander/limen/internal/limen/store"
	"github.com/mhollander/limen/internal/limen/types"
)

var (
	ErrEmptyImage  = errors.New("image is required")
	ErrInvalidName = errors.New("name is required")
)

// Config holds the decision policy. Threshold is the minimum provider
// similarity (raw 0–100 scale) required to grant access.
type Config struct {
	Threshold float64
}

// AccessService is the decision engine: it turns an image into exactly
// one access decision, drives the door on a grant, and writes exactly
// one audit entry per completed determination. It owns the write path to
// both the registry and the audit log.
type AccessService struct {
	cfg      Config
	provider recog.Provider
	camera   device.Camera
	door     device.Door
	people   store.PersonStore
	audit    store.AuditLog
	logger   *zap.Logger
}

func NewAccessService(
	cfg Config,
	provider recog.Provider,
	camera device.Camera,
	door device.Door,
	people store.PersonStore,
	audit store.AuditLog,
	logger *zap.Logger,
) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{
		cfg:      cfg,
		provider: provider,
		camera:   camera,
		door:     door,
		people:   people,
		audit:    audit,
		logger:   logger,
	}
}

// Bootstrap prepares the provider collection and reconciles the registry
// against faces already enrolled there. Run once at startup before
// serving traffic; any failure here is fatal.
func (s *AccessService) Bootstrap(ctx context.Context) error {
	if err := s.provider.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}

	faces, err := s.provider.ListFaces(ctx)
	if err != nil {
		return fmt.Errorf("list faces: %w", err)
	}

	now := time.Now().UTC()
	people := make([]store.Person, 0, len(faces))
	for _, f := range faces {
		people = append(people, store.Person{
			FaceID:     f.FaceID,
			Name:       f.ExternalID,
			EnrolledAt: now,
		})
	}

	n, err := s.people.Reconcile(ctx, people)
	if err != nil {
		return fmt.Errorf("reconcile registry: %w", err)
	}
	s.logger.Info("loaded authorized faces", zap.Int("count", n))
	return nil
}

// CheckAccess runs one access determination over the given image. A
// provider failure returns an error with nothing audited: no
// determination was made, which is distinct from a denial. Otherwise the
// recognition result is fully determined before the door is touched, the
// door attempt (grant only) precedes the audit write, and the audit
// write precedes the return.
func (s *AccessService) CheckAccess(ctx context.Context, image []byte) (types.AccessDecision, error) {
	if len(image) == 0 {
		return types.AccessDecision{}, ErrEmptyImage
	}

	match, err := s.provider.SearchFace(ctx, image, s.cfg.Threshold)
	if err != nil {
		return types.AccessDecision{}, fmt.Errorf("face search: %w", err)
	}

	now := time.Now().UTC()

	if match == nil {
		s.logger.Info("access denied", zap.String("reason", "face_not_recognized"))
		s.recordEvent(ctx, "access denied: face not recognized", nil, nil, false, now)
		return types.AccessDecision{Granted: false, Timestamp: now}, nil
	}

	name := match.ExternalID
	confidence := match.Similarity / 100.0

	// The decision stands even if the actuator is unreachable: the
	// audit trail records the decision, not the hardware outcome.
	if err := s.door.Set(ctx, true); err != nil {
		s.logger.Warn("door unlock failed", zap.Error(err))
	}

	s.logger.Info("access granted",
		zap.String("person", name),
		zap.Float64("confidence", confidence),
	)
	s.recordEvent(ctx, "access granted: "+name, &name, &confidence, true, now)

	return types.AccessDecision{
		Granted:    true,
		PersonName: &name,
		Confidence: &confidence,
		Timestamp:  now,
	}, nil
}

// CheckAccessFromCamera sources the image from the camera device. A
// capture failure means there is nothing to decide on: the error is
// returned and no audit entry is written.
func (s *AccessService) CheckAccessFromCamera(ctx context.Context) (types.AccessDecision, error) {
	image, err := s.camera.Capture(ctx)
	if err != nil {
		return types.AccessDecision{}, err
	}
	return s.CheckAccess(ctx, image)
}

// Enroll indexes one face with the provider under the given name and
// registers the resulting face id. A NoFaceDetected outcome aborts with
// no registry mutation and no audit entry.
func (s *AccessService) Enroll(ctx context.Context, name string, image []byte) (types.EnrollResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.EnrollResult{}, ErrInvalidName
	}
	if len(image) == 0 {
		return types.EnrollResult{}, ErrEmptyImage
	}

	faceID, err := s.provider.IndexFace(ctx, image, name)
	if err != nil {
		return types.EnrollResult{}, fmt.Errorf("enroll %q: %w", name, err)
	}

	now := time.Now().UTC()
	err = s.people.Insert(ctx, store.Person{
		FaceID:     faceID,
		Name:       name,
		EnrolledAt: now,
	})
	if err != nil {
		// The provider assigns fresh face ids, so a duplicate here
		// means the registry has diverged from the collection.
		s.logger.Error("registry insert failed",
			zap.String("face_id", faceID),
			zap.Error(err),
		)
		return types.EnrollResult{}, err
	}

	s.logger.Info("person enrolled",
		zap.String("name", name),
		zap.String("face_id", faceID),
	)
	s.recordEvent(ctx, "enrolled authorized person: "+name, &name, nil, false, now)

	return types.EnrollResult{
		FaceID:  faceID,
		Message: "successfully enrolled " + name,
	}, nil
}

func (s *AccessService) ListPeople(ctx context.Context) ([]string, error) {
	return s.people.List(ctx)
}

func (s *AccessService) RecentEvents(ctx context.Context, limit int) ([]store.AccessEvent, error) {
	return s.audit.Recent(ctx, limit)
}

func (s *AccessService) Counts(ctx context.Context) (people, events int, err error) {
	if people, err = s.people.Len(ctx); err != nil {
		return 0, 0, err
	}
	if events, err = s.audit.Len(ctx); err != nil {
		return 0, 0, err
	}
	return people, events, nil
}

// recordEvent appends the audit entry for a determination. Errors are
// intentionally not returned to the caller — a failed audit write should
// not withhold the decision. The in-memory log cannot fail, but the
// interface allows an implementation that can.
func (s *AccessService) recordEvent(
	ctx context.Context,
	description string,
	personName *string,
	confidence *float64,
	granted bool,
	at time.Time,
) {
	ev := store.AccessEvent{
		ID:          uuid.NewString(),
		Timestamp:   at,
		Description: description,
		PersonName:  personName,
		Confidence:  confidence,
		Granted:     granted,
	}
	if err := s.audit.Append(ctx, ev); err != nil {
		s.logger.Error("audit append failed", zap.Error(err))
	}
}
