package types

import "time"

// AccessDecision is the outcome of one access check, mirrored from the
// audit event written for it. PersonName and Confidence are present only
// on a grant; Confidence is normalized to 0.0–1.0.
type AccessDecision struct {
	Granted    bool      `json:"access_granted"`
	PersonName *string   `json:"person_name,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// EnrollResult is returned after a successful enrollment.
type EnrollResult struct {
	FaceID  string `json:"face_id"`
	Message string `json:"message"`
}

// AccessEventView is the wire form of one audit entry.
type AccessEventView struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	PersonName  *string   `json:"person_name,omitempty"`
	Confidence  *float64  `json:"confidence,omitempty"`
	Granted     bool      `json:"access_granted"`
}
