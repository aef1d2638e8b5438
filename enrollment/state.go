package enrollment

import (
	"fmt"

	"govpass-enrollment/models"
)

// Step is the wizard's current position. The flow is
// document -> personal -> selfie -> success|failed, with failed able to
// return to selfie (retry) and both terminal steps able to start over.
type Step string

const (
	StepDocument Step = "document"
	StepPersonal Step = "personal"
	StepSelfie   Step = "selfie"
	StepSuccess  Step = "success"
	StepFailed   Step = "failed"
)

// DocumentInfo describes the accepted upload. The file content itself is
// never stored, only handed to the extraction pipeline.
type DocumentInfo struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// State is a snapshot of an in-progress enrollment. Transitions never
// mutate a State in place; each one returns a new snapshot, so a stored
// state can always be retried against safely.
type State struct {
	Step          Step                    `json:"step"`
	Document      *DocumentInfo           `json:"document,omitempty"`
	ExtractedText string                  `json:"extracted_text,omitempty"`
	Extracted     *models.PersonalDetails `json:"extracted,omitempty"`
	Details       *models.PersonalDetails `json:"details,omitempty"`
	Selfie        string                  `json:"selfie,omitempty"`
	Error         string                  `json:"error,omitempty"`
}

// TransitionError reports an operation attempted at the wrong step.
type TransitionError struct {
	From Step
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while on the %s step", e.Op, e.From)
}

// New returns a fresh enrollment at the document step.
func New() State {
	return State{Step: StepDocument}
}

// DocumentProcessed records an accepted upload and its extraction result
// and advances to the personal details step. The extraction result must
// be a success or a degraded success; hard failures keep the wizard on
// the document step and are recorded with Failed instead.
func (s State) DocumentProcessed(doc DocumentInfo, result models.OCRResult) (State, error) {
	if s.Step != StepDocument {
		return s, &TransitionError{From: s.Step, Op: "process a document"}
	}
	if !result.Success {
		return s, fmt.Errorf("extraction did not succeed: %s", result.Error)
	}

	next := s
	next.Step = StepPersonal
	next.Document = &doc
	next.ExtractedText = result.Text
	next.Extracted = result.StructuredData
	// A degraded success carries a note explaining the empty pre-fill;
	// a full success carries none.
	next.Error = result.Error
	return next, nil
}

// DetailsSubmitted validates the reviewed personal details and advances
// to the selfie step. Validation failures are returned as *FieldErrors
// and leave the state unchanged.
func (s State) DetailsSubmitted(details models.PersonalDetails) (State, error) {
	if s.Step != StepPersonal {
		return s, &TransitionError{From: s.Step, Op: "submit personal details"}
	}
	if err := ValidateDetails(details); err != nil {
		return s, err
	}

	next := s
	next.Step = StepSelfie
	next.Details = &details
	next.Error = ""
	return next, nil
}

// SelfieCaptured stores the encoded selfie image. The wizard stays on
// the selfie step until the submission outcome is known.
func (s State) SelfieCaptured(image string) (State, error) {
	if s.Step != StepSelfie {
		return s, &TransitionError{From: s.Step, Op: "capture a selfie"}
	}
	if image == "" {
		return s, fmt.Errorf("selfie image is empty")
	}

	next := s
	next.Selfie = image
	return next, nil
}

// SubmissionSucceeded moves the enrollment to its successful terminal step.
func (s State) SubmissionSucceeded() (State, error) {
	if s.Step != StepSelfie {
		return s, &TransitionError{From: s.Step, Op: "complete submission"}
	}

	next := s
	next.Step = StepSuccess
	next.Error = ""
	return next, nil
}

// SubmissionFailed moves the enrollment to the failed step with a
// message the user can act on.
func (s State) SubmissionFailed(message string) (State, error) {
	if s.Step != StepSelfie {
		return s, &TransitionError{From: s.Step, Op: "fail submission"}
	}

	next := s
	next.Step = StepFailed
	next.Error = message
	return next, nil
}

// Retry returns a failed enrollment to the selfie step, discarding the
// previous selfie so it can be retaken.
func (s State) Retry() (State, error) {
	if s.Step != StepFailed {
		return s, &TransitionError{From: s.Step, Op: "retry"}
	}

	next := s
	next.Step = StepSelfie
	next.Selfie = ""
	next.Error = ""
	return next, nil
}

// StartOver discards everything and returns to the document step. Valid
// from any step; logout uses it too.
func (s State) StartOver() State {
	return New()
}
