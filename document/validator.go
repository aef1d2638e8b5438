package document

import "fmt"

// MaxUploadSize is the largest document accepted for OCR, 5 MiB.
const MaxUploadSize = 5 << 20

// allowedContentTypes are the document formats the OCR backend accepts.
// image/jpg is not a registered MIME type but browsers still send it.
var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

// ValidationError explains why an upload was rejected. The Reason is
// safe to show to the user.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ValidateUpload checks an upload candidate before anything is sent to
// the document management system. It has no side effects: a rejection
// leaves whatever was previously accepted untouched.
func ValidateUpload(contentType string, size int64) error {
	if !allowedContentTypes[contentType] {
		return &ValidationError{
			Reason: fmt.Sprintf("unsupported file type %q, expected a JPEG, PNG or PDF", contentType),
		}
	}
	if size > MaxUploadSize {
		return &ValidationError{
			Reason: "file is too large, the maximum size is 5MB",
		}
	}
	return nil
}
