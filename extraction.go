package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"govpass-enrollment/models"
)

// ocrCorrections fixes the handful of mis-encodings the OCR backend is
// known to produce.
var ocrCorrections = strings.NewReplacer(
	"$", "s",
	"@", "a",
	"§", "S",
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// PollPolicy bounds the task-status polling loop. The DMS job queue has
// no push notification, so polling is the only way to learn that OCR
// finished. The sleep function is injectable so tests run without real
// delays.
type PollPolicy struct {
	MaxAttempts int
	Interval    time.Duration
	Sleep       func(ctx context.Context, d time.Duration) error
}

// DefaultPollPolicy gives a worst case of roughly 100 seconds.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		MaxAttempts: 20,
		Interval:    5 * time.Second,
	}
}

func (p PollPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ProgressFunc receives a human-readable note per pipeline stage.
// Callers may pass nil or ignore the notifications entirely.
type ProgressFunc func(message string)

func (f ProgressFunc) report(message string) {
	if f != nil {
		f(message)
	}
}

// ExtractionService sequences the four remote calls that turn an
// uploaded document into structured personal details: upload, poll for
// OCR completion, retrieve the text, extract fields.
type ExtractionService struct {
	intake DocumentIntakeClient
	llm    FieldExtractionClient
	policy PollPolicy
}

func NewExtractionService(intake DocumentIntakeClient, llm FieldExtractionClient, policy PollPolicy) *ExtractionService {
	return &ExtractionService{intake: intake, llm: llm, policy: policy}
}

// ProcessDocument runs the full pipeline. Stages 1-3 are mandatory;
// stage 4 failing downgrades the result to a success that carries raw
// text but no structured data.
func (s *ExtractionService) ProcessDocument(ctx context.Context, fileName string, content io.Reader, progress ProgressFunc) models.OCRResult {
	progress.report("Uploading document...")
	taskID, err := s.intake.UploadDocument(ctx, fileName, content)
	if err != nil {
		slog.Warn("Document upload failed", "file_name", fileName, "error", err)
		return models.OCRResult{Success: false, Error: "Failed to upload document"}
	}
	slog.Info("Document uploaded for OCR", "file_name", fileName, "task_id", taskID)

	progress.report("Processing OCR...")
	documentID, err := s.awaitRelatedDocument(ctx, taskID, fileName)
	if err != nil {
		slog.Warn("OCR did not complete", "file_name", fileName, "task_id", taskID, "error", err)
		return models.OCRResult{Success: false, Error: "OCR processing failed or timed out"}
	}
	slog.Info("OCR completed", "file_name", fileName, "document_id", documentID)

	progress.report("Extracting text...")
	text, err := s.retrieveCleanText(ctx, documentID)
	if err != nil {
		slog.Warn("Text retrieval failed", "document_id", documentID, "error", err)
		return models.OCRResult{Success: false, Error: "Failed to extract text from document"}
	}

	progress.report("Processing with AI to extract National ID data...")
	structured, err := s.llm.ExtractFields(ctx, text)
	if err != nil {
		// Degraded success: OCR worked, enrichment did not. The wizard
		// proceeds with an empty pre-fill.
		slog.Warn("Field extraction failed, continuing with raw text only", "error", err)
		return models.OCRResult{
			Success: true,
			Text:    text,
			Error:   "AI processing failed, but text extraction was successful",
		}
	}

	return models.OCRResult{Success: true, Text: text, StructuredData: structured}
}

// awaitRelatedDocument polls the task list until a task with SUCCESS
// status and a matching file name carries a related document. Among
// matches the numerically largest id wins, since ids are assigned in
// order and re-uploads of the same file create new tasks. Seeing our
// own task id with FAILURE aborts immediately.
func (s *ExtractionService) awaitRelatedDocument(ctx context.Context, taskID, fileName string) (int64, error) {
	for attempt := 0; attempt < s.policy.MaxAttempts; attempt++ {
		tasks, err := s.intake.ListTasks(ctx)
		if err != nil {
			slog.Debug("Task list fetch failed, will retry", "attempt", attempt+1, "error", err)
		} else {
			var latest *models.Task
			for i := range tasks {
				task := &tasks[i]
				if task.Status != models.TaskStatusSuccess || task.TaskFileName != fileName {
					continue
				}
				if latest == nil || task.ID > latest.ID {
					latest = task
				}
			}
			if latest != nil && latest.RelatedDocument != 0 {
				return latest.RelatedDocument, nil
			}

			for i := range tasks {
				if tasks[i].TaskID == taskID && tasks[i].Status == models.TaskStatusFailure {
					return 0, fmt.Errorf("OCR task failed: %s", tasks[i].Result)
				}
			}
		}

		if err := s.policy.sleep(ctx, s.policy.Interval); err != nil {
			return 0, err
		}
	}

	return 0, fmt.Errorf("no successful OCR task for %s after %d attempts", fileName, s.policy.MaxAttempts)
}

func (s *ExtractionService) retrieveCleanText(ctx context.Context, documentID int64) (string, error) {
	content, err := s.intake.RetrieveContent(ctx, documentID)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(ocrCorrections.Replace(content))
	if text == "" {
		return "", fmt.Errorf("document %d has no content", documentID)
	}
	return text, nil
}
