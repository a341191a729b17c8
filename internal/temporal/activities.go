package temporal

import (
	"context"

	"go.uber.org/zap"

	"resume-intake/internal/domain"
	"resume-intake/internal/logger"
)

// CompletionNotifier is the onUploadComplete collaborator. It receives the
// accepted file's metadata once the completion delay has elapsed.
type CompletionNotifier interface {
	UploadCompleted(ctx context.Context, sessionID string, file domain.CandidateFile) error
}

type Activities struct {
	Notifier CompletionNotifier
}

type NotifyUploadCompleteInput struct {
	SessionID string
	File      domain.CandidateFile
}

func (a *Activities) NotifyUploadCompleteActivity(ctx context.Context, input NotifyUploadCompleteInput) error {
	if a.Notifier == nil {
		return nil
	}
	return a.Notifier.UploadCompleted(ctx, input.SessionID, input.File)
}

type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) UploadCompleted(_ context.Context, sessionID string, file domain.CandidateFile) error {
	fields := append(logger.FileFields(file.Name, file.MediaType, file.ByteSize), zap.String("session_id", sessionID))
	n.Logger.Info("resume upload complete", fields...)
	return nil
}
