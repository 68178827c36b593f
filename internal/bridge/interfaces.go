package bridge

import "context"

// TaskService is the remote asynchronous task API.
type TaskService interface {
	Submit(ctx context.Context, req JobRequest) (JobHandle, error)
	FetchStatus(ctx context.Context, jobID string) (StatusDocument, error)
}
