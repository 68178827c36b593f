package bridge

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Proxy exposes job progress and results from the task service. It holds no
// state: every call is a fresh upstream fetch.
type Proxy struct {
	service TaskService
	logger  *zap.Logger
}

// NewProxy wires the task service and logger.
func NewProxy(service TaskService, logger *zap.Logger) *Proxy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Proxy{service: service, logger: logger}
}

// GetStatus returns the service's current status document unchanged.
func (p *Proxy) GetStatus(ctx context.Context, jobID string) (StatusDocument, error) {
	doc, err := p.service.FetchStatus(ctx, jobID)
	if err != nil {
		return StatusDocument{}, fmt.Errorf("fetch status: %w", err)
	}
	return doc, nil
}

// GetResult returns the result records of a completed job. It fails with
// ErrJobNotReady unless the status is completed and results is non-null; an
// empty results array is a valid, empty result.
func (p *Proxy) GetResult(ctx context.Context, jobID string) ([]Record, error) {
	doc, err := p.GetStatus(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if doc.Status != StatusCompleted || !doc.HasResults() {
		p.logger.Debug("job results not consumable",
			zap.String("job_id", jobID),
			zap.String("status", doc.Status),
			zap.Bool("has_results", doc.HasResults()),
		)
		return nil, fmt.Errorf("%w: status %q", ErrJobNotReady, doc.Status)
	}
	records, err := doc.Records()
	if err != nil {
		return nil, &UpstreamError{Op: "fetch status", Err: err}
	}
	return records, nil
}
