package ports

import "context"

// IssueRequest is the payload for a tracker work item.
type IssueRequest struct {
	Summary     string
	Description string
}

// Tracker is the external work-item tracker. CreateIssue reports
// transient transport failures as apperr.KindTransient (retryable) and
// payload rejections as apperr.KindStructural (fatal). GetIssue returns
// the tracker-native status string; mapping to pipeline categories is the
// lifecycle controller's job.
type Tracker interface {
	CreateIssue(ctx context.Context, req IssueRequest) (string, error)
	GetIssue(ctx context.Context, reference string) (string, error)
}
