package isubmissionrepo

import (
	"context"

	"github.com/handywriterz/order-admin-svc/internal/service/models/submission"
)

// ISubmissionSource reads raw submissions on behalf of a bearer token.
type ISubmissionSource interface {
	List(ctx context.Context, token string) ([]submission.Submission, error)
}
