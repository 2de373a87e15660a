package out

import (
	"context"
	"fmt"
	"time"

	frontierout "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/port/out"
	apperrors "github.com/rahimnathwani/mathacademy-stats/internal/platform/errors"
)

const (
	resolveTimeout = 2 * time.Second
	resolveRetries = 3
	retryDelay     = 250 * time.Millisecond
)

// ConfigIdentityResolver resolves the acting identity from configuration.
// It honors the resolver contract (bounded timeout, fixed retries) so a
// future page-context implementation can swap in behind the same port.
type ConfigIdentityResolver struct {
	identity frontierout.Identity
}

func NewConfigIdentityResolver(studentID, courseID int64, origin string) frontierout.IdentityResolver {
	return ConfigIdentityResolver{identity: frontierout.Identity{
		StudentID: studentID,
		CourseID:  courseID,
		Origin:    origin,
	}}
}

func (r ConfigIdentityResolver) Resolve(ctx context.Context) (frontierout.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < resolveRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return frontierout.Identity{}, fmt.Errorf("%w: %v", apperrors.ErrIdentityUnavailable, ctx.Err())
			case <-time.After(retryDelay):
			}
		}
		identity, err := r.lookup()
		if err == nil {
			return identity, nil
		}
		lastErr = err
	}
	return frontierout.Identity{}, fmt.Errorf("%w: %v", apperrors.ErrIdentityUnavailable, lastErr)
}

func (r ConfigIdentityResolver) lookup() (frontierout.Identity, error) {
	if r.identity.StudentID == 0 || r.identity.CourseID == 0 {
		return frontierout.Identity{}, fmt.Errorf("student_id and course_id must be configured")
	}
	if r.identity.Origin == "" {
		return frontierout.Identity{}, fmt.Errorf("origin must be configured")
	}
	return r.identity, nil
}
