package out

import (
	"context"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/domain"
)

// GraphClient fetches the full prerequisite graph for one course and
// student.
type GraphClient interface {
	FetchGraph(ctx context.Context, courseID, studentID int64) (map[int64]domain.TopicNode, error)
}

// Identity is the student/course pair the graph endpoint requires, plus
// the origin to fetch it from.
type Identity struct {
	StudentID int64
	CourseID  int64
	Origin    string
}

// IdentityResolver resolves the acting identity. Implementations bound
// the lookup (2s) and retry a small fixed number of times; a null or
// absent id is a fatal precondition for the frontier fetch.
type IdentityResolver interface {
	Resolve(ctx context.Context) (Identity, error)
}
