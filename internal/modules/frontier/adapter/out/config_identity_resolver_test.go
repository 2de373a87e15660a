package out_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/adapter/out"
	apperrors "github.com/rahimnathwani/mathacademy-stats/internal/platform/errors"
)

func TestConfigIdentityResolver(t *testing.T) {
	t.Parallel()
	resolver := out.NewConfigIdentityResolver(77, 5, "https://example.test")

	identity, err := resolver.Resolve(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.StudentID != 77 || identity.CourseID != 5 || identity.Origin != "https://example.test" {
		t.Fatalf("identity %+v", identity)
	}
}

func TestConfigIdentityResolverMissingIDs(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		studentID int64
		courseID  int64
		origin    string
	}{
		{"no student", 0, 5, "https://example.test"},
		{"no course", 77, 0, "https://example.test"},
		{"no origin", 77, 5, ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			resolver := out.NewConfigIdentityResolver(tc.studentID, tc.courseID, tc.origin)
			_, err := resolver.Resolve(context.Background())
			if !errors.Is(err, apperrors.ErrIdentityUnavailable) {
				t.Fatalf("got %v, want ErrIdentityUnavailable", err)
			}
		})
	}
}
