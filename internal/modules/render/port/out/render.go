package out

import (
	"context"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// Host runs a renderer binary over the plugin transport.
type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Render(ctx context.Context, manifest domain.Manifest, request domain.RenderRequest) (domain.RenderResult, error)
}

// DocumentSource builds the derived-statistics JSON document for one
// kind, ready to hand to a renderer.
type DocumentSource interface {
	Document(ctx context.Context, kind domain.DocumentKind) (string, error)
}
