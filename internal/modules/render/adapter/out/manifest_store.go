package out

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/domain"
	renderout "github.com/rahimnathwani/mathacademy-stats/internal/modules/render/port/out"

	"gopkg.in/yaml.v3"
)

type FileManifestStore struct {
	basePath string
	path     string
}

func NewFileManifestStore(basePath string) renderout.ManifestStore {
	return &FileManifestStore{basePath: basePath, path: filepath.Join(basePath, "renderers.yaml")}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read renderer manifest store: %w", err)
	}
	var manifests []domain.Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(b))
	decoder.KnownFields(true)
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode renderer manifests: %w", err)
	}
	for i := range manifests {
		if manifests[i].Binary != "" && !filepath.IsAbs(manifests[i].Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.basePath, manifests[i].Binary))
		}
	}
	return manifests, nil
}
