package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/domain"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/dto"
	renderout "github.com/rahimnathwani/mathacademy-stats/internal/modules/render/port/out"
	"github.com/rahimnathwani/mathacademy-stats/internal/platform/id"
)

// RenderService hands derived-statistics documents to out-of-process
// chart renderers. Renderer binaries are checksum-verified before launch.
type RenderService struct {
	store  renderout.ManifestStore
	host   renderout.Host
	source renderout.DocumentSource
	idGen  id.Generator
}

func NewRenderService(store renderout.ManifestStore, host renderout.Host, source renderout.DocumentSource, idGen id.Generator) *RenderService {
	return &RenderService{store: store, host: host, source: source, idGen: idGen}
}

func (s *RenderService) List(ctx context.Context) ([]dto.RendererInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RendererInfo, 0, len(manifests))
	for _, m := range manifests {
		kinds := make([]string, 0, len(m.Kinds))
		for _, kind := range m.Kinds {
			kinds = append(kinds, string(kind))
		}
		out = append(out, dto.RendererInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Kinds: kinds})
	}
	return out, nil
}

func (s *RenderService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *RenderService) Render(ctx context.Context, input dto.RenderInput) (dto.RenderOutput, error) {
	kind := domain.DocumentKind(input.Kind)
	if err := kind.Validate(); err != nil {
		return dto.RenderOutput{}, err
	}
	manifest, err := s.getRunnableManifest(ctx, input.Renderer, kind)
	if err != nil {
		return dto.RenderOutput{}, err
	}
	document, err := s.source.Document(ctx, kind)
	if err != nil {
		return dto.RenderOutput{}, err
	}
	request := domain.RenderRequest{
		JobID:        s.idGen.New(),
		Kind:         kind,
		DocumentJSON: document,
		OutputDir:    input.OutputDir,
	}
	if err := request.Validate(); err != nil {
		return dto.RenderOutput{}, err
	}
	result, err := s.host.Render(ctx, manifest, request)
	if err != nil {
		return dto.RenderOutput{}, err
	}
	return dto.RenderOutput{
		Renderer:   manifest.Name,
		Kind:       string(kind),
		JobID:      request.JobID,
		OutputPath: result.OutputPath,
		Stdout:     result.Stdout,
		ExitCode:   result.ExitCode,
	}, nil
}

func (s *RenderService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate renderer name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *RenderService) getRunnableManifest(ctx context.Context, name string, kind domain.DocumentKind) (domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	manifest := domain.Manifest{}
	found := false
	for _, item := range manifests {
		if item.Name == name {
			manifest = item
			found = true
			break
		}
	}
	if !found {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrRendererNotFound, name)
	}
	if !manifest.Enabled {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrRendererDisabled, name)
	}
	if !manifest.SupportsKind(kind) {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrKindUnsupported, kind)
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return domain.Manifest{}, err
	}
	if s.host != nil {
		if err := s.host.CheckLifecycle(ctx, manifest); err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrRendererTimeout, name)
			}
			return domain.Manifest{}, err
		}
	}
	return manifest, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read renderer binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
