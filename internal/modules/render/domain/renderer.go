package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// DocumentKind names the derived-statistics document handed to a
// renderer.
type DocumentKind string

const (
	DocumentCourses  DocumentKind = "courses"
	DocumentDaily    DocumentKind = "daily"
	DocumentTimeline DocumentKind = "timeline"
	DocumentFrontier DocumentKind = "frontier"
)

func (k DocumentKind) Validate() error {
	switch k {
	case DocumentCourses, DocumentDaily, DocumentTimeline, DocumentFrontier:
		return nil
	default:
		return fmt.Errorf("unknown document kind: %s", k)
	}
}

var (
	ErrRendererDisabled = errors.New("renderer is disabled")
	ErrRendererNotFound = errors.New("renderer not found")
	ErrChecksumMismatch = errors.New("renderer checksum mismatch")
	ErrKindUnsupported  = errors.New("renderer does not support document kind")
	ErrRendererTimeout  = errors.New("renderer timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest declares one out-of-process chart renderer. Binaries are
// checksum-pinned before they are ever launched.
type Manifest struct {
	Name    string         `yaml:"name"`
	Version string         `yaml:"version"`
	Binary  string         `yaml:"binary"`
	SHA256  string         `yaml:"sha256"`
	Enabled bool           `yaml:"enabled"`
	Kinds   []DocumentKind `yaml:"kinds"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("renderer name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("renderer version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("renderer binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("renderer sha256 must be lowercase 64-char hex")
	}
	if len(m.Kinds) == 0 {
		return fmt.Errorf("renderer kinds are required")
	}
	seen := map[DocumentKind]struct{}{}
	for _, kind := range m.Kinds {
		if err := kind.Validate(); err != nil {
			return err
		}
		if _, ok := seen[kind]; ok {
			return fmt.Errorf("duplicate kind: %s", kind)
		}
		seen[kind] = struct{}{}
	}
	return nil
}

func (m Manifest) SupportsKind(kind DocumentKind) bool {
	for _, k := range m.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name    string
	Version string
	Kinds   []DocumentKind
}

// RenderRequest carries one derived-statistics document to a renderer.
type RenderRequest struct {
	JobID        string
	Kind         DocumentKind
	DocumentJSON string
	OutputDir    string
}

func (r RenderRequest) Validate() error {
	if err := r.Kind.Validate(); err != nil {
		return err
	}
	if r.DocumentJSON == "" {
		return fmt.Errorf("document payload is required")
	}
	if r.OutputDir == "" {
		return fmt.Errorf("output dir is required")
	}
	return nil
}

type RenderResult struct {
	OutputPath string
	Stdout     string
	ExitCode   int
}
