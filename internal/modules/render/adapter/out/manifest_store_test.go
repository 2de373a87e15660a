package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/adapter/out"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/domain"
)

const manifestYAML = `
- name: charts
  version: 1.2.0
  binary: bin/charts-renderer
  sha256: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa
  enabled: true
  kinds: [daily, timeline]
- name: frontier-map
  version: 0.3.1
  binary: /opt/renderers/frontier-map
  sha256: bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb
  enabled: false
  kinds: [frontier]
`

func TestFileManifestStoreLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "renderers.yaml"), []byte(manifestYAML), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	manifests, err := out.NewFileManifestStore(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 2 {
		t.Fatalf("got %d manifests, want 2", len(manifests))
	}

	charts := manifests[0]
	if charts.Name != "charts" || !charts.Enabled {
		t.Fatalf("charts manifest %+v", charts)
	}
	if want := filepath.Join(dir, "bin", "charts-renderer"); charts.Binary != want {
		t.Fatalf("relative binary %q, want resolved %q", charts.Binary, want)
	}
	if len(charts.Kinds) != 2 || charts.Kinds[0] != domain.DocumentDaily {
		t.Fatalf("kinds %+v", charts.Kinds)
	}

	frontier := manifests[1]
	if frontier.Binary != "/opt/renderers/frontier-map" {
		t.Fatalf("absolute binary must not be rewritten: %q", frontier.Binary)
	}
	if frontier.Enabled {
		t.Fatalf("enabled flag lost")
	}
}

func TestFileManifestStoreMissingFile(t *testing.T) {
	t.Parallel()
	manifests, err := out.NewFileManifestStore(t.TempDir()).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("missing store should load empty, got %+v", manifests)
	}
}

func TestFileManifestStoreRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	payload := "- name: charts\n  command: /usr/bin/env\n"
	if err := os.WriteFile(filepath.Join(dir, "renderers.yaml"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := out.NewFileManifestStore(dir).Load(context.Background()); err == nil {
		t.Fatalf("unknown manifest fields must fail decoding")
	}
}
