package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	renderrpc "github.com/rahimnathwani/mathacademy-stats/internal/modules/render/adapter/out/rpc"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/domain"
	renderout "github.com/rahimnathwani/mathacademy-stats/internal/modules/render/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout  = 3 * time.Second
	defaultCallTimeout   = 5 * time.Second
	defaultRenderTimeout = 30 * time.Second
)

type GRPCHost struct{}

func NewGRPCHost() renderout.Host {
	return &GRPCHost{}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	client, closeFn, err := h.connect(ctx, manifest, defaultStartTimeout)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.GetMetadata(callCtx); err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	return nil
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(ctx, manifest, defaultStartTimeout)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	kinds := make([]domain.DocumentKind, 0, len(meta.Kinds))
	for _, kind := range meta.Kinds {
		kinds = append(kinds, domain.DocumentKind(kind))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Kinds: kinds}, nil
}

func (h *GRPCHost) Render(ctx context.Context, manifest domain.Manifest, request domain.RenderRequest) (domain.RenderResult, error) {
	client, closeFn, err := h.connect(ctx, manifest, defaultStartTimeout)
	if err != nil {
		return domain.RenderResult{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultRenderTimeout)
	defer cancel()
	response, err := client.Render(callCtx, &renderrpc.RenderRequest{
		JobID:        request.JobID,
		Kind:         string(request.Kind),
		DocumentJSON: request.DocumentJSON,
		OutputDir:    request.OutputDir,
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.RenderResult{}, fmt.Errorf("%w: kind %s", domain.ErrRendererTimeout, request.Kind)
		}
		return domain.RenderResult{}, fmt.Errorf("render document: %w", err)
	}
	return domain.RenderResult{
		OutputPath: response.OutputPath,
		Stdout:     response.Stdout,
		ExitCode:   int(response.ExitCode),
	}, nil
}

func (h *GRPCHost) connect(ctx context.Context, manifest domain.Manifest, startTimeout time.Duration) (renderrpc.RendererClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  renderrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          renderrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start renderer client: %w", err)
	}
	raw, err := rpcClient.Dispense(renderrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense renderer: %w", err)
	}
	typed, ok := raw.(renderrpc.RendererClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("renderer rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
