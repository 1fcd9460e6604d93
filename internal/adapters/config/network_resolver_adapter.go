package config

import (
	"context"

	"github.com/opensocial-protocol/osp-cli/internal/config"
	domainconfig "github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// NetworkResolverAdapter adapts the config.NetworkResolver to the usecase.NetworkResolver interface
type NetworkResolverAdapter struct {
	resolver *config.NetworkResolver
}

// NewNetworkResolverAdapter creates a new adapter
func NewNetworkResolverAdapter(cfg *domainconfig.RuntimeConfig) *NetworkResolverAdapter {
	return &NetworkResolverAdapter{
		resolver: config.NewNetworkResolver(cfg.FoundryConfig),
	}
}

// GetNetworks returns all resolvable network names
func (a *NetworkResolverAdapter) GetNetworks(ctx context.Context) []string {
	return a.resolver.Names()
}

// ResolveNetwork resolves a network name to its configuration
func (a *NetworkResolverAdapter) ResolveNetwork(ctx context.Context, networkName string) (*domainconfig.Network, error) {
	return a.resolver.Resolve(networkName)
}

var _ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)
