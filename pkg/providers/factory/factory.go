// pkg/providers/factory/factory.go
package factory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bacalhau-project/convergence/pkg/config"
	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
)

// FactoryFunc builds a driver from the loaded configuration. A non-empty
// location replaces the provider's configured default (region, resource
// group, zone or datacenter). The returned cleanup releases client resources.
type FactoryFunc func(ctx context.Context, cfg *config.Config, location string) (common.Driver, func(), error)

// registry holds the mapping from Provider to FactoryFunc.
var (
	registry   = make(map[models.Provider]FactoryFunc)
	registryMu sync.RWMutex
)

// RegisterProvider allows provider packages to register their factory functions.
func RegisterProvider(provider models.Provider, factoryFunc FactoryFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[provider]; exists {
		panic(fmt.Sprintf("factory: provider %s is already registered", provider))
	}
	registry[provider] = factoryFunc
}

// GetDriver returns the driver registered for provider.
func GetDriver(
	ctx context.Context,
	cfg *config.Config,
	provider models.Provider,
	location string,
) (common.Driver, func(), error) {
	registryMu.RLock()
	factoryFunc, exists := registry[provider]
	registryMu.RUnlock()

	if !exists {
		return nil, func() {}, fmt.Errorf("factory: no driver registered for provider %q", provider)
	}

	driver, cleanup, err := factoryFunc(ctx, cfg, location)
	if err != nil {
		return nil, func() {}, err
	}
	if cleanup == nil {
		cleanup = func() {}
	}
	return driver, cleanup, nil
}

// Registered lists the registered providers in stable order.
func Registered() []models.Provider {
	registryMu.RLock()
	defer registryMu.RUnlock()

	providers := make([]models.Provider, 0, len(registry))
	for p := range registry {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	return providers
}
