// Package courier wires tenant credentials to concrete courier adapters.
package courier

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/ports"
	"github.com/lankaship/courier-gateway/internal/courier/fardaexpress"
	"github.com/lankaship/courier-gateway/internal/courier/royalexpress"
	"github.com/lankaship/courier-gateway/internal/courier/transexpress"
)

// FactoryConfig carries deployment-level courier settings. Base URLs default
// to the production endpoints when empty; tests point them at stubs.
type FactoryConfig struct {
	FardaBaseURL string
	TransBaseURL string
	RoyalBaseURL string
	Timeout      time.Duration
}

// Factory builds one adapter instance per operation from tenant-scoped
// credentials. It implements ports.AdapterFactory.
type Factory struct {
	cfg   FactoryConfig
	cache ports.ReferenceCache
	log   zerolog.Logger
}

func NewFactory(cfg FactoryConfig, cache ports.ReferenceCache, log zerolog.Logger) *Factory {
	return &Factory{cfg: cfg, cache: cache, log: log}
}

// Adapter returns a fresh adapter for the provider. SL Post has no API
// integration; selecting it here is an error so callers route manual
// tracking entry through the orchestrator instead.
func (f *Factory) Adapter(provider domain.Provider, tcfg *ports.TenantCourierConfig) (ports.CourierAdapter, error) {
	switch provider {
	case domain.FardaExpress:
		return fardaexpress.New(fardaexpress.Config{
			APIKey:   tcfg.FardaAPIKey,
			ClientID: tcfg.FardaClientID,
			BaseURL:  f.cfg.FardaBaseURL,
			Timeout:  f.cfg.Timeout,
		}, f.cache, f.log), nil
	case domain.TransExpress:
		return transexpress.New(transexpress.Config{
			APIKey:  tcfg.TransAPIKey,
			BaseURL: f.cfg.TransBaseURL,
			Timeout: f.cfg.Timeout,
		}, f.cache, f.log), nil
	case domain.RoyalExpress:
		return royalexpress.New(royalexpress.Config{
			Credentials: tcfg.RoyalCredentials,
			Tenant:      tcfg.RoyalTenant,
			BaseURL:     f.cfg.RoyalBaseURL,
			Timeout:     f.cfg.Timeout,
		}, f.cache, f.log), nil
	case domain.SLPost:
		return nil, domain.ErrManualProvider
	}
	return nil, domain.ErrUnknownProvider
}
