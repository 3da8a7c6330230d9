package main

import (
	"fmt"
	"os"
	"time"

	"tradesync/internal/api"
	"tradesync/internal/catalog"
	"tradesync/internal/importer"
	"tradesync/internal/importer/binance"
	csvimp "tradesync/internal/importer/csv"
	"tradesync/internal/importer/kite"
	"tradesync/internal/importer/mt5"
	"tradesync/internal/importer/oanda"
	"tradesync/internal/logger"
	"tradesync/internal/mapper"
	"tradesync/internal/pnl"
	"tradesync/internal/service"
	"tradesync/internal/store"

	"github.com/joho/godotenv"
)

// system bundles everything the commands need after wiring.
type system struct {
	cfg *store.Config
	svc *service.Service
	mt5 *mt5.Importer
}

// initializeSystem loads environment variables and initializes the logger
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// buildCatalog loads the instrument catalog from the configured seed
// file, falling back to the built-in seed
func buildCatalog(cfg *store.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.SeedFile != "" {
		return catalog.LoadFile(cfg.Catalog.SeedFile)
	}
	return catalog.New(nil), nil
}

// buildProfiles loads broker profiles from the configured file,
// falling back to the built-in set
func buildProfiles(cfg *store.Config) (*mapper.Profiles, error) {
	if cfg.Catalog.ProfileFile != "" {
		return mapper.LoadProfiles(cfg.Catalog.ProfileFile)
	}
	return mapper.NewProfiles(nil)
}

// buildSystem wires the catalog, mapper, engine and importers
func buildSystem(cfg *store.Config) (*system, error) {
	cat, err := buildCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	profiles, err := buildProfiles(cfg)
	if err != nil {
		return nil, fmt.Errorf("profiles: %w", err)
	}

	m := mapper.New(cat, profiles)
	pipe := importer.NewPipeline(m, pnl.New(cat))
	pipe.SetMinConfidence(cfg.Import.MinConfidence)
	importer.PreferDateFormats(cfg.Import.DateFormats)

	fetcher := mt5.NewFetcher(cfg.MT5.AllowedDomains, time.Duration(cfg.MT5.FetchTimeoutSeconds)*time.Second)
	mt5Imp := mt5.New(pipe, fetcher)

	csvImp := csvimp.New(pipe)
	csvImp.SetMaxRows(cfg.Import.MaxRows)

	svc := service.New(csvImp, mt5Imp, m)
	svc.RegisterAPI("oanda", oanda.New(pipe, oanda.Credentials{
		APIKey:    os.Getenv(cfg.OANDA.APIKeyEnv),
		AccountID: os.Getenv(cfg.OANDA.AccountIDEnv),
	}, newAPIClient(cfg, "oanda", cfg.OANDA.BaseURL)))
	svc.RegisterAPI("binance", binance.New(pipe, binance.Credentials{
		APIKey:    os.Getenv(cfg.Binance.APIKeyEnv),
		APISecret: os.Getenv(cfg.Binance.APISecretEnv),
	}, newAPIClient(cfg, "binance", cfg.Binance.BaseURL)))
	svc.RegisterAPI("kite", kite.New(pipe, kite.Credentials{
		APIKey:      os.Getenv(cfg.Kite.APIKeyEnv),
		AccessToken: os.Getenv(cfg.Kite.AccessTokenEnv),
	}))

	return &system{cfg: cfg, svc: svc, mt5: mt5Imp}, nil
}

// newAPIClient builds one rate-limited, breaker-guarded client per
// provider
func newAPIClient(cfg *store.Config, name, baseURL string) *api.Client {
	return api.NewClient(
		api.WithBaseURL(baseURL),
		api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
		api.WithRateLimit(cfg.API.RatePerSecond, cfg.API.Burst),
		api.WithBreaker(name,
			cfg.API.Breaker.MaxRequests,
			time.Duration(cfg.API.Breaker.IntervalSec)*time.Second,
			time.Duration(cfg.API.Breaker.TimeoutSec)*time.Second),
		api.WithLogging(true),
	)
}
