package main

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medinsight/medinsight/internal/config"
	"github.com/medinsight/medinsight/internal/domain/predictive"
	"github.com/medinsight/medinsight/internal/domain/symptom"
	"github.com/medinsight/medinsight/internal/platform/cache"
	"github.com/medinsight/medinsight/internal/platform/db"
	"github.com/medinsight/medinsight/internal/platform/docstore"
	"github.com/medinsight/medinsight/internal/platform/sandbox"
)

const poolMetricsInterval = 15 * time.Second

// backend is the store selected by STORE_BACKEND plus the middleware and
// health check that go with it.
type backend struct {
	name     string
	analyses symptom.AnalysisRepository
	facts    predictive.FactSource
	tenant   echo.MiddlewareFunc
	health   echo.HandlerFunc
	close    func()
	// static is set for the memory backend so sandbox data can be loaded.
	static *predictive.StaticSource
}

func openBackend(ctx context.Context, cfg *config.Config, loc *time.Location, logger zerolog.Logger) (*backend, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		db.ReportPoolMetrics(ctx, pool, poolMetricsInterval)
		logger.Info().Msg("connected to database")
		return &backend{
			name:     config.BackendPostgres,
			analyses: symptom.NewAnalysisRepoPG(pool),
			facts:    predictive.NewFactSourcePG(pool, loc),
			tenant:   db.TenantMiddleware(pool, cfg.DefaultTenant),
			health:   db.HealthHandler(pool),
			close:    pool.Close,
		}, nil

	case config.BackendMongo:
		store, err := docstore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx, logger); err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongo")
		return &backend{
			name:     config.BackendMongo,
			analyses: symptom.NewAnalysisRepoMongo(store.Database()),
			facts:    predictive.NewFactSourceMongo(store.Database(), loc),
			tenant:   db.TenantIDMiddleware(cfg.DefaultTenant),
			health:   db.PingHandler(config.BackendMongo, store.Ping),
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = store.Close(ctx)
			},
		}, nil

	case config.BackendMemory:
		logger.Warn().Msg("using in-memory store; analyses are lost on restart")
		static := predictive.NewStaticSource(nil, nil)
		return &backend{
			name:     config.BackendMemory,
			analyses: symptom.NewAnalysisRepoMemory(),
			facts:    static,
			static:   static,
			tenant:   db.TenantIDMiddleware(cfg.DefaultTenant),
			health:   db.PingHandler(config.BackendMemory, func(context.Context) error { return nil }),
			close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// seedSandbox loads synthetic facts into the memory store and runs the
// generated symptom sets through the analyzer for the default tenant.
func seedSandbox(ctx context.Context, cfg *config.Config, loc *time.Location, b *backend, svcs *services, logger zerolog.Logger) error {
	if cfg.SandboxPatients <= 0 {
		return nil
	}
	if b.static == nil {
		return fmt.Errorf("sandbox data needs the %s backend", config.BackendMemory)
	}
	seeder := sandbox.NewSeeder(sandbox.SeedConfig{
		PatientCount: cfg.SandboxPatients,
		Seed:         cfg.SandboxSeed,
	}, loc)
	ds, result := seeder.Generate(time.Now())
	b.static.AddPatients(ds.Patients...)
	b.static.Add(ds.Appointments...)

	tenantCtx := db.WithTenant(ctx, cfg.DefaultTenant)
	for _, reports := range ds.Analyses {
		if _, err := svcs.symptoms.Analyze(tenantCtx, &symptom.AnalysisRequest{Symptoms: reports}); err != nil {
			return fmt.Errorf("seed analysis: %w", err)
		}
	}
	logger.Info().
		Int("patients", result.Patients).
		Int("appointments", result.Appointments).
		Int("analyses", result.Analyses).
		Msg("sandbox data loaded")
	return nil
}

// openCache returns redis when REDIS_URL is set and an in-process cache
// otherwise. The returned func releases it.
func openCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cache.Cache, func(), error) {
	if cfg.RedisURL == "" {
		mc := cache.NewMemoryCache()
		cleanupCtx, cancel := context.WithCancel(ctx)
		mc.StartCleanup(cleanupCtx, time.Minute)
		return mc, cancel, nil
	}
	rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Msg("connected to redis")
	return rc, func() { _ = rc.Close() }, nil
}

// analysisFeed exposes stored symptom analyses to outbreak detection.
type analysisFeed struct {
	svc *symptom.Service
}

func (f analysisFeed) AnalysisRecordsSince(ctx context.Context, since time.Time) ([]predictive.AnalysisRecord, error) {
	records, err := f.svc.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}
	out := make([]predictive.AnalysisRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, toOutbreakRecord(rec))
	}
	return out, nil
}

func toOutbreakRecord(rec *symptom.AnalysisRecord) predictive.AnalysisRecord {
	preds := make([]predictive.PredictionSummary, 0, len(rec.Result.Predictions))
	for _, p := range rec.Result.Predictions {
		preds = append(preds, predictive.PredictionSummary{Disease: p.Disease, Confidence: p.Confidence})
	}
	return predictive.AnalysisRecord{ID: rec.ID, CreatedAt: rec.CreatedAt, Predictions: preds}
}

func newAnalyzer(cfg *config.Config) (*symptom.Analyzer, error) {
	kb := symptom.DefaultKnowledgeBase()
	if cfg.KnowledgeBaseFile != "" {
		loaded, err := symptom.LoadKnowledgeBase(cfg.KnowledgeBaseFile)
		if err != nil {
			return nil, err
		}
		kb = loaded
	}
	return symptom.NewAnalyzer(kb, symptom.Options{
		MinConfidence:  cfg.SymptomMinConfidence,
		MaxPredictions: cfg.SymptomMaxPredictions,
	}), nil
}

// tunablesFromConfig overrides the configurable subset; everything else
// keeps its default.
func tunablesFromConfig(cfg *config.Config) predictive.Tunables {
	return predictive.Tunables{
		NoShowHistoryWeight:   cfg.NoShowHistoryWeight,
		OutbreakWindowDays:    cfg.OutbreakWindowDays,
		OutbreakAlertPercent:  cfg.OutbreakAlertPercent,
		OutbreakMinConfidence: cfg.OutbreakMinConfidence,
		ForecastPeriodDays:    cfg.ForecastPeriodDays,
		RetentionActiveDays:   cfg.RetentionActiveDays,
		RetentionLostDays:     cfg.RetentionLostDays,
	}
}
