package deps

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/InVisionApp/go-health"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/nrzap"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dselans/songbridge-api/backends/applemusic"
	"github.com/dselans/songbridge-api/backends/itunes"
	"github.com/dselans/songbridge-api/backends/saavn"
	"github.com/dselans/songbridge-api/backends/songlink"
	"github.com/dselans/songbridge-api/config"
	"github.com/dselans/songbridge-api/services/aggregate"
	"github.com/dselans/songbridge-api/services/altcatalog"
	"github.com/dselans/songbridge-api/services/crossref"
	"github.com/dselans/songbridge-api/services/recommend"
)

const (
	DefaultHealthCheckIntervalSecs = 1
)

type customCheck struct{}

type Dependencies struct {
	// Backends
	ITunesBackend     itunes.IITunes
	SongLinkBackend   songlink.ISongLink
	SaavnBackend      saavn.ISaavn
	AppleMusicBackend applemusic.IAppleMusic

	// Services
	CrossRefService   crossref.ICrossRef
	AltCatalogService altcatalog.IAltCatalog
	RecommendService  recommend.IRecommend
	AggregateService  aggregate.IAggregate

	Health health.IHealth

	// Shared HTTP client used by every backend; the only cross-request
	// pooling in the service.
	HTTPClient *http.Client

	// Global, shared shutdown context - all services and backends listen to
	// this context to know when to shutdown.
	ShutdownCtx context.Context

	// ShutdownCancel is the cancel function for the global shutdown context
	ShutdownCancel context.CancelFunc

	NewRelicApp *newrelic.Application
	Config      *config.Config

	// Log is the main, shared logger (you should use this for all logging)
	Log *zap.Logger

	// ZapCore can be used to generate a brand-new logger (you shouldn't need this very often)
	ZapCore zapcore.Core
}

func New(cfg *config.Config) (*Dependencies, error) {
	ctx, cancel := context.WithCancel(context.Background())

	d := &Dependencies{
		ShutdownCtx:    ctx,
		ShutdownCancel: cancel,
		Config:         cfg,
	}

	// NewRelic setup must occur before logging setup
	if err := d.setupNewRelic(); err != nil {
		return nil, errors.Wrap(err, "unable to setup newrelic")
	}

	if err := d.setupLogging(); err != nil {
		return nil, errors.Wrap(err, "unable to setup logging")
	}

	if err := d.setupHealth(); err != nil {
		return nil, errors.Wrap(err, "unable to setup health")
	}

	if err := d.Health.Start(); err != nil {
		return nil, errors.Wrap(err, "unable to start health runner")
	}

	if err := d.setupBackends(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to setup backends")
	}

	if err := d.setupServices(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to setup services")
	}

	return d, nil
}

func (d *Dependencies) setupNewRelic() error {
	if d.Config.NewRelicAppName == "" || d.Config.NewRelicLicenseKey == "" {
		return nil
	}
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(d.Config.NewRelicAppName),
		newrelic.ConfigLicense(d.Config.NewRelicLicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigZapAttributesEncoder(true),
	)

	if err != nil {
		return errors.Wrap(err, "unable to create newrelic app")
	}

	if err := app.WaitForConnection(10 * time.Second); err != nil {
		return errors.Wrap(err, "unable to connect to newrelic")
	}

	d.NewRelicApp = app

	return nil
}

// If using New Relic, setupLogging() should be called _after_ setupNewRelic()
func (d *Dependencies) setupLogging() error {
	var core zapcore.Core

	if d.Config.LogConfig == "dev" {
		zc := zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

		core = zapcore.NewCore(zapcore.NewConsoleEncoder(zc.EncoderConfig),
			zapcore.AddSync(os.Stdout),
			zap.DebugLevel,
		)
	} else {
		core = zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			zap.InfoLevel,
		)
	}

	// If using New Relic, wrap zap core with New Relic core
	if d.NewRelicApp != nil {
		var err error

		core, err = nrzap.WrapBackgroundCore(core, d.NewRelicApp)
		if err != nil {
			return errors.Wrap(err, "unable to wrap zap core with newrelic")
		}
	}

	d.ZapCore = core

	// Create a new primary logger that will be passed to everyone
	d.Log = zap.New(core).With(zap.String("env", d.Config.EnvName))

	d.Log.Debug("Logging initialized")

	return nil
}

func (d *Dependencies) setupHealth() error {
	logger := d.Log.With(zap.String("method", "setupHealth"))
	logger.Debug("Setting up health")

	gohealth := health.New()
	gohealth.DisableLogging()

	cc := &customCheck{}

	err := gohealth.AddChecks([]*health.Config{
		{
			Name:     "health-check",
			Checker:  cc,
			Interval: time.Duration(DefaultHealthCheckIntervalSecs) * time.Second,
			Fatal:    true,
		},
	})

	d.Health = gohealth

	if err != nil {
		return err
	}

	return nil
}

func (d *Dependencies) setupBackends(cfg *config.Config) error {
	llog := d.Log.With(zap.String("method", "setupBackends"))

	llog.Debug("Setting up shared http client")

	d.HTTPClient = &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	llog.Debug("Setting up itunes backend")

	itunesBackend, err := itunes.New(&itunes.Options{
		BaseURL:     cfg.ITunesURL,
		SearchLimit: cfg.SearchLimit,
		UserAgent:   cfg.HTTPUserAgent,
		Client:      d.HTTPClient,
		Log:         d.Log,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create itunes backend")
	}

	d.ITunesBackend = itunesBackend

	llog.Debug("Setting up song.link backend")

	songLinkBackend, err := songlink.New(&songlink.Options{
		BaseURL:   cfg.SongLinkURL,
		UserAgent: cfg.HTTPUserAgent,
		Client:    d.HTTPClient,
		Log:       d.Log,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create song.link backend")
	}

	d.SongLinkBackend = songLinkBackend

	llog.Debug("Setting up jiosaavn backend")

	saavnBackend, err := saavn.New(&saavn.Options{
		BaseURL:   cfg.JioSaavnURL,
		UserAgent: cfg.HTTPUserAgent,
		Client:    d.HTTPClient,
		Log:       d.Log,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create jiosaavn backend")
	}

	d.SaavnBackend = saavnBackend

	llog.Debug("Setting up apple music backend")

	appleMusicBackend, err := applemusic.New(&applemusic.Options{
		UserAgent: cfg.HTTPUserAgent,
		Client:    d.HTTPClient,
		Log:       d.Log,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create apple music backend")
	}

	d.AppleMusicBackend = appleMusicBackend

	return nil
}

func (d *Dependencies) setupServices(cfg *config.Config) error {
	logger := d.Log.With(zap.String("method", "setupServices"))
	logger.Debug("Setting up services")

	crossRefService, err := crossref.New(&crossref.Options{
		Backend: d.SongLinkBackend,
		Log:     d.Log,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create crossref service")
	}

	d.CrossRefService = crossRefService

	altCatalogService, err := altcatalog.New(&altcatalog.Options{
		Backend: d.SaavnBackend,
		Log:     d.Log,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create altcatalog service")
	}

	d.AltCatalogService = altCatalogService

	recommendService, err := recommend.New(&recommend.Options{
		Backend: d.AppleMusicBackend,
		Log:     d.Log,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create recommend service")
	}

	d.RecommendService = recommendService

	aggregateService, err := aggregate.New(&aggregate.Options{
		ITunesBackend: d.ITunesBackend,
		CrossRef:      d.CrossRefService,
		AltCatalog:    d.AltCatalogService,
		Recommend:     d.RecommendService,
		ExpandLimit:   cfg.ExpandLimit,
		Log:           d.Log,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create aggregate service")
	}

	d.AggregateService = aggregateService

	return nil
}

// Status satisfies the go-health.ICheckable interface
func (c *customCheck) Status() (interface{}, error) {
	if false {
		return nil, errors.New("something major just broke")
	}

	// You can return additional information pertaining to the check as long
	// as it can be JSON marshalled
	return map[string]int{}, nil
}
