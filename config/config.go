package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	EnvFile         = ".env"
	EnvConfigPrefix = "SONGBRIDGE_API"
)

type Config struct {
	Version          kong.VersionFlag `help:"Show version and exit" short:"v" env:"-"`
	EnvName          string           `kong:"help='Environment name.',default='dev'"`
	ServiceName      string           `kong:"help='Service name.',default='songbridge-api'"`
	HealthFreqSec    int              `kong:"help='Health check frequency in seconds.',default=10"`
	EnablePprof      bool             `kong:"help='Enable pprof endpoints (http://$apiListenAddress/debug).',default=false"`
	APIListenAddress string           `kong:"help='API listen address (serves health, metrics, version).',default=:8080"`
	LogConfig        string           `kong:"help='Logging config to use.',enum='dev,prod',default='dev'"`

	NewRelicAppName    string `kong:"help='New Relic application name.',default='songbridge-api (DEV)'"`
	NewRelicLicenseKey string `kong:"help='New Relic license key.'"`

	ITunesURL     string `kong:"help='iTunes search API base URL.',default='https://itunes.apple.com'"`
	SongLinkURL   string `kong:"help='song.link API base URL.',default='https://api.song.link'"`
	JioSaavnURL   string `kong:"help='JioSaavn search API base URL.',default='https://ayushm-psi.vercel.app'"`
	SearchLimit   int    `kong:"help='Max results requested from the iTunes search endpoint.',default=15"`
	ExpandLimit   int    `kong:"help='Max recommendation items expanded per list (latency bound).',default=4"`
	HTTPUserAgent string `kong:"help='User-Agent sent on upstream requests.',default='Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36'"`

	HTTPTimeout time.Duration `kong:"help='Timeout for upstream HTTP requests.',default=10s"`

	KongContext *kong.Context `kong:"-"`
}

func New(version string) *Config {
	if err := godotenv.Load(EnvFile); err != nil {
		zap.L().Warn("unable to load dotenv file",
			zap.String("err", err.Error()))
	}

	cfg := &Config{}
	cfg.KongContext = kong.Parse(
		cfg,
		kong.Name("songbridge-api"),
		kong.Description("Golang service"),
		kong.DefaultEnvars(EnvConfigPrefix),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	return cfg
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("Config cannot be nil")
	}

	if c.SearchLimit < 1 {
		return errors.New("SearchLimit must be at least 1")
	}

	if c.ExpandLimit < 1 {
		return errors.New("ExpandLimit must be at least 1")
	}

	return nil
}

func (c *Config) GetMap() map[string]string {
	fields := make(map[string]string)

	val := reflect.ValueOf(c)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := val.Field(i)
		fields[field.Name] = fmt.Sprintf("%v", value)
	}

	return fields
}
