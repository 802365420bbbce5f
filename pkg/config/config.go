package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/mplm/rundash/pkg/utils"
)

var errInvalidDuration = errors.New("invalid duration")

// Duration accepts a Go duration string ("30s") or a number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) set(v interface{}) error {
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case int:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		d.Duration = parsed
	default:
		return fmt.Errorf("%w: %v", errInvalidDuration, v)
	}

	return nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	return d.set(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v interface{}
	if err := node.Decode(&v); err != nil {
		return err
	}

	return d.set(v)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

type Config struct {
	Address string `json:"address" yaml:"address" validate:"required,hostname_port"`
	// SourceURL is an http(s) URL or a local path to the CSV export.
	SourceURL string `json:"source_url" yaml:"source_url" validate:"required_without=StoreURL,excluded_with=StoreURL"`
	// StoreURL reads the runs table directly, e.g. sqlite:///runs.db.
	StoreURL        string   `json:"store_url"         yaml:"store_url"         validate:"omitempty,storeURL"`
	CacheBust       *bool    `json:"cache_bust"        yaml:"cache_bust"`
	CacheBustParam  string   `json:"cache_bust_param"  yaml:"cache_bust_param"`
	FetchTimeout    Duration `json:"fetch_timeout"     yaml:"fetch_timeout"`
	ShutdownTimeout Duration `json:"shutdown_timeout"  yaml:"shutdown_timeout"`
	LogLevel        string   `json:"log_level"         yaml:"log_level"         validate:"logLevel"`
	Locale          string   `json:"locale"            yaml:"locale"            validate:"locale"`
	AutoSelectFirst *bool    `json:"auto_select_first" yaml:"auto_select_first"`
	StaticFolder    string   `json:"static_folder"     yaml:"static_folder"     validate:"omitempty,dir"`
	Version         string   `json:"version"           yaml:"version"`
}

const (
	DefaultAddress         = "localhost:5050"
	DefaultCacheBustParam  = "t"
	DefaultFetchTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultLogLevel        = "info"
	DefaultLocale          = "en"
)

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}

	if c.CacheBust == nil {
		c.CacheBust = utils.PtrTo(true)
	}

	if c.CacheBustParam == "" {
		c.CacheBustParam = DefaultCacheBustParam
	}

	if c.FetchTimeout.Duration == 0 {
		c.FetchTimeout.Duration = DefaultFetchTimeout
	}

	if c.ShutdownTimeout.Duration == 0 {
		c.ShutdownTimeout.Duration = DefaultShutdownTimeout
	}

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	if c.Locale == "" {
		c.Locale = DefaultLocale
	}

	if c.AutoSelectFirst == nil {
		c.AutoSelectFirst = utils.PtrTo(true)
	}
}

// CacheBustParameter returns the query parameter to add to the source URL, or "" when disabled.
func (c *Config) CacheBustParameter() string {
	if c.CacheBust != nil && !*c.CacheBust {
		return ""
	}

	return c.CacheBustParam
}

func (c *Config) AutoSelect() bool {
	return c.AutoSelectFirst == nil || *c.AutoSelectFirst
}

func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}

	return tag
}

func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}

	return level
}

// storeSchemes are the database URL schemes with a gorm dialector. A driver
// suffix such as "postgresql+psycopg2" is ignored.
//
//nolint:gochecknoglobals
var storeSchemes = []string{"sqlite", "postgres", "postgresql", "mysql", "mssql", "sqlserver"}

func validStoreURL(value string) bool {
	uri, err := url.Parse(value)
	if err != nil {
		return false
	}

	scheme, _, _ := strings.Cut(uri.Scheme, "+")

	return slices.Contains(storeSchemes, scheme)
}

func NewValidator() (*validator.Validate, error) {
	validate := validator.New()

	if err := validate.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		_, err := language.Parse(fl.Field().String())

		return err == nil
	}); err != nil {
		return nil, fmt.Errorf("validation registration for 'locale' failed: %w", err)
	}

	if err := validate.RegisterValidation("storeURL", func(fl validator.FieldLevel) bool {
		return validStoreURL(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("validation registration for 'storeURL' failed: %w", err)
	}

	if err := validate.RegisterValidation("logLevel", func(fl validator.FieldLevel) bool {
		_, err := logrus.ParseLevel(fl.Field().String())

		return err == nil
	}); err != nil {
		return nil, fmt.Errorf("validation registration for 'logLevel' failed: %w", err)
	}

	return validate, nil
}

// Validate must run after ApplyDefaults.
func (c *Config) Validate() error {
	validate, err := NewValidator()
	if err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		problems := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			problems = append(problems, fmt.Sprintf("%s failed %q", fieldError.Namespace(), fieldError.Tag()))
		}

		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}

	return nil
}

// Load reads a JSON file when path ends in .json and YAML otherwise. An empty
// path yields an empty configuration.
func Load(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON from %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}

	return &cfg, nil
}
