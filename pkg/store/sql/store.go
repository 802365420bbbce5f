// Package sql reads run records straight from the training pipeline's runs table.
package sql

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	// sqlite wasm binary.
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	"github.com/mplm/rundash/pkg/ingest"
	"github.com/mplm/rundash/pkg/record"
	"github.com/mplm/rundash/pkg/store/sql/model"
)

var ErrUnsupportedScheme = errors.New("unsupported store url scheme")

const slowQueryThreshold = 500 * time.Millisecond

// Dialector picks the gorm driver from the store URL scheme. Schemes follow
// the SQLAlchemy convention: a driver suffix ("postgresql+psycopg2") is
// ignored and "sqlite:////abs/path.db" names an absolute path.
//
//nolint:ireturn
func Dialector(storeURL string) (gorm.Dialector, error) {
	uri, err := url.Parse(storeURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse store url %q: %w", storeURL, err)
	}

	scheme, _, _ := strings.Cut(uri.Scheme, "+")

	switch scheme {
	case "sqlite":
		uri.Scheme = ""
		uri.Path = strings.TrimPrefix(uri.Path, "/")

		return gormlite.Open(uri.String()), nil
	case "postgres", "postgresql":
		uri.Scheme = "postgres"

		return postgres.Open(uri.String()), nil
	case "mysql":
		dsn := fmt.Sprintf("%s@tcp(%s)%s", uri.User.String(), uri.Host, uri.Path)
		if uri.RawQuery != "" {
			dsn += "?" + uri.RawQuery
		}

		return mysql.Open(dsn), nil
	case "mssql", "sqlserver":
		uri.Scheme = "sqlserver"

		return sqlserver.Open(uri.String()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, uri.Scheme)
	}
}

func NewDatabase(logger *logrus.Logger, storeURL string) (*gorm.DB, error) {
	dialector, err := Dialector(storeURL)
	if err != nil {
		return nil, err
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: NewLoggerAdaptor(logger, LoggerAdaptorConfig{
			SlowThreshold:             slowQueryThreshold,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %q: %w", redact(storeURL), err)
	}

	return database, nil
}

func redact(storeURL string) string {
	uri, err := url.Parse(storeURL)
	if err != nil {
		return "<invalid url>"
	}

	return uri.Redacted()
}

// Store is an ingest.Loader over the runs table.
type Store struct {
	logger *logrus.Logger
	db     *gorm.DB
	origin string
}

func NewSQLStore(logger *logrus.Logger, storeURL string) (*Store, error) {
	database, err := NewDatabase(logger, storeURL)
	if err != nil {
		return nil, err
	}

	return &Store{logger: logger, db: database, origin: redact(storeURL)}, nil
}

// Load reads every run ordered by id. Rows with a NULL or unparseable
// created_at are reported as skipped, with Line being the 1-based row position.
func (s *Store) Load(ctx context.Context) (*ingest.Result, error) {
	runs := make([]model.Run, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to query runs from %s: %w", ingest.ErrFetch, s.origin, err)
	}

	result := &ingest.Result{
		Records: make([]record.Record, 0, len(runs)),
		Skipped: make([]ingest.RowError, 0),
	}

	for position, run := range runs {
		rec, err := run.ToRecord()
		if err != nil {
			skipped := ingest.RowError{Line: position + 1, Field: record.FieldCreatedAt, Err: err}
			if run.ID == nil {
				skipped.Field = record.FieldID
			} else if run.CreatedAt != nil {
				skipped.Value = *run.CreatedAt
			}

			result.Skipped = append(result.Skipped, skipped)

			continue
		}

		result.Records = append(result.Records, rec)
	}

	ingest.Report(s.logger.WithField("source", s.origin), result)

	return result, nil
}

func (s *Store) Close() error {
	database, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	if err := database.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
