// Package config loads server configuration from the environment and builds
// the service, repository, storage and push collaborators from it.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sekolahkita/school-content/pkg/schoolcontent"
	"github.com/sekolahkita/school-content/pkg/schoolcontent/push"
	"github.com/sekolahkita/school-content/pkg/schoolcontent/repo/memory"
	repopg "github.com/sekolahkita/school-content/pkg/schoolcontent/repo/postgres"
	fsstorage "github.com/sekolahkita/school-content/pkg/schoolcontent/storage/fs"
	memorystorage "github.com/sekolahkita/school-content/pkg/schoolcontent/storage/memory"
	s3storage "github.com/sekolahkita/school-content/pkg/schoolcontent/storage/s3"
)

// ServerConfig represents server configuration for the school content service.
//
// DATABASE_URL selects the repository: empty or "memory" uses the in-memory
// repository, a postgresql:// URL uses Postgres.
//
// STORAGE_URL selects the media blob store:
//
//	memory://                          in-memory storage (default)
//	file:///var/data/uploads           filesystem storage
//	s3://bucket?region=ap-southeast-1  S3 or S3-compatible storage
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseURL string `env:"DATABASE_URL" env-default:""`
	DBSchema    string `env:"DB_SCHEMA" env-default:""`

	StorageURL      string `env:"STORAGE_URL" env-default:"memory://"`
	UploadURLPrefix string `env:"UPLOAD_URL_PREFIX" env-default:"/uploads"`

	// S3 credentials, used when STORAGE_URL is an s3:// URL.
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" env-default:""`
	S3Endpoint        string `env:"S3_ENDPOINT" env-default:""`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`

	AdminSessionSecret string `env:"ADMIN_SESSION_SECRET" env-default:""`

	VAPIDPublicKey  string `env:"VAPID_PUBLIC_KEY" env-default:""`
	VAPIDPrivateKey string `env:"VAPID_PRIVATE_KEY" env-default:""`
	VAPIDSubscriber string `env:"VAPID_SUBSCRIBER" env-default:""`
}

// Load reads configuration from the environment and validates it.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseURL != "" && c.DatabaseURL != "memory" &&
		!strings.HasPrefix(c.DatabaseURL, "postgresql://") &&
		!strings.HasPrefix(c.DatabaseURL, "postgres://") {
		return fmt.Errorf("unsupported DATABASE_URL format (use 'memory' or 'postgresql://...')")
	}

	switch {
	case c.StorageURL == "" || c.StorageURL == "memory" || strings.HasPrefix(c.StorageURL, "memory://"):
	case strings.HasPrefix(c.StorageURL, "file://"):
	case strings.HasPrefix(c.StorageURL, "s3://"):
	default:
		return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...', or 's3://...')", c.StorageURL)
	}

	if c.IsProduction() && c.AdminSessionSecret == "" {
		return errors.New("ADMIN_SESSION_SECRET is required in production")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// PushEnabled reports whether a VAPID key pair is configured.
func (c *ServerConfig) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// BuildRepository creates a Repository based on DATABASE_URL.
func (c *ServerConfig) BuildRepository(ctx context.Context) (schoolcontent.Repository, error) {
	if c.DatabaseURL == "" || c.DatabaseURL == "memory" {
		return memory.New(), nil
	}

	pool, err := c.openPool(ctx)
	if err != nil {
		return nil, err
	}
	return repopg.NewWithPool(pool), nil
}

func (c *ServerConfig) openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}

	schema := c.DBSchema
	if schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", schema))
			return err
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return pool, nil
}

// BuildBlobStore creates a BlobStore based on STORAGE_URL.
func (c *ServerConfig) BuildBlobStore() (schoolcontent.BlobStore, error) {
	switch {
	case c.StorageURL == "" || c.StorageURL == "memory" || strings.HasPrefix(c.StorageURL, "memory://"):
		return memorystorage.New(c.UploadURLPrefix), nil

	case strings.HasPrefix(c.StorageURL, "file://"):
		path := strings.TrimPrefix(c.StorageURL, "file://")
		if path == "" {
			return nil, errors.New("filesystem path cannot be empty in STORAGE_URL")
		}
		return fsstorage.New(fsstorage.Config{
			BaseDir:   path,
			URLPrefix: c.UploadURLPrefix,
		})

	case strings.HasPrefix(c.StorageURL, "s3://"):
		u, err := url.Parse(c.StorageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STORAGE_URL: %w", err)
		}
		if u.Host == "" {
			return nil, errors.New("s3 bucket cannot be empty in STORAGE_URL")
		}
		return s3storage.New(s3storage.Config{
			Bucket:          u.Host,
			Region:          u.Query().Get("region"),
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			Endpoint:        c.S3Endpoint,
			UsePathStyle:    c.S3UsePathStyle,
			PublicURLPrefix: c.UploadURLPrefix,
		})

	default:
		return nil, fmt.Errorf("unsupported STORAGE_URL format: %s", c.StorageURL)
	}
}

// BuildService creates the content service from the configuration.
func (c *ServerConfig) BuildService(ctx context.Context) (schoolcontent.Service, schoolcontent.Repository, error) {
	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}

	svc, err := schoolcontent.New(schoolcontent.WithRepository(repo))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build service: %w", err)
	}

	return svc, repo, nil
}

// BuildNotifier creates the push notifier when VAPID keys are configured.
// Returns nil without error when push is not enabled.
func (c *ServerConfig) BuildNotifier(repo schoolcontent.Repository, logger *slog.Logger) (*push.Notifier, error) {
	if !c.PushEnabled() {
		return nil, nil
	}

	return push.New(push.Config{
		Subscriber:      c.VAPIDSubscriber,
		VAPIDPublicKey:  c.VAPIDPublicKey,
		VAPIDPrivateKey: c.VAPIDPrivateKey,
	}, repo, logger)
}
