package config

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Invoicer"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"invoicer"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	Import struct {
		BaseDir             string   `envconfig:"IMPORT_BASE_DIR" default:"files"`
		Delimiter           string   `envconfig:"IMPORT_DELIMITER" default:";"`
		Statuses            []string `envconfig:"IMPORT_STATUSES" default:"issued,draft"`
		CaseSensitiveStatus bool     `envconfig:"IMPORT_STATUS_CASE_SENSITIVE" default:"false"`
		RequireContactName  bool     `envconfig:"IMPORT_REQUIRE_CONTACT_NAME" default:"true"`
		MaxFileSize         int64    `envconfig:"IMPORT_MAX_FILE_SIZE" default:"10485760"`
		SchemaFile          string   `envconfig:"IMPORT_SCHEMA_FILE"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// DelimiterRune returns the configured field delimiter, which must be a single character.
func (c *Config) DelimiterRune() (rune, error) {
	d := c.Import.Delimiter
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("IMPORT_DELIMITER must be a single character, got %q", d)
	}

	r, _ := utf8.DecodeRuneInString(d)

	return r, nil
}

// Schema builds the validation schema. A schema file, when set, takes
// precedence over the individual IMPORT_* settings.
func (c *Config) Schema() (importer.Schema, error) {
	if c.Import.SchemaFile != "" {
		return importer.LoadSchema(c.Import.SchemaFile)
	}

	schema := importer.Schema{
		Required:            []importer.Property{importer.PropertyCode, importer.PropertyOwnerName},
		CaseSensitiveStatus: c.Import.CaseSensitiveStatus,
	}

	if c.Import.RequireContactName {
		schema.Required = append(schema.Required, importer.PropertyContactName)
	}

	schema.Required = append(schema.Required, importer.PropertyIssuedDate)

	for _, s := range c.Import.Statuses {
		schema.Statuses = append(schema.Statuses, invoice.Status(s))
	}

	if err := schema.Validate(); err != nil {
		return importer.Schema{}, fmt.Errorf("invalid import settings: %w", err)
	}

	return schema, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if _, err := cfg.DelimiterRune(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
