package config

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"github.com/trisuaso/beambin/internal/model"
)

type DBConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver     string
	Username   string
	Password   string
	Host       string
	Port       string
	DBName     string
	SSLMode    string
	SQLitePath string
}

func (c DBConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Username, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// PostsTable maps the logical posts table and columns to their physical
// names. Every query template is built from this value.
type PostsTable struct {
	TableName     string `mapstructure:"table_name"`
	Prefix        string `mapstructure:"prefix"`
	ID            string `mapstructure:"id"`
	Slug          string `mapstructure:"slug"`
	Password      string `mapstructure:"password"`
	Content       string `mapstructure:"content"`
	DatePublished string `mapstructure:"date_published"`
	DateEdited    string `mapstructure:"date_edited"`
	Context       string `mapstructure:"context"`
	IPs           string `mapstructure:"ips"`
}

func DefaultPostsTable() PostsTable {
	return PostsTable{
		TableName:     "posts",
		Prefix:        "pb.post",
		ID:            "id",
		Slug:          "slug",
		Password:      "password",
		Content:       "content",
		DatePublished: "date_published",
		DateEdited:    "date_edited",
		Context:       "context",
		IPs:           "ips",
	}
}

// ViewsTable maps the durable view-log table; only used by the
// authenticated_once view mode.
type ViewsTable struct {
	TableName string `mapstructure:"table_name"`
	Prefix    string `mapstructure:"prefix"`
}

func DefaultViewsTable() ViewsTable {
	return ViewsTable{
		TableName: "views",
		Prefix:    "pb.view",
	}
}

type Config struct {
	Name           string
	Description    string
	Host           string
	RealIPHeader   string
	IdentityOrigin string
	ViewMode       model.ViewMode
	TablePosts     PostsTable
	TableViews     ViewsTable
}

// Load reads the application config out of viper; main is expected to have
// called viper.ReadInConfig first.
func Load() (*Config, error) {
	cfg := &Config{
		Name:           viper.GetString("app.name"),
		Description:    viper.GetString("app.description"),
		Host:           viper.GetString("app.host"),
		RealIPHeader:   viper.GetString("app.real_ip_header"),
		IdentityOrigin: viper.GetString("identity.origin"),
		ViewMode:       model.ViewModeOpenMultiple,
		TablePosts:     DefaultPostsTable(),
		TableViews:     DefaultViewsTable(),
	}

	switch mode := viper.GetString("app.view_mode"); mode {
	case "", string(model.ViewModeOpenMultiple):
	case string(model.ViewModeAuthenticatedOnce):
		cfg.ViewMode = model.ViewModeAuthenticatedOnce
	default:
		return nil, fmt.Errorf("unknown view mode: %s", mode)
	}

	if viper.IsSet("tables.posts") {
		if err := viper.UnmarshalKey("tables.posts", &cfg.TablePosts); err != nil {
			return nil, err
		}
	}
	if viper.IsSet("tables.views") {
		if err := viper.UnmarshalKey("tables.views", &cfg.TableViews); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
