package pg

import (
	"fmt"
	"time"
)

// Config describes a PostgreSQL connection pool.
type Config struct {
	// Debug logs every query through the query log hook.
	Debug bool `yaml:"debug" env:"PG_DEBUG" default:"false"`

	Host     string `yaml:"host"     env:"PG_HOST"     validate:"required"`
	Port     int    `yaml:"port"     env:"PG_PORT"     validate:"required"`
	User     string `yaml:"user"     env:"PG_USER"     validate:"required"`
	Password string `yaml:"password" env:"PG_PASSWORD" validate:"required" mask:"true"`
	Database string `yaml:"database" env:"PG_DATABASE" validate:"required"`

	SSLMode        string        `yaml:"sslmode"         default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	SearchPath     string        `yaml:"search_path"     default:"public"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s"`

	// SlowQueryThreshold makes the query log hook warn about slower queries. Zero disables it.
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold" default:"200ms"`

	PoolMaxConns        int32         `yaml:"pool_max_conns"          default:"4"`
	PoolMinConns        int32         `yaml:"pool_min_conns"          default:"1"`
	PoolMaxConnLifetime time.Duration `yaml:"pool_max_conn_lifetime"  default:"1h"`
	PoolMaxConnIdleTime time.Duration `yaml:"pool_max_conn_idle_time" default:"30m"`
}

func (c Config) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s search_path=%s connect_timeout=%d",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
		c.SearchPath,
		int(c.ConnectTimeout.Seconds()),
	)
}
