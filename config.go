package minorm

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coderi421/minorm/internal/errs"
)

// Config 描述一条数据库连接，可以从 YAML 文件里加载
type Config struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	// QueryTimeout 是 time.ParseDuration 认识的写法，比如 "3s"，
	// 留空表示不限制
	QueryTimeout string `yaml:"query_timeout"`
}

// LoadConfig reads a connection config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.WrapConfig(err)
	}
	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errs.WrapConfig(err)
	}
	return &cfg, nil
}

// Open opens a DB following the config: pool limits, a dialect matching
// the driver, and the statement timeout. Explicit options win over the
// config's choices.
func (c *Config) Open(opts ...DBOption) (*DB, error) {
	if c.Driver == "" || c.DSN == "" {
		return nil, errs.ErrEmptyConn
	}

	var timeout time.Duration
	if c.QueryTimeout != "" {
		var err error
		timeout, err = time.ParseDuration(c.QueryTimeout)
		if err != nil {
			return nil, errs.WrapConfig(err)
		}
	}

	all := append([]DBOption{DBWithDialect(dialectFor(c.Driver))}, opts...)
	db, err := Open(c.Driver, c.DSN, all...)
	if err != nil {
		return nil, err
	}
	if c.MaxOpenConns > 0 {
		db.db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if timeout > 0 {
		db.SetQueryTimeout(timeout)
	}
	return db, nil
}

func dialectFor(driver string) Dialect {
	switch driver {
	case "postgres", "pgx":
		return Postgres
	case "sqlite3", "sqlite":
		return SQLite3
	default:
		return MySQL
	}
}
