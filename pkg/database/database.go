package database

import (
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormopentracing "gorm.io/plugin/opentracing"

	"reelhub.com/cmd/model"
)

// Options 连接池参数
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
	Tracing         bool
}

func gormConfig(opts Options) *gorm.Config {
	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}
	return &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		// 唯一索引冲突统一翻译为 gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}
}

// OpenMySQL opens the primary store and installs the opentracing plugin when asked.
func OpenMySQL(dsn string, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig(opts))
	if err != nil {
		return nil, errors.Wrap(err, "open mysql failed")
	}
	return setup(db, opts)
}

// OpenSQLite is used by tests and local single-node runs.
func OpenSQLite(dsn string, opts Options) (*gorm.DB, error) {
	cfg := gormConfig(opts)
	cfg.PrepareStmt = false
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite failed")
	}
	return setup(db, opts)
}

func setup(db *gorm.DB, opts Options) (*gorm.DB, error) {
	if opts.Tracing {
		if err := db.Use(gormopentracing.New()); err != nil {
			return nil, errors.Wrap(err, "install opentracing plugin failed")
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return db, nil
}

// Migrate creates or updates every table the api owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.Comment{},
		&model.Follow{},
		&model.Like{},
	); err != nil {
		return errors.Wrap(err, "auto migrate failed")
	}
	hlog.Info("database schema migrated")
	return nil
}
