package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQuery = 200 * time.Millisecond

// OpenGorm connects to MySQL. SQL is logged at Info in development, Warn otherwise.
func OpenGorm(dsn, env string, log *zap.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if env == "development" {
		level = logger.Info
	}
	db, err := open(mysql.Open(dsn), level, log)
	if err != nil {
		return nil, err
	}
	if log != nil {
		log.Info("gorm: connected", zap.String("dialect", db.Dialector.Name()))
	}
	return db, nil
}

// OpenGormWithDialector is OpenGorm for an already built dialector (tests, sqlmock).
func OpenGormWithDialector(dial gorm.Dialector, log *zap.Logger) (*gorm.DB, error) {
	return open(dial, logger.Warn, log)
}

// gormLogger sends gorm's own output through zap so SQL traces share the
// request log stream. A nil zap logger falls back to gorm's default writer.
func gormLogger(log *zap.Logger, level logger.LogLevel) logger.Interface {
	if log == nil {
		return logger.Default.LogMode(level)
	}
	return logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

func open(dial gorm.Dialector, level logger.LogLevel, log *zap.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:  gormLogger(log, level),
		NowFunc: func() time.Time { return time.Now().UTC() },
		// pinged explicitly below, after pool settings
		DisableAutomaticPing: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}
