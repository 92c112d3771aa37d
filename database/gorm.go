package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sahilchouksey/pandiu-api/config"
	"github.com/sahilchouksey/pandiu-api/model"
)

const defaultSQLiteDSN = "file:pandiu.db?_foreign_keys=on"

// Storage defines the lifecycle every database implementation must satisfy
type Storage interface {
	Init() error
	Close() error
	HealthCheck() error
	GetDB() *gorm.DB
}

type GORMStore struct {
	db *gorm.DB
}

// Models lists every table in dependency order
func Models() []interface{} {
	return []interface{}{
		&model.Faculty{},
		&model.Program{},
		&model.ResearchGroup{},
		&model.PublicationType{},
		&model.Keyword{},
		&model.UserType{},
		&model.User{},
		&model.UserUserType{},
		&model.Publication{},
		&model.PublicationKeyword{},
	}
}

// PostgresDSN builds a lib/pq connection string, preferring DB_DSN when set
func PostgresDSN(env *config.EnviornmentVariable) string {
	if env.DB_DSN != "" {
		return env.DB_DSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env.DB_HOST,
		env.DB_USER_NAME,
		env.DB_PASSWORD,
		env.DB_NAME,
		env.DB_PORT,
		env.DB_SSL_MODE,
	)
}

// Dialector selects the GORM dialector for DB_DRIVER. Postgres goes through a
// lib/pq *sql.DB so connection errors surface as *pq.Error.
func Dialector(env *config.EnviornmentVariable) (gorm.Dialector, error) {
	switch env.DB_DRIVER {
	case "", "postgres":
		sqlDB, err := sql.Open("postgres", PostgresDSN(env))
		if err != nil {
			return nil, err
		}
		return postgres.New(postgres.Config{Conn: sqlDB}), nil
	case "mysql":
		if env.DB_DSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for the mysql driver")
		}
		return mysql.Open(env.DB_DSN), nil
	case "sqlite":
		dsn := env.DB_DSN
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", env.DB_DRIVER)
	}
}

// gormLogLevel keeps SQL tracing for development only
func gormLogLevel(env *config.EnviornmentVariable) logger.LogLevel {
	switch {
	case env.GO_ENV == "production":
		return logger.Error
	case env.LOG_LEVEL == "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

// StartGORM opens the configured database
func StartGORM(env *config.EnviornmentVariable) (*GORMStore, error) {
	dialector, err := Dialector(env)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newGORMLogger(gormLogLevel(env)),
		SkipDefaultTransaction: false,
		PrepareStmt:            true,
		// sqlite and mysql report unique and foreign key violations as gorm errors
		TranslateError: true,
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			log.Error().Str("code", string(pqErr.Code)).Msg("postgres rejected the connection")
		}
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// Get underlying *sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	store := &GORMStore{db: db}
	if err := store.HealthCheck(); err != nil {
		store.Close()
		return nil, fmt.Errorf("database is not reachable: %w", err)
	}

	log.Info().Str("driver", dialector.Name()).Msg("connected to database")

	return store, nil
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Info().Msg("running AutoMigrate")

	if err := s.db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	log.Info().Msg("AutoMigrate completed")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for the repository layer
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
