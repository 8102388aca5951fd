package infrastructure

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // database/sql driver behind gorm's postgres dialector
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"nrro-site/domain"
)

// NewDatabase opens the configured driver. Postgres goes through lib/pq so the
// same DSNs work for the managed database and the maintenance scripts.
func NewDatabase(driver, dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn})
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	log.WithField("driver", driver).Info("connected to database")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Lead{},
		&domain.Candidate{},
		&domain.LandingPage{},
		&domain.LandingVersion{},
		&domain.BlogPost{},
		&domain.AuditResult{},
		&domain.Proposal{},
	); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// SeedLandingPages inserts the company-setup landing when the table is empty so
// a fresh environment has something to edit.
func SeedLandingPages(db *gorm.DB, log logrus.FieldLogger) error {
	var count int64
	if err := db.Model(&domain.LandingPage{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count landing pages: %w", err)
	}
	if count > 0 {
		return nil
	}

	sections, _ := json.Marshal([]map[string]any{
		{"type": "hero", "variant": "split", "cta": "company_setup_form"},
		{"type": "benefits", "items": []string{"nie", "registro_mercantil", "cuenta_bancaria"}},
		{"type": "faq", "items": []map[string]string{{"q": "¿Cuánto se tarda?", "a": "Entre 2 y 4 semanas."}}},
	})

	page := domain.LandingPage{
		Slug:    "constitucion-empresa-espana",
		Variant: "company-setup",
		Title: domain.LocalizedText{
			ES: "Constituye tu empresa en España",
			CA: "Constitueix la teva empresa a Espanya",
			EN: "Set up your company in Spain",
		},
		MetaTitle: domain.LocalizedText{
			ES: "Constitución de empresas en España | NRRO",
			CA: "Constitució d'empreses a Espanya | NRRO",
			EN: "Company formation in Spain | NRRO",
		},
		Sections: datatypes.JSON(sections),
		Status:   domain.StatusDraft,
		Version:  1,
	}
	if err := db.Create(&page).Error; err != nil {
		return fmt.Errorf("seed landing pages: %w", err)
	}
	log.WithField("slug", page.Slug).Info("seeded landing page")
	return nil
}

// translateError maps gorm errors onto the domain sentinels handlers understand.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	default:
		return err
	}
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func paginate(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return q.Limit(limit).Offset(offset)
}
