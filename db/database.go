package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/tipote/autocomment/db/models"
	"github.com/tipote/autocomment/logger"
)

// Database represents the database connection
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (or creates) the sqlite database under saveLocation and
// runs migrations.
func NewDatabase(saveLocation string) (*Database, error) {
	dbPath := filepath.Join(saveLocation, "autocomment.db")

	if err := checkIntegrity(dbPath); err != nil {
		return nil, fmt.Errorf("database integrity check failed: %w", err)
	}

	logWriter := logger.Logger
	if logWriter == nil {
		logWriter = log.New(os.Stderr, "", log.LstdFlags)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.New(
			logWriter,
			gormlogger.Config{
				LogLevel: gormlogger.Warn, // Log only warnings and errors
				Colorful: false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Content{}, &models.AutoCommentLog{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Database{DB: db}, nil
}

// checkIntegrity runs sqlite's quick_check before GORM opens the file, so a
// corrupted database fails loudly instead of surfacing as odd query errors
// mid-batch. A missing file is fine, GORM will create it.
func checkIntegrity(dbPath string) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var result string
	if err := sqlDB.QueryRow(`PRAGMA quick_check`).Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("quick_check reported: %s", result)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
