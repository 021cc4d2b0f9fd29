package config

import (
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB is the remote store: the authoritative document and profile tables.
var DB *gorm.DB

// LocalDB is the embedded offline cache that queued documents wait in until
// the sync reconciler pushes them to the remote store.
var LocalDB *gorm.DB

func ConnectDB() {
	dsn := os.Getenv("DB_URL")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("Failed to connect database")
	}

	DB = db
}

func ConnectLocalCache() {
	path := os.Getenv("LOCAL_DB_PATH")
	if path == "" {
		path = "jobdocs-cache.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		panic("Failed to open local cache")
	}

	LocalDB = db
}
