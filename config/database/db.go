package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/pasternak-karmel/google-clone/pkg/logger"
)

// Connect opens the Postgres connection and verifies it is alive,
// retrying a few times in case of temporary DNS/network blips.
func Connect(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			logger.Sugar.Info("Successfully connected to the database")
			return db, nil
		}
		logger.Sugar.Infof("Database connection failed, retrying in 2s... (%v)", err)
		time.Sleep(2 * time.Second)
	}
	db.Close()
	return nil, err
}
