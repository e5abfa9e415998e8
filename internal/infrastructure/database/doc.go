// Package database provides SQLite connection management for Ecosfera Core.
//
// It wraps database/sql with:
//   - Connection setup (WAL mode, busy timeout, foreign-key enforcement)
//   - Embedded SQL migrations applied in version order
//   - Health checks and pool statistics
//
// The wrapped pool is the single connection provider for all repositories;
// each repository operation borrows a connection for its own duration and
// releases it on every exit path.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: "./data/ecosfera.db"})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
