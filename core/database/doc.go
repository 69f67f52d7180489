// Package database handles database connections for the report export sink.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure MySQL or SQLite connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection and verifies it with a ping
// bounded by the configured timeout. Connection pool limits are applied for
// MySQL and SQLite alike.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
