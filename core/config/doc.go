// Package config provides configuration management for the voucher extractor.
//
// Values come from environment variables, optionally loaded from a .env file.
// Defaults are declared on the section structs with `default:"..."` tags.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Extract: source files, output directory, ranking size and report sinks
//   - Server: HTTP server settings (port, API key, preload)
//   - Database: export database connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Extract.OrdersFile)
package config
