// Package db connects to PostgreSQL through pgx and applies goose migrations.
//
//	var cfg db.Config
//	config.MustLoad(&cfg)
//	pool, err := db.Connect(ctx, cfg)
//	err = db.Migrate(ctx, pool, migrationsFS, cfg.MigrationsTable, log)
//
// Migrate accepts any fs.FS, so packages ship their own embedded migrations
// and track them in their own table. Healthcheck and Shutdown plug the pool
// into the app's readiness checks and shutdown hooks.
package db
