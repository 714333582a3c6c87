// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package database handles PostgreSQL connection management and migration
// execution using goose. The site talks to the database with two
// credentials: a read-limited one used by public page rendering and a
// service one used by the admin panel and form submissions.
package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Pools holds the two connection pools. Public may be the same *sql.DB as
// Service when no separate read-only DSN is configured.
type Pools struct {
	Public  *sql.DB
	Service *sql.DB
}

// Close closes both pools, once each.
func (p *Pools) Close() error {
	var errs []error
	if p.Service != nil {
		errs = append(errs, p.Service.Close())
	}
	if p.Public != nil && p.Public != p.Service {
		errs = append(errs, p.Public.Close())
	}
	return errors.Join(errs...)
}

// Connect opens a PostgreSQL connection pool using the provided DSN.
// It verifies the connection with a ping before returning.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	return db, nil
}

// ConnectPools opens the service pool and, when publicDSN differs, a
// separate public pool.
func ConnectPools(serviceDSN, publicDSN string) (*Pools, error) {
	service, err := Connect(serviceDSN)
	if err != nil {
		return nil, fmt.Errorf("service pool: %w", err)
	}
	if publicDSN == "" || publicDSN == serviceDSN {
		slog.Info("database connected", "pools", 1)
		return &Pools{Public: service, Service: service}, nil
	}

	public, err := Connect(publicDSN)
	if err != nil {
		service.Close()
		return nil, fmt.Errorf("public pool: %w", err)
	}
	slog.Info("database connected", "pools", 2)
	return &Pools{Public: public, Service: service}, nil
}

// Migrate runs all pending goose migrations from the embedded SQL files.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied")
	return nil
}

// MigrationStatus logs the applied state of every embedded migration.
func MigrationStatus(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Status(db, "migrations"); err != nil {
		return fmt.Errorf("goose status: %w", err)
	}
	return nil
}
