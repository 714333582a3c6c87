// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"io"
	"os"

	"caresite/internal/catalog"
	"caresite/internal/config"
	"caresite/internal/database"
	"caresite/internal/handlers"
	"caresite/internal/logging"
	"caresite/internal/store"
)

// commandContext holds what every subcommand shares: the loaded
// configuration and the log sink opened for it.
type commandContext struct {
	envFile string

	cfg  *config.Config
	logs io.Closer
}

// ensureConfig loads the configuration once and installs the logger.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	if c.envFile != "" {
		if err := os.Setenv("ENV_FILE", c.envFile); err != nil {
			return nil, fmt.Errorf("set ENV_FILE: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	_, c.logs = logging.Setup(cfg.Env, cfg.LogLevel, cfg.LogFile)
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) close() {
	if c.logs != nil {
		c.logs.Close()
	}
}

// openPools connects both database pools.
func (c *commandContext) openPools() (*database.Pools, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return database.ConnectPools(cfg.DSN(), cfg.PublicDSN())
}

// newManagers wires one catalog manager per table. inv may be nil for
// commands that never write.
func newManagers(pools *database.Pools, inv catalog.Invalidator) *handlers.Managers {
	return &handlers.Managers{
		Categories:   catalog.NewManager(catalog.Categories, store.NewCategoryTable(pools.Service, pools.Public), inv),
		Specialties:  catalog.NewManager(catalog.Specialties, store.NewSpecialtyTable(pools.Service, pools.Public), inv),
		Services:     catalog.NewManager(catalog.Services, store.NewServiceTable(pools.Service, pools.Public), inv),
		Testimonials: catalog.NewManager(catalog.Testimonials, store.NewTestimonialTable(pools.Service, pools.Public), inv),
		Staff:        catalog.NewManager(catalog.Staff, store.NewStaffTable(pools.Service, pools.Public), inv),
		Posts:        catalog.NewManager(catalog.Posts, store.NewBlogPostTable(pools.Service, pools.Public), inv),
	}
}
