// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/spf13/cobra"

	"caresite/internal/cache"
	"caresite/internal/config"
	"caresite/internal/database"
	"caresite/internal/handlers"
	"caresite/internal/media"
	"caresite/internal/middleware"
	"caresite/internal/notify"
	"caresite/internal/render"
	"caresite/internal/revalidate"
	"caresite/internal/router"
	"caresite/internal/session"
	"caresite/internal/storage"
	"caresite/internal/store"
	"caresite/web"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(runCtx, ctx, cfg, !skipMigrate)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not apply pending migrations on start")
	return cmd
}

func serve(ctx context.Context, cc *commandContext, cfg *config.Config, migrate bool) error {
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	pools, err := cc.openPools()
	if err != nil {
		return err
	}
	defer pools.Close()

	if migrate {
		if err := database.Migrate(pools.Service); err != nil {
			return err
		}
	}
	if cfg.IsDev() || cfg.SeedAdminEmail != "" {
		if err := database.Seed(pools.Service, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}

	// Valkey backs both the admin sessions and the rendered page cache.
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	images, err := newImageAdapter(ctx, cfg)
	if err != nil {
		return err
	}

	// Writes publish revalidation requests; the consumer applies them to
	// the page cache and the in-process fetch cache.
	pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)
	fetchCache := cache.NewFetchCache(cfg.PageCacheTTL)
	pubsub := revalidate.NewPubSub()
	defer pubsub.Close()
	stopConsumer, err := startRevalidation(ctx, pubsub, pageCache, fetchCache)
	if err != nil {
		return err
	}
	defer stopConsumer()
	publisher := revalidate.NewPublisher(pubsub)

	managers := newManagers(pools, publisher)
	heroStore := store.NewHeroStore(pools.Service, pools.Public)
	contactStore := store.NewContactStore(pools.Service, pools.Public)
	aboutStore := store.NewAboutContentStore(pools.Service, pools.Public)
	whyStore := store.NewWhyChooseUsStore(pools.Service, pools.Public)
	siteSettings := store.NewSiteSettingStore(pools.Service, pools.Public)
	submissionStore := store.NewSubmissionStore(pools.Service)
	userStore := store.NewUserStore(pools.Service)

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("initialize admin templates: %w", err)
	}
	site, err := render.NewSite(images)
	if err != nil {
		return fmt.Errorf("initialize site templates: %w", err)
	}

	var notifier handlers.Notifier
	if cfg.MailEnabled() {
		notifier = notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
		slog.Info("submission mail enabled", "host", cfg.SMTPHost)
	} else {
		slog.Warn("smtp not configured, submission mail disabled")
	}

	formLimiter := middleware.NewRateLimiter(5, time.Minute)
	defer formLimiter.Stop()
	loginLimiter := middleware.NewRateLimiter(10, 15*time.Minute)
	defer loginLimiter.Stop()

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	h := router.Handlers{
		Admin: handlers.NewAdmin(renderer, managers, submissionStore, images.Enabled()),
		Auth:  handlers.NewAuth(renderer, sessionStore, userStore),
		Public: handlers.NewPublic(site, handlers.PublicContent{
			Managers:    managers,
			Hero:        heroStore,
			Contact:     contactStore,
			About:       aboutStore,
			WhyChooseUs: whyStore,
			Documents:   siteSettings,
		}, pageCache, fetchCache),
		Settings:    handlers.NewSettings(renderer, heroStore, contactStore, aboutStore, whyStore, siteSettings, publisher),
		Submissions: handlers.NewSubmissions(renderer, submissionStore, contactStore, notifier),
		Uploads:     handlers.NewUploads(images, cfg.UploadMaxMB),
		Catalogs:    handlers.CatalogAdmins(renderer, managers),
	}
	r := router.New(h, router.Options{
		Sessions:     sessionStore,
		Static:       static,
		SecureCookie: secureCookies,
		FormLimiter:  formLimiter,
		LoginLimiter: loginLimiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("server stopped gracefully")
	return nil
}

// startRevalidation runs the cache consumer on a context that survives the
// shutdown signal, so writes finishing while the server drains still
// reach the caches. The returned func stops it; call it after Shutdown.
func startRevalidation(ctx context.Context, sub message.Subscriber, sinks ...revalidate.Sink) (context.CancelFunc, error) {
	consumerCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	if err := revalidate.NewConsumer(sub, sinks...).Start(consumerCtx); err != nil {
		stop()
		return nil, err
	}
	return stop, nil
}

// newImageAdapter connects object storage when configured. Without it the
// adapter still serves render URLs for foreign images but rejects uploads.
func newImageAdapter(ctx context.Context, cfg *config.Config) (*media.Adapter, error) {
	if !cfg.StorageEnabled() {
		slog.Warn("s3 storage not configured, image uploads disabled")
		return media.New(nil, cfg.BaseURL), nil
	}

	client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3PublicURL)
	if err != nil {
		return nil, fmt.Errorf("initialize s3 storage: %w", err)
	}
	if err := client.EnsureBuckets(ctx, media.Buckets...); err != nil {
		return nil, err
	}
	slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "buckets", len(media.Buckets))
	return media.New(client, cfg.BaseURL), nil
}
