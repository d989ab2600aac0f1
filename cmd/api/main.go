package main

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/club-admin/internal/audit"
	"github.com/BruksfildServices01/club-admin/internal/config"
	dbpkg "github.com/BruksfildServices01/club-admin/internal/db"
	"github.com/BruksfildServices01/club-admin/internal/routes"
	"github.com/BruksfildServices01/club-admin/internal/session"
)

func main() {

	cfg := config.Load()

	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	db := dbpkg.NewDB(cfg, log)

	pipeline := audit.New(audit.NewStore(db), log, audit.Options{
		RecordUnknownSubjects: cfg.AuditUnknownSubject,
	})
	if err := dbpkg.Observe(db, pipeline); err != nil {
		log.Fatal("failed to register audit observer", zap.Error(err))
	}

	var sessions session.Revoker = session.NoopRevoker{}
	if cfg.RedisURL != "" {
		rr, err := session.NewRedisRevoker(cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to configure redis", zap.Error(err))
		}
		defer rr.Close()
		sessions = rr
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Audit:    pipeline,
		Sessions: sessions,
		Log:      log,
	})

	log.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	build := zap.NewProduction
	if cfg.IsDevelopment() {
		build = zap.NewDevelopment
	}
	log, err := build()
	if err != nil {
		panic(err)
	}
	return log
}
