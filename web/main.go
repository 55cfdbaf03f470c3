package main

import (
	"context"
	"encoding/base64"
	"flag"
	"log"

	"github.com/gin-gonic/gin"
	"smartlock.io/smartlock/config"
	"smartlock.io/smartlock/core"
	"smartlock.io/smartlock/engine"
	"smartlock.io/smartlock/store"
	"smartlock.io/smartlock/web/handlers"
	"smartlock.io/smartlock/web/middlewares"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	secret, err := base64.StdEncoding.DecodeString(cfg.SigningSecret)
	if err != nil {
		log.Fatalf("signing secret is not valid base64: %v", err)
	}

	dm, err := core.New(cfg.DSN, cfg.MaxConnections)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer dm.Close()

	st := store.New(dm)
	if cfg.AutoMigrate {
		if err := st.Migrate(context.Background()); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	recorder := engine.NewQueueRecorder(st, cfg.AuditQueueDepth)
	defer recorder.Close()

	e := engine.New(st, recorder)

	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api/smartlock/v1.0")
	protected.Use(middlewares.Authentication(secret))
	handlers.Register(protected, e)

	if err := r.Run(cfg.Listen); err != nil {
		log.Fatalf("server: %v", err)
	}
}
