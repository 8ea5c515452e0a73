package main

import (
	"context"
	"log"
	"os"
	"time"

	"chatlens/internal/api"
	"chatlens/internal/config"
	"chatlens/internal/extract"
	"chatlens/internal/gateway"
	"chatlens/internal/ingest"
	"chatlens/internal/media"
	"chatlens/internal/redis"
	"chatlens/internal/storage"
	"chatlens/internal/worker"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; environment keys override config file values.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	cfgPath := os.Getenv("CHATLENS_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("CHATLENS_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	log.Printf("dbType: %s\n", dbType)
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	rdb, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("create redis client: %v", err)
	}
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	basic := cfg.BasicConfig
	pool := worker.NewPool(basic.MinWorkers, basic.MaxWorkers,
		time.Duration(basic.WorkerIdleTimeout)*time.Minute)

	documents, err := extract.NewDocumentExtractor(ctx)
	if err != nil {
		log.Fatalf("init document extractor: %v", err)
	}
	sampler := media.NewSampler(media.NewExecRunner(), pool, basic.FrameCount,
		basic.FrameDir, time.Duration(basic.MediaTimeout)*time.Second)
	builder := ingest.NewBuilder(documents, sampler)

	sweeper := ingest.NewSweeper(time.Duration(basic.OrphanTTL)*time.Minute,
		basic.UploadDir, basic.FrameDir)
	sweeper.Start(ctx, time.Duration(basic.SweepInterval)*time.Minute)

	provider := os.Getenv("CHATLENS_PROVIDER")
	gw, err := gateway.New(ctx, provider, cfg, rdb)
	if err != nil {
		log.Fatalf("init ai gateway: %v", err)
	}
	if !gw.Available() {
		log.Printf("no API key configured; replies will be a fixed warning")
	}

	handler := api.NewHandler(builder, gw, db, basic.UploadDir)
	router := api.NewRouter(handler)
	if _, err := os.Stat("./public/index.html"); err == nil {
		router.StaticFile("/", "./public/index.html")
		router.Static("/assets", "./public/assets")
	}

	if err := router.Run(basic.ServerAddress); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
