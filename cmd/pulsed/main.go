package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/cognicore/pulse/internal/collection"
	"github.com/cognicore/pulse/internal/collector"
	"github.com/cognicore/pulse/internal/httpapi"
	"github.com/cognicore/pulse/pkg/pulse"
	"github.com/cognicore/pulse/pkg/pulse/config"
	"github.com/cognicore/pulse/pkg/pulse/pipeline"
	"github.com/cognicore/pulse/pkg/pulse/store/memstore"
)

func main() {
	configPath := flag.String("config", "config/service.yaml", "path to the service config")
	stopwordsPath := flag.String("stopwords", "", "optional extra stopword list (YAML)")
	companiesPath := flag.String("companies", "", "optional known-company list (YAML)")
	flag.Parse()

	// .env is optional; environment variables win over the config file.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	svc, err := config.LoadService(*configPath)
	if err != nil {
		log.Fatalf("loading config %s: %v", *configPath, err)
	}
	if addr := os.Getenv("PULSE_ADDR"); addr != "" {
		svc.Server.Addr = addr
	}

	pipelineCfg := svc.PipelineConfig()
	if *stopwordsPath != "" {
		sw, err := config.LoadStopwords(*stopwordsPath)
		if err != nil {
			log.Fatalf("loading stopwords %s: %v", *stopwordsPath, err)
		}
		log.Printf("loaded %d extra stopwords", len(sw.Terms))
		pipelineCfg.ExtraStopwords = sw.Terms
	}
	if *companiesPath != "" {
		known, err := config.LoadCompanies(*companiesPath)
		if err != nil {
			log.Fatalf("loading companies %s: %v", *companiesPath, err)
		}
		pipelineCfg.KnownCompanies = known.Names
	}
	p := pipeline.New(pipelineCfg)

	st := memstore.New()
	mock := collector.NewMock(svc.Collection.Seed, svc.Collection.MaxPostsPerSource)
	engine := pulse.New(pulse.Options{Store: st, Collector: mock, Pipeline: p})
	defer engine.Close()

	collections := collection.NewService(mock, st)

	// Prune finished collection runs and old jobs nightly.
	retention := time.Duration(svc.Collection.RetentionDays) * 24 * time.Hour
	cr := cron.New()
	if _, err := cr.AddFunc("0 3 * * *", func() {
		cutoff := time.Now().Add(-retention)
		removed := collections.PruneBefore(cutoff)
		jobs, err := st.DeleteJobsBefore(context.Background(), cutoff)
		if err != nil {
			log.Printf("pruning jobs: %v", err)
		}
		log.Printf("nightly prune: %d runs, %d jobs", removed, jobs)
	}); err != nil {
		log.Printf("scheduling prune job: %v", err)
	}
	cr.Start()
	defer cr.Stop()

	srv := httpapi.NewServer(st, engine, collections)
	router := srv.SetupRouter(svc.Server.Mode)

	log.Printf("pulse listening on %s", svc.Server.Addr)
	if err := router.Run(svc.Server.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
