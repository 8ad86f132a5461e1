package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"scheme-rag/internal/api"
	"scheme-rag/internal/config"
	"scheme-rag/internal/iam"
	"scheme-rag/internal/indexer"
	"scheme-rag/internal/llmservice"
	"scheme-rag/internal/rag"
)

const (
	configFilePath = "./configs/config.yaml"
)

func main() {
	configPath := flag.String("config", configFilePath, "Path to the yaml config file")
	query := flag.String("query", "", "Question to answer from the scheme documents")
	buildIndex := flag.Bool("index", false, "Build the vector index and exit")
	serve := flag.Bool("serve", false, "Serve the HTTP API")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	modes := 0
	for _, set := range []bool{*query != "", *buildIndex, *serve} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		log.Fatal().Msg("Please provide exactly one of -query, -index or -serve")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if cfg.Watson.APIKey == "" && !*buildIndex {
		log.Warn().Msgf("%s is not set, chat requests will be rejected", config.APIKeyEnv)
	}

	idx := indexer.New(cfg)
	tokens := iam.NewTokenProvider(&cfg.Watson, nil)
	chat := llmservice.NewClient(&cfg.Watson, cfg.Generation, tokens, nil)
	pipeline := rag.NewRAG(idx, chat, cfg.RAG.TopK)

	ctx := context.Background()
	switch {
	case *buildIndex:
		runIndex(ctx, idx)
	case *query != "":
		runQuery(ctx, pipeline, *query)
	case *serve:
		runServer(cfg, idx, pipeline)
	}
}

func runIndex(ctx context.Context, idx *indexer.Indexer) {
	index, err := idx.GetIndex(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building index")
	}
	fmt.Printf("Indexed %d chunks\n", index.Count())
}

func runQuery(ctx context.Context, pipeline *rag.RAG, query string) {
	response, err := pipeline.Query(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Source: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	for _, src := range response.Sources {
		fmt.Printf("%s (page %d, similarity %.3f)\n", src.Filename, src.PageNumber, src.Similarity)
	}
	fmt.Println()

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	if response.Fallback {
		log.Warn().Msg("Model response had an unexpected shape, printing raw payload")
	}
	fmt.Printf("%s\n\n", response.Content)
}

func runServer(cfg *config.Config, idx *indexer.Indexer, pipeline *rag.RAG) {
	gin.SetMode(gin.ReleaseMode)

	// build up front so the first request does not pay for indexing
	if _, err := idx.GetIndex(context.Background()); err != nil {
		log.Error().Err(err).Msg("Initial index build failed, will retry on first request")
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewRouter(&cfg.Server, pipeline),
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Serving HTTP API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown")
	}
}
