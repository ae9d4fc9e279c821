package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	apiassistant "deal_analyzer/pkg/api/assistant"
	"deal_analyzer/pkg/api/deals"
	"deal_analyzer/pkg/api/listings"
	"deal_analyzer/pkg/api/markets"
	"deal_analyzer/pkg/api/riskapi"
	"deal_analyzer/pkg/core/assistant"
	"deal_analyzer/pkg/core/llm"
	"deal_analyzer/pkg/core/market"
	"deal_analyzer/pkg/core/risk"
	"deal_analyzer/pkg/core/store"
)

// appConfig is config/app.yaml. Secrets (API keys, DATABASE_URL) stay
// in the environment; the file only carries wiring.
type appConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	RiskConfig string `yaml:"risk_config"`
	RedisAddr  string `yaml:"redis_addr"`
	Market     struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"market"`
	LLM struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
	} `yaml:"llm"`
}

func loadConfig() appConfig {
	cfg := appConfig{ListenAddr: ":8080"}
	data, err := os.ReadFile("config/app.yaml")
	if err != nil {
		log.Warn().Err(err).Msg("config/app.yaml not found, using defaults")
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Warn().Err(err).Msg("config/app.yaml unreadable, using defaults")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	return cfg
}

func main() {
	godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := loadConfig()
	ctx := context.Background()

	// Risk factor table: file if configured, built-in otherwise.
	riskCfg := risk.DefaultConfig()
	if cfg.RiskConfig != "" {
		loaded, err := risk.LoadConfig(cfg.RiskConfig)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.RiskConfig).Msg("falling back to built-in risk factors")
		} else {
			riskCfg = loaded
		}
	}
	riskEngine, err := risk.NewEngine(riskCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("risk engine init failed")
	}

	// Persistence is optional: no DATABASE_URL means analyze-only mode.
	var dealRepo *store.DealRepo
	var marketRepo *store.MarketRepo
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			log.Fatal().Err(err).Msg("database init failed")
		}
		defer store.Close()
		dealRepo = store.NewDealRepo()
		marketRepo = store.NewMarketRepo()
		log.Info().Msg("persistence enabled")
	} else {
		log.Warn().Msg("DATABASE_URL not set, persistence disabled")
	}

	// Market data client, cached through redis when reachable.
	var marketClient *market.Client
	if apiKey := os.Getenv("RENTCAST_API_KEY"); apiKey != "" {
		cache := market.NopCache()
		if cfg.RedisAddr != "" {
			cache = market.NewRedisCache(ctx, cfg.RedisAddr)
		}
		marketClient = market.NewClient(apiKey, cfg.Market.BaseURL, cache)
		log.Info().Msg("market data client enabled")
	} else {
		log.Warn().Msg("RENTCAST_API_KEY not set, live market lookups disabled")
	}

	// Explanation assistant.
	var explainer *assistant.Explainer
	provider, err := llm.New(cfg.LLM.Provider, cfg.LLM.Model)
	if err != nil {
		log.Warn().Err(err).Msg("assistant disabled")
	} else {
		explainer = assistant.NewExplainer(provider)
	}

	deals.InitHandler(riskEngine, dealRepo)
	riskapi.InitHandler(riskEngine, riskCfg)
	markets.InitHandler(marketClient, marketRepo)
	apiassistant.InitHandler(explainer, riskEngine)

	http.HandleFunc("/api/deals/analyze", deals.HandleAnalyze)
	http.HandleFunc("/api/deals/get", deals.HandleGet)
	http.HandleFunc("/api/deals/list", deals.HandleList)
	http.HandleFunc("/api/risk/factors", riskapi.HandleFactors)
	http.HandleFunc("/api/risk/score", riskapi.HandleScore)
	http.HandleFunc("/api/markets/stats", markets.HandleStats)
	http.HandleFunc("/api/listings/import", listings.HandleImport)
	http.HandleFunc("/api/assistant/explain", apiassistant.HandleExplain)

	log.Info().Str("addr", cfg.ListenAddr).Msg("API server starting")
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
