package main

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Port string `json:"port"`
	// APIBaseURL is the upstream backend for /api traffic. Empty means
	// serve the bundled dev API instead.
	APIBaseURL     string   `json:"api_base_url"`
	DBPath         string   `json:"db_path"`
	LinkCode       string   `json:"link_code"`
	AllowedOrigins []string `json:"allowed_origins"`
}

var cfg Config

func loadConfig(path string) {
	cfg = Config{
		Port:     "8080",
		DBPath:   "portal.db",
		LinkCode: "ADMIN-SECURE-LINK-2024",
	}

	f, err := os.Open(path)
	if err != nil {
		log.Info().Str("path", path).Msg("no config file, using defaults")
		return
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config parse failed, using defaults")
	}
}
