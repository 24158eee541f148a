package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultListenAddr     = ":3000"
	defaultBackendTimeout = 10 * time.Second
	defaultCredentialsDB  = "console.db"
)

// Config agrupa todo lo que la consola necesita del ambiente.
type Config struct {
	// BackendBaseURL es la URL del API remoto (obligatoria).
	BackendBaseURL string

	// BackendTimeout aplica a cada request saliente.
	BackendTimeout time.Duration

	// ListenAddr es donde escucha el gateway local de la consola.
	ListenAddr string

	// CredentialsDB es el path del sqlite local donde persiste el token.
	CredentialsDB string
}

// Load lee config desde env. Si existe un .env lo carga primero
// (ausencia de .env no es error).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		BackendBaseURL: strings.TrimSpace(os.Getenv("BACKEND_BASE_URL")),
		BackendTimeout: defaultBackendTimeout,
		ListenAddr:     defaultListenAddr,
		CredentialsDB:  defaultCredentialsDB,
	}

	if cfg.BackendBaseURL == "" {
		return Config{}, fmt.Errorf("config: BACKEND_BASE_URL is required")
	}

	if v := strings.TrimSpace(os.Getenv("BACKEND_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid BACKEND_TIMEOUT: %w", err)
		}
		cfg.BackendTimeout = d
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("CREDENTIALS_DB")); v != "" {
		cfg.CredentialsDB = v
	}

	return cfg, nil
}
