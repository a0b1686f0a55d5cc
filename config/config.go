package config

import (
	"fmt"
	"os"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del servicio.
type Config struct {
	Simulation domain.SimulationConfig `yaml:"simulation"`
	API        APIConfig               `yaml:"api"`
	Storage    StorageConfig           `yaml:"storage"`
	Server     ServerConfig            `yaml:"server"`
	Log        LogConfig               `yaml:"log"`
}

// APIConfig contiene los base URLs de las APIs de Polymarket.
type APIConfig struct {
	DataBase  string `yaml:"data_base"`
	GammaBase string `yaml:"gamma_base"`
	CLOBBase  string `yaml:"clob_base"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// ServerConfig controla el servidor HTTP (-serve).
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	SimTimeoutSec int    `yaml:"sim_timeout_sec"` // timeout por request de simulación
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
// Si path está vacío o el archivo no existe, devuelve la config por defecto.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	cfg := Config{Simulation: domain.DefaultSimulationConfig()}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// sin archivo: defaults + env
		case err != nil:
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// SimTimeout devuelve el timeout por simulación como time.Duration.
func (c *Config) SimTimeout() time.Duration {
	return time.Duration(c.Server.SimTimeoutSec) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("COPYSIM_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("COPYSIM_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.API.DataBase == "" {
		cfg.API.DataBase = "https://data-api.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "copysim.db"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.SimTimeoutSec <= 0 {
		cfg.Server.SimTimeoutSec = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
