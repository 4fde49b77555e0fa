package config

import (
	"charging-route-service/internal/domain"
	"charging-route-service/internal/services"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AutoChargeRate asks for the average charge rate to be derived from the
// loaded station network.
const AutoChargeRate = "auto"

// Config is the resolved runtime configuration shared by the binaries.
type Config struct {
	Vehicle domain.Vehicle
	Search  services.SearchParams

	// AutoChargeRate is set when AVERAGE_CHARGE_RATE=auto.
	AutoChargeRate bool

	StationsPath string
	StationsURL  string
	DatabaseURL  string

	RedisURL         string
	NeighborCacheTTL time.Duration

	Port           string
	RateLimitRPS   float64
	RateLimitBurst int

	initialChargeSet bool
}

// tuning mirrors the optional YAML file named by PLANNER_CONFIG.
type tuning struct {
	Vehicle struct {
		MaxRangeKm        *float64 `yaml:"max_range_km"`
		InitialChargeKm   *float64 `yaml:"initial_charge_km"`
		SpeedKmh          *float64 `yaml:"speed_kmh"`
		AverageChargeRate *string  `yaml:"average_charge_rate"`
	} `yaml:"vehicle"`
	Search struct {
		GoalWeight      *float64 `yaml:"goal_weight"`
		GoalWeightStep  *float64 `yaml:"goal_weight_step"`
		MaxQueueSize    *int     `yaml:"max_queue_size"`
		CandidateTarget *int     `yaml:"candidate_target"`
		MaxRestarts     *int     `yaml:"max_restarts"`
		MaxIterations   *int     `yaml:"max_iterations"`
		KeepBest        *bool    `yaml:"keep_best_on_exhaustion"`
	} `yaml:"search"`
}

// LoadDotEnv reads a .env file into the environment if one exists.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func GetBool(key string, fallback bool) (bool, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

// Load builds the configuration from defaults, then the PLANNER_CONFIG YAML
// file if set, then environment variables.
func Load() (Config, error) {
	cfg := Config{
		Vehicle:          domain.DefaultVehicle(),
		Search:           services.DefaultSearchParams(),
		NeighborCacheTTL: 24 * time.Hour,
		Port:             "8080",
		RateLimitRPS:     20,
		RateLimitBurst:   40,
	}

	if path := Get("PLANNER_CONFIG", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	// A vehicle leaves fully charged unless told otherwise.
	if !cfg.initialChargeSet {
		cfg.Vehicle.InitialCharge = cfg.Vehicle.MaxRange
	}

	if err := cfg.Vehicle.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Search.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %q: %w", path, err)
	}

	var t tuning
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return fmt.Errorf("config: parse %q: %w", path, err)
	}

	setFloat(&c.Vehicle.MaxRange, t.Vehicle.MaxRangeKm)
	setFloat(&c.Vehicle.InitialCharge, t.Vehicle.InitialChargeKm)
	c.initialChargeSet = c.initialChargeSet || t.Vehicle.InitialChargeKm != nil
	setFloat(&c.Vehicle.Speed, t.Vehicle.SpeedKmh)
	if t.Vehicle.AverageChargeRate != nil {
		if err := c.setChargeRate(*t.Vehicle.AverageChargeRate); err != nil {
			return fmt.Errorf("config: %q: %w", path, err)
		}
	}

	setFloat(&c.Search.GoalWeight, t.Search.GoalWeight)
	setFloat(&c.Search.GoalWeightStep, t.Search.GoalWeightStep)
	setInt(&c.Search.MaxQueueSize, t.Search.MaxQueueSize)
	setInt(&c.Search.CandidateTarget, t.Search.CandidateTarget)
	setInt(&c.Search.MaxRestarts, t.Search.MaxRestarts)
	setInt(&c.Search.MaxIterations, t.Search.MaxIterations)
	if t.Search.KeepBest != nil {
		c.Search.KeepBestOnExhaustion = *t.Search.KeepBest
	}

	return nil
}

func (c *Config) applyEnv() error {
	var err error

	floats := []struct {
		key string
		dst *float64
	}{
		{"MAX_RANGE_KM", &c.Vehicle.MaxRange},
		{"INITIAL_CHARGE_KM", &c.Vehicle.InitialCharge},
		{"SPEED_KMH", &c.Vehicle.Speed},
		{"GOAL_WEIGHT", &c.Search.GoalWeight},
		{"GOAL_WEIGHT_STEP", &c.Search.GoalWeightStep},
		{"RATE_LIMIT_RPS", &c.RateLimitRPS},
	}
	for _, f := range floats {
		if *f.dst, err = GetFloat(f.key, *f.dst); err != nil {
			return err
		}
	}
	c.initialChargeSet = c.initialChargeSet || Get("INITIAL_CHARGE_KM", "") != ""

	ints := []struct {
		key string
		dst *int
	}{
		{"MAX_QUEUE_SIZE", &c.Search.MaxQueueSize},
		{"CANDIDATE_TARGET", &c.Search.CandidateTarget},
		{"MAX_RESTARTS", &c.Search.MaxRestarts},
		{"MAX_ITERATIONS", &c.Search.MaxIterations},
		{"RATE_LIMIT_BURST", &c.RateLimitBurst},
	}
	for _, n := range ints {
		if *n.dst, err = GetInt(n.key, *n.dst); err != nil {
			return err
		}
	}

	if c.Search.KeepBestOnExhaustion, err = GetBool("KEEP_BEST_ON_EXHAUSTION", c.Search.KeepBestOnExhaustion); err != nil {
		return err
	}

	if v := Get("AVERAGE_CHARGE_RATE", ""); v != "" {
		if err := c.setChargeRate(v); err != nil {
			return fmt.Errorf("config: AVERAGE_CHARGE_RATE: %w", err)
		}
	}

	if c.NeighborCacheTTL, err = GetDuration("NEIGHBOR_CACHE_TTL", c.NeighborCacheTTL); err != nil {
		return err
	}

	c.StationsPath = Get("STATIONS_PATH", c.StationsPath)
	c.StationsURL = Get("STATIONS_URL", c.StationsURL)
	c.DatabaseURL = Get("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = Get("REDIS_URL", c.RedisURL)
	c.Port = Get("PORT", c.Port)

	return nil
}

func (c *Config) setChargeRate(v string) error {
	if strings.EqualFold(strings.TrimSpace(v), AutoChargeRate) {
		c.AutoChargeRate = true
		return nil
	}

	rate, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return err
	}
	c.Vehicle.AverageChargeRate = rate
	c.AutoChargeRate = false
	return nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
