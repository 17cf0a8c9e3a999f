package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Climate grid.
	GridWidth    int
	GridHeight   int
	CenterLat    float64
	CenterLon    float64
	CellSizeM    float64
	BaseTemp     float64
	BaseWindU    float64
	BaseWindV    float64
	SampleStride int

	// Relief surface.
	ReliefWidth  int
	ReliefHeight int
	ReliefSeed   uint64

	// Intervention rate limiting.
	InterveneRate  float64
	InterveneBurst int

	// Intervention event publishing (KAFKA_BROKERS enables it, KAFKA_ENABLED overrides).
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. Defaults describe the Neukölln/Kreuzberg demo area.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	gridWidth, err := parseInt("GRID_WIDTH", 50)
	if err != nil {
		return nil, err
	}
	gridHeight, err := parseInt("GRID_HEIGHT", 50)
	if err != nil {
		return nil, err
	}
	sampleStride, err := parseInt("SAMPLE_STRIDE", 2)
	if err != nil {
		return nil, err
	}
	reliefWidth, err := parseInt("RELIEF_GRID_WIDTH", 100)
	if err != nil {
		return nil, err
	}
	reliefHeight, err := parseInt("RELIEF_GRID_HEIGHT", 100)
	if err != nil {
		return nil, err
	}
	interveneBurst, err := parseInt("INTERVENE_BURST", 20)
	if err != nil {
		return nil, err
	}
	reliefSeed, err := parseInt("RELIEF_SEED", 42)
	if err != nil {
		return nil, err
	}

	centerLat, err := parseFloat("BASE_LAT", 52.48)
	if err != nil {
		return nil, err
	}
	centerLon, err := parseFloat("BASE_LON", 13.43)
	if err != nil {
		return nil, err
	}
	cellSize, err := parseFloat("CELL_SIZE_M", 100)
	if err != nil {
		return nil, err
	}
	baseTemp, err := parseFloat("BASE_TEMP", 30.0)
	if err != nil {
		return nil, err
	}
	baseWindU, err := parseFloat("BASE_WIND_U", 2.0)
	if err != nil {
		return nil, err
	}
	baseWindV, err := parseFloat("BASE_WIND_V", 1.0)
	if err != nil {
		return nil, err
	}
	interveneRate, err := parseFloat("INTERVENE_RATE", 10.0)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GridWidth:    gridWidth,
		GridHeight:   gridHeight,
		CenterLat:    centerLat,
		CenterLon:    centerLon,
		CellSizeM:    cellSize,
		BaseTemp:     baseTemp,
		BaseWindU:    baseWindU,
		BaseWindV:    baseWindV,
		SampleStride: sampleStride,

		ReliefWidth:  reliefWidth,
		ReliefHeight: reliefHeight,
		ReliefSeed:   uint64(reliefSeed),

		InterveneRate:  interveneRate,
		InterveneBurst: interveneBurst,

		KafkaBrokers: brokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "climate-interventions"),
		KafkaEnabled: kafkaEnabled,
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.GridWidth < 2 || c.GridWidth > 1000 || c.GridHeight < 2 || c.GridHeight > 1000 {
		return fmt.Errorf("GRID_WIDTH and GRID_HEIGHT must be between 2 and 1000")
	}
	if c.ReliefWidth < 2 || c.ReliefWidth > 1000 || c.ReliefHeight < 2 || c.ReliefHeight > 1000 {
		return fmt.Errorf("RELIEF_GRID_WIDTH and RELIEF_GRID_HEIGHT must be between 2 and 1000")
	}
	if c.CellSizeM <= 0 {
		return fmt.Errorf("CELL_SIZE_M must be positive")
	}
	if c.SampleStride < 1 {
		return fmt.Errorf("SAMPLE_STRIDE must be at least 1")
	}
	if c.InterveneRate <= 0 || c.InterveneBurst < 1 {
		return fmt.Errorf("INTERVENE_RATE must be positive and INTERVENE_BURST at least 1")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if c.KafkaEnabled && c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		s = def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
