package sim

import (
	"flag"
	"time"
)

// Config defines the behavior of a simulated sensor.
type Config struct {
	Interval    time.Duration `yaml:"interval"`
	NoiseRate   float64       `yaml:"noise-rate"`
	CorruptRate float64       `yaml:"corrupt-rate"`
	Seed        int64         `yaml:"seed"`
}

// Defaults
const (
	// DefaultInterval is how often a PMS sensor reports in active mode.
	DefaultInterval = time.Second
)

var defaultConfig = Config{
	Interval: DefaultInterval,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.DurationVar(&defaultConfig.Interval, "sim-interval", defaultConfig.Interval, "Interval between simulated frames.")
	flag.Float64Var(&defaultConfig.NoiseRate, "sim-noise", defaultConfig.NoiseRate, "Probability of junk bytes before a simulated frame.")
	flag.Float64Var(&defaultConfig.CorruptRate, "sim-corrupt", defaultConfig.CorruptRate, "Probability of a simulated frame with a bad checksum.")
	flag.Int64Var(&defaultConfig.Seed, "sim-seed", defaultConfig.Seed, "Random seed of the simulator, 0 picks one from the clock.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewStream creates a Stream of the variant.
func (c *Config) NewStream(short bool) *Stream {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sensor := NewSensor(variantOf(short), seed)
	sensor.NoiseRate, sensor.CorruptRate = c.NoiseRate, c.CorruptRate
	return NewStream(sensor, c.Interval)
}
