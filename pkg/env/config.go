// Package env assembles the sensor driver and its surroundings from
// configuration.
package env

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/pms.go/pkg/dbuf"
	"github.com/robotalks/pms.go/pkg/driver"
	"github.com/robotalks/pms.go/pkg/sim"
	"github.com/robotalks/pms.go/pkg/uart"
)

// Devices served by the simulator.
const (
	SimShort = "sim:short"
	SimLong  = "sim:long"
)

// Config provides options to set up the driver.
type Config struct {
	// Device is a serial device, or SimShort/SimLong.
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`

	Buffers      int `yaml:"buffers"`
	BufferSize   int `yaml:"buffer-size"`
	MaxRotations int `yaml:"max-rotations"`

	SensorID string `yaml:"sensor-id"`

	// MQTTBrokerURL enables status events when set.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string `yaml:"mqtt"`

	// MetricsAddr is the listen address of the HTTP server, empty to disable.
	MetricsAddr string `yaml:"metrics-addr"`

	Sim *sim.Config `yaml:"sim"`
}

var (
	defaultConfig = Config{
		Device:       "/dev/ttyUSB0",
		Baud:         uart.DefaultBaud,
		Buffers:      16,
		BufferSize:   4096,
		MaxRotations: driver.DefaultMaxRotations,
		MetricsAddr:  ":9108",
		Sim:          sim.Default(),
	}

	configFile string
)

func init() {
	if val := os.Getenv("PMS_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
	if val := os.Getenv("PMS_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	defaultConfig.SensorID = SensorID()
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "YAML config file, flags given explicitly take precedence")
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Serial device of the sensor, or "+SimShort+"/"+SimLong)
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Baud rate of the serial device")
	flag.IntVar(&defaultConfig.Buffers, "buffers", defaultConfig.Buffers, "Number of log buffers")
	flag.IntVar(&defaultConfig.BufferSize, "buffer-size", defaultConfig.BufferSize, "Size in bytes of a log buffer")
	flag.IntVar(&defaultConfig.MaxRotations, "max-rotations", defaultConfig.MaxRotations, "Retries of one record when log buffers rotate")
	flag.StringVar(&defaultConfig.SensorID, "id", defaultConfig.SensorID, "Sensor ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL for status events")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics-addr", defaultConfig.MetricsAddr, "Listen address for /metrics, empty to disable")
	sim.SetupFlags()
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	conf.Sim = sim.NewConfig()
	return &conf
}

// ParseFlags parses the command line, then loads the file named by
// -config below the flags set explicitly.
func ParseFlags() (*Config, error) {
	flag.Parse()
	if configFile == "" {
		return NewConfig(), nil
	}
	set := make(map[string]string)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = f.Value.String()
	})
	if err := defaultConfig.LoadFile(configFile); err != nil {
		return nil, err
	}
	for name, val := range set {
		if err := flag.Set(name, val); err != nil {
			return nil, err
		}
	}
	return NewConfig(), nil
}

// LoadFile overrides the config with the values present in a YAML file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// IsSim tells whether Device names the simulator.
func (c *Config) IsSim() bool {
	return strings.HasPrefix(c.Device, "sim:")
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("device must be specified")
	}
	if c.IsSim() && c.Device != SimShort && c.Device != SimLong {
		return fmt.Errorf("unknown simulated device %q", c.Device)
	}
	if c.Buffers < 1 {
		return fmt.Errorf("at least one log buffer is required")
	}
	if c.BufferSize < dbuf.MinBufferSize {
		return fmt.Errorf("buffer size must be at least %d", dbuf.MinBufferSize)
	}
	if c.SensorID == "" || strings.ContainsAny(c.SensorID, "/+#") {
		return fmt.Errorf("invalid sensor ID %q", c.SensorID)
	}
	return nil
}
