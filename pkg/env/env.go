package env

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"

	"github.com/robotalks/pms.go/pkg/dbuf"
	"github.com/robotalks/pms.go/pkg/driver"
	fx "github.com/robotalks/pms.go/pkg/framework"
	"github.com/robotalks/pms.go/pkg/httpd"
	"github.com/robotalks/pms.go/pkg/mqtt"
	"github.com/robotalks/pms.go/pkg/status"
	"github.com/robotalks/pms.go/pkg/uart"
)

// Source is a byte source which can be closed to unblock reads.
type Source interface {
	io.ByteReader
	io.Closer
}

// Env wires a Driver to its byte source, log, indicators and servers.
type Env struct {
	Config   *Config
	Session  string
	Source   Source
	Ring     *dbuf.Ring
	Counter  *status.Counter
	Queue    *mqtt.Queue
	Registry *prometheus.Registry
	Driver   *driver.Driver
	Server   *httpd.Server

	runnables []fx.Runnable
}

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	e := &Env{
		Config:   c,
		Session:  ksuid.New().String(),
		Ring:     dbuf.NewRing(c.Buffers, c.BufferSize),
		Counter:  &status.Counter{},
		Registry: prometheus.NewRegistry(),
	}
	if c.IsSim() {
		stream := c.Sim.NewStream(c.Device == SimShort)
		e.Source = stream
		e.runnables = append(e.runnables, fx.NamedRun("sim", stream))
	} else {
		port, err := uart.Open(c.Device, c.Baud)
		if err != nil {
			return nil, err
		}
		e.Source = port
	}

	indicators := status.Mux{e.Counter}
	if c.MQTTBrokerURL != "" {
		q, err := mqtt.NewQueueFromURL(c.MQTTBrokerURL)
		if err != nil {
			e.Source.Close()
			return nil, fmt.Errorf("create MQTT queue error: %w", err)
		}
		e.Queue = q
		indicators = append(indicators, status.NewPublisher(q, c.SensorID, e.Session))
	}

	e.Driver = driver.New(e.Source, e.Ring, indicators)
	e.Driver.MaxRotations = c.MaxRotations
	e.Driver.Metrics = driver.NewMetrics(e.Registry)

	if c.MetricsAddr != "" {
		e.Server = &httpd.Server{Addr: c.MetricsAddr, Gatherer: e.Registry, Stats: e.Stats}
		e.runnables = append(e.runnables, fx.NamedRun("httpd", e.Server))
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// Stats reports the runtime state. It's safe for use from other
// goroutines than the driver.
func (e *Env) Stats() httpd.Stats {
	ok, errs := e.Counter.Counts()
	return httpd.Stats{
		Sensor:    e.Config.SensorID,
		Session:   e.Session,
		OK:        ok,
		Errors:    errs,
		Buffer:    e.Ring.Index(),
		Rotations: e.Ring.Rotations(),
	}
}

// Run implements framework.Runnable. It runs until the driver stops.
func (e *Env) Run(ctx context.Context) error {
	glog.Infof("sensor %s session %s on %s", e.Config.SensorID, e.Session, e.Config.Device)
	if e.Queue != nil {
		if token := e.Queue.Connect(); token.Wait() && token.Error() != nil {
			glog.Warningf("mqtt: connect error: %v", token.Error())
		}
		defer e.Queue.Close()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runner := fx.NewRunnerWith(ctx)
	runner.Go(e.runnables...)
	err := fx.RunWithContextCloser(ctx, e.Source, func() error {
		return e.Driver.Run(ctx)
	})
	cancel()
	var errs fx.AggregatedError
	if err != context.Canceled {
		errs.Add(err)
	}
	errs.Add(runner.Wait())
	return errs.Aggregate()
}
