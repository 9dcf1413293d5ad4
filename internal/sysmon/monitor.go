package sysmon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/sensors"
)

// DefaultInterval is the sampling period when none is configured.
const DefaultInterval = 5 * time.Second

// cpuSensorKeys are the sensors read as the CPU package temperature, in
// preference order: AMD Tctl, then the Intel package sensor.
var cpuSensorKeys = []string{"k10temp_tctl", "coretemp_package_id_0"}

// errNoSensor is returned when no known CPU temperature sensor exists.
var errNoSensor = errors.New("no known CPU temperature sensor")

// Sampler reads the host's current load.
type Sampler interface {
	CPUPercent(ctx context.Context) (float64, error)
	MemoryUsed(ctx context.Context) (uint64, error)
	Temperatures(ctx context.Context) ([]sensors.TemperatureStat, error)
}

// HostSampler reads the local machine through gopsutil.
type HostSampler struct{}

// CPUPercent returns overall usage since the previous call.
func (HostSampler) CPUPercent(ctx context.Context) (float64, error) {
	pct, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(pct) == 0 {
		return 0, errors.New("cpu percent: no data")
	}
	return pct[0], nil
}

// MemoryUsed returns total minus available memory in bytes.
func (HostSampler) MemoryUsed(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.Total - vm.Available, nil
}

// Temperatures lists every hardware temperature sensor.
func (HostSampler) Temperatures(ctx context.Context) ([]sensors.TemperatureStat, error) {
	return sensors.TemperaturesWithContext(ctx)
}

// cpuTemperature picks the CPU package temperature out of temps.
func cpuTemperature(temps []sensors.TemperatureStat) (float64, error) {
	for _, want := range cpuSensorKeys {
		for _, t := range temps {
			if normalizeSensorKey(t.SensorKey) == want {
				return t.Temperature, nil
			}
		}
	}
	return 0, errNoSensor
}

// normalizeSensorKey maps "k10temp Tctl" and "k10temp_tctl" to the same key.
func normalizeSensorKey(key string) string {
	return strings.Join(strings.Fields(strings.ToLower(key)), "_")
}

// Monitor samples a Sampler on a fixed interval.
type Monitor struct {
	sampler  Sampler
	interval time.Duration
	logger   *slog.Logger
}

// NewMonitor creates a monitor. A nil sampler reads the local host.
func NewMonitor(sampler Sampler, interval time.Duration, logger *slog.Logger) *Monitor {
	if sampler == nil {
		sampler = HostSampler{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{sampler: sampler, interval: interval, logger: logger}
}

// Sample takes one reading. A missing temperature sensor reads as 0 and is
// not an error.
func (m *Monitor) Sample(ctx context.Context) (Reading, error) {
	usage, err := m.sampler.CPUPercent(ctx)
	if err != nil {
		return Reading{}, fmt.Errorf("cpu usage: %w", err)
	}
	used, err := m.sampler.MemoryUsed(ctx)
	if err != nil {
		return Reading{}, fmt.Errorf("memory: %w", err)
	}
	r := Reading{
		CPUUsage:  usage,
		RAMUsedGB: float64(used) / 1e9,
		Time:      time.Now(),
	}

	// Sensor listings can carry per-chip warnings next to usable values.
	temps, terr := m.sampler.Temperatures(ctx)
	temp, err := cpuTemperature(temps)
	if err != nil {
		if terr != nil {
			err = fmt.Errorf("%w: %v", err, terr)
		}
		return r, &sensorError{err: err}
	}
	r.CPUTemp = temp
	return r, nil
}

// sensorError reports a reading that is complete except for the
// temperature.
type sensorError struct{ err error }

func (e *sensorError) Error() string { return "cpu temperature: " + e.err.Error() }
func (e *sensorError) Unwrap() error { return e.err }

// Run samples immediately and then every interval, sending each reading on
// the returned channel. The channel closes when ctx is cancelled. Failed
// samples are logged and skipped.
func (m *Monitor) Run(ctx context.Context) <-chan Reading {
	out := make(chan Reading, 1)

	go func() {
		defer close(out)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		warnedSensor := false
		for {
			r, err := m.Sample(ctx)
			var serr *sensorError
			switch {
			case errors.As(err, &serr):
				if !warnedSensor {
					m.logger.Warn("cpu temperature unavailable, showing 0", "error", err)
					warnedSensor = true
				}
			case err != nil:
				if ctx.Err() != nil {
					return
				}
				m.logger.Warn("system load sample failed", "error", err)
			}

			if err == nil || serr != nil {
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
