package persist

import (
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"
)

// process wide counters in Prometheus exposition format
var (
	savesTotal       = metrics.NewCounter(`ldata_saves_total`)
	encryptedSaves   = metrics.NewCounter(`ldata_encrypted_saves_total`)
	bytesWritten     = metrics.NewCounter(`ldata_written_bytes_total`)
	loadsTotal       = metrics.NewCounter(`ldata_loads_total`)
	loadErrorsTotal  = metrics.NewCounter(`ldata_load_errors_total`)
	migrationsTotal  = metrics.NewCounter(`ldata_migrations_total`)
	freshStartsTotal = metrics.NewCounter(`ldata_fresh_starts_total`)
	staleRemoved     = metrics.NewCounter(`ldata_stale_files_removed_total`)
)

// WritePrometheus writes the process wide persistence counters to w.
func WritePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, false)
}

// Stats holds the counters and timers of a single engine.
type Stats struct {
	registry gometrics.Registry

	Saves       gometrics.Counter
	Loads       gometrics.Counter
	LoadErrors  gometrics.Counter
	Migrations  gometrics.Counter
	Fallbacks   gometrics.Counter // decrypt or raw-parse attempts after a failed first try
	SaveLatency gometrics.Timer
	LoadLatency gometrics.Timer
}

func newStats() *Stats {
	r := gometrics.NewRegistry()
	return &Stats{
		registry:    r,
		Saves:       gometrics.GetOrRegisterCounter("saves", r),
		Loads:       gometrics.GetOrRegisterCounter("loads", r),
		LoadErrors:  gometrics.GetOrRegisterCounter("load_errors", r),
		Migrations:  gometrics.GetOrRegisterCounter("migrations", r),
		Fallbacks:   gometrics.GetOrRegisterCounter("fallbacks", r),
		SaveLatency: gometrics.GetOrRegisterTimer("save_latency", r),
		LoadLatency: gometrics.GetOrRegisterTimer("load_latency", r),
	}
}

// Each calls f for every metric of the engine, see go-metrics Registry.Each.
func (s *Stats) Each(f func(name string, metric interface{})) {
	s.registry.Each(f)
}

func (s *Stats) observeSave(start time.Time, n int, encrypted bool) {
	s.Saves.Inc(1)
	s.SaveLatency.UpdateSince(start)
	savesTotal.Inc()
	if encrypted {
		encryptedSaves.Inc()
	}
	bytesWritten.Add(n)
}

func (s *Stats) observeLoad(start time.Time) {
	s.Loads.Inc(1)
	s.LoadLatency.UpdateSince(start)
	loadsTotal.Inc()
}

func (s *Stats) observeLoadError() {
	s.LoadErrors.Inc(1)
	loadErrorsTotal.Inc()
}

func (s *Stats) observeMigration() {
	s.Migrations.Inc(1)
	migrationsTotal.Inc()
}
