package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry
	addr     string
}

func NewMetrics(addr string) *Metrics {
	if addr == "" {
		addr = ":2112"
	}
	return &Metrics{registry: prometheus.NewRegistry(), addr: addr}
}

func (m *Metrics) RegisterCollector(cs ...prometheus.Collector) {
	m.registry.MustRegister(cs...)
}

func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ok"))
	}))
	return mux
}

func (m *Metrics) Server() *http.Server {
	return &http.Server{Addr: m.addr, Handler: m.Handler()}
}

// Serve blocks until the listener fails.
func (m *Metrics) Serve() error {
	return m.Server().ListenAndServe()
}
