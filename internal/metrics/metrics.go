// Package metrics собирает счетчики операций с сообщениями и HTTP-запросов для Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Имена операций движка
const (
	OpSend        = "send"
	OpDelete      = "delete"
	OpListAll     = "list_all"
	OpListSender  = "list_by_sender"
	OpListRecv    = "list_by_receiver"
	OpListGroup   = "list_by_group"
	OpMarkRead    = "mark_read"
	OpEnterGroup  = "enter_group"
	resultOK      = "ok"
	resultFailure = "error"
)

// Collector владеет собственным реестром, поэтому несколько экземпляров
// (например, в тестах) не конфликтуют при регистрации.
type Collector struct {
	registry     *prometheus.Registry
	chatOps      *prometheus.CounterVec
	chatDuration *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		chatOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "messenger",
			Subsystem: "chat",
			Name:      "operations_total",
			Help:      "Personal chat operations by operation and result.",
		}, []string{"operation", "result"}),
		chatDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "messenger",
			Subsystem: "chat",
			Name:      "operation_duration_seconds",
			Help:      "Personal chat operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "messenger",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "messenger",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.chatOps, c.chatDuration, c.httpRequests, c.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// RecordOperation учитывает вызов операции движка. Безопасен для nil.
func (c *Collector) RecordOperation(op string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	result := resultOK
	if err != nil {
		result = resultFailure
	}
	c.chatOps.WithLabelValues(op, result).Inc()
	c.chatDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordRequest учитывает HTTP-запрос. Безопасен для nil.
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry нужен тестам для проверки значений
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
