package collector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Direction string

const (
	Inbound  Direction = "in"
	Outbound Direction = "out"
)

var (
	messageLabels = []string{"session", "direction", "msg_type"}
	sessionLabels = []string{"session"}

	MessageCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fix_messages_total",
		Help: "The total number of FIX messages",
	}, messageLabels)

	RejectCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fix_rejects_total",
		Help: "The total number of rejects sent",
	}, []string{"session", "reason"})

	DecodeErrorCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fix_decode_errors_total",
		Help: "The total number of frames that failed to decode",
	}, []string{"session", "kind"})

	GapCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fix_sequence_gaps_total",
		Help: "The total number of inbound sequence gaps",
	}, sessionLabels)

	ResendCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fix_resend_requests_served_total",
		Help: "The total number of resend requests served",
	}, sessionLabels)

	SessionState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fix_session_state",
		Help: "The current state of each session",
	}, sessionLabels)

	OutgoingKafkaCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outgoing_kafka",
		Help: "The total number of outgoing kafka",
	}, []string{"topic"})

	IncomingKafkaCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "incoming_kafka",
		Help: "The total number of incoming kafka",
	})

	RequestDurationHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "request_duration",
		Help: "The admin API request duration in seconds",
	}, []string{"success"})

	KafkaDurationHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "kafka_duration",
		Help: "Time spent handling one consumed kafka message in seconds",
	}, []string{"topic"})

	ProcessDurationHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "fix_process_duration",
		Help: "Time spent processing one inbound message in seconds",
	})
)

func CountMessage(session string, dir Direction, msgType string) {
	MessageCounter.WithLabelValues(session, string(dir), msgType).Inc()
}

// ObserveProcess records the time elapsed since start.
func ObserveProcess(start time.Time) {
	ProcessDurationHistogram.Observe(time.Since(start).Seconds())
}

func All() []prometheus.Collector {
	return []prometheus.Collector{
		MessageCounter,
		RejectCounter,
		DecodeErrorCounter,
		GapCounter,
		ResendCounter,
		SessionState,
		OutgoingKafkaCounter,
		IncomingKafkaCounter,
		RequestDurationHistogram,
		KafkaDurationHistogram,
		ProcessDurationHistogram,
	}
}
