package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Character Metrics
var (
	TasksCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTasksCompleted,
			Help: HelpTextTasksCompleted,
		},
		[]string{LabelKind, LabelDifficulty},
	)

	TasksMissed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTasksMissed,
			Help: HelpTextTasksMissed,
		},
		[]string{LabelDifficulty},
	)

	XPAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameXPAwarded,
			Help: HelpTextXPAwarded,
		},
	)

	GoldAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGoldAwarded,
			Help: HelpTextGoldAwarded,
		},
	)

	LevelUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
	)

	Incapacitations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameIncapacitations,
			Help: HelpTextIncapacitations,
		},
	)

	UnresolvedEquipment = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUnresolvedEquipment,
			Help: HelpTextUnresolvedEquipment,
		},
		[]string{LabelReason},
	)
)

// Combat Metrics
var (
	DuelsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDuelsFinished,
			Help: HelpTextDuelsFinished,
		},
		[]string{LabelStatus},
	)

	DuelDamage = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDuelDamage,
			Help: HelpTextDuelDamage,
		},
	)

	DuelContests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDuelContests,
			Help: HelpTextDuelContests,
		},
		[]string{LabelStatus},
	)

	RaidsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRaidsFinished,
			Help: HelpTextRaidsFinished,
		},
		[]string{LabelStatus},
	)

	RaidDamage = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRaidDamage,
			Help: HelpTextRaidDamage,
		},
	)

	RaidCounterAttacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRaidCounterAttacks,
			Help: HelpTextRaidCounterAttacks,
		},
	)
)

// Infrastructure Metrics
var (
	StaleWriteRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStaleWriteRetries,
			Help: HelpTextStaleWriteRetries,
		},
		[]string{LabelEntity},
	)

	SweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameSweepDuration,
			Help:    HelpTextSweepDuration,
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelSweep},
	)
)
