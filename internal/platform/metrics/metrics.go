// Package metrics provides Prometheus metrics for the learning core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "wikilearn"
)

// Manager holds the Prometheus instruments for the review scheduler and
// the progression engine. A nil *Manager is safe to use and records
// nothing, so tests can pass services a nil manager.
type Manager struct {
	reviewsProcessed *prometheus.CounterVec
	xpGranted        *prometheus.CounterVec
	levelUps         prometheus.Counter
	streakBonuses    *prometheus.CounterVec
}

// NewManager creates a Manager registered on the given registerer.
// Pass prometheus.DefaultRegisterer in production.
func NewManager(reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		reviewsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "reviews_processed_total",
			Help:      "Number of card reviews processed, by rating.",
		}, []string{"rating"}),

		xpGranted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progression",
			Name:      "xp_granted_total",
			Help:      "Total XP granted, by award reason.",
		}, []string{"reason"}),

		levelUps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progression",
			Name:      "level_ups_total",
			Help:      "Number of level-ups detected during awards.",
		}),

		streakBonuses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progression",
			Name:      "streak_bonuses_total",
			Help:      "Number of streak milestone bonuses granted, by milestone.",
		}, []string{"milestone"}),
	}
}

// ObserveReview records one processed review with the given rating.
func (m *Manager) ObserveReview(rating string) {
	if m == nil {
		return
	}
	m.reviewsProcessed.WithLabelValues(rating).Inc()
}

// ObserveAward records granted XP for a reason, and a level-up if one occurred.
func (m *Manager) ObserveAward(reason string, granted int64, levelUp bool) {
	if m == nil {
		return
	}
	m.xpGranted.WithLabelValues(reason).Add(float64(granted))
	if levelUp {
		m.levelUps.Inc()
	}
}

// ObserveStreakBonus records a granted streak milestone bonus.
func (m *Manager) ObserveStreakBonus(milestone string) {
	if m == nil {
		return
	}
	m.streakBonuses.WithLabelValues(milestone).Inc()
}
