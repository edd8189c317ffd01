// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Checkout results used as the "result" label.
const (
	ResultSuccess         = "success"
	ResultPartialClear    = "partial_clear"
	ResultEmptyCart       = "empty_cart"
	ResultInProgress      = "in_progress"
	ResultUnauthenticated = "unauthenticated"
	ResultError           = "error"
)

// ── Checkout metrics ──────────────────────────────────────────────────────────

// CheckoutsTotal counts checkout attempts.
// Label:
//   - result: one of the Result* constants
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkout attempts, by result.",
	},
	[]string{"result"},
)

// CartClearFailuresTotal counts committed orders whose cart was not fully cleared.
var CartClearFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_clear_failures_total",
		Help:      "Total number of checkouts where the order was created but cart lines survived.",
	},
)

// CheckoutDuration measures a checkout from request to response.
// Label:
//   - result: one of the Result* constants
var CheckoutDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_duration_seconds",
		Help:      "Duration of the checkout workflow.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// OrderRevenueTotal sums the totals of placed orders, in whole rupees.
var OrderRevenueTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_revenue_total",
		Help:      "Sum of placed order totals.",
	},
)

// ── Admin metrics ─────────────────────────────────────────────────────────────

// OrderStatusUpdatesTotal counts admin status changes.
// Label:
//   - status: the new order status
var OrderStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_updates_total",
		Help:      "Total number of order status updates, by new status.",
	},
	[]string{"status"},
)

// ModerationDeletesTotal counts records removed from the admin console.
// Label:
//   - kind: "user", "contact" or "feedback"
var ModerationDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_deletes_total",
		Help:      "Total number of records deleted by admins, by kind.",
	},
	[]string{"kind"},
)

// ── Feedback and auth metrics ─────────────────────────────────────────────────

// FeedbackSubmittedTotal counts accepted feedback.
// Label:
//   - rating: "1" to "5"
var FeedbackSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_submitted_total",
		Help:      "Total number of feedback records accepted, by rating.",
	},
	[]string{"rating"},
)

// AuthAttemptsTotal counts sign-in and sign-up attempts.
// Labels:
//   - method: "password", "federated", "admin_password" or "admin_federated"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by method and result.",
	},
	[]string{"method", "result"},
)
