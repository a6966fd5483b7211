// Package metrics defines the custom Prometheus metrics for the blog API.
// It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// SignupsTotal counts created accounts.
// Label:
//   - role: "admin" or "user"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_signups_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// SigninsTotal counts sign-in attempts.
// Label:
//   - result: "success" or "failure"
var SigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests stopped by the authorization gate.
// Label:
//   - reason: "missing_header", "malformed_header", "invalid_token", "wrong_role"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the auth middleware, by reason.",
	},
	[]string{"reason"},
)

// PostsCreatedTotal counts successfully created posts.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// PostCacheTotal counts post cache lookups.
// Label:
//   - result: "hit" or "miss"
var PostCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_cache_lookups_total",
		Help:      "Total number of post cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// ProfileUploadsTotal counts profile-picture upload attempts.
// Label:
//   - result: "ok", "too_large", "bad_type", "error"
var ProfileUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_uploads_total",
		Help:      "Total number of profile picture uploads, by result.",
	},
	[]string{"result"},
)

// ProfileUploadBytes measures the size of accepted profile pictures.
var ProfileUploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "profile_upload_bytes",
		Help:      "Size in bytes of accepted profile picture uploads.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB .. 16MiB
	},
)
