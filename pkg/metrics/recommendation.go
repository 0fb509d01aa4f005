package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Recommendations created through the API
	RecommendationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommendation_created_total",
		Help: "Total number of recommendations created",
	})

	// Click actions applied, by whether the priority actually moved
	RecommendationClicks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_clicks_total",
		Help: "Total number of recommendation clicks",
	}, []string{"outcome"})

	// Listings answered with an empty set because the store query failed
	RecommendationListDegraded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommendation_list_degraded_total",
		Help: "Listings that degraded to an empty result after a store failure",
	})
)

func Init() {
	prometheus.MustRegister(
		RecommendationsCreated,
		RecommendationClicks,
		RecommendationListDegraded,
	)
}
