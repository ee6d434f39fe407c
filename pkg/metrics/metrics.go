package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AirportSearches counts airport lookups by query kind (faa/icao/name)
var AirportSearches = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "travelsample_airport_searches_total",
		Help: "Total number of airport searches by query kind",
	},
	[]string{"kind"},
)

// QueryLatency records latency distribution for data-service queries
var QueryLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "travelsample_query_latency_seconds",
		Help:    "Latency in seconds of queries issued by the data services",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"service"},
)

// Hotel search cache metrics
var (
	HotelCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "travelsample_hotel_cache_hits_total",
			Help: "Number of hotel searches served from the cache",
		},
	)

	HotelCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "travelsample_hotel_cache_misses_total",
			Help: "Number of hotel searches that fell through to the database",
		},
	)
)

// BookingsTotal counts stored flight bookings
var BookingsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "travelsample_bookings_total",
		Help: "Total number of flight bookings stored",
	},
)

func init() {
	prometheus.MustRegister(AirportSearches, QueryLatency)
	prometheus.MustRegister(HotelCacheHits, HotelCacheMisses, BookingsTotal)
}
