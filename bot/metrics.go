package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cyclesTotal counts completed polling cycles
	cyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsflash_cycles_total",
			Help: "Total number of completed polling cycles",
		},
	)

	// itemsConsidered tracks what happened to each feed item looked at
	itemsConsidered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsflash_items_considered_total",
			Help: "Feed items considered, by outcome",
		},
		[]string{"outcome"}, // primed|duplicate|filtered|published|dropped
	)

	// postsTotal tracks post attempts by publisher outcome
	postsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsflash_posts_total",
			Help: "Post attempts, by result",
		},
		[]string{"result"}, // posted|rate_limited|failed|cancelled
	)

	seenLinks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsflash_seen_links",
			Help: "Number of links in the seen ledger",
		},
	)
)
