package question

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var quizPicks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "trivia",
	Name:      "quiz_picks_total",
	Help:      "Quiz question selections by outcome.",
}, []string{"outcome"})
