package loan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loansCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_loans_created_total",
		Help: "Loans successfully created.",
	})
	loansReturned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_loans_returned_total",
		Help: "Loans successfully returned.",
	})
	lateReturns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_late_returns_total",
		Help: "Returns past the due date, with a fine assessed.",
	})
)
