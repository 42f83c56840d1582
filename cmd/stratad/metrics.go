// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/diffeo/go-strata/strata"
)

var entriesAvailable = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "strata",
		Name:      "entries_available",
		Help:      "Number of records stored per entry type",
	},
	[]string{
		"entry_type",
	},
)

func init() {
	prometheus.MustRegister(entriesAvailable)
}

// observe periodically refreshes the per-entry-type record count
// gauges.  It runs until the process exits.
func observe(clk clock.Clock, storage strata.Storage, interval time.Duration) {
	ticker := clk.Ticker(interval)
	defer ticker.Stop()
	for range ticker.C {
		for _, entryType := range storage.EntryTypes() {
			c, err := storage.Collection(entryType)
			if err != nil {
				continue
			}
			count, err := c.Count(context.Background(), strata.Query{})
			if err != nil {
				continue
			}
			entriesAvailable.With(prometheus.Labels{
				"entry_type": entryType,
			}).Set(float64(count))
		}
	}
}
