// Package metrics wraps a minimime database with Prometheus instrumentation
// for services that want lookup traffic visible on their /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"git.uuxo.net/uuxo/minimime"
)

// Database delegates lookups to an underlying minimime.Database and counts
// them per operation and result. Like the wrapped database it is safe for
// concurrent use.
type Database struct {
	db      *minimime.Database
	lookups *prometheus.CounterVec
	records *prometheus.GaugeVec
}

// New registers the lookup metrics with reg and returns the instrumented
// database. A nil reg falls back to the default registry. The record gauges
// are set once here; the wrapped database never changes size.
func New(db *minimime.Database, reg prometheus.Registerer) *Database {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	d := &Database{
		db: db,
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minimime_lookups_total",
			Help: "Total number of MIME lookups by operation and result.",
		}, []string{"lookup", "result"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "minimime_records",
			Help: "Number of records loaded per index.",
		}, []string{"index"}),
	}
	reg.MustRegister(d.lookups, d.records)

	d.records.WithLabelValues("extension").Set(float64(len(db.Extensions())))
	d.records.WithLabelValues("content_type").Set(float64(len(db.ContentTypes())))

	return d
}

// Unwrap returns the underlying database.
func (d *Database) Unwrap() *minimime.Database { return d.db }

// LookupByExtension resolves an extension and counts the outcome.
func (d *Database) LookupByExtension(extension string) (minimime.Info, bool) {
	info, ok := d.db.LookupByExtension(extension)
	d.observe("extension", ok)
	return info, ok
}

// LookupByFilename resolves a filename and counts the outcome.
func (d *Database) LookupByFilename(filename string) (minimime.Info, bool) {
	info, ok := d.db.LookupByFilename(filename)
	d.observe("filename", ok)
	return info, ok
}

// LookupByContentType resolves a content type and counts the outcome.
func (d *Database) LookupByContentType(contentType string) (minimime.Info, bool) {
	info, ok := d.db.LookupByContentType(contentType)
	d.observe("content_type", ok)
	return info, ok
}

func (d *Database) observe(lookup string, ok bool) {
	result := "miss"
	if ok {
		result = "hit"
	}
	d.lookups.WithLabelValues(lookup, result).Inc()
}
