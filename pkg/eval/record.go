package eval

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Record is one row of recall output: the measured recall@knn for one
// insertion window, with query throughput figures.
type Record struct {
	Recall           float64
	SearchSize       int
	Knn              int
	NumQueries       int
	SecondsPerQuery  float64
	QueriesPerSecond float64
}

// Reporter streams Records as CSV, one row per record, flushed immediately
// so partial results survive an aborted run.
type Reporter struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewReporter creates a reporter writing CSV to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: csv.NewWriter(w)}
}

// Write emits one record, preceded by the header row on first use.
func (r *Reporter) Write(record Record) error {
	if !r.wroteHeader {
		header := []string{
			"recall", "search_size", "knn",
			"num_queries", "seconds_per_query", "queries_per_second",
		}
		if err := r.w.Write(header); err != nil {
			return err
		}
		r.wroteHeader = true
	}
	row := []string{
		strconv.FormatFloat(record.Recall, 'g', -1, 64),
		strconv.Itoa(record.SearchSize),
		strconv.Itoa(record.Knn),
		strconv.Itoa(record.NumQueries),
		strconv.FormatFloat(record.SecondsPerQuery, 'g', -1, 64),
		strconv.FormatFloat(record.QueriesPerSecond, 'g', -1, 64),
	}
	if err := r.w.Write(row); err != nil {
		return err
	}
	r.w.Flush()
	return r.w.Error()
}
