// Package ingestion provides bulk loading of researcher corpora into the
// warehouse.
//
// The Loader type reads researcher records from a JSON lines stream,
// generates candidate-text embeddings concurrently using a worker pool,
// and inserts the records into the warehouse in batches. Malformed lines
// and failed embedding batches are isolated: they are counted and logged
// but do not abort the load.
package ingestion
