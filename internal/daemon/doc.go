// Package daemon runs the ingest loop: discover inbound workbooks, extract
// and dump them to one output file, archive the sources, then sleep and
// rescan. Dry and batch runs stop after a single iteration.
//
// Cancellation is checked only between iterations and while sleeping; an
// iteration in progress always completes.
package daemon
