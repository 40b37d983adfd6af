// Package internaldefs holds the shared metric name and help-text tables
// the exporters render from, so the Prometheus and OTel views of the same
// counter never drift apart.
package internaldefs
