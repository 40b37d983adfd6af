// Package prometheus renders tourauth engine metrics in the Prometheus
// text exposition format, with an http.Handler suitable for a /metrics
// route.
package prometheus
