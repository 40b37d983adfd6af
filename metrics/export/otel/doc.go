// Package otel bridges tourauth engine metrics into an OpenTelemetry meter
// via observable instruments, so existing OTel pipelines collect them
// without a separate scrape endpoint.
package otel
