// Package internal holds non-exported helpers shared by the tourauth root
// package: token entropy and digest helpers.
//
// # Architecture boundaries
//
// Nothing here is part of the public API. Sub-packages metrics and rate are
// re-exported (aliased or wrapped) by the root package where needed.
package internal
