// Package testutil provides testing utilities for qbin.
//
// This package is intended for use in tests and benchmarks only. It
// provides seeded generators for feature columns and matrices with
// controlled distributions (uniform, gaussian, low-cardinality), plus a
// reference bucket assignment for verifying order maps against split
// points.
package testutil
