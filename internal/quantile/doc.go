// Package quantile implements the per-feature equal-frequency cut used
// to discretize a numeric column into at most a fixed number of buckets.
//
// Used internally by the root package to build order maps; it has no
// knowledge of matrices or features, only of a single value column.
package quantile
