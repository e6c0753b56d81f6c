// Package qbin computes quantile-based discretizations ("binnings") of
// numeric feature matrices for histogram-based gradient boosting.
//
// A Binner cuts every feature column of a partition into at most a fixed
// number of equal-frequency buckets and records, per sample and feature,
// the bucket index the value falls into (the "order map"). Split-finding
// can then aggregate statistics per bucket instead of per unique value.
//
// # Basic Usage
//
//	b := qbin.NewBinner()
//	if err := b.Build(x, 32); err != nil {
//	    log.Fatal(err)
//	}
//	om, _ := b.OrderMap()      // rows × features, uint8 bucket indices
//	sp, _ := b.SplitPoints()   // per-feature ascending boundaries, +Inf padded
//
// Columns with at most buckets distinct values are binned categorically:
// one bucket per distinct value, so small-cardinality numeric features get
// exact rather than approximate boundaries.
//
// # Sharing Boundaries
//
// Model captures the built split points without the order map. It can be
// serialized through the snapshot package and published to a blobstore so
// sibling partitions bin against identical boundaries:
//
//	m, _ := b.Model()
//	var buf bytes.Buffer
//	_ = snapshot.Write(&buf, m)
package qbin
