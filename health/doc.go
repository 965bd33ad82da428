// Package health reports whether the tag caches can serve.
//
// A Checker reports one component's Status. The Aggregator runs a set of
// checkers under a shared deadline and folds their results into one overall
// status, which the HTTP handlers expose for probes:
//
//	agg := health.NewAggregator()
//	agg.Register("keys", health.NewCacheChecker(keys))
//	agg.Register("files", health.NewCacheChecker(files))
//
//	mux.Handle("/readyz", health.ReadinessHandler(agg))
package health
