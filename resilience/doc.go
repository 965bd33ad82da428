// Package resilience bounds concurrent content reads.
//
// A Bulkhead caps how many fingerprint computations may hold a file open at
// once. Callers that cannot get a slot either wait up to MaxWait or fail fast
// with ErrBulkheadFull:
//
//	b := resilience.NewBulkhead(resilience.BulkheadConfig{
//	    MaxConcurrent: 8,
//	    MaxWait:       50 * time.Millisecond,
//	})
//
//	err := b.Execute(ctx, func(ctx context.Context) error {
//	    return hashFile(ctx, path)
//	})
package resilience
