// Package etagops wires the entity-tag caches into a serving process.
//
// A Manager owns one KeyCache and one FileCache, both created with the
// configured capacity when the Manager is built, along with the telemetry,
// health checks and admin router that serve them. Handlers receive the caches
// from the Manager; there is no package-level state.
//
//	cfg, err := etagops.LoadConfig()
//	if err != nil {
//		return err
//	}
//	m, err := etagops.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer m.Shutdown(ctx)
//
//	resp := conditional.FromKey(ctx, conditional.FromRequest(r), m.Keys(), key, body, "", "text/plain")
//	resp.ServeHTTP(w, r)
package etagops
