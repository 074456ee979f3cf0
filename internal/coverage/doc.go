// Package coverage simulates a small fleet of drones sweeping a polygonal search area.
//
// The package owns everything the sweep needs:
//
//   - [Frame]: affine map between geographic (lon, lat) and simulation frame coordinates
//   - [Polygon]: frame-mapped search area with a point-in-polygon test
//   - [Grid]: discretized record of cumulative scan intensity
//   - [Agent]: kinematic state and bounded trail of a single drone
//   - [Simulation]: advances every agent and the grid by one discrete step
//
// # Example
//
//	s, err := coverage.New(area, coverage.WithAgents(5), coverage.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 100; i++ {
//	    snap := s.Step()
//	    fmt.Printf("%.1f%%\n", snap.CoveragePercent)
//	}
//
// # Thread Safety
//
// A Simulation is NOT safe for concurrent use. Independent instances share
// nothing and may run in parallel goroutines.
package coverage
