// Package runner executes registered randomized test cases against a
// deterministic draw stream.
//
// A run is a series of sweeps over the registry. Each sweep gives every
// case one trial batch: the runner saves a stream checkpoint, arms the
// input-generation budget, and records the outcome under the merge rule
// (failures freeze their slot, passes are never downgraded by a later
// generation failure). A failing case is immediately rerun from its
// checkpoint with diagnostics raised so the counterexample prints exactly
// once. Sweeps repeat until the wall-clock budget, checked at sweep
// boundaries, expires.
package runner
