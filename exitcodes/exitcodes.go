// Package exitcodes defines the standard exit codes used by op-proptest.
package exitcodes

// Exit code constants used by op-proptest
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when no case ends the run failed or errored
// * TestFailure (1): Used when any case ends the run failed or errored, and
//   when the registry capacity is exceeded during startup
// * RuntimeErr (2): Used for runtime errors such as panics or invalid
//   configuration
const (
	Success     = 0 // No failed or errored cases
	TestFailure = 1 // Failed or errored cases, or registry overflow
	RuntimeErr  = 2 // Runtime or configuration errors
)
