// Package verify implements post-command verification for Strand Core.
//
// The controller acknowledges commands at the HTTP level but does not
// echo the resulting state, so a command is confirmed by polling the
// status endpoint until the observed zone state matches an expectation
// derived from the command itself, or a retry/timeout bound is hit.
//
// # Sessions
//
// A Runner owns at most one active session per zone. Starting a new
// session supersedes any in-flight one: each session carries a
// generation token, and a superseded session discards its outcome at
// commit time instead of overwriting newer results.
//
// # Outcomes
//
// Terminal outcomes: verified, failed (retries exhausted), timeout
// (wall-clock bound), skipped (command not verifiable for this zone),
// error (transport failure on the final attempt).
//
// # Comparison policy
//
// Matching is deliberately approximate. The controller does not echo
// full pattern parameters, so the comparison confirms on/off agreement
// and little else, defaulting to success when undetermined. False
// negatives are considered worse than false positives here.
package verify
