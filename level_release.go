//go:build logforge_release

package logforge

// MinLevel is Info under the logforge_release build tag: Tracef and
// Debugf calls compile to a single constant-false branch and the calls
// they would have made are eliminated, matching spec.md §6's "zero-cost
// filter for disabled levels."
const MinLevel Level = Info
