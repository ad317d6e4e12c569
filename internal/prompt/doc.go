// Package prompt asks the operator for input.
//
// The release pipeline only depends on the Prompter interface, so the
// branch-switch confirmation can come from a terminal prompt, a piped line or
// a fixed policy when running unattended.
package prompt
