// Package manifest finds and bumps the plugin version inside a build manifest.
//
// The manifest is treated as opaque text: only the digits of the patch
// component of the first `version = "X.Y.Z"` assignment change, every other
// byte is written back untouched.
package manifest
