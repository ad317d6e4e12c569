// Package repopath remembers where the external OpenVADL checkout lives.
//
// The path is asked for once, written to a one-line cache file and read from
// that file on every later run.
package repopath
