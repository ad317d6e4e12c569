// Package config defines the release settings and provides helpers to
// load, validate and save them in YAML format.
//
// Every field has a default matching the OpenVADL plugin layout, so the
// settings file is optional.
package config
