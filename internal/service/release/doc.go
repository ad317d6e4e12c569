// Package release runs the LSP release pipeline for the OpenVADL plugin.
//
// The stages run strictly in order: build the language server in the
// external checkout, copy its image into the plugin resources, bump the
// plugin patch version, build the plugin and print the manual publishing
// steps. A failing command stops the run; completed stages are not undone.
package release
