// Package config provides configuration loading, merging, and validation for
// the sync daemon and the control CLI.
//
// Configuration is assembled from several sources. For every field the first
// source holding a non-zero value wins:
//  1. Command-line flags
//  2. Environment variables (VAULTSYNC_ prefix)
//  3. Config file, JSON or YAML by extension
//  4. Built-in defaults
//
// The entry points are [GetStructuredConfig] for the daemon and
// [GetCtlConfig] for syncctl.
package config
