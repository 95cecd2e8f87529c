// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/plugstack/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/plugstack/config.cue on macOS, %APPDATA%\plugstack\config.cue
// on Windows). Every key can be overridden from the environment with the PLUGSTACK_ prefix,
// nested keys joined by underscores (plugins.enabled is PLUGSTACK_PLUGINS_ENABLED).
//
// Configuration files are validated against the embedded CUE schema (config_schema.cue)
// before they are merged over the defaults.
package config
