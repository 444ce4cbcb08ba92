// Package config loads, normalizes, and validates vjoin configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VJOIN_FFMPEG. The Config type centralizes every knob the CLI needs, and
// Execution derives the tool/deletion settings handed to the join pipeline,
// applying the manual-override rule so bare command names are used unless the
// user opted into explicit binary paths.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
