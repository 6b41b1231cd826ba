// Package config loads, normalizes, and validates identigraph configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as IDENTIGRAPH_DATABASE.
// The Config type carries every knob the CLI needs: where the graph database
// lives, where source files are discovered, how ingestion is batched and
// parallelized, and how logs are rendered.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
