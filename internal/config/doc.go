// Package config provides the configuration system for scoop.
//
// # Architecture
//
// Configuration is built from sources with later sources overriding
// earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← SCOOP_* (highest priority)
//	├─────────────────────────────┤
//	│  2. Config Files            │  ← TOML or YAML, with @include
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Each source is read by the loader sub-package into a generic map. The
// maps are merged with loader.DeepMerge, decoded onto the defaults, and
// validated.
//
// # Usage
//
//	cfg, err := config.Load(config.WithFile("scoop.toml"))
//	if err != nil {
//	    return err
//	}
//	eng := engine.New(cfg.EngineOptions()...)
//
// # Sections
//
//   - editor: indentUnit, pageSize
//   - history: maxEntries, coalesceWindow, maxOperationSize
//   - lexer: scanLimit
//   - search: overlapping
//   - highlight: style, formatter
//   - script: timeout
//   - logging: level
package config
