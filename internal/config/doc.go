// Package config handles configuration loading and merging for bugreg.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--file, --regname, --output-format, --theme, --no-color, --lock, --log-level)
//  2. Environment variables (BUGREG_FILE, BUGREG_REGISTRY, BUGREG_FORMAT, BUGREG_THEME,
//     BUGREG_LOG_LEVEL, BUGREG_NO_COLOR or NO_COLOR, BUGREG_LOCK)
//  3. YAML config file (.bugreg.yaml in the working directory or
//     $XDG_CONFIG_HOME/bugreg/.bugreg.yaml)
//  4. Hardcoded defaults
//
// # Keys
//
//   - file: registry location; "-" for stdin/stdout, s3://bucket/key for S3
//   - registry: registry name to operate on
//   - format: auto, terminal, text, html or json
//   - theme: default, soft or mono
//   - no_color: monochrome terminal output
//   - lock: take an advisory lock around in-place edits of local files
//   - log_level: debug, info, warn or error
//   - auto_modules: packages recorded by create --auto-modversion
//   - s3.region, s3.endpoint, s3.path_style: S3 client settings
package config
