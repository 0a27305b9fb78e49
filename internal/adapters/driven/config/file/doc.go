// Package file provides a file-based implementation of the ConfigStore
// driven port. Configuration is persisted as TOML in the findetect
// config directory.
package file
