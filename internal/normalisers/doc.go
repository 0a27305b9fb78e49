// Package normalisers contains format parsers that turn raw blob bytes
// into domain metadata. Each format lives in its own subpackage.
package normalisers
