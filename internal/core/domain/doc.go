// Package domain contains the core business entities for findetect.
// It has no dependencies on adapters or external libraries.
package domain
