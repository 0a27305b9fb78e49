// Package services contains the core business logic orchestrating the
// detection pipeline. Services depend only on domain types and ports.
package services
