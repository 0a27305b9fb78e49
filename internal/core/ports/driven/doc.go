// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - BlobStore: Blob download/upload/listing
//   - BlobStoreFactory: Resolves connection environment names to stores
//   - Detector: Remote fin detection
//   - MetadataReader: Image metadata extraction
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - RunStore: Run history persistence. Without it, runs are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
