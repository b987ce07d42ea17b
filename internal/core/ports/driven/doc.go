// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PDFReader: Reads document metadata and first-page text layout
//   - FileSystem: Directory scans, copies and renames
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Run history. Without it, history and undo are unavailable.
//   - MetricsRecorder: Run metrics. Without it, nothing is recorded.
//   - ReportExporter: Report files in json/yaml/xlsx.
//   - DirectoryWatcher: Filesystem notifications for watch mode.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
