// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The rename pipeline is split into small pieces that are tested in
// isolation: TitleExtractor and its strategies propose titles,
// Sanitizer makes them filesystem-legal, ClaimedNameSet makes them
// unique, BackupManager copies originals aside and RenameService runs
// the whole batch on a bounded worker pool.
package services
