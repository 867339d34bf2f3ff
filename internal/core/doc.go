// Package core provides the business logic for GameChanger season imports.
//
// It sits between the transport layer and storage: internal/web calls into a
// [Service], and the Service talks to a [Repository] (internal/store) and a
// [PreviewStore] (memory or internal/cache). Nothing here knows about HTTP.
//
// # Import Flow
//
// An import is two requests:
//
//  1. [Service.PreviewImport] parses the export with internal/gamechanger,
//     matches every row against the team roster and stores an
//     [ImportPreview] for a limited time.
//  2. [Service.CommitImport] applies the coach's [Resolution] list to the
//     preview and writes the season stats in one transaction.
//
// Rows without a resolution are imported when matched and skipped otherwise.
// A roster player may receive stats from at most one row; previews where two
// rows claim the same player list the clash in [ImportPreview.Conflicts] and
// cannot be committed until it is resolved.
//
// # Concurrency
//
// Both steps hold a slot of the [ImportLimiter]. When no slot frees up within
// the configured wait the call fails with [ErrTooManyImports].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - IMP001-IMP006: Import errors (not an export, expired preview, bad decisions)
//   - FILE001-FILE005: File errors (size, encoding, format)
//   - DB001-DB006: Database errors (duplicates, constraints, connections)
//   - RATE001: Too many requests
package core
