// Package gamechanger parses GameChanger season-stat CSV exports and matches
// the parsed rows against a team roster.
//
// The package is pure: it performs no I/O and keeps no package-level state,
// so every function is safe for concurrent use.
//
// # Export layout
//
// A GameChanger export has an optional title preamble, a header row that
// starts with Number,Last,First, and one row per player. The header carries
// three stat sections side by side (batting, pitching, fielding) whose labels
// are not prefixed, so H, SO, R and BB appear more than once. Columns are
// resolved positionally:
//
//   - Batting labels resolve to their first occurrence before pitching starts.
//   - Pitching starts at the first IP; its labels are anchored after IP.
//   - Fielding starts at the last TC; A, PO, FPCT, E, DP follow in order.
//
// The data rows end at a blank first cell or a Glossary marker, and the
// Totals row is ignored.
//
// # Matching
//
// [Match] pairs each parsed row with a roster player by jersey number first
// and by a loose name rule second. Name matches are best-effort and are meant
// to be confirmed by a person before anything is imported.
package gamechanger
