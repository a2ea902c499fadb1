// Package aggregates owns the transaction boundaries for writes that must keep more
// than one table consistent: recording a recitation session and refolding the
// per (user, surah) progress summary.
//
// Implementations compose table-level repos from internal/data/repos.
package aggregates
