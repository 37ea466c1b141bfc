// Package tablex provides a CLI-based toolkit for extracting HTML tables.
// It parses HTML documents, normalizes every table into a rectangular grid,
// detects inline XBRL tags attached to cells, and restructures flat XBRL
// row-sets into hierarchical financial statements.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, excelize/).
package tablex
