// Package petfood extracts structured product data from archived Amazon
// HTML snapshots. Search-result and product-detail pages captured to disk
// are parsed into normalized listing and product records for downstream
// analysis.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, fs/, sqlite/).
package petfood
