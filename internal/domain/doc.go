// Package domain models the Zillow Home Value Index (ZHVI) neighborhood
// dataset and the pure functions that derive dashboard views from it.
//
// # Data Source
//
// The input is the Zillow Research "ZHVI All Homes (SFR, Condo/Co-op) Time
// Series, Smoothed, Seasonally Adjusted" neighborhood CSV, enriched upstream
// with a latitude/longitude pair per neighborhood. One row per neighborhood,
// one column per month:
//
//	RegionID,SizeRank,RegionName,RegionType,StateName,State,City,Metro,CountyName,latitude,longitude,01-31-2000,02-29-2000,...
//
// # Column Conventions
//
// Identifier columns (RegionID, SizeRank, RegionType, StateName) are not used
// for display and are dropped at load. RegionName is renamed to Region and
// CountyName to County. Every column outside the known metadata set is a date
// column.
//
// Date headers:
//
//	MM-DD-YYYY, e.g. "06-30-2023". Zillow stamps each month with its last
//	day, so the day component is not meaningful for lookup: a selection is
//	matched to the axis by month and year only. Headers must be strictly
//	ascending with one column per month.
//
// Missing values:
//
//	Empty cells and the pandas sentinels "NaN"/"nan"/"NA" are missing.
//	Neighborhoods frequently have no value for early months.
//
// # Derived Views
//
// [Table] is built once and never mutated. Every view ([Snapshot],
// [SeriesTable], selector candidates) is computed by a pure function from
// the table and a [Selection], so one view cannot leak state into another.
//
// Snapshot values are whole US dollars. Conversion from the float index uses
// [RoundNearest] unless [RoundTruncate] is configured.
//
// Region names are not unique: the same neighborhood name can appear twice
// in one metro (overlapping counties). [ExtractSeries] refuses to guess and
// reports an [AmbiguousNeighborhoodWarning] per conflicting row instead.
package domain
