// Package types defines the feeling catalog, journal entry and day record
// types, the key-value persistence interface, configuration, and the
// standard errors shared by the moodlog packages.
//
// A Store maps calendar dates (YYYY-MM-DD) to DayRecords. A DayRecord is
// either the modern shape, an ordered list of timestamped entries, or the
// legacy one-feeling-per-day shape kept for data written by earlier
// versions. The shape is decided once when a record is decoded.
package types
