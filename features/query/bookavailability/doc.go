// Package bookavailability answers whether a single book can be borrowed.
//
// It only reads the events of that book, which keeps it cheap compared to the full lendingstatus report.
package bookavailability
