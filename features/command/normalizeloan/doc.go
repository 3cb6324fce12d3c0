// Package normalizeloan validates and normalizes loan record writes.
//
// A write may only move the loan along the loan state machine, starting from the stored status,
// or from RETURNED when the loan is created. The stored record carries the status as read at
// the time of the write, so a BORROWED loan past its due day is stored as OVERDUE, and its due
// date formatted as YYYY-MM-DD.
package normalizeloan
