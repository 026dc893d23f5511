// Package models defines the core domain models for tripsplit.
//
// # Models
//
//   - Trip: a shared board (a trip or a purchase sheet) with an ordered participant list
//   - Expense: one shared cost paid by a participant and split among several
//   - Settlement: a tracked payment between two participants, paid or pending
//   - Product: a line on a purchase sheet, identified by a PS-### serial number
//
// Participants are identified by name strings. A name is the identity key for all
// balance arithmetic; there is no separate participant record.
//
// # Design Principles
//
//  1. Use ID strings instead of pointers for relationships
//  2. Timestamps are Unix milliseconds
//  3. Derived values (balances, suggested transactions) live in the calculator
//     package and are never stored
package models
