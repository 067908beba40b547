// Package models defines the core domain models for GastosFácil.
//
// # Models
//
//   - User: registered account, identified by a UUID and a unique lowercased email
//   - Group: a set of people sharing expenses
//   - Membership: the (group, user, role) relation that gates access to a group's expenses
//   - Expense: an immutable record of money one member paid on behalf of the group
//
// # Design Principles
//
//  1. Relationships use ID strings instead of pointers
//  2. Money is a decimal.Decimal, never a float
//  3. Timestamps are assigned by the server, never by the client
//  4. Password hashes never leave the process (json:"-")
package models
