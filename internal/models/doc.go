// Package models defines the core domain models for tabsplit.
//
// # Receipt side
//
//   - Receipt: a stored purchase receipt with line items and totals
//   - LineItem: one receipt entry, optionally discounted
//   - Totals: receipt-level money (subtotal, tax, fees, tip, total)
//   - Friend: a person who can take part in splits
//
// # Split side
//
//   - SplitStrategy: closed set of ways to divide a receipt (equal, itemized, custom)
//   - Assignment: itemized-mode mapping of a line item to its consumers
//   - CustomShare: caller-supplied target share for one participant
//   - SplitSpec: everything the split engine needs beyond the receipt itself
//   - Settlement: the immutable output record of one split computation
//
// # Design Principles
//
//  1. **Exact money**: every monetary field is money.Cents (int64); no float
//     ever represents an amount.
//  2. **Pure values**: models carry no behavior beyond trivial accessors, so
//     the split engine stays a pure function over them.
//  3. **Avoid circular references**: relationships use ID strings, not
//     pointers between entities.
//  4. **Immutable settlements**: a Settlement is built once per computation
//     and never mutated; re-splitting replaces the whole record.
package models
