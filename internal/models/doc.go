// Package models defines the core domain models for billsplit.
//
// # Models
//
//   - BillConfig: the bill base plus its tax and service charges
//   - Charge: a tax or service charge, either a percentage or a fixed amount
//   - Participant: a person on the bill and the items they ordered
//   - AllocationResult: calculated share for one participant
//   - Session: the mutable roster one bill is edited through
//
// All money is carried as decimal.Decimal. Amounts are only rounded when a
// result leaves the calculator.
//
// # Identity
//
// Participants are identified by a synthetic ID assigned when they join a
// session. Names are display-only and may repeat.
package models
