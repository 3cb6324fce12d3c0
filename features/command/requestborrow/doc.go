// Package requestborrow implements the Request Borrow use case.
//
// A member asks the owner of a READY thing to lend it to them. The thing moves to
// WAITING_FOR_LENDER_APPROVAL_TO_BORROW and remembers the requester until the owner decides.
//
// A member may ask for the same thing at most once per cooldown window. Rejected requests
// are recorded as RequestingBorrowFailed events, accepted ones as BorrowRequested.
//
// The CommandHandler follows Load -> Map -> Decide -> Save -> Append, with the business rules
// in the pure Decide function.
package requestborrow
