// Package lending contains the lending domain model for sharing physical things
// within a community: what a shareable thing is, which states it can be in,
// how a loan is opened and closed out, and how a waiting list resolves
// contention for a single thing.
//
// The package is the functional core. It performs no I/O, spawns no goroutines
// and holds no locks. Callers map their stored documents into domain objects,
// invoke operations, and persist the mutated objects themselves. Callers must
// serialize concurrent mutations of the same Thing or Loan.
//
// Key types:
//   - Thing: a shareable item with a status state machine and a borrow request workflow
//   - Loan: one borrow transaction with its own state machine and lazy overdue derivation
//   - WaitingList and Reservation: per-item queue and time-boxed hold
//   - SimpleLibrary and DistributedLibrary: implementations of the Library borrow/return protocol
//   - Borrower and Lender: capabilities consumed by libraries
//   - FeeSchedule and LibraryFee: penalties for overdue or damaged returns
//
// The three state machines (Thing, Loan, Reservation) are driven by static
// transition tables, see ThingTransitions, LoanTransitions and ReservationTransitions.
//
// Typical borrow/return cycle:
//
//	library, _ := lending.NewSimpleLibrary(config, location)
//	library.AddItem(thing)
//
//	thing, err := library.StartBorrow(thing, borrower)
//	if err != nil {
//		// map lending.KindOf(err) to a caller-facing error
//	}
//	loan, err := library.FinishBorrow(thing, borrower, nil)
//
//	loan, err = library.StartReturn(loan)
//	loan, err = library.FinishLibraryReturn(loan, borrower)
package lending
