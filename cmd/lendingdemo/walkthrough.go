package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/AntonStoeckl/lending-domain-go/features/command/decideborrowrequest"
	"github.com/AntonStoeckl/lending-domain-go/features/command/normalizeloan"
	"github.com/AntonStoeckl/lending-domain-go/features/command/requestborrow"
	"github.com/AntonStoeckl/lending-domain-go/lending"
	"github.com/AntonStoeckl/lending-domain-go/shell"
	"github.com/AntonStoeckl/lending-domain-go/shell/config"
	"github.com/AntonStoeckl/lending-domain-go/shell/memstore"
	"github.com/AntonStoeckl/lending-domain-go/shell/observable"
	"github.com/AntonStoeckl/lending-domain-go/shell/oteladapters"
)

type walkthrough struct {
	cfg    config.Config
	logger *oteladapters.SlogBridgeLogger
	store  *memstore.Store
	now    time.Time

	requestBorrow *observable.CommandWrapper[requestborrow.Command]
	decide        *observable.CommandWrapper[decideborrowrequest.Command]
	normalize     normalizeloan.CommandHandler
	normalizeObs  *observable.CommandWrapper[normalizeloan.Command]
}

func newWalkthrough(cfg config.Config, obs *observability, logger *oteladapters.SlogBridgeLogger) (*walkthrough, error) {
	store := memstore.NewStore()

	requestBorrow, err := wrap[requestborrow.Command](obs, requestborrow.NewCommandHandler(store,
		requestborrow.WithCooldown(cfg.Library.BorrowRequestCooldown),
		requestborrow.WithRateLimiter(rate.NewLimiter(rate.Limit(50), 10)),
	))
	if err != nil {
		return nil, err
	}

	decide, err := wrap[decideborrowrequest.Command](obs, decideborrowrequest.NewCommandHandler(store))
	if err != nil {
		return nil, err
	}

	normalize := normalizeloan.NewCommandHandler(store)

	normalizeObs, err := wrap[normalizeloan.Command](obs, normalize)
	if err != nil {
		return nil, err
	}

	return &walkthrough{
		cfg:           cfg,
		logger:        logger,
		store:         store,
		now:           time.Now().UTC(),
		requestBorrow: requestBorrow,
		decide:        decide,
		normalize:     normalize,
		normalizeObs:  normalizeObs,
	}, nil
}

// borrowRequestFlow: a neighbour asks for a drill, asks again, a third person is turned away,
// the owner approves and the loan record is written and started back.
func (w *walkthrough) borrowRequestFlow(ctx context.Context) error {
	ownerID, neighbourID, strangerID := lending.NewID(), lending.NewID(), lending.NewID()

	drill := lending.NewThing(lending.ThingParams{
		ID:      lending.NewID(),
		Title:   lending.ThingTitle{Name: "Cordless drill"},
		OwnerID: ownerID,
	})

	body, err := thingDocument(drill)
	if err != nil {
		return err
	}
	w.store.PutThing(drill.ID.String(), body)

	if _, err = w.requestBorrow.Handle(ctx, requestborrow.BuildCommand(drill.ID, neighbourID, w.now)); err != nil {
		return err
	}

	result, err := w.requestBorrow.Handle(ctx, requestborrow.BuildCommand(drill.ID, neighbourID, w.now.Add(time.Minute)))
	if err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "repeated borrow request", "idempotent", result.Idempotent)

	_, err = w.requestBorrow.Handle(ctx, requestborrow.BuildCommand(drill.ID, strangerID, w.now.Add(2*time.Minute)))
	if !errors.Is(err, lending.ErrThingNotReadyToBorrow) {
		return fmt.Errorf("expected the second borrower to be turned away, got %v", err)
	}
	outcome := shell.ClassifyError(err)
	w.logger.InfoContext(ctx, "borrow request turned away", "status", outcome.Status, "kind", outcome.Kind)

	approve := decideborrowrequest.BuildCommand(drill.ID, ownerID, decideborrowrequest.Approve, w.now.Add(time.Hour))
	if _, err = w.decide.Handle(ctx, approve); err != nil {
		return err
	}

	desired := shell.LoanRecord{
		LoanID:   lending.NewID().String(),
		Item:     drill.ID.String(),
		Borrower: neighbourID.String(),
		DueDate:  lending.DueInDays(w.now, w.cfg.Library.DefaultLoanDays).String(),
		Status:   string(lending.LoanBorrowed),
	}

	stored, _, err := w.normalize.Normalize(ctx, normalizeloan.BuildCommand(nil, desired, w.now.Add(time.Hour)))
	if err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "loan recorded", "loan_id", stored.LoanID, "status", stored.Status, "due_date", stored.DueDate)

	stored.Status = string(lending.LoanReturnStarted)
	if _, err = w.normalizeObs.Handle(ctx, normalizeloan.BuildCommand(nil, stored, w.now.AddDate(0, 0, 3))); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "event log", "events", fmt.Sprint(w.store.EventTypes()))

	return nil
}

// libraryCycle lends a tool from a library and brings it back late.
func (w *walkthrough) libraryCycle(ctx context.Context) error {
	now := w.now
	clock := func() time.Time { return now }

	libraryConfig, err := w.cfg.Library.LibraryConfig(lending.NewID(), "Tool Library")
	if err != nil {
		return err
	}

	library, err := lending.NewSimpleLibrary(libraryConfig, lending.NewPhysicalLocation(39.80, -89.64, lending.PostalAddress{
		Street:  "100 Library Way",
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62701",
		Country: "US",
	}), lending.WithClock(clock))
	if err != nil {
		return err
	}

	saw := lending.NewThing(lending.ThingParams{
		ID:      lending.NewID(),
		Title:   lending.ThingTitle{Name: "Circular saw"},
		OwnerID: library.EntityID(),
	})
	library.AddItem(saw)

	borrower := lending.NewPersonBorrower(lending.Person{
		ID:     lending.NewID(),
		Name:   lending.PersonName{First: "Ada", Last: "Lovelace"},
		Emails: []lending.EmailAddress{"ada@example.org"},
	}, library.EntityID(), lending.VerifiedEmail)
	library.AddBorrower(borrower)
	w.logger.InfoContext(ctx, "library borrower joined",
		"borrower_id", borrower.EntityID().String(),
		"email_verified", borrower.IsVerified(lending.VerifiedEmail),
		"identity_verified", borrower.IsVerified(lending.VerifiedIdentity),
	)

	if _, err = library.StartBorrow(saw, borrower); err != nil {
		return err
	}

	loan, err := library.FinishBorrow(saw, borrower, nil)
	if err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "library loan started", "loan_id", loan.ID.String(), "due_date", loan.DueDate.String())

	now = now.AddDate(0, 0, libraryConfig.DefaultLoanDays+2)

	if _, err = library.StartReturn(loan); err != nil {
		return err
	}

	if _, err = library.FinishLibraryReturn(loan, borrower); err != nil {
		return err
	}

	fees := make([]string, 0, len(borrower.OutstandingFees()))
	for _, fee := range borrower.OutstandingFees() {
		fees = append(fees, fee.Amount.String())
	}

	w.logger.InfoContext(ctx, "library loan returned",
		"loan_status", string(loan.StoredStatus()),
		"item_status", string(saw.Status()),
		"outstanding_fees", fmt.Sprint(fees),
	)

	return nil
}

func thingDocument(thing *lending.Thing) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(shell.ThingRecord{
		ID:        thing.ID.String(),
		Name:      thing.Title.Name,
		Status:    string(thing.Status()),
		OfferedBy: thing.OwnerID.String(),
	})
}
