package shell

import (
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-domain-go/lending"
)

// ErrMappingRecordFailed is returned when a stored record cannot be mapped to the domain or back.
var ErrMappingRecordFailed = errors.New("mapping record failed")

var recordJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// ThingRecord holds the known fields of a thing document.
type ThingRecord struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Status              string `json:"status"`
	Description         string `json:"description,omitempty"`
	RulesForUse         string `json:"rulesForUse,omitempty"`
	BorrowingTime       int    `json:"borrowingTime,omitempty"`
	OfferedBy           string `json:"offeredBy"`
	RequestedToBorrowBy string `json:"requestedToBorrowBy,omitempty"`
}

// ThingFromDocument maps a thing document to a lending.Thing.
func ThingFromDocument(body []byte) (*lending.Thing, error) {
	var record ThingRecord
	if err := recordJSON.Unmarshal(body, &record); err != nil {
		return nil, errors.Join(ErrMappingRecordFailed, err)
	}

	id, err := lending.ParseID(record.ID)
	if err != nil {
		return nil, errors.Join(ErrMappingRecordFailed, err)
	}

	ownerID, err := lending.ParseID(record.OfferedBy)
	if err != nil {
		return nil, errors.Join(ErrMappingRecordFailed, fmt.Errorf("offeredBy: %w", err))
	}

	status := lending.ThingReady
	if record.Status != "" {
		if status, err = lending.ParseThingStatus(record.Status); err != nil {
			return nil, errors.Join(ErrMappingRecordFailed, err)
		}
	}

	var requester lending.ID
	if record.RequestedToBorrowBy != "" {
		if requester, err = lending.ParseID(record.RequestedToBorrowBy); err != nil {
			return nil, errors.Join(ErrMappingRecordFailed, fmt.Errorf("requestedToBorrowBy: %w", err))
		}
	}

	thing, err := lending.RestoreThing(lending.ThingParams{
		ID:          id,
		Title:       lending.ThingTitle{Name: record.Name, Description: record.Description},
		Description: record.Description,
		OwnerID:     ownerID,
	}, status, requester)
	if err != nil {
		return nil, errors.Join(ErrMappingRecordFailed, err)
	}

	return thing, nil
}

// ApplyThingToDocument writes the thing's status, pending requester and owner back into body.
// Fields the domain does not know about are kept as they are.
func ApplyThingToDocument(body []byte, thing *lending.Thing) ([]byte, error) {
	doc := make(map[string]any)
	if len(body) > 0 {
		if err := recordJSON.Unmarshal(body, &doc); err != nil {
			return nil, errors.Join(ErrMappingRecordFailed, err)
		}
	}

	doc["status"] = string(thing.Status())
	doc["offeredBy"] = thing.OwnerID.String()

	if requester, ok := thing.RequestedToBorrowBy(); ok {
		doc["requestedToBorrowBy"] = requester.String()
	} else {
		doc["requestedToBorrowBy"] = nil
	}

	out, err := recordJSON.Marshal(doc)
	if err != nil {
		return nil, errors.Join(ErrMappingRecordFailed, err)
	}

	return out, nil
}

// LocationRecord is the stored shape of a physical return location.
type LocationRecord struct {
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	StreetAddress string   `json:"street_address,omitempty"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state,omitempty"`
	ZipCode       string   `json:"zip_code,omitempty"`
	Country       string   `json:"country,omitempty"`
}

func (r *LocationRecord) isEmpty() bool {
	return r.Latitude == nil && r.Longitude == nil &&
		r.StreetAddress == "" && r.City == "" && r.State == "" && r.ZipCode == "" && r.Country == ""
}

// ToLocation maps the record to a PhysicalLocation. A nil or empty record has no location.
// Coordinates are kept only when both latitude and longitude are present.
func (r *LocationRecord) ToLocation() (lending.PhysicalLocation, bool) {
	if r == nil || r.isEmpty() {
		return lending.PhysicalLocation{}, false
	}

	location := lending.PhysicalLocation{
		Address: lending.PostalAddress{
			Street:  r.StreetAddress,
			City:    r.City,
			State:   r.State,
			ZipCode: r.ZipCode,
			Country: r.Country,
		},
	}

	if r.Latitude != nil && r.Longitude != nil {
		location.Coordinates = &lending.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}
	}

	return location, true
}

// LocationRecordFrom maps a location to its stored shape.
// Only physical locations are stored; anything else maps to nil.
func LocationRecordFrom(location lending.Location) *LocationRecord {
	physical, ok := location.(lending.PhysicalLocation)
	if !ok {
		return nil
	}

	record := &LocationRecord{
		StreetAddress: physical.Address.Street,
		City:          physical.Address.City,
		State:         physical.Address.State,
		ZipCode:       physical.Address.ZipCode,
		Country:       physical.Address.Country,
	}

	if physical.Coordinates != nil {
		lat, lon := physical.Coordinates.Latitude, physical.Coordinates.Longitude
		record.Latitude = &lat
		record.Longitude = &lon
	}

	return record
}

// LoanRecord is the stored shape of a loan.
type LoanRecord struct {
	LoanID         string          `json:"loan_id"`
	Item           string          `json:"item"`
	Borrower       string          `json:"borrower"`
	DueDate        string          `json:"due_date,omitempty"`
	Status         string          `json:"status"`
	ReturnLocation *LocationRecord `json:"return_location"`
	TimeReturned   *time.Time      `json:"time_returned,omitempty"`
}

// LoanStatusOrDefault is the record's status, RETURNED when unset.
func (r LoanRecord) LoanStatusOrDefault() string {
	if r.Status == "" {
		return string(lending.LoanReturned)
	}

	return r.Status
}

// LoanFromRecord maps a loan record to a lending.Loan. item may be nil when the thing is unknown.
func LoanFromRecord(record LoanRecord, item *lending.Thing) (*lending.Loan, error) {
	loanID, err := lending.ParseID(record.LoanID)
	if err != nil {
		return nil, errors.Join(ErrMappingRecordFailed, fmt.Errorf("loan_id: %w", err))
	}

	borrowerID, err := lending.ParseID(record.Borrower)
	if err != nil {
		return nil, errors.Join(ErrMappingRecordFailed, fmt.Errorf("borrower: %w", err))
	}

	dueDate, err := lending.ParseDueDate(record.DueDate)
	if err != nil {
		return nil, errors.Join(ErrMappingRecordFailed, fmt.Errorf("due_date: %w", err))
	}

	status, err := lending.ParseLoanStatus(record.LoanStatusOrDefault())
	if err != nil {
		return nil, errors.Join(ErrMappingRecordFailed, err)
	}

	params := lending.LoanParams{
		ID:           loanID,
		Item:         item,
		DueDate:      dueDate,
		BorrowerID:   borrowerID,
		TimeReturned: record.TimeReturned,
	}

	if location, ok := record.ReturnLocation.ToLocation(); ok {
		params.ReturnLocation = location
	}

	loan, err := lending.RestoreLoan(params, status)
	if err != nil {
		return nil, errors.Join(ErrMappingRecordFailed, err)
	}

	return loan, nil
}

// LoanRecordFrom maps a loan to its stored shape, with the status as read at now.
func LoanRecordFrom(loan *lending.Loan, now time.Time) LoanRecord {
	record := LoanRecord{
		LoanID:         loan.ID.String(),
		Borrower:       loan.BorrowerID.String(),
		DueDate:        loan.DueDate.String(),
		Status:         string(loan.StatusAt(now)),
		ReturnLocation: LocationRecordFrom(loan.ReturnLocation),
	}

	if loan.Item != nil {
		record.Item = loan.Item.ID.String()
	}

	if returned, ok := loan.TimeReturned(); ok {
		record.TimeReturned = &returned
	}

	return record
}

// BorrowRequestRecord remembers when a user last asked to borrow an item.
type BorrowRequestRecord struct {
	ItemID      string    `json:"item"`
	RequestedBy string    `json:"requestedBy"`
	RequestedAt time.Time `json:"requestedAt"`
}
