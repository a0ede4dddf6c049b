package domain

import (
	"github.com/google/uuid"

	dErrors "hotelchain/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so a RoomID can never be passed where a
// BookingID is expected.
type (
	UserID        uuid.UUID
	SessionID     uuid.UUID
	BranchID      uuid.UUID
	RoomTypeID    uuid.UUID
	RoomID        uuid.UUID
	ReservationID uuid.UUID
	BookingID     uuid.UUID
	InvoiceID     uuid.UUID
	PaymentID     uuid.UUID
)

func parseID[T ~[16]byte](s, label string) (T, error) {
	if s == "" {
		return T{}, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return T{}, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return T{}, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	return T(u), nil
}

func ParseUserID(s string) (UserID, error)               { return parseID[UserID](s, "user id") }
func ParseSessionID(s string) (SessionID, error)         { return parseID[SessionID](s, "session id") }
func ParseBranchID(s string) (BranchID, error)           { return parseID[BranchID](s, "branch id") }
func ParseRoomTypeID(s string) (RoomTypeID, error)       { return parseID[RoomTypeID](s, "room type id") }
func ParseRoomID(s string) (RoomID, error)               { return parseID[RoomID](s, "room id") }
func ParseReservationID(s string) (ReservationID, error) { return parseID[ReservationID](s, "reservation id") }
func ParseBookingID(s string) (BookingID, error)         { return parseID[BookingID](s, "booking id") }
func ParseInvoiceID(s string) (InvoiceID, error)         { return parseID[InvoiceID](s, "invoice id") }
func ParsePaymentID(s string) (PaymentID, error)         { return parseID[PaymentID](s, "payment id") }

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id SessionID) String() string     { return uuid.UUID(id).String() }
func (id BranchID) String() string      { return uuid.UUID(id).String() }
func (id RoomTypeID) String() string    { return uuid.UUID(id).String() }
func (id RoomID) String() string        { return uuid.UUID(id).String() }
func (id ReservationID) String() string { return uuid.UUID(id).String() }
func (id BookingID) String() string     { return uuid.UUID(id).String() }
func (id InvoiceID) String() string     { return uuid.UUID(id).String() }
func (id PaymentID) String() string     { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id BranchID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id RoomTypeID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id RoomID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ReservationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id BookingID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id InvoiceID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id PaymentID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

func marshalID(u [16]byte) ([]byte, error) {
	return []byte(uuid.UUID(u).String()), nil
}

func unmarshalID(text []byte) (uuid.UUID, error) {
	if len(text) == 0 {
		return uuid.Nil, nil
	}
	return uuid.ParseBytes(text)
}

func (id UserID) MarshalText() ([]byte, error)    { return marshalID(id) }
func (id SessionID) MarshalText() ([]byte, error) { return marshalID(id) }
func (id BranchID) MarshalText() ([]byte, error)  { return marshalID(id) }

func (id *UserID) UnmarshalText(text []byte) error {
	u, err := unmarshalID(text)
	*id = UserID(u)
	return err
}

func (id *SessionID) UnmarshalText(text []byte) error {
	u, err := unmarshalID(text)
	*id = SessionID(u)
	return err
}

func (id *BranchID) UnmarshalText(text []byte) error {
	u, err := unmarshalID(text)
	*id = BranchID(u)
	return err
}
