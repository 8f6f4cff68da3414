package biddingerrors

import "errors"

// Repository-level errors
var (
	ErrNotFound = errors.New("resource not found")
	ErrInternal = errors.New("internal failure")
)

// Auction and bid ledger errors
var (
	ErrAuctionNotAvailable    = errors.New("invalid property or auction ended")
	ErrInvalidDateFormat      = errors.New("invalid date format")
	ErrStartDateNotFuture     = errors.New("start date must be in the future")
	ErrEndDateBeforeStart     = errors.New("end date must be after start date")
	ErrAmountBelowMinimum     = errors.New("bid amount below minimum")
	ErrOverlappingBid         = errors.New("bid overlaps an existing active bid")
	ErrInvalidBid             = errors.New("invalid bid")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// Access and request errors
var (
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrEmailTaken        = errors.New("email already registered")
	ErrValidation        = errors.New("validation failed")
	ErrUnsupportedMedia  = errors.New("unsupported media type")
)
