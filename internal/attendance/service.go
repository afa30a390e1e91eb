package attendance

import (
	"context"
	"fmt"
	"time"

	"seatify/internal/shared/apperrors"
	"seatify/internal/token"
	"seatify/pkg/logger"
)

// Service interprets scanned tokens as attendance transitions.
type Service interface {
	// ProcessScan is toggle mode: check-in or check-out depending on the
	// booking's current status.
	ProcessScan(ctx context.Context, raw string) (*ScanResult, error)

	// ProcessCheckout is explicit-checkout mode: valid only from
	// CHECKED_IN.
	ProcessCheckout(ctx context.Context, raw string) (*ScanResult, error)

	// GetBookingLog returns the attendance audit trail, owner-only.
	GetBookingLog(ctx context.Context, bookingID, userID uint) ([]AttendanceEvent, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
	now  func() time.Time
}

// NewService creates a new attendance service. now is the injected time
// source; pass nil for wall clock.
func NewService(repo Repository, log *logger.Logger, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &service{repo: repo, log: log, now: now}
}

func (s *service) ProcessScan(ctx context.Context, raw string) (*ScanResult, error) {
	return s.process(ctx, raw, toggle(s.now()))
}

func (s *service) ProcessCheckout(ctx context.Context, raw string) (*ScanResult, error) {
	return s.process(ctx, raw, checkoutOnly(s.now()))
}

func (s *service) process(ctx context.Context, raw string, fn TransitionFunc) (*ScanResult, error) {
	payload, err := token.Decode(raw)
	if err != nil {
		return nil, err
	}

	booking, change, err := s.repo.Transition(ctx, payload.String(), fn)
	if err != nil {
		return nil, err
	}
	s.log.LogScanProcessed(ctx, booking.ID, change.Action.String(), change.AutoCorrected)

	result := &ScanResult{
		Success:       true,
		Action:        change.Action,
		Message:       transitionMessage(change),
		Timestamp:     change.Timestamp,
		AutoCorrected: change.AutoCorrected,
	}
	if booking.Event != nil {
		result.EventName = booking.Event.Name
	}
	if booking.Seat != nil {
		result.SeatLabel = booking.Seat.Label()
	}
	return result, nil
}

func (s *service) GetBookingLog(ctx context.Context, bookingID, userID uint) ([]AttendanceEvent, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, apperrors.Forbidden("you can only view your own attendance log")
	}
	return s.repo.ListByBooking(ctx, bookingID)
}

func transitionMessage(change *Change) string {
	switch {
	case change.Action == ActionCheckIn:
		return "Checked in successfully"
	case change.AutoCorrected:
		return fmt.Sprintf("Checked out: check-in was shorter than %s and was flagged as accidental", ShortCheckInThreshold)
	default:
		return "Checked out successfully"
	}
}

// FailureResult wraps a scan failure into the well-formed result the
// scanning clients expect.
func FailureResult(err error) *ScanResult {
	return &ScanResult{
		Success: false,
		Message: apperrors.MessageOf(err),
	}
}
