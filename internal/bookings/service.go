package bookings

import (
	"context"
	"log/slog"
	"time"

	"seatify/internal/assets"
	"seatify/internal/events"
	"seatify/internal/seats"
	"seatify/internal/shared/apperrors"
	"seatify/internal/token"
	"seatify/internal/users"
	"seatify/pkg/logger"
)

// Notifier dispatches booking lifecycle notifications. Delivery is
// fire-and-forget relative to the booking transaction.
type Notifier interface {
	BookingCreated(ctx context.Context, n BookingCreatedNotification) error
	BookingCancelled(ctx context.Context, n BookingCancelledNotification) error
}

// BookingCreatedNotification carries everything the notification channel
// needs to confirm a booking to its holder.
type BookingCreatedNotification struct {
	UserID     uint
	Email      string
	FullName   string
	BookingID  uint
	EventName  string
	Location   string
	StartTime  time.Time
	EndTime    time.Time
	SeatLabel  string
	QRImageURL string
	ScanURL    string
}

// BookingCancelledNotification tells the holder their seat was released.
type BookingCancelledNotification struct {
	UserID    uint
	Email     string
	FullName  string
	BookingID uint
	EventName string
	SeatLabel string
}

// Service interface defines the contract for booking business logic
type Service interface {
	CreateBooking(ctx context.Context, userID uint, req CreateBookingRequest) (*BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID, userID uint) (*BookingResponse, error)
	GetBooking(ctx context.Context, bookingID, userID uint) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uint) ([]BookingResponse, error)
	GetUserAttendanceStats(ctx context.Context, userID uint) (*AttendanceStatsResponse, error)
}

// service implements the Service interface
type service struct {
	repo      Repository
	eventRepo events.Repository
	seatRepo  seats.Repository
	directory users.Directory
	uploader  assets.Uploader
	notifier  Notifier
	baseURL   string
	log       *logger.Logger
	now       func() time.Time
}

// Config carries the service's collaborators. Uploader and Notifier are
// optional; the booking flow degrades gracefully without them.
type Config struct {
	Repo      Repository
	EventRepo events.Repository
	SeatRepo  seats.Repository
	Directory users.Directory
	Uploader  assets.Uploader
	Notifier  Notifier
	BaseURL   string
	Logger    *logger.Logger
	Now       func() time.Time
}

// NewService creates a new booking service instance
func NewService(cfg Config) Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetDefault()
	}
	return &service{
		repo:      cfg.Repo,
		eventRepo: cfg.EventRepo,
		seatRepo:  cfg.SeatRepo,
		directory: cfg.Directory,
		uploader:  cfg.Uploader,
		notifier:  cfg.Notifier,
		baseURL:   cfg.BaseURL,
		log:       cfg.Logger,
		now:       cfg.Now,
	}
}

// CreateBooking reserves a seat for a user. Preconditions are checked in
// a fixed order so callers always see the same failure first; the
// repository re-validates the racy ones inside the claim transaction.
func (s *service) CreateBooking(ctx context.Context, userID uint, req CreateBookingRequest) (*BookingResponse, error) {
	user, err := s.directory.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !event.Status.AcceptsBookings() {
		return nil, apperrors.Conflict("event is not open for booking")
	}
	if !event.StartTime.After(now) {
		return nil, apperrors.Conflict("event has already started")
	}

	hasLive, err := s.repo.HasLiveBooking(ctx, userID, req.EventID)
	if err != nil {
		return nil, err
	}
	if hasLive {
		return nil, apperrors.Conflict("you already have a booking for this event")
	}

	seat, err := s.seatRepo.GetSeatByID(ctx, req.SeatID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.Conflict("seat is not available")
		}
		return nil, err
	}
	if seat.EventID != req.EventID || !seat.IsAvailable {
		return nil, apperrors.Conflict("seat is not available")
	}

	booking := &Booking{
		UserID:      userID,
		EventID:     req.EventID,
		SeatID:      req.SeatID,
		Token:       token.Encode(req.SeatID, userID, req.EventID),
		Status:      StatusBooked,
		BookingTime: now,
	}

	if err := s.repo.CreateWithSeatClaim(ctx, booking, now); err != nil {
		return nil, err
	}
	s.log.LogBookingCreated(ctx, booking.ID, booking.EventID, booking.UserID, booking.SeatID)

	// Everything past the claim is best effort: the seat is already
	// committed to this user.
	scanURL := token.ScanURL(s.baseURL, booking.Token)
	imageURL := s.hostQRImage(ctx, booking, scanURL)
	s.dispatchConfirmation(ctx, user, event, seat, booking, imageURL, scanURL)

	resp := s.toResponse(booking, event.Name, seat.Label())
	resp.QRImageURL = imageURL
	resp.ScanURL = scanURL
	return resp, nil
}

// hostQRImage renders and uploads the scannable code. On any failure the
// booking keeps its direct scan URL and the image URL stays empty.
func (s *service) hostQRImage(ctx context.Context, booking *Booking, scanURL string) string {
	if s.uploader == nil {
		return ""
	}

	png, err := assets.RenderQR(scanURL)
	if err != nil {
		s.log.Warn("QR render failed", slog.Uint64("booking_id", uint64(booking.ID)), slog.Any("error", err))
		return ""
	}

	imageURL, err := s.uploader.UploadImage(ctx, png, "qr-codes")
	if err != nil {
		s.log.Warn("QR upload failed", slog.Uint64("booking_id", uint64(booking.ID)), slog.Any("error", err))
		return ""
	}

	if err := s.repo.UpdateQRImageURL(ctx, booking.ID, imageURL); err != nil {
		s.log.Warn("storing QR image URL failed", slog.Uint64("booking_id", uint64(booking.ID)), slog.Any("error", err))
	}
	booking.QRImageURL = imageURL
	return imageURL
}

func (s *service) dispatchConfirmation(ctx context.Context, user *users.User, event *events.Event, seat *seats.Seat, booking *Booking, imageURL, scanURL string) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.BookingCreated(ctx, BookingCreatedNotification{
		UserID:     user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		BookingID:  booking.ID,
		EventName:  event.Name,
		Location:   event.Location,
		StartTime:  event.StartTime,
		EndTime:    event.EndTime,
		SeatLabel:  seat.Label(),
		QRImageURL: imageURL,
		ScanURL:    scanURL,
	})
	if err != nil {
		s.log.Warn("booking confirmation dispatch failed",
			slog.Uint64("booking_id", uint64(booking.ID)),
			slog.Any("error", err),
		)
	}
}

// CancelBooking cancels a booking and releases the seat
func (s *service) CancelBooking(ctx context.Context, bookingID, userID uint) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		return nil, apperrors.Forbidden("you can only cancel your own bookings")
	}
	if !booking.Status.CanBeCancelled() {
		return nil, apperrors.Conflict("only booked reservations can be cancelled")
	}

	if err := s.repo.CancelWithSeatRelease(ctx, bookingID); err != nil {
		return nil, err
	}
	s.log.LogBookingCancelled(ctx, bookingID, userID)

	booking.Status = StatusCancelled
	s.dispatchCancellation(ctx, booking)
	return s.bookingToResponse(booking), nil
}

func (s *service) dispatchCancellation(ctx context.Context, booking *Booking) {
	if s.notifier == nil {
		return
	}

	user, err := s.directory.ResolveUser(ctx, booking.UserID)
	if err != nil {
		s.log.Warn("cancellation dispatch skipped, user lookup failed",
			slog.Uint64("booking_id", uint64(booking.ID)),
			slog.Any("error", err),
		)
		return
	}

	n := BookingCancelledNotification{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		BookingID: booking.ID,
	}
	if booking.Event != nil {
		n.EventName = booking.Event.Name
	}
	if booking.Seat != nil {
		n.SeatLabel = booking.Seat.Label()
	}

	if err := s.notifier.BookingCancelled(ctx, n); err != nil {
		s.log.Warn("booking cancellation dispatch failed",
			slog.Uint64("booking_id", uint64(booking.ID)),
			slog.Any("error", err),
		)
	}
}

// GetBooking retrieves a booking, enforcing ownership.
func (s *service) GetBooking(ctx context.Context, bookingID, userID uint) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, apperrors.Forbidden("you can only view your own bookings")
	}
	return s.bookingToResponse(booking), nil
}

// GetUserBookings retrieves all bookings for a user.
func (s *service) GetUserBookings(ctx context.Context, userID uint) ([]BookingResponse, error) {
	bookings, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, *s.bookingToResponse(&bookings[i]))
	}
	return responses, nil
}

// GetUserAttendanceStats summarizes attendance across a user's bookings.
func (s *service) GetUserAttendanceStats(ctx context.Context, userID uint) (*AttendanceStatsResponse, error) {
	bookings, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &AttendanceStatsResponse{}
	for i := range bookings {
		if bookings[i].IsCancelled() {
			continue
		}
		stats.TotalParticipated++
		if bookings[i].Attended() {
			stats.PresentCount++
		}
	}
	stats.AbsentCount = stats.TotalParticipated - stats.PresentCount
	return stats, nil
}

func (s *service) bookingToResponse(booking *Booking) *BookingResponse {
	eventName := ""
	if booking.Event != nil {
		eventName = booking.Event.Name
	}
	seatLabel := ""
	if booking.Seat != nil {
		seatLabel = booking.Seat.Label()
	}
	resp := s.toResponse(booking, eventName, seatLabel)
	resp.QRImageURL = booking.QRImageURL
	resp.ScanURL = token.ScanURL(s.baseURL, booking.Token)
	return resp
}

func (s *service) toResponse(booking *Booking, eventName, seatLabel string) *BookingResponse {
	return &BookingResponse{
		ID:           booking.ID,
		EventID:      booking.EventID,
		EventName:    eventName,
		SeatID:       booking.SeatID,
		SeatLabel:    seatLabel,
		Status:       booking.Status,
		BookingTime:  booking.BookingTime,
		CheckInTime:  booking.CheckInTime,
		CheckOutTime: booking.CheckOutTime,
	}
}
