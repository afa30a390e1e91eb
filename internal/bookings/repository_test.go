package bookings

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"seatify/internal/shared/apperrors"
)

func TestTranslateClaimError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		kind apperrors.Kind
	}{
		{
			name: "live booking index violation becomes a conflict",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: liveBookingIndex},
			kind: apperrors.KindConflict,
		},
		{
			name: "other unique violations pass through",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "uniq_booking_token"},
			kind: apperrors.KindInternal,
		},
		{
			name: "plain errors pass through",
			err:  errors.New("connection reset"),
			kind: apperrors.KindInternal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := translateClaimError(tt.err)
			if apperrors.KindOf(got) != tt.kind {
				t.Errorf("kind = %v, want %v", apperrors.KindOf(got), tt.kind)
			}
			if tt.kind == apperrors.KindInternal && !errors.Is(got, tt.err) {
				t.Errorf("error was rewritten: %v", got)
			}
		})
	}
}

func TestTranslateClaimErrorMessage(t *testing.T) {
	t.Parallel()

	err := translateClaimError(&pgconn.PgError{Code: "23505", ConstraintName: liveBookingIndex})
	if got := apperrors.MessageOf(err); got != "you already have a booking for this event" {
		t.Errorf("message = %q", got)
	}
}
