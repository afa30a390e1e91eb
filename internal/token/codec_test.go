package token

import (
	"net/url"
	"strings"
	"testing"

	"seatify/internal/shared/apperrors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	cases := []struct {
		seatID, userID, eventID uint
	}{
		{1, 2, 3},
		{42, 7, 1001},
		{0, 0, 0},
		{4294967295, 1, 99},
	}

	for _, tc := range cases {
		tok := Encode(tc.seatID, tc.userID, tc.eventID)
		got, err := Decode(tok)
		if err != nil {
			t.Fatalf("Decode(%q): unexpected error %v", tok, err)
		}
		if got.SeatID != tc.seatID || got.UserID != tc.userID || got.EventID != tc.eventID {
			t.Errorf("Decode(%q) = %+v, want seat=%d user=%d event=%d", tok, got, tc.seatID, tc.userID, tc.eventID)
		}
		if got.Nonce == "" {
			t.Errorf("Decode(%q): empty nonce", tok)
		}
	}
}

func TestEncodeUniquePerCall(t *testing.T) {
	t.Parallel()
	a := Encode(1, 2, 3)
	b := Encode(1, 2, 3)
	if a == b {
		t.Errorf("Encode produced identical tokens for repeated calls: %q", a)
	}
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"wrong prefix", "TICKETS:1:2:3:abc"},
		{"too few fields", "SEATIFY:1:2:3"},
		{"too many fields", "SEATIFY:1:2:3:abc:extra"},
		{"non-numeric seat", "SEATIFY:x:2:3:abc"},
		{"non-numeric user", "SEATIFY:1:x:3:abc"},
		{"non-numeric event", "SEATIFY:1:2:x:abc"},
		{"negative id", "SEATIFY:-1:2:3:abc"},
		{"oversized id", "SEATIFY:18446744073709551616:2:3:abc"},
		{"empty nonce", "SEATIFY:1:2:3:"},
		{"wrapped without data", "https://seatify.example.com/api/v1/attendance/auto-checkin?other=1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.raw)
			if err == nil {
				t.Fatalf("Decode(%q): expected error, got nil", tc.raw)
			}
			if !apperrors.IsKind(err, apperrors.KindMalformedToken) {
				t.Errorf("Decode(%q): kind = %v, want MALFORMED_TOKEN", tc.raw, apperrors.KindOf(err))
			}
		})
	}
}

func TestDecodePercentEncoded(t *testing.T) {
	t.Parallel()
	tok := Encode(5, 6, 7)

	got, err := Decode(url.QueryEscape(tok))
	if err != nil {
		t.Fatalf("Decode(escaped): unexpected error %v", err)
	}
	if got.SeatID != 5 || got.UserID != 6 || got.EventID != 7 {
		t.Errorf("Decode(escaped) = %+v, want 5/6/7", got)
	}
}

func TestDecodeWrappedURL(t *testing.T) {
	t.Parallel()
	tok := Encode(11, 22, 33)
	wrapped := ScanURL("https://seatify.example.com", tok)

	got, err := Decode(wrapped)
	if err != nil {
		t.Fatalf("Decode(%q): unexpected error %v", wrapped, err)
	}
	if got.SeatID != 11 || got.UserID != 22 || got.EventID != 33 {
		t.Errorf("Decode(wrapped) = %+v, want 11/22/33", got)
	}
}

func TestScanURLShape(t *testing.T) {
	t.Parallel()
	u := ScanURL("https://seatify.example.com/", "SEATIFY:1:2:3:abc")
	if strings.Contains(u, "//api") {
		t.Errorf("ScanURL did not trim trailing slash: %q", u)
	}
	if !strings.HasPrefix(u, "https://seatify.example.com/api/v1/attendance/auto-checkin?data=") {
		t.Errorf("unexpected scan URL shape: %q", u)
	}
}
