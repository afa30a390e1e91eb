package token

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"seatify/internal/shared/apperrors"
)

// Namespace is the fixed prefix of every scan token. Tokens are printed
// on physical QR codes, so the format is a versioned wire contract:
// changing it orphans every code already in the field.
const Namespace = "SEATIFY"

const fieldCount = 5

// Payload is the decoded content of a scan token.
type Payload struct {
	SeatID  uint
	UserID  uint
	EventID uint
	Nonce   string
}

// String reconstructs the canonical token text for this payload.
func (p Payload) String() string {
	return fmt.Sprintf("%s:%d:%d:%d:%s", Namespace, p.SeatID, p.UserID, p.EventID, p.Nonce)
}

// Encode builds a scan token for the given seat/user/event triple. The
// random nonce keeps the token unique per booking, so a booking created
// after a cancellation never shares a token with its predecessor.
func Encode(seatID, userID, eventID uint) string {
	return fmt.Sprintf("%s:%d:%d:%d:%s", Namespace, seatID, userID, eventID, uuid.NewString())
}

// Decode parses a raw scan payload. It accepts the bare token, a
// percent-encoded token, and the URL-wrapped form produced by ScanURL
// (the token as the value of a `data` query parameter).
func Decode(raw string) (Payload, error) {
	inner, err := unwrap(strings.TrimSpace(raw))
	if err != nil {
		return Payload{}, err
	}

	parts := strings.Split(inner, ":")
	if len(parts) != fieldCount {
		return Payload{}, apperrors.MalformedToken("invalid QR code format")
	}
	if parts[0] != Namespace {
		return Payload{}, apperrors.MalformedToken("unrecognized QR code prefix")
	}

	ids := make([]uint, 3)
	for i, field := range parts[1:4] {
		// strconv.IntSize keeps the parse within uint, so an
		// oversized ID fails instead of wrapping around.
		n, err := strconv.ParseUint(field, 10, strconv.IntSize)
		if err != nil {
			return Payload{}, apperrors.MalformedToken("invalid QR code format")
		}
		ids[i] = uint(n)
	}
	if parts[4] == "" {
		return Payload{}, apperrors.MalformedToken("invalid QR code format")
	}

	return Payload{
		SeatID:  ids[0],
		UserID:  ids[1],
		EventID: ids[2],
		Nonce:   parts[4],
	}, nil
}

// ScanURL wraps a token into the auto-check-in link embedded in QR codes.
// Generic scanner apps open the link in a browser, which triggers the
// check-in without a dedicated client.
func ScanURL(baseURL, tok string) string {
	return fmt.Sprintf("%s/api/v1/attendance/auto-checkin?data=%s", strings.TrimRight(baseURL, "/"), url.QueryEscape(tok))
}

// unwrap strips a URL wrapper if present and percent-decodes once,
// tolerating input that was already decoded by the scanning client.
func unwrap(raw string) (string, error) {
	if raw == "" {
		return "", apperrors.MalformedToken("missing QR code data")
	}

	inner := raw
	if strings.Contains(raw, "://") || strings.Contains(raw, "data=") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", apperrors.MalformedToken("invalid QR code URL")
		}
		data := u.Query().Get("data")
		if data == "" {
			return "", apperrors.MalformedToken("missing QR code data")
		}
		// Query().Get already percent-decoded the value.
		return data, nil
	}

	if decoded, err := url.QueryUnescape(inner); err == nil {
		inner = decoded
	}
	return inner, nil
}
