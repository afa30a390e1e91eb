package attendance

import (
	"context"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seatify/internal/shared/apperrors"
	"seatify/internal/shared/middleware"
	"seatify/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CheckIn handles POST /attendance/check-in. The response body is always a
// ScanResult; failures carry the mapped HTTP status but keep the same shape
// so scanner clients only ever parse one schema.
func (ctrl *Controller) CheckIn(c *gin.Context) {
	ctrl.scan(c, ctrl.service.ProcessScan)
}

// Checkout handles POST /attendance/checkout, the explicit-checkout variant.
func (ctrl *Controller) Checkout(c *gin.Context) {
	ctrl.scan(c, ctrl.service.ProcessCheckout)
}

func (ctrl *Controller) scan(c *gin.Context, process func(ctx context.Context, raw string) (*ScanResult, error)) {
	raw, err := bindScan(c)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), FailureResult(err))
		return
	}

	result, err := process(c, raw)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), FailureResult(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

// AutoCheckIn handles GET /attendance/auto-checkin?data=<token>. This is the
// URL baked into the QR image, so the client is a phone camera's browser and
// the response is a human-readable page. It always renders with status 200;
// the page itself says whether the scan worked.
func (ctrl *Controller) AutoCheckIn(c *gin.Context) {
	raw := c.Query("data")

	var result *ScanResult
	if raw == "" {
		result = FailureResult(apperrors.MalformedToken("missing QR code data"))
	} else {
		var err error
		result, err = ctrl.service.ProcessScan(c, raw)
		if err != nil {
			result = FailureResult(err)
		}
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := scanPageTemplate.Execute(c.Writer, result); err != nil {
		_ = c.Error(err)
	}
}

// GetBookingLog handles GET /attendance/bookings/:id/log.
func (ctrl *Controller) GetBookingLog(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Error(c, apperrors.Forbidden("authentication required"))
		return
	}

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid booking id", nil)
		return
	}

	log, err := ctrl.service.GetBookingLog(c, uint(bookingID), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Attendance log retrieved successfully", log)
}

func bindScan(c *gin.Context) (string, error) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", apperrors.MalformedToken("qr_code_data is required")
	}
	return req.QRCodeData, nil
}

var scanPageTemplate = template.Must(template.New("scan").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Seatify Attendance</title>
<style>
body { font-family: sans-serif; background: #f4f4f7; margin: 0; padding: 2rem 1rem; }
.card { max-width: 420px; margin: 0 auto; background: #fff; border-radius: 12px; padding: 2rem; text-align: center; box-shadow: 0 2px 8px rgba(0,0,0,.08); }
.ok { color: #1a7f37; }
.fail { color: #b42318; }
.detail { color: #555; margin: .25rem 0; }
</style>
</head>
<body>
<div class="card">
{{if .Success}}
<h1 class="ok">{{.Message}}</h1>
{{if .EventName}}<p class="detail">{{.EventName}}</p>{{end}}
{{if .SeatLabel}}<p class="detail">Seat {{.SeatLabel}}</p>{{end}}
<p class="detail">{{.Timestamp.Format "Jan 2, 2006 3:04:05 PM"}}</p>
{{else}}
<h1 class="fail">Scan failed</h1>
<p class="detail">{{.Message}}</p>
{{end}}
</div>
</body>
</html>
`))
