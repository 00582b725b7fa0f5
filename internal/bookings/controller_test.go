package bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"seatly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(service Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	RegisterValidations()
	engine := gin.New()
	controller := NewController(service)

	// Routes registered without auth middleware; the handlers are under test,
	// token checks are covered by the middleware package.
	group := engine.Group("/api/v1")
	bookings := group.Group("/bookings")
	bookings.POST("", controller.CreateBooking)
	bookings.GET("/:id", controller.GetBooking)
	bookings.POST("/:id/hold", controller.HoldSeat)
	bookings.POST("/:id/pay", controller.Pay)
	bookings.POST("/:id/refund", controller.Refund)
	bookings.POST("/:id/cancel", controller.Cancel)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, response.StandardApiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	var envelope response.StandardApiResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return recorder, envelope
}

func bookingData(t *testing.T, envelope response.StandardApiResponse) map[string]interface{} {
	t.Helper()
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok, "expected booking payload in data")
	return data
}

func TestController_CreateBooking(t *testing.T) {
	fx := newServiceFixture(t)
	engine := setupTestRouter(fx.service)

	recorder, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/bookings",
		gin.H{"seat_id": "A1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "success", envelope.Status)

	data := bookingData(t, envelope)
	assert.Equal(t, "A1", data["seat_id"])
	assert.Equal(t, StatusInitiated.String(), data["status"])
	_, err := uuid.Parse(data["id"].(string))
	assert.NoError(t, err)
}

func TestController_CreateBooking_MissingSeatID(t *testing.T) {
	fx := newServiceFixture(t)
	engine := setupTestRouter(fx.service)

	recorder, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/bookings", gin.H{})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "error", envelope.Status)
}

func TestController_CreateBooking_RejectsBadSeatID(t *testing.T) {
	fx := newServiceFixture(t)
	engine := setupTestRouter(fx.service)

	for _, seatID := range []string{"seat with spaces", "WAY-TOO-LONG-SEAT-ID", "A1!"} {
		recorder, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/bookings",
			gin.H{"seat_id": seatID})
		assert.Equalf(t, http.StatusBadRequest, recorder.Code, "seat id %q", seatID)
		assert.Equal(t, "error", envelope.Status)
	}
}

func TestController_GetBooking_NotFound(t *testing.T) {
	fx := newServiceFixture(t)
	engine := setupTestRouter(fx.service)

	recorder, envelope := doJSON(t, engine, http.MethodGet,
		"/api/v1/bookings/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "error", envelope.Status)
}

func TestController_GetBooking_InvalidID(t *testing.T) {
	fx := newServiceFixture(t)
	engine := setupTestRouter(fx.service)

	recorder, _ := doJSON(t, engine, http.MethodGet, "/api/v1/bookings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestController_HoldSeat(t *testing.T) {
	fx := newServiceFixture(t)
	engine := setupTestRouter(fx.service)
	booking := fx.mustCreate(t, "A1")

	recorder, envelope := doJSON(t, engine, http.MethodPost,
		"/api/v1/bookings/"+booking.ID.String()+"/hold", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := bookingData(t, envelope)
	assert.Equal(t, StatusSeatHeld.String(), data["status"])
	assert.NotEmpty(t, data["held_at"])
}

func TestController_HoldSeat_AlreadyHeldConflict(t *testing.T) {
	fx := newServiceFixture(t)
	engine := setupTestRouter(fx.service)
	booking := fx.mustCreate(t, "A1")
	_, err := fx.service.HoldSeat(context.Background(), booking.ID)
	require.NoError(t, err)

	recorder, envelope := doJSON(t, engine, http.MethodPost,
		"/api/v1/bookings/"+booking.ID.String()+"/hold", nil)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "error", envelope.Status)
}

func TestController_HoldSeat_SchedulingFailureReturns502WithBooking(t *testing.T) {
	fx := newServiceFixture(t)
	fx.scheduler.err = assert.AnError
	engine := setupTestRouter(fx.service)
	booking := fx.mustCreate(t, "A1")

	recorder, envelope := doJSON(t, engine, http.MethodPost,
		"/api/v1/bookings/"+booking.ID.String()+"/hold", nil)

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Equal(t, "error", envelope.Status)

	// The committed hold is still returned so the client knows its state
	data := bookingData(t, envelope)
	assert.Equal(t, StatusSeatHeld.String(), data["status"])
}

func TestController_Pay_ConfirmsBooking(t *testing.T) {
	fx := newServiceFixture(t)
	engine := setupTestRouter(fx.service)
	booking := fx.mustCreate(t, "A1")
	_, err := fx.service.HoldSeat(context.Background(), booking.ID)
	require.NoError(t, err)

	recorder, envelope := doJSON(t, engine, http.MethodPost,
		"/api/v1/bookings/"+booking.ID.String()+"/pay", gin.H{"success": true})

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := bookingData(t, envelope)
	assert.Equal(t, StatusConfirmed.String(), data["status"])
}

func TestController_Pay_Declined(t *testing.T) {
	fx := newServiceFixture(t)
	engine := setupTestRouter(fx.service)
	booking := fx.mustCreate(t, "A1")
	_, err := fx.service.HoldSeat(context.Background(), booking.ID)
	require.NoError(t, err)

	recorder, envelope := doJSON(t, engine, http.MethodPost,
		"/api/v1/bookings/"+booking.ID.String()+"/pay", gin.H{"success": false})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "Payment failed", envelope.Message)

	// Declined payment leaves the hold in place
	stored, err := fx.service.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSeatHeld, stored.Status)
}

func TestController_Pay_MissingSuccessField(t *testing.T) {
	fx := newServiceFixture(t)
	engine := setupTestRouter(fx.service)
	booking := fx.mustCreate(t, "A1")

	recorder, _ := doJSON(t, engine, http.MethodPost,
		"/api/v1/bookings/"+booking.ID.String()+"/pay", gin.H{})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestController_Refund_FlowAndDoubleRefundConflict(t *testing.T) {
	fx := newServiceFixture(t)
	engine := setupTestRouter(fx.service)
	booking := fx.mustCreate(t, "A1")
	ctx := context.Background()
	_, err := fx.service.HoldSeat(ctx, booking.ID)
	require.NoError(t, err)
	_, err = fx.service.ConfirmPayment(ctx, booking.ID, true)
	require.NoError(t, err)

	recorder, envelope := doJSON(t, engine, http.MethodPost,
		"/api/v1/bookings/"+booking.ID.String()+"/refund", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	data := bookingData(t, envelope)
	assert.Equal(t, StatusRefunded.String(), data["status"])

	recorder, _ = doJSON(t, engine, http.MethodPost,
		"/api/v1/bookings/"+booking.ID.String()+"/refund", nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestController_Cancel(t *testing.T) {
	fx := newServiceFixture(t)
	engine := setupTestRouter(fx.service)
	booking := fx.mustCreate(t, "A1")

	recorder, envelope := doJSON(t, engine, http.MethodPost,
		"/api/v1/bookings/"+booking.ID.String()+"/cancel", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := bookingData(t, envelope)
	assert.Equal(t, StatusCancelled.String(), data["status"])
}
