package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
	"declara/internal/handler"
	"declara/internal/middleware"
	"declara/internal/service"
	"declara/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	testTenantID  = uuid.MustParse("eeeeeeee-0000-0000-0000-000000000001")
	testUserID    = uuid.MustParse("eeeeeeee-0000-0000-0000-000000000002")
	testSessionID = uuid.MustParse("eeeeeeee-0000-0000-0000-000000000003")
)

// authedContext builds a gin test context carrying the auth claims the
// middleware would normally set.
func authedContext(t *testing.T, method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	c.Set(middleware.ContextKeyTenantID, testTenantID)
	c.Set(middleware.ContextKeyUserID, testUserID)
	c.Set(middleware.ContextKeyRole, string(domain.RoleMember))
	return c, w
}

func TestSessionHandlerCreate(t *testing.T) {
	sessionSvc := new(mocks.MockSessionService)
	h := handler.NewSessionHandler(sessionSvc, nil)
	fileID := uuid.New()

	sessionSvc.On("StartSession", mock.Anything, mock.AnythingOfType("*service.StartSessionInput")).
		Return(&domain.ParsingSession{
			ID:       testSessionID,
			TenantID: testTenantID,
			Status:   domain.SessionCreated,
		}, nil)

	c, w := authedContext(t, http.MethodPost, "/api/v1/sessions", map[string]any{
		"customer_sig": "ACME CO LTD",
		"file_ids":     []string{fileID.String()},
	})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	sessionSvc.AssertExpectations(t)
}

func TestSessionHandlerCreateWithoutFiles(t *testing.T) {
	sessionSvc := new(mocks.MockSessionService)
	h := handler.NewSessionHandler(sessionSvc, nil)

	c, w := authedContext(t, http.MethodPost, "/api/v1/sessions", map[string]any{
		"customer_sig": "ACME CO LTD",
		"file_ids":     []string{},
	})
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	sessionSvc.AssertNotCalled(t, "StartSession", mock.Anything, mock.Anything)
}

func TestSessionHandlerCreateBadFileID(t *testing.T) {
	sessionSvc := new(mocks.MockSessionService)
	h := handler.NewSessionHandler(sessionSvc, nil)

	c, w := authedContext(t, http.MethodPost, "/api/v1/sessions", map[string]any{
		"file_ids": []string{"not-a-uuid"},
	})
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandlerParse(t *testing.T) {
	sessionSvc := new(mocks.MockSessionService)
	intakeSvc := new(mocks.MockIntakeService)
	h := handler.NewSessionHandler(sessionSvc, intakeSvc)

	intakeSvc.On("ProcessSession", mock.Anything, testTenantID, testSessionID).
		Return(&domain.ParsedDocument{InvoiceNumber: "INV-1"}, nil)

	c, w := authedContext(t, http.MethodPost, "/api/v1/sessions/"+testSessionID.String()+"/parse", nil)
	c.Params = gin.Params{{Key: "id", Value: testSessionID.String()}}
	h.Parse(c)

	assert.Equal(t, http.StatusOK, w.Code)
	intakeSvc.AssertExpectations(t)
}

func TestSessionHandlerRecordCorrection(t *testing.T) {
	sessionSvc := new(mocks.MockSessionService)
	h := handler.NewSessionHandler(sessionSvc, nil)
	outputID := uuid.New()

	var input *service.RecordCorrectionInput
	sessionSvc.On("RecordCorrection", mock.Anything, mock.AnythingOfType("*service.RecordCorrectionInput")).
		Run(func(args mock.Arguments) { input = args.Get(1).(*service.RecordCorrectionInput) }).
		Return(&domain.Correction{ID: uuid.New()}, nil)

	c, w := authedContext(t, http.MethodPost, "/api/v1/sessions/"+testSessionID.String()+"/corrections", map[string]any{
		"output_id":       outputID.String(),
		"corrected_value": "ACME CO., LTD",
		"correction_type": "WRONG_VALUE",
		"user_action":     "EDIT",
	})
	c.Params = gin.Params{{Key: "id", Value: testSessionID.String()}}
	h.RecordCorrection(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotNil(t, input)
	assert.Equal(t, testSessionID, input.SessionID)
	assert.Equal(t, outputID, input.OutputID)
	assert.Equal(t, domain.CorrectionWrongValue, input.CorrectionType)
	assert.Equal(t, testUserID, input.UserID)
}

func TestSessionHandlerRecordCorrectionMismatch(t *testing.T) {
	sessionSvc := new(mocks.MockSessionService)
	h := handler.NewSessionHandler(sessionSvc, nil)

	sessionSvc.On("RecordCorrection", mock.Anything, mock.AnythingOfType("*service.RecordCorrectionInput")).
		Return(nil, domain.ErrCorrectionMismatch)

	c, w := authedContext(t, http.MethodPost, "/api/v1/sessions/"+testSessionID.String()+"/corrections", map[string]any{
		"output_id":       uuid.New().String(),
		"correction_type": "WRONG_VALUE",
	})
	c.Params = gin.Params{{Key: "id", Value: testSessionID.String()}}
	h.RecordCorrection(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "CORRECTION_MISMATCH", resp.Error.Code)
}

func TestSessionHandlerFinalizeConflict(t *testing.T) {
	sessionSvc := new(mocks.MockSessionService)
	h := handler.NewSessionHandler(sessionSvc, nil)

	sessionSvc.On("Finalize", mock.Anything, testTenantID, testSessionID).
		Return(nil, domain.ErrInvalidSessionState)

	c, w := authedContext(t, http.MethodPost, "/api/v1/sessions/"+testSessionID.String()+"/finalize", nil)
	c.Params = gin.Params{{Key: "id", Value: testSessionID.String()}}
	h.Finalize(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSessionHandlerMissingAuthContext(t *testing.T) {
	sessionSvc := new(mocks.MockSessionService)
	h := handler.NewSessionHandler(sessionSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
	h.List(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	sessionSvc.AssertNotCalled(t, "ListSessions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
