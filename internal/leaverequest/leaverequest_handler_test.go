package leaverequest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/leaverequest"
	leaverequesterrors "go-leave/internal/leaverequest/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	createFn  func(ctx context.Context, companyID, actorID string, req leaverequest.CreateLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error)
	getAllFn  func(ctx context.Context, companyID string, status *string, limit, offset int) ([]leaverequest.LeaveRequestResponse, int64, error)
	getByIDFn func(ctx context.Context, companyID, id string) (leaverequest.LeaveRequestResponse, error)
	updateFn  func(ctx context.Context, companyID, id string, req leaverequest.UpdateLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error)
	approveFn func(ctx context.Context, companyID, approverID, id string, comments *string) (leaverequest.LeaveRequestResponse, error)
	rejectFn  func(ctx context.Context, companyID, approverID, id, rejectionReason string) (leaverequest.LeaveRequestResponse, error)
	cancelFn  func(ctx context.Context, companyID, id string, cancellationReason *string) (leaverequest.LeaveRequestResponse, error)
	deleteFn  func(ctx context.Context, companyID, id string) error
}

func (f *fakeService) Create(ctx context.Context, companyID, actorID string, req leaverequest.CreateLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error) {
	return f.createFn(ctx, companyID, actorID, req)
}

func (f *fakeService) GetAll(ctx context.Context, companyID string, status *string, limit, offset int) ([]leaverequest.LeaveRequestResponse, int64, error) {
	return f.getAllFn(ctx, companyID, status, limit, offset)
}

func (f *fakeService) GetByID(ctx context.Context, companyID, id string) (leaverequest.LeaveRequestResponse, error) {
	return f.getByIDFn(ctx, companyID, id)
}

func (f *fakeService) Update(ctx context.Context, companyID, id string, req leaverequest.UpdateLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error) {
	return f.updateFn(ctx, companyID, id, req)
}

func (f *fakeService) Approve(ctx context.Context, companyID, approverID, id string, comments *string) (leaverequest.LeaveRequestResponse, error) {
	return f.approveFn(ctx, companyID, approverID, id, comments)
}

func (f *fakeService) Reject(ctx context.Context, companyID, approverID, id, rejectionReason string) (leaverequest.LeaveRequestResponse, error) {
	return f.rejectFn(ctx, companyID, approverID, id, rejectionReason)
}

func (f *fakeService) Cancel(ctx context.Context, companyID, id string, cancellationReason *string) (leaverequest.LeaveRequestResponse, error) {
	return f.cancelFn(ctx, companyID, id, cancellationReason)
}

func (f *fakeService) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

func TestHandler_CreateAndGetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	svc := &fakeService{
		createFn: func(ctx context.Context, cid, aid string, req leaverequest.CreateLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, actorID, aid)
			assert.Equal(t, employeeID, req.EmployeeID)
			return leaverequest.LeaveRequestResponse{
				ID:     uuid.New().String(),
				Status: leaverequest.StatusPending,
			}, nil
		},
		getAllFn: func(ctx context.Context, cid string, status *string, limit, offset int) ([]leaverequest.LeaveRequestResponse, int64, error) {
			assert.NotNil(t, status)
			assert.Equal(t, "PENDING", *status)
			assert.Equal(t, 10, limit)
			assert.Equal(t, 10, offset)
			return []leaverequest.LeaveRequestResponse{{ID: uuid.New().String()}}, 21, nil
		},
	}

	h := leaverequest.NewHandler(svc)

	body := `{
		"employee_id": "` + employeeID + `",
		"leave_type_id": "` + uuid.New().String() + `",
		"start_date": "2030-03-04",
		"end_date": "2030-03-06"
	}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", companyID)
	c.Set("user_id", actorID)
	c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), leaverequest.StatusPending)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Set("company_id", companyID)
	c2.Request = httptest.NewRequest(http.MethodGet, "/leave-requests?page=2&limit=10&status=PENDING", nil)
	h.GetAll(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "\"meta\"")
}

func TestHandler_CreateValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := leaverequest.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("user_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{"employee_id":"not-a-uuid"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "\"ok\":false")
}

func TestHandler_ApproveWithoutBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	approverID := uuid.New().String()
	id := uuid.New().String()

	svc := &fakeService{
		approveFn: func(ctx context.Context, cid, aid, targetID string, comments *string) (leaverequest.LeaveRequestResponse, error) {
			assert.Equal(t, approverID, aid)
			assert.Equal(t, id, targetID)
			assert.Nil(t, comments)
			return leaverequest.LeaveRequestResponse{ID: targetID, Status: leaverequest.StatusApproved}, nil
		},
	}

	h := leaverequest.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", companyID)
	c.Set("user_id", approverID)
	c.Params = gin.Params{{Key: "id", Value: id}}
	c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests/"+id+"/approve", nil)
	h.Approve(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), leaverequest.StatusApproved)
}

func TestHandler_RejectMapsServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.New().String()

	svc := &fakeService{
		rejectFn: func(ctx context.Context, cid, aid, targetID, reason string) (leaverequest.LeaveRequestResponse, error) {
			return leaverequest.LeaveRequestResponse{}, leaverequesterrors.ErrOnlyPendingRejectable
		},
	}

	h := leaverequest.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("user_id", uuid.New().String())
	c.Params = gin.Params{{Key: "id", Value: id}}
	c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests/"+id+"/reject",
		strings.NewReader(`{"rejection_reason":"coverage needed"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Reject(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")
}
