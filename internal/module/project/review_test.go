package project

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/model"
	"capstone-guard/test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func reviewerContext() *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPut, "/test", nil)
	c.Request.RemoteAddr = "192.0.2.10:5000"
	c.Request.Header.Set("User-Agent", "review-client")
	c.Set(jwt.PayloadKey, &jwt.Claims{Payload: jwt.Payload{UserID: 2, Role: model.RoleReviewer}})
	return c
}

func expectStatusUpdate(mock sqlmock.Sqlmock, status model.ProjectStatus, notes string) {
	mock.ExpectExec("UPDATE `project` SET `review_notes`=\\?,`reviewed_at`=\\?,`reviewed_by_id`=\\?,`status`=\\?").
		WithArgs(notes, sqlmock.AnyArg(), 2, string(status), sqlmock.AnyArg(), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func expectAudit(mock sqlmock.Sqlmock, oldValue, newValue string) {
	mock.ExpectExec("INSERT INTO `audit_log`").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil, 2, model.AuditStatusChange, "project", 4,
			oldValue, newValue, "192.0.2.10", "review-client").
		WillReturnResult(sqlmock.NewResult(1, 1))
}

func TestApplyStatusNotifiesAuthor(t *testing.T) {
	db, mock := test.MockDB(t)
	p := &model.Project{Model: model.Model{ID: 4}, UserID: 7, Status: model.StatusPending}

	mock.ExpectBegin()
	expectStatusUpdate(mock, model.StatusApproved, "Solid work")
	mock.ExpectExec("INSERT INTO `notification`").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil, 7, "Project Approved",
			"Congratulations! Your project has been approved.", "project_approved", 4, false, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	expectAudit(mock, `{"status":"pending"}`, `{"status":"approved","review_notes":"Solid work"}`)
	mock.ExpectCommit()

	c := reviewerContext()
	err := db.Transaction(func(tx *gorm.DB) error {
		return applyStatus(tx, c, p, model.StatusApproved, "Solid work", 2, time.Now())
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyStatusUnderReviewTitle(t *testing.T) {
	db, mock := test.MockDB(t)
	p := &model.Project{Model: model.Model{ID: 4}, UserID: 7, Status: model.StatusPending}

	mock.ExpectBegin()
	expectStatusUpdate(mock, model.StatusUnderReview, "")
	mock.ExpectExec("INSERT INTO `notification`").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil, 7, "Project Under Review",
			"Your project is currently under review.", "project_under_review", 4, false, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	expectAudit(mock, `{"status":"pending"}`, `{"status":"under_review"}`)
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return applyStatus(tx, reviewerContext(), p, model.StatusUnderReview, "", 2, time.Now())
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyStatusPendingSkipsNotification(t *testing.T) {
	db, mock := test.MockDB(t)
	p := &model.Project{Model: model.Model{ID: 4}, UserID: 7, Status: model.StatusRejected, ReviewNotes: "Too vague"}

	mock.ExpectBegin()
	expectStatusUpdate(mock, model.StatusPending, "")
	expectAudit(mock, `{"status":"rejected","review_notes":"Too vague"}`, `{"status":"pending"}`)
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return applyStatus(tx, reviewerContext(), p, model.StatusPending, "", 2, time.Now())
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
