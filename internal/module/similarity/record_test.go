package similarity

import (
	"context"
	"testing"

	"capstone-guard/internal/model"
	"capstone-guard/test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormSourceApprovedCandidates(t *testing.T) {
	db, mock := test.MockDB(t)
	mock.ExpectQuery("FROM `project` WHERE status = \\? AND id <> \\?").
		WithArgs(string(model.StatusApproved), 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description"}).
			AddRow(1, "Library Seat Booking", "Reserve study seats").
			AddRow(2, "Campus Navigator", "Indoor maps"))

	got, err := GormSource{DB: db}.ApprovedCandidates(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, []Candidate{
		{ID: 1, Title: "Library Seat Booking", Description: "Reserve study seats"},
		{ID: 2, Title: "Campus Navigator", Description: "Indoor maps"},
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRecords(t *testing.T) {
	db, mock := test.MockDB(t)
	matches := []Match{
		{ProjectID: 1, OverallSimilarity: 0.95},
		{ProjectID: 2, OverallSimilarity: 0.9},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `similarity_record` WHERE project_id = \\?").
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO `similarity_record`").
		WillReturnResult(sqlmock.NewResult(10, 2))
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return ReplaceRecords(tx, 9, matches, 5)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRecordsWithoutMatchesOnlyDeletes(t *testing.T) {
	db, mock := test.MockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `similarity_record`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return ReplaceRecords(tx, 9, nil, 5)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
