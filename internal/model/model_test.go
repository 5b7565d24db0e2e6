package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	require.True(t, RoleAdmin.Rank() > RoleReviewer.Rank())
	require.True(t, RoleReviewer.Rank() > RoleStudent.Rank())
	require.False(t, Role("guest").Valid())
	require.True(t, RoleReviewer.IsStaff())
	require.True(t, RoleAdmin.IsStaff())
	require.False(t, RoleStudent.IsStaff())
}

func TestParseProjectStatus(t *testing.T) {
	st, ok := ParseProjectStatus(" APPROVED ")
	require.True(t, ok)
	require.Equal(t, StatusApproved, st)

	st, ok = ParseProjectStatus("Under_Review")
	require.True(t, ok)
	require.Equal(t, StatusUnderReview, st)

	_, ok = ParseProjectStatus("archived")
	require.False(t, ok)
}

func TestStatusTitle(t *testing.T) {
	require.Equal(t, "Under Review", StatusUnderReview.Title())
	require.Equal(t, "Approved", StatusApproved.Title())
	require.Equal(t, NotificationType("project_rejected"), StatusNotification(StatusRejected))
}

func TestCommentDisplay(t *testing.T) {
	c := Comment{Content: "nice work"}
	require.Equal(t, "nice work", c.DisplayContent())
	c.IsDeleted = true
	require.Equal(t, "[Deleted]", c.DisplayContent())
}

func TestUserBrief(t *testing.T) {
	var u *User
	require.Nil(t, u.Brief())
	u = &User{Model: Model{ID: 2}, FullName: "Bob", Role: RoleStudent}
	require.Equal(t, "Bob", u.Brief().FullName)
}
