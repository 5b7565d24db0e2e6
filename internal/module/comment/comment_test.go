package comment

import (
	"net/http"
	"strings"
	"testing"

	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/test"

	"github.com/stretchr/testify/require"
)

func TestCleanContent(t *testing.T) {
	s, e := cleanContent("  Looks good  ")
	require.Nil(t, e)
	require.Equal(t, "Looks good", s)

	_, e = cleanContent(" \n ")
	require.NotNil(t, e)
	_, e = cleanContent(strings.Repeat("x", maxContent+1))
	require.NotNil(t, e)
}

func TestCommentMessage(t *testing.T) {
	require.Equal(t, `Ada Lovelace commented on "Smart Campus".`, commentMessage("Ada Lovelace", "Smart Campus"))
	require.False(t, shouldNotify(3, 3))
	require.True(t, shouldNotify(4, 3))
}

func TestNewView(t *testing.T) {
	parent := uint(1)
	cm := &model.Comment{
		Model:   model.Model{ID: 1},
		Content: "top",
		Author:  &model.User{Model: model.Model{ID: 2}, FullName: "Ada"},
		Replies: []model.Comment{
			{Model: model.Model{ID: 2}, ParentID: &parent, Content: "secret", IsDeleted: true},
		},
	}
	v := NewView(cm)
	require.Equal(t, "top", v.Content)
	require.Equal(t, "Ada", v.Author.FullName)
	require.Len(t, v.Replies, 1)
	require.Equal(t, model.DeletedCommentContent, v.Replies[0].Content)
	require.Nil(t, v.Replies[0].Author)
}

func TestCreateCommentValidation(t *testing.T) {
	selfInit()
	user := test.AsUser(jwt.Payload{UserID: 1, Role: model.RoleStudent})

	resp := test.DoRequest(t, CreateComment, http.MethodPost, CreateReq{Content: "hi"}, user, test.Param("id", "abc"))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.DoRequest(t, CreateComment, http.MethodPost, CreateReq{Content: "   "}, user, test.Param("id", "1"))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
	require.Contains(t, resp.Msg, "comment cannot be empty")

	resp = test.DoRequest(t, UpdateComment, http.MethodPut, map[string]string{}, user, test.Param("id", "1"))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}
