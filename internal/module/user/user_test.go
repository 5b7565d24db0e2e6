package user

import (
	"net/http"
	"testing"

	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/test"

	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	for _, ok := range []string{"ada@uni.edu", "first.last+tag@mail.example.co"} {
		require.NoError(t, validateEmail(ok), ok)
	}
	for _, bad := range []string{"", "ada", "ada@uni", "ada@uni.c", "a da@uni.edu"} {
		require.Error(t, validateEmail(bad), bad)
	}
}

func TestValidateFullName(t *testing.T) {
	require.NoError(t, validateFullName("Al"))
	require.Error(t, validateFullName("  A  "))
	require.NoError(t, validateFullName("李雷"))
}

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Secret#123", false},
		{"valid with parens", "Ab1(cdef)", false},
		{"too short", "Ab1#", true},
		{"no upper", "secret#123", true},
		{"no lower", "SECRET#123", true},
		{"no digit", "Secret#abc", true},
		{"no special", "Secret1234", true},
		{"illegal char", "Secret#123 ", true},
		{"unicode", "Sécret#123", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePasswordStrength(tc.password)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRoleReqApply(t *testing.T) {
	old := roleState{Role: model.RoleStudent, IsActive: true}

	_, err := RoleReq{}.apply(old)
	require.Error(t, err)

	bad := "owner"
	_, err = RoleReq{Role: &bad}.apply(old)
	require.Error(t, err)

	role, active := "Reviewer", false
	next, err := RoleReq{Role: &role, IsActive: &active}.apply(old)
	require.NoError(t, err)
	require.Equal(t, roleState{Role: model.RoleReviewer, IsActive: false}, next)

	next, err = RoleReq{IsActive: &active}.apply(old)
	require.NoError(t, err)
	require.Equal(t, model.RoleStudent, next.Role)
}

func TestProfileChanges(t *testing.T) {
	name, bio := "  Grace Hopper ", " compilers "
	changes, err := ProfileReq{FullName: &name, Bio: &bio}.changes()
	require.NoError(t, err)
	require.Equal(t, map[string]any{"full_name": "Grace Hopper", "bio": "compilers"}, changes)

	short := "G"
	_, err = ProfileReq{FullName: &short}.changes()
	require.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	selfInit()

	resp := test.DoRequest(t, Register, http.MethodPost, "{bad json")
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.DoRequest(t, Register, http.MethodPost, RegisterReq{Email: "nope", FullName: "Ada", Password: "Secret#123"})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
	require.Contains(t, resp.Msg, "valid email")

	resp = test.DoRequest(t, Register, http.MethodPost, RegisterReq{Email: "ada@uni.edu", FullName: "Ada", Password: "weak"})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
	require.Contains(t, resp.Msg, "at least 8")
}

func TestUpdateRoleSelf(t *testing.T) {
	selfInit()
	admin := test.AsUser(jwt.Payload{UserID: 1, Role: model.RoleAdmin})
	role := "student"

	resp := test.DoRequest(t, UpdateRole, http.MethodPut, RoleReq{Role: &role}, admin, test.Param("id", "1"))
	test.ErrorEqual(t, response.ErrForbidden, resp)

	resp = test.DoRequest(t, UpdateRole, http.MethodPut, RoleReq{Role: &role}, admin, test.Param("id", "x"))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}
