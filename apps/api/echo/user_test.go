package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachhub/backend/core/user"
	emailsvc "github.com/teachhub/backend/services/email"
)

func Test_authApi_register(t *testing.T) {
	app := setup(t)

	createTestUser(t, "Taken", "taken@test.cd", "s3cr3tpwd", user.RoleStudent, true)

	tests := []httpTest{
		{
			name: "empty payload", body: []byte("{}"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":             "this field is required",
				"email":            "this field is required",
				"password":         "this field is required",
				"password_confirm": "this field is required",
			}),
		},
		{
			name:     "invalid email",
			body:     []byte(`{"name":"Awe","email":"lol","password":"s3cr3tpwd","password_confirm":"s3cr3tpwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name:     "short password",
			body:     []byte(`{"name":"Awe","email":"awe@test.cd","password":"lol","password_confirm":"lol"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password must be at least 8 characters in length"}),
		},
		{
			name:     "password mismatch",
			body:     []byte(`{"name":"Awe","email":"awe@test.cd","password":"s3cr3tpwd","password_confirm":"s3cr3tpwe"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password_confirm": "password_confirm must be equal to Password"}),
		},
		{
			name:     "email taken",
			body:     []byte(`{"name":"Awe","email":"taken@test.cd","password":"s3cr3tpwd","password_confirm":"s3cr3tpwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": user.ErrEmailExists.Error()}),
		},
		{
			name:     "student registered active",
			body:     []byte(`{"name":"Awe","email":"awe@test.cd","password":"s3cr3tpwd","password_confirm":"s3cr3tpwd"}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/register", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			var resp RegisterResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, user.RoleStudent, resp.User.Role)
			assert.True(t, resp.User.IsActive)
			assert.NotEmpty(t, resp.Token)
		})
	}
}

func Test_authApi_registerTeacher(t *testing.T) {
	app := setup(t)

	body := []byte(`{"name":"Prof","email":"prof@test.cd","password":"s3cr3tpwd","password_confirm":"s3cr3tpwd"}`)
	req, rec := newRequest(http.MethodPost, "/v1/auth/register/teacher", body)
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp TeacherRegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, user.RoleTeacher, resp.User.Role)
	assert.False(t, resp.User.IsActive)
	assert.NotEmpty(t, resp.Detail)

	// the admin is notified
	require.NotEmpty(t, emailsvc.SentMessages)
	assert.Equal(t, "root@test.cd", emailsvc.SentMessages[len(emailsvc.SentMessages)-1].To[0].Address)

	// a pending teacher cannot log in yet
	req, rec = newRequest(http.MethodPost, "/v1/auth/login", []byte(`{"email":"prof@test.cd","password":"s3cr3tpwd"}`))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func Test_authApi_login(t *testing.T) {
	app := setup(t)

	student := createTestUser(t, "Student", "student@test.cd", "s3cr3tpwd", user.RoleStudent, true)
	createTestUser(t, "Pending", "pending@test.cd", "s3cr3tpwd", user.RoleTeacher, false)

	tests := []httpTest{
		{
			name: "empty payload", body: []byte("{}"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"email":    "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name:     "unknown email",
			body:     []byte(`{"email":"lol@test.cd","password":"s3cr3tpwd"}`),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "user not found"}),
		},
		{
			name:     "wrong password",
			body:     []byte(`{"email":"student@test.cd","password":"lolwrong1"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "pending teacher",
			body:     []byte(`{"email":"pending@test.cd","password":"s3cr3tpwd"}`),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account pending approval"}),
		},
		{
			name:     "login ok",
			body:     []byte(`{"email":"student@test.cd","password":"s3cr3tpwd"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			var resp LoginResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Token)

			refreshed, err := usrRepo.GetUserByID(context.Background(), student.ID)
			require.NoError(t, err)
			assert.False(t, refreshed.LastLogin.IsZero())
		})
	}
}

func Test_adminApi_teacherApproval(t *testing.T) {
	app := setup(t)

	admin := createTestUser(t, "Root", "root@test.cd", "s3cr3tpwd", user.RoleAdmin, true)
	student := createTestUser(t, "Student", "student@test.cd", "s3cr3tpwd", user.RoleStudent, true)
	pending := createTestUser(t, "Pending", "pending@test.cd", "s3cr3tpwd", user.RoleTeacher, false)

	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	t.Run("pending list requires auth", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/admin/teachers/pending")
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("pending list is admin only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/teachers/pending", studentToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("pending list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/teachers/pending", adminToken)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var teachers []user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &teachers))
		require.Len(t, teachers, 1)
		assert.Equal(t, pending.ID, teachers[0].ID)
	})

	t.Run("approve unknown teacher", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/admin/teachers/lol/approve", adminToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("approve teacher", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/admin/teachers/"+pending.ID+"/approve", adminToken)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var usr user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usr))
		assert.True(t, usr.IsActive)

		// the teacher is notified
		require.NotEmpty(t, emailsvc.SentMessages)
		assert.Equal(t, pending.Email, emailsvc.SentMessages[len(emailsvc.SentMessages)-1].To[0].Address)

		// the list is now empty
		req, rec = newAuthRequest(http.MethodGet, "/v1/admin/teachers/pending", adminToken)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var teachers []user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &teachers))
		assert.Empty(t, teachers)
	})
}
