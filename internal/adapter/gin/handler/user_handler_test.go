package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	usecase "user-record-service/internal/usecase/user"
	pkgerrors "user-record-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockUserUsecase is a mock implementation of user.UserUsecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, req usecase.UpdateUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) DeleteUser(ctx context.Context, req usecase.DeleteUserRequest) (*usecase.DeleteUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeleteUserResponse), args.Error(1)
}

func (m *MockUserUsecase) ListUsers(ctx context.Context) (*usecase.ListUsersResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListUsersResponse), args.Error(1)
}

func setupTest(t *testing.T) (*gin.Engine, *MockUserUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	handler := NewUserHandler(mockUsecase, zaptest.NewLogger(t))

	r := gin.New()
	r.GET("/api/users", handler.ListUsers)
	r.POST("/api/users", handler.CreateUser)
	r.GET("/api/users/:id", handler.GetUser)
	r.PUT("/api/users/:id", handler.UpdateUser)
	r.DELETE("/api/users/:id", handler.DeleteUser)
	return r, mockUsecase
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	assert.Equal(t, status, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, msg, resp.Error)
}

func TestListUsers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything).Return(&usecase.ListUsersResponse{
			Users: []usecase.User{
				{ID: 1, Name: "Ana", Email: "ana@x.com", Password: "p1"},
				{ID: 2, Name: "Budi", Email: "budi@x.com", Password: "p2"},
			},
		}, nil)

		w := doJSON(r, http.MethodGet, "/api/users", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[
			{"id":1,"name":"Ana","email":"ana@x.com","password":"p1"},
			{"id":2,"name":"Budi","email":"budi@x.com","password":"p2"}
		]`, w.Body.String())
	})

	t.Run("Empty list is an array", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("ListUsers", mock.Anything).Return(&usecase.ListUsersResponse{}, nil)

		w := doJSON(r, http.MethodGet, "/api/users", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Store failure", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("ListUsers", mock.Anything).Return(nil, pkgerrors.NewInternalError("failed to list users", errors.New("dial tcp: refused")))

		w := doJSON(r, http.MethodGet, "/api/users", "")

		assertError(t, w, http.StatusInternalServerError, MsgServerError)
		assert.NotContains(t, w.Body.String(), "dial tcp")
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{Name: "Ana", Email: "ana@x.com", Password: "p1"}).
			Return(&usecase.User{ID: 1, Name: "Ana", Email: "ana@x.com", Password: "p1"}, nil)

		w := doJSON(r, http.MethodPost, "/api/users", `{"name":"Ana","email":"ana@x.com","password":"p1"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, UserResponse{ID: 1, Name: "Ana", Email: "ana@x.com", Password: "p1"}, resp)
		mockUsecase.AssertExpectations(t)
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := doJSON(r, http.MethodPost, "/api/users", "invalid json")

		assertError(t, w, http.StatusBadRequest, MsgInvalidBody)
		mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Wrong field type", func(t *testing.T) {
		r, _ := setupTest(t)

		w := doJSON(r, http.MethodPost, "/api/users", `{"name":1,"email":"a","password":"b"}`)

		assertError(t, w, http.StatusBadRequest, MsgInvalidBody)
	})

	t.Run("Validation Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{Name: "Ana", Email: "ana@x.com"}).
			Return(nil, pkgerrors.NewValidationError([]string{"password"}, usecase.MsgAllFieldsRequired))

		w := doJSON(r, http.MethodPost, "/api/users", `{"name":"Ana","email":"ana@x.com"}`)

		assertError(t, w, http.StatusBadRequest, MsgAllFieldsRequired)
	})

	t.Run("Empty body is missing fields", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{}).
			Return(nil, pkgerrors.NewValidationError([]string{"name", "email", "password"}, usecase.MsgAllFieldsRequired))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(""))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assertError(t, w, http.StatusBadRequest, MsgAllFieldsRequired)
	})

	t.Run("Conflict", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewAlreadyExistsError("user", "email already registered"))

		w := doJSON(r, http.MethodPost, "/api/users", `{"name":"Ana","email":"ana@x.com","password":"p1"}`)

		assertError(t, w, http.StatusConflict, MsgEmailRegistered)
	})

	t.Run("Usecase Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).Return(nil, errors.New("internal error"))

		w := doJSON(r, http.MethodPost, "/api/users", `{"name":"Ana","email":"ana@x.com","password":"p1"}`)

		assertError(t, w, http.StatusInternalServerError, MsgServerError)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 1}).
			Return(&usecase.User{ID: 1, Name: "Ana", Email: "ana@x.com", Password: "p1"}, nil)

		w := doJSON(r, http.MethodGet, "/api/users/1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":1,"name":"Ana","email":"ana@x.com","password":"p1"}`, w.Body.String())
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 1}).
			Return(nil, pkgerrors.NewNotFoundError("user", "record not found"))

		w := doJSON(r, http.MethodGet, "/api/users/1", "")

		assertError(t, w, http.StatusNotFound, MsgRecordNotFound)
	})

	t.Run("Non-numeric ID looks up an id that never matches", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: unmatchedID}).
			Return(nil, pkgerrors.NewNotFoundError("user", "record not found"))

		w := doJSON(r, http.MethodGet, "/api/users/abc", "")

		assertError(t, w, http.StatusNotFound, MsgRecordNotFound)
		mockUsecase.AssertExpectations(t)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("UpdateUser", mock.Anything, usecase.UpdateUserRequest{ID: 1, Name: "Ana B", Email: "ana@x.com", Password: "p2"}).
			Return(&usecase.User{ID: 1, Name: "Ana B", Email: "ana@x.com", Password: "p2"}, nil)

		w := doJSON(r, http.MethodPut, "/api/users/1", `{"name":"Ana B","email":"ana@x.com","password":"p2"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":1,"name":"Ana B","email":"ana@x.com","password":"p2"}`, w.Body.String())
	})

	t.Run("Outcomes", func(t *testing.T) {
		tests := []struct {
			name   string
			err    error
			status int
			msg    string
		}{
			{name: "validation", err: pkgerrors.NewValidationError([]string{"email"}, usecase.MsgAllFieldsRequired), status: http.StatusBadRequest, msg: MsgAllFieldsRequired},
			{name: "not found", err: pkgerrors.NewNotFoundError("user", "record not found"), status: http.StatusNotFound, msg: MsgRecordNotFound},
			{name: "conflict", err: pkgerrors.NewAlreadyExistsError("user", "email already registered"), status: http.StatusConflict, msg: MsgEmailRegistered},
			{name: "internal", err: pkgerrors.NewInternalError("failed to update user", errors.New("boom")), status: http.StatusInternalServerError, msg: MsgServerError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				r, mockUsecase := setupTest(t)
				mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).Return(nil, tt.err)

				w := doJSON(r, http.MethodPut, "/api/users/1", `{"name":"n","email":"e","password":"p"}`)

				assertError(t, w, tt.status, tt.msg)
			})
		}
	})

	t.Run("Non-numeric ID", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("UpdateUser", mock.Anything, mock.MatchedBy(func(req usecase.UpdateUserRequest) bool {
			return req.ID == unmatchedID
		})).Return(nil, pkgerrors.NewNotFoundError("user", "record not found"))

		w := doJSON(r, http.MethodPut, "/api/users/abc", `{"name":"n","email":"e","password":"p"}`)

		assertError(t, w, http.StatusNotFound, MsgRecordNotFound)
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := doJSON(r, http.MethodPut, "/api/users/1", "{")

		assertError(t, w, http.StatusBadRequest, MsgInvalidBody)
		mockUsecase.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 1}).Return(&usecase.DeleteUserResponse{ID: 1}, nil)

		w := doJSON(r, http.MethodDelete, "/api/users/1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"user deleted"}`, w.Body.String())
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 1}).
			Return(nil, pkgerrors.NewNotFoundError("user", "record not found"))

		w := doJSON(r, http.MethodDelete, "/api/users/1", "")

		assertError(t, w, http.StatusNotFound, MsgRecordNotFound)
	})

	t.Run("Store failure", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("DeleteUser", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		w := doJSON(r, http.MethodDelete, "/api/users/1", "")

		assertError(t, w, http.StatusInternalServerError, MsgServerError)
	})
}
