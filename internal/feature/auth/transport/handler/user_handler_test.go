package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/usecase"
)

// mockUserAdminUsecase is a map-backed implementation of the UserAdminUsecase interface.
type mockUserAdminUsecase struct {
	users map[uint]*entity.User
}

func (m *mockUserAdminUsecase) ListUsers(_ context.Context) ([]entity.User, error) {
	out := []entity.User{}
	for id := uint(1); id <= uint(len(m.users)+10); id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserAdminUsecase) GetUser(_ context.Context, id uint) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserAdminUsecase) UpdateUser(_ context.Context, id uint, username, gender, phone *string) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	if username != nil {
		u.Username = *username
	}
	if gender != nil {
		u.Gender = entity.Gender(*gender)
	}
	if phone != nil {
		u.Phone = *phone
	}
	return u, nil
}

func (m *mockUserAdminUsecase) DeleteUser(_ context.Context, id uint) error {
	if _, ok := m.users[id]; !ok {
		return usecase.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func newUserRouter(users *mockUserAdminUsecase, sessions *mockSessionManager) *gin.Engine {
	h := NewUserHandler(users, sessions)
	r := gin.New()
	r.GET("/api/usuarios", h.List)
	r.GET("/api/usuarios/:id", h.Get)
	r.PUT("/api/usuarios/:id", h.Update)
	r.DELETE("/api/usuarios/:id", h.Delete)
	return r
}

func seededUsers() *mockUserAdminUsecase {
	return &mockUserAdminUsecase{users: map[uint]*entity.User{
		1: {ID: 1, Username: "mario", Email: "mario@example.com", Password: "secret-hash", Gender: entity.GenderMale},
		2: {ID: 2, Username: "peach", Email: "peach@example.com", Password: "secret-hash", Gender: entity.GenderFemale},
	}}
}

func request(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserHandler_List(t *testing.T) {
	w := request(newUserRouter(seededUsers(), &mockSessionManager{}), http.MethodGet, "/api/usuarios", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "mario", got[0]["username"])
	assert.NotContains(t, w.Body.String(), "secret-hash")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestUserHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"found", "/api/usuarios/2", http.StatusOK},
		{"not found", "/api/usuarios/99", http.StatusNotFound},
		{"non numeric id", "/api/usuarios/abc", http.StatusBadRequest},
		{"zero id", "/api/usuarios/0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(newUserRouter(seededUsers(), &mockSessionManager{}), http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestUserHandler_Update(t *testing.T) {
	users := seededUsers()
	r := newUserRouter(users, &mockSessionManager{})

	w := request(r, http.MethodPut, "/api/usuarios/1", gin.H{"telefono": "555-1234"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Usuario actualizado."}`, w.Body.String())
	assert.Equal(t, "555-1234", users.users[1].Phone)
	assert.Equal(t, "mario", users.users[1].Username)

	w = request(r, http.MethodPut, "/api/usuarios/42", gin.H{"telefono": "1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Usuario no encontrado.","message":"Usuario no encontrado."}`, w.Body.String())
}

func TestUserHandler_Delete(t *testing.T) {
	users := seededUsers()
	sessions := &mockSessionManager{}
	r := newUserRouter(users, sessions)

	w := request(r, http.MethodDelete, "/api/usuarios/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Usuario eliminado."}`, w.Body.String())
	assert.NotContains(t, users.users, uint(2))
	assert.Equal(t, []uint{2}, sessions.revoked, "sessions of the deleted user are destroyed")

	w = request(r, http.MethodDelete, "/api/usuarios/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []uint{2}, sessions.revoked)
}
