package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/acronyms-api/internal/model"
)

func TestUserHandler_HandleCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"name":"Ada Lovelace","username":"ada"}`, http.StatusCreated},
		{"missing username", `{"name":"Ada Lovelace"}`, http.StatusBadRequest},
		{"blank name", `{"name":"  ","username":"ada"}`, http.StatusBadRequest},
		{"unknown field", `{"name":"Ada","username":"ada","admin":true}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rr := httptest.NewRecorder()

			env.users.HandleCreate(rr, newRequest(http.MethodPost, "/api/users", tt.body, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestUserHandler_GetAndList(t *testing.T) {
	env := newTestEnv(t)
	ada := env.createUser(t, "Ada Lovelace", "ada")
	grace := env.createUser(t, "Grace Hopper", "grace")

	rr := httptest.NewRecorder()
	env.users.HandleList(rr, newRequest(http.MethodGet, "/api/users", "", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []model.User{*ada, *grace}, decode[[]model.User](t, rr))

	rr = httptest.NewRecorder()
	env.users.HandleGetByID(rr, newRequest(http.MethodGet, "/api/users/2", "", idParam("2")))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, *grace, decode[model.User](t, rr))

	rr = httptest.NewRecorder()
	env.users.HandleGetByID(rr, newRequest(http.MethodGet, "/api/users/3", "", idParam("3")))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUserHandler_HandleListAcronyms(t *testing.T) {
	env := newTestEnv(t)
	ada := env.createUser(t, "Ada Lovelace", "ada")
	env.createAcronym(t, "LOL", "Laugh Out Loud", &ada.ID)
	env.createAcronym(t, "AFK", "Away From Keyboard", nil)

	rr := httptest.NewRecorder()
	env.users.HandleListAcronyms(rr, newRequest(http.MethodGet, "/api/users/1/acronyms", "", idParam("1")))
	require.Equal(t, http.StatusOK, rr.Code)

	got := decode[[]model.Acronym](t, rr)
	require.Len(t, got, 1)
	assert.Equal(t, "LOL", got[0].Short)

	rr = httptest.NewRecorder()
	env.users.HandleListAcronyms(rr, newRequest(http.MethodGet, "/api/users/9/acronyms", "", idParam("9")))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
