package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/acronyms-api/internal/handler"
	"github.com/sakif/acronyms-api/internal/model"
	"github.com/sakif/acronyms-api/internal/repository/sqlite"
	"github.com/sakif/acronyms-api/internal/service"
)

// testEnv wires the real services over an in-memory database. Handlers are
// thin enough that faking the services would test nothing.
type testEnv struct {
	db         *sqlite.DB
	acronyms   *handler.AcronymHandler
	users      *handler.UserHandler
	categories *handler.CategoryHandler
	svc        struct {
		acronyms   *service.AcronymService
		users      *service.UserService
		categories *service.CategoryService
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{db: db}
	env.svc.acronyms = service.NewAcronymService(db.Acronyms(), db.Categories(), logger)
	env.svc.users = service.NewUserService(db.Users(), db.Acronyms(), logger)
	env.svc.categories = service.NewCategoryService(db.Categories(), logger)

	env.acronyms = handler.NewAcronymHandler(env.svc.acronyms, logger)
	env.users = handler.NewUserHandler(env.svc.users, logger)
	env.categories = handler.NewCategoryHandler(env.svc.categories, logger)
	return env
}

func (e *testEnv) createAcronym(t *testing.T, short, long string, userID *int64) *model.Acronym {
	t.Helper()
	a, err := e.svc.acronyms.Create(context.Background(), service.AcronymInput{Short: short, Long: long, UserID: userID})
	require.NoError(t, err)
	return a
}

func (e *testEnv) createUser(t *testing.T, name, username string) *model.User {
	t.Helper()
	u, err := e.svc.users.Create(context.Background(), name, username)
	require.NoError(t, err)
	return u
}

func (e *testEnv) createCategory(t *testing.T, name string) *model.Category {
	t.Helper()
	c, err := e.svc.categories.Create(context.Background(), name)
	require.NoError(t, err)
	return c
}

// newRequest builds a request with chi URL params set, the way the router
// would when it matches a pattern like /api/acronyms/{id}.
func newRequest(method, target, body string, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func idParam(v string) map[string]string {
	return map[string]string{"id": v}
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}
