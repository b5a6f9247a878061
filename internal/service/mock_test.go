package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/sakif/acronyms-api/internal/apperror"
	"github.com/sakif/acronyms-api/internal/model"
	"github.com/sakif/acronyms-api/internal/repository"
)

// =========================================================================
// IN-MEMORY REPOSITORIES
// =========================================================================
//
// mockStore holds the three tables; the three repo types below are thin views
// onto it so the services see separate interfaces but one consistent dataset,
// just as they do with SQLite.
//
// errStore, when set, makes every call fail with it. That is how the tests
// simulate a broken database.

type pair struct{ acronymID, categoryID int64 }

type mockStore struct {
	acronyms   map[int64]model.Acronym
	users      map[int64]model.User
	categories map[int64]model.Category
	links      map[pair]bool
	nextID     int64
	errStore   error
}

func newMockStore() *mockStore {
	return &mockStore{
		acronyms:   map[int64]model.Acronym{},
		users:      map[int64]model.User{},
		categories: map[int64]model.Category{},
		links:      map[pair]bool{},
	}
}

func (m *mockStore) id() int64 {
	m.nextID++
	return m.nextID
}

func sortedAcronyms(in map[int64]model.Acronym, keep func(model.Acronym) bool) []model.Acronym {
	out := []model.Acronym{}
	for _, a := range in {
		if keep == nil || keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type mockAcronymRepo struct{ *mockStore }

var _ repository.AcronymRepository = mockAcronymRepo{}

func (m mockAcronymRepo) Create(_ context.Context, a *model.Acronym) error {
	if m.errStore != nil {
		return m.errStore
	}
	a.ID = m.id()
	m.acronyms[a.ID] = *a
	return nil
}

func (m mockAcronymRepo) GetByID(_ context.Context, id int64) (*model.Acronym, error) {
	if m.errStore != nil {
		return nil, m.errStore
	}
	a, ok := m.acronyms[id]
	if !ok {
		return nil, apperror.NotFound("acronym", id)
	}
	return &a, nil
}

func (m mockAcronymRepo) List(_ context.Context, opts repository.ListOptions) ([]model.Acronym, error) {
	if m.errStore != nil {
		return nil, m.errStore
	}
	out := sortedAcronyms(m.acronyms, nil)
	if opts.Sort == repository.SortByShort {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Short < out[j].Short })
	}
	return out, nil
}

func (m mockAcronymRepo) Update(_ context.Context, a *model.Acronym) error {
	if m.errStore != nil {
		return m.errStore
	}
	if _, ok := m.acronyms[a.ID]; !ok {
		return apperror.NotFound("acronym", a.ID)
	}
	m.acronyms[a.ID] = *a
	return nil
}

func (m mockAcronymRepo) Delete(_ context.Context, id int64) error {
	if m.errStore != nil {
		return m.errStore
	}
	if _, ok := m.acronyms[id]; !ok {
		return apperror.NotFound("acronym", id)
	}
	delete(m.acronyms, id)
	return nil
}

func (m mockAcronymRepo) Search(_ context.Context, term string) ([]model.Acronym, error) {
	if m.errStore != nil {
		return nil, m.errStore
	}
	return sortedAcronyms(m.acronyms, func(a model.Acronym) bool {
		return a.Short == term || a.Long == term
	}), nil
}

func (m mockAcronymRepo) First(_ context.Context) (*model.Acronym, error) {
	if m.errStore != nil {
		return nil, m.errStore
	}
	all := sortedAcronyms(m.acronyms, nil)
	if len(all) == 0 {
		return nil, apperror.Missing("no acronyms exist")
	}
	return &all[0], nil
}

func (m mockAcronymRepo) Owner(_ context.Context, acronymID int64) (*model.User, error) {
	if m.errStore != nil {
		return nil, m.errStore
	}
	a, ok := m.acronyms[acronymID]
	if !ok {
		return nil, apperror.NotFound("acronym", acronymID)
	}
	if a.UserID == nil {
		return nil, apperror.Missing("acronym has no owner")
	}
	u, ok := m.users[*a.UserID]
	if !ok {
		return nil, apperror.NotFound("user", *a.UserID)
	}
	return &u, nil
}

func (m mockAcronymRepo) ListByUser(_ context.Context, userID int64) ([]model.Acronym, error) {
	if m.errStore != nil {
		return nil, m.errStore
	}
	return sortedAcronyms(m.acronyms, func(a model.Acronym) bool {
		return a.UserID != nil && *a.UserID == userID
	}), nil
}

type mockUserRepo struct{ *mockStore }

var _ repository.UserRepository = mockUserRepo{}

func (m mockUserRepo) Create(_ context.Context, u *model.User) error {
	if m.errStore != nil {
		return m.errStore
	}
	u.ID = m.id()
	m.users[u.ID] = *u
	return nil
}

func (m mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if m.errStore != nil {
		return nil, m.errStore
	}
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (m mockUserRepo) List(_ context.Context) ([]model.User, error) {
	if m.errStore != nil {
		return nil, m.errStore
	}
	out := []model.User{}
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type mockCategoryRepo struct{ *mockStore }

var _ repository.CategoryRepository = mockCategoryRepo{}

func (m mockCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if m.errStore != nil {
		return m.errStore
	}
	c.ID = m.id()
	m.categories[c.ID] = *c
	return nil
}

func (m mockCategoryRepo) GetByID(_ context.Context, id int64) (*model.Category, error) {
	if m.errStore != nil {
		return nil, m.errStore
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, apperror.NotFound("category", id)
	}
	return &c, nil
}

func (m mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	if m.errStore != nil {
		return nil, m.errStore
	}
	out := []model.Category{}
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m mockCategoryRepo) Attach(_ context.Context, acronymID, categoryID int64) error {
	if m.errStore != nil {
		return m.errStore
	}
	m.links[pair{acronymID, categoryID}] = true
	return nil
}

func (m mockCategoryRepo) Detach(_ context.Context, acronymID, categoryID int64) error {
	if m.errStore != nil {
		return m.errStore
	}
	delete(m.links, pair{acronymID, categoryID})
	return nil
}

func (m mockCategoryRepo) ListForAcronym(_ context.Context, acronymID int64) ([]model.Category, error) {
	if m.errStore != nil {
		return nil, m.errStore
	}
	out := []model.Category{}
	for p := range m.links {
		if p.acronymID == acronymID {
			out = append(out, m.categories[p.categoryID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m mockCategoryRepo) ListAcronyms(_ context.Context, categoryID int64) ([]model.Acronym, error) {
	if m.errStore != nil {
		return nil, m.errStore
	}
	return sortedAcronyms(m.acronyms, func(a model.Acronym) bool {
		return m.links[pair{a.ID, categoryID}]
	}), nil
}

// =========================================================================
// TEST HELPERS
// =========================================================================

var errDatabaseDown = errors.New("database is down")

type testServices struct {
	store      *mockStore
	acronyms   *AcronymService
	users      *UserService
	categories *CategoryService
}

func newTestServices(t *testing.T) testServices {
	t.Helper()
	store := newMockStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return testServices{
		store:      store,
		acronyms:   NewAcronymService(mockAcronymRepo{store}, mockCategoryRepo{store}, logger),
		users:      NewUserService(mockUserRepo{store}, mockAcronymRepo{store}, logger),
		categories: NewCategoryService(mockCategoryRepo{store}, logger),
	}
}
