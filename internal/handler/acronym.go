package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/acronyms-api/internal/service"
)

// AcronymHandler serves /api/acronyms and the acronym side of the
// acronym/category relationship.
//
// HANDLER RESPONSIBILITIES:
//   - parse the path id and the JSON body
//   - call exactly one service method
//   - turn the result into a status code via writeJSON / writeError
//
// Nothing here touches SQL or decides whether a value is acceptable beyond
// its JSON shape; that belongs to the service.
type AcronymHandler struct {
	acronyms *service.AcronymService
	logger   *slog.Logger
}

func NewAcronymHandler(acronyms *service.AcronymService, logger *slog.Logger) *AcronymHandler {
	return &AcronymHandler{acronyms: acronyms, logger: logger}
}

// acronymRequest is the body of POST and PUT.
//
// REQUEST BODY:
//
//	{"short": "LOL", "long": "Laugh Out Loud", "userID": 1}
//
// An "id" is accepted so a client can PUT back an acronym it just fetched,
// but it is never read: the id always comes from the path or the database.
type acronymRequest struct {
	ID     int64  `json:"id"`
	Short  string `json:"short" validate:"required"`
	Long   string `json:"long" validate:"required"`
	UserID *int64 `json:"userID"`
}

func (req acronymRequest) input() service.AcronymInput {
	return service.AcronymInput{
		Short:  req.Short,
		Long:   req.Long,
		UserID: req.UserID,
	}
}

// HandleList returns every acronym in id order.
//
// HTTP: GET /api/acronyms
func (h *AcronymHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	acronyms, err := h.acronyms.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acronyms)
}

// HandleCreate stores a new acronym and echoes it back with its id.
//
// HTTP: POST /api/acronyms -> 201 Created
func (h *AcronymHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req acronymRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid acronym body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	acronym, err := h.acronyms.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acronym)
}

// HandleGetByID returns one acronym.
//
// HTTP: GET /api/acronyms/{id}
func (h *AcronymHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	acronym, err := h.acronyms.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acronym)
}

// HandleUpdate replaces short, long and userID of an existing acronym.
// Omitting userID clears the owner.
//
// HTTP: PUT /api/acronyms/{id}
func (h *AcronymHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req acronymRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid acronym body",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	acronym, err := h.acronyms.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acronym)
}

// HandleDelete removes an acronym and its category links.
//
// HTTP: DELETE /api/acronyms/{id} -> 204 No Content
func (h *AcronymHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.acronyms.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch finds acronyms whose short or long form equals ?term= exactly.
//
// HTTP: GET /api/acronyms/search?term=LOL
func (h *AcronymHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	acronyms, err := h.acronyms.Search(r.Context(), r.URL.Query().Get("term"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acronyms)
}

// HandleFirst returns the acronym with the lowest id, or 404 when there are none.
//
// HTTP: GET /api/acronyms/first
func (h *AcronymHandler) HandleFirst(w http.ResponseWriter, r *http.Request) {
	acronym, err := h.acronyms.First(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acronym)
}

// HTTP: GET /api/acronyms/sorted
func (h *AcronymHandler) HandleSorted(w http.ResponseWriter, r *http.Request) {
	acronyms, err := h.acronyms.Sorted(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acronyms)
}

// HandleGetUser returns the acronym's owner.
//
// HTTP: GET /api/acronyms/{id}/user
func (h *AcronymHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.acronyms.Owner(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleAttachCategory links a category to the acronym. Repeating the call
// is harmless.
//
// HTTP: POST /api/acronyms/{id}/categories/{categoryID} -> 201 Created
func (h *AcronymHandler) HandleAttachCategory(w http.ResponseWriter, r *http.Request) {
	acronymID, categoryID, ok := h.pair(w, r)
	if !ok {
		return
	}

	if err := h.acronyms.AttachCategory(r.Context(), acronymID, categoryID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// HandleListCategories returns the categories the acronym belongs to.
//
// HTTP: GET /api/acronyms/{id}/categories
func (h *AcronymHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	categories, err := h.acronyms.Categories(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// HandleDetachCategory removes the link between the acronym and the category.
//
// HTTP: DELETE /api/acronyms/{id}/categories/{categoryID} -> 204 No Content
func (h *AcronymHandler) HandleDetachCategory(w http.ResponseWriter, r *http.Request) {
	acronymID, categoryID, ok := h.pair(w, r)
	if !ok {
		return
	}

	if err := h.acronyms.DetachCategory(r.Context(), acronymID, categoryID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pair parses both path ids of a relationship route. On failure the error
// response has already been written.
func (h *AcronymHandler) pair(w http.ResponseWriter, r *http.Request) (acronymID, categoryID int64, ok bool) {
	acronymID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return 0, 0, false
	}
	categoryID, err = pathID(r, "categoryID")
	if err != nil {
		writeError(w, err)
		return 0, 0, false
	}
	return acronymID, categoryID, true
}
