package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pantryhub/pantry-hub/internal/models"
	"github.com/pantryhub/pantry-hub/internal/repository"
	"github.com/pantryhub/pantry-hub/internal/services"
)

type ShoppingListHandler struct {
	listService *services.ShoppingListService
	listRepo    repository.ShoppingListRepository
	formatter   *services.Formatter
}

func NewShoppingListHandler(
	listService *services.ShoppingListService,
	listRepo repository.ShoppingListRepository,
	formatter *services.Formatter,
) *ShoppingListHandler {
	return &ShoppingListHandler{
		listService: listService,
		listRepo:    listRepo,
		formatter:   formatter,
	}
}

type generateRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Generate builds or rebuilds the shopping list for a date range.
func (handler *ShoppingListHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var request generateRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	if !validDate(request.StartDate) || !validDate(request.EndDate) {
		writeError(w, http.StatusBadRequest, "startDate and endDate must be YYYY-MM-DD dates")
		return
	}
	if request.EndDate < request.StartDate {
		writeError(w, http.StatusBadRequest, "endDate must not be before startDate")
		return
	}

	entry, err := handler.listService.Regenerate(r.Context(), request.StartDate, request.EndDate)
	if err != nil {
		slog.Error("regenerating shopping list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate shopping list")
		return
	}
	handler.writeEntry(w, http.StatusOK, entry)
}

// Precheck lists the date/slot pairs with no planned meal, so the UI
// can ask the user whether to generate anyway.
func (handler *ShoppingListHandler) Precheck(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if !validDate(start) || !validDate(end) {
		writeError(w, http.StatusBadRequest, "start and end must be YYYY-MM-DD dates")
		return
	}

	missing, err := handler.listService.MissingMeals(r.Context(), start, end)
	if err != nil {
		slog.Error("prechecking meal plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check meal plan")
		return
	}
	if missing == nil {
		missing = []services.MissingSlot{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"missing":  missing,
		"complete": len(missing) == 0,
	})
}

func (handler *ShoppingListHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := handler.listRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("finding shopping lists", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load shopping lists")
		return
	}

	summaries := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		summaries = append(summaries, map[string]interface{}{
			"id":        entry.ID,
			"startDate": entry.StartDate,
			"endDate":   entry.EndDate,
			"itemCount": len(entry.Items),
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (handler *ShoppingListHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := handler.listRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrShoppingListNotFound) {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return
	}
	if err != nil {
		slog.Error("finding shopping list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load shopping list")
		return
	}
	handler.writeEntry(w, http.StatusOK, entry)
}

func (handler *ShoppingListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := handler.listRepo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("deleting shopping list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete shopping list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type manualItemRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

func (handler *ShoppingListHandler) AddManualItem(w http.ResponseWriter, r *http.Request) {
	var request manualItemRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	item, err := handler.listService.AddManualItem(
		r.Context(), chi.URLParam(r, "id"),
		request.Name, request.Quantity, request.Unit, request.Category,
	)
	if errors.Is(err, repository.ErrShoppingListNotFound) {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type checkRequest struct {
	Checked bool `json:"checked"`
}

func (handler *ShoppingListHandler) SetChecked(w http.ResponseWriter, r *http.Request) {
	var request checkRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	entry, err := handler.listService.SetChecked(
		r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), request.Checked,
	)
	if !handler.writeItemError(w, err) {
		return
	}
	handler.writeEntry(w, http.StatusOK, entry)
}

func (handler *ShoppingListHandler) CancelItem(w http.ResponseWriter, r *http.Request) {
	entry, err := handler.listService.Cancel(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if !handler.writeItemError(w, err) {
		return
	}
	handler.writeEntry(w, http.StatusOK, entry)
}

func (handler *ShoppingListHandler) RestoreItem(w http.ResponseWriter, r *http.Request) {
	entry, err := handler.listService.Restore(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if !handler.writeItemError(w, err) {
		return
	}
	handler.writeEntry(w, http.StatusOK, entry)
}

type remainingRequest struct {
	Remaining float64 `json:"remaining"`
}

// ApplyRemaining subtracts what the user already has at home. The
// response carries autoCanceled so the UI can tell the user when the
// item was canceled because nothing is left to buy.
func (handler *ShoppingListHandler) ApplyRemaining(w http.ResponseWriter, r *http.Request) {
	var request remainingRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	if request.Remaining < 0 {
		writeError(w, http.StatusBadRequest, "remaining must not be negative")
		return
	}

	entry, autoCanceled, err := handler.listService.ApplyRemainingAtHome(
		r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), request.Remaining,
	)
	if !handler.writeItemError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"autoCanceled": autoCanceled,
		"groups":       handler.formatter.FormatEntry(entry),
	})
}

// writeItemError reports whether the caller may proceed.
func (handler *ShoppingListHandler) writeItemError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, repository.ErrShoppingListNotFound):
		writeError(w, http.StatusNotFound, "shopping list not found")
	case errors.Is(err, services.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item not found")
	default:
		slog.Error("updating shopping list item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
	}
	return false
}

func (handler *ShoppingListHandler) writeEntry(w http.ResponseWriter, status int, entry models.ShoppingListEntry) {
	writeJSON(w, status, map[string]interface{}{
		"id":        entry.ID,
		"startDate": entry.StartDate,
		"endDate":   entry.EndDate,
		"items":     entry.Items,
		"groups":    handler.formatter.FormatEntry(entry),
	})
}
