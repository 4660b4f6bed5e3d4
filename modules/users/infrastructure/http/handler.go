// Package http provides HTTP handlers for the users module.
// Handlers translate HTTP requests into commands/queries and format responses.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rai/user-management-api/modules/users/application/commands"
	"github.com/rai/user-management-api/modules/users/application/queries"
	"github.com/rai/user-management-api/modules/users/domain"
)

// Handler handles HTTP requests for the users module.
type Handler struct {
	createUser *commands.CreateUserHandler
	updateUser *commands.UpdateUserHandler
	deleteUser *commands.DeleteUserHandler
	getUser    *queries.GetUserHandler
	listUsers  *queries.ListUsersHandler
	logger     *slog.Logger
}

// RegisterRoutes registers the users module routes on the given router.
func RegisterRoutes(
	r chi.Router,
	createUser *commands.CreateUserHandler,
	updateUser *commands.UpdateUserHandler,
	deleteUser *commands.DeleteUserHandler,
	getUser *queries.GetUserHandler,
	listUsers *queries.ListUsersHandler,
	logger *slog.Logger,
) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		createUser: createUser,
		updateUser: updateUser,
		deleteUser: deleteUser,
		getUser:    getUser,
		listUsers:  listUsers,
		logger:     logger,
	}

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.handleListUsers)
		r.Post("/", h.handleCreateUser)
		r.Get("/{id}", h.handleGetUser)
		r.Put("/{id}", h.handleUpdateUser)
		r.Delete("/{id}", h.handleDeleteUser)
	})
}

// Response DTOs

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []domain.FieldViolation `json:"fields,omitempty"`
}

var errTrailingData = errors.New("unexpected data after JSON body")

const (
	msgValidationFailed = "validation failed"
	msgEmailConflict    = "user with this email already exists"
	msgInternal         = "internal server error"
)

// Handlers

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateUserInput
	if err := decodeBody(r, &in); err != nil {
		h.handleError(w, r, err)
		return
	}

	user, err := h.createUser.Handle(r.Context(), commands.CreateUserCommand{Input: in})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	query := queries.GetUserQuery{UserID: chi.URLParam(r, "id")}
	user, err := h.getUser.Handle(r.Context(), query)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := domain.ParseUserID(id); err != nil {
		h.handleError(w, r, err)
		return
	}

	var in domain.UpdateUserInput
	if err := decodeBody(r, &in); err != nil {
		h.handleError(w, r, err)
		return
	}

	user, err := h.updateUser.Handle(r.Context(), commands.UpdateUserCommand{UserID: id, Input: in})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteUserCommand{UserID: chi.URLParam(r, "id")}
	if err := h.deleteUser.Handle(r.Context(), cmd); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	users, err := h.listUsers.Handle(r.Context(), queries.ListUsersQuery{Params: params})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Helper functions

// parseListParams reads list filters from the query string. Unparsable
// values are reported per parameter.
func parseListParams(r *http.Request) (domain.ListParams, error) {
	q := r.URL.Query()
	params := domain.DefaultListParams()
	params.Q = q.Get("q")

	var violations []domain.FieldViolation
	parseInt := func(key string, dst **int) {
		raw := q.Get(key)
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			violations = append(violations, domain.FieldViolation{Field: key, Reason: "must be an integer"})
			return
		}
		*dst = &n
	}

	var page, limit *int
	parseInt("min_age", &params.MinAge)
	parseInt("max_age", &params.MaxAge)
	parseInt("page", &page)
	parseInt("limit", &limit)
	if page != nil {
		params.Page = *page
	}
	if limit != nil {
		params.Limit = *limit
	}

	if raw := q.Get("is_active"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			violations = append(violations, domain.FieldViolation{Field: "is_active", Reason: "must be a boolean"})
		} else {
			params.IsActive = &b
		}
	}

	if len(violations) > 0 {
		return params, &domain.ValidationError{Violations: violations}
	}
	return params, nil
}

// decodeBody decodes a single JSON payload, reporting malformed input or
// trailing data as a validation failure.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		if extra := dec.Decode(&json.RawMessage{}); !errors.Is(extra, io.EOF) {
			err = errTrailingData
		}
	}
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &domain.ValidationError{Violations: []domain.FieldViolation{
				{Field: typeErr.Field, Reason: "must be of type " + typeErr.Type.String()},
			}}
		}
		return &domain.ValidationError{Violations: []domain.FieldViolation{
			{Field: "body", Reason: "must be a valid JSON object"},
		}}
	}
	return nil
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  msgValidationFailed,
			Fields: validationErr.Violations,
		})
	case errors.Is(err, domain.ErrEmptyUpdate):
		writeError(w, http.StatusBadRequest, domain.ErrEmptyUpdate.Error())
	case errors.Is(err, domain.ErrInvalidUserID):
		writeError(w, http.StatusBadRequest, domain.ErrInvalidUserID.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, msgEmailConflict)
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
