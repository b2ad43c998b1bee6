package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/medstore/api/internal/domain"
	"github.com/medstore/api/internal/service/auth"
	"github.com/medstore/api/internal/service/inventory"
)

const healthCheckTimeout = 2 * time.Second

// Router wires HTTP endpoints to services.
type Router struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	auth      auth.Service
	inventory inventory.Service
	dbHealth  func(context.Context) error
}

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, inventorySvc inventory.Service, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:       http.NewServeMux(),
		logger:    logger,
		auth:      authSvc,
		inventory: inventorySvc,
		dbHealth:  dbHealth,
	}
	r.register()
	return r
}

// ServeHTTP delegates to the underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.audit(r.handleHealthz))
	r.mux.HandleFunc("/signup", r.audit(r.handleSignup))
	r.mux.HandleFunc("/login", r.audit(r.handleLogin))
	r.mux.HandleFunc("/add-medicine", r.audit(r.requireAuth(r.handleAddMedicine)))
	r.mux.HandleFunc("/edit-medicine/", r.audit(r.requireAuth(r.handleEditMedicine)))
	r.mux.HandleFunc("/delete-medicine/", r.audit(r.requireAuth(r.handleDeleteMedicine)))
	r.mux.HandleFunc("/list-medicines", r.audit(r.requireAuth(r.handleListMedicines)))
	r.mux.HandleFunc("/search-medicines", r.audit(r.requireAuth(r.handleSearchMedicines)))
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type medicineRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

func (r *Router) handleSignup(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload credentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	user, err := r.auth.Signup(req.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			writeError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Signup successful",
		"user":    marshalUser(user),
	})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload credentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, err := r.auth.Login(req.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
	})
}

func (r *Router) handleAddMedicine(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload medicineRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	medicine, err := r.inventory.Create(req.Context(), payload.Name, payload.Price, payload.Quantity)
	if err != nil {
		r.medicineError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Medicine added successfully",
		"medicine": marshalMedicine(medicine),
	})
}

func (r *Router) handleEditMedicine(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPut {
		r.methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(req.URL.Path, "/edit-medicine/")
	if id == "" || strings.Contains(id, "/") {
		r.notFound(w)
		return
	}
	var payload medicineRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	medicine, err := r.inventory.Update(req.Context(), id, payload.Name, payload.Price, payload.Quantity)
	if err != nil {
		r.medicineError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Medicine updated successfully",
		"medicine": marshalMedicine(medicine),
	})
}

func (r *Router) handleDeleteMedicine(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodDelete {
		r.methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(req.URL.Path, "/delete-medicine/")
	if id == "" || strings.Contains(id, "/") {
		r.notFound(w)
		return
	}
	medicine, err := r.inventory.Delete(req.Context(), id)
	if err != nil {
		r.medicineError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Medicine deleted successfully",
		"medicine": marshalMedicine(medicine),
	})
}

func (r *Router) handleListMedicines(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	medicines, err := r.inventory.List(req.Context())
	if err != nil {
		r.internalError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"medicines": marshalMedicines(medicines),
	})
}

func (r *Router) handleSearchMedicines(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	fragment := req.URL.Query().Get("medicineName")
	medicines, err := r.inventory.Search(req.Context(), fragment)
	if err != nil {
		r.internalError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Success",
		"data":   marshalMedicines(medicines),
	})
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{"status": "down", "error": err.Error()}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// medicineError maps inventory failures onto the documented status codes.
func (r *Router) medicineError(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, inventory.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Name, price, and quantity are required")
	case errors.Is(err, inventory.ErrMedicineNotFound):
		writeError(w, http.StatusNotFound, "Medicine not found")
	default:
		r.internalError(w, req, err)
	}
}

// internalError logs the cause and hides it from the caller.
func (r *Router) internalError(w http.ResponseWriter, req *http.Request, err error) {
	r.logger.Error("request failed", "error", err, "method", req.Method, "path", req.URL.Path)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}

func marshalUser(u *domain.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"username":  u.Username,
		"createdAt": u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func marshalMedicine(m *domain.Medicine) map[string]any {
	return map[string]any{
		"id":       m.ID,
		"name":     m.Name,
		"price":    m.Price,
		"quantity": m.Quantity,
	}
}

func marshalMedicines(medicines []domain.Medicine) []map[string]any {
	payload := make([]map[string]any, 0, len(medicines))
	for i := range medicines {
		payload = append(payload, marshalMedicine(&medicines[i]))
	}
	return payload
}
