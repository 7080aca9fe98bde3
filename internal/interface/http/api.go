package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domappointment "example.com/storefront/internal/domain/appointment"
	domcategory "example.com/storefront/internal/domain/category"
	"example.com/storefront/internal/domain/listing"
	domproduct "example.com/storefront/internal/domain/product"
	domstore "example.com/storefront/internal/domain/store"
	appointmentuc "example.com/storefront/internal/usecase/appointment"
	authuc "example.com/storefront/internal/usecase/auth"
	categoryuc "example.com/storefront/internal/usecase/category"
	productuc "example.com/storefront/internal/usecase/product"
	storeuc "example.com/storefront/internal/usecase/store"
	touruc "example.com/storefront/internal/usecase/tour"
)

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type API struct {
	productSvc     *productuc.Service
	categorySvc    *categoryuc.Service
	storeSvc       *storeuc.Service
	appointmentSvc *appointmentuc.Service
	tourSvc        *touruc.Service
	authSvc        *authuc.Service
	db             Pinger
	logger         *zap.Logger
	validator      *validator.Validate
	searchLimiter  *clientLimiter
	productPage    int
	tourPage       int
}

type Dependencies struct {
	ProductService     *productuc.Service
	CategoryService    *categoryuc.Service
	StoreService       *storeuc.Service
	AppointmentService *appointmentuc.Service
	TourService        *touruc.Service
	AuthService        *authuc.Service
	DB                 Pinger
	Logger             *zap.Logger

	// SearchRate is the sustained per-client request rate allowed on
	// /api/search; zero disables limiting.
	SearchRate  float64
	SearchBurst int

	ProductPageSize int
	TourPageSize    int
}

func NewAPI(deps Dependencies) *API {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"query", "json"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	productPage := deps.ProductPageSize
	if productPage < 1 {
		productPage = domproduct.DefaultPageSize
	}
	tourPage := deps.TourPageSize
	if tourPage < 1 {
		tourPage = 8
	}

	return &API{
		productSvc:     deps.ProductService,
		categorySvc:    deps.CategoryService,
		storeSvc:       deps.StoreService,
		appointmentSvc: deps.AppointmentService,
		tourSvc:        deps.TourService,
		authSvc:        deps.AuthService,
		db:             deps.DB,
		logger:         logger,
		validator:      validate,
		searchLimiter:  newClientLimiter(deps.SearchRate, deps.SearchBurst, 10*time.Minute),
		productPage:    productPage,
		tourPage:       tourPage,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/db", a.handleHealthDB)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", a.handleListProducts)
		r.With(a.rateLimit(a.searchLimiter)).Get("/search", a.handleSearch)
		r.Get("/categories", a.handleListCategories)
		r.Get("/stores", a.handleListStores)
		r.Get("/tours", a.handleListTours)
		r.Post("/appointments", a.handleCreateAppointment)

		r.Group(func(sr chi.Router) {
			sr.Use(a.requireRoles(authuc.RoleStaff))
			sr.Get("/appointments", a.handleListAppointments)
		})
	})

	return r
}

func (a *API) handleHealthDB(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		respondMessage(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	if err := a.db.Ping(r.Context()); err != nil {
		a.logger.Warn("database ping failed", zap.Error(err))
		respondMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

// validateQuery runs the struct validator over parsed query options and
// reports the first failure as an invalid filter value.
func (a *API) validateQuery(q any) error {
	err := a.validator.Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return listing.InvalidValue(fe.Field(), describeRule(fe))
	}
	return err
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondMessage(w, status, err.Error())
}

// handleDomainError maps known errors to their status. Anything else is
// logged and hidden behind a generic message.
func (a *API) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, listing.ErrInvalidFilterValue),
		errors.Is(err, domproduct.ErrQueryTooShort),
		errors.Is(err, domappointment.ErrMissingDetails),
		errors.Is(err, domappointment.ErrInvalidDate),
		errors.Is(err, domappointment.ErrInvalidTime),
		errors.Is(err, domappointment.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, domcategory.ErrCategoryNotFound),
		errors.Is(err, domstore.ErrStoreNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domappointment.ErrSlotConflict):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, authuc.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, authuc.ErrForbidden):
		respondError(w, http.StatusForbidden, err)
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
		return
	default:
		a.logger.Error("request failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
