package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/restroadmin/models"
	"github.com/ray-remotestate/restroadmin/utils"
)

type OrderService interface {
	CreateOrder(ctx context.Context, in models.CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.OrderDetail, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, patch models.OrderPatch) (*models.Order, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type StatsService interface {
	Summarize(ctx context.Context, window models.StatsWindow) (*models.OrderStats, error)
}

// Handler serves the admin API. Orders go through the services; restaurants,
// menu items and users are plain CRUD on DB.
type Handler struct {
	Orders OrderService
	Stats  StatsService
	DB     *sql.DB

	// RejectUnknownFields makes request bodies with unknown keys fail with 400.
	RejectUnknownFields bool
}

const (
	maxBodyBytes  = 1 << 20
	healthTimeout = 2 * time.Second
)

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if h.RejectUnknownFields {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		return badBody(err)
	}
	if dec.More() {
		return models.NewError(models.KindValidation, "request body must contain a single JSON object")
	}
	return nil
}

func badBody(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)
	msg := "invalid request body"
	switch {
	case errors.Is(err, io.EOF):
		msg = "request body is empty"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		msg = "request body is not valid JSON"
	case errors.As(err, &typeErr) && typeErr.Field != "":
		msg = fmt.Sprintf("invalid value for %s", typeErr.Field)
	case errors.As(err, &maxErr):
		msg = "request body is too large"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		msg = "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	}
	return &models.Error{Kind: models.KindValidation, Message: msg, Err: err}
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &models.Error{Kind: models.KindValidation, Message: fmt.Sprintf("invalid %s %q", name, raw), Err: err}
	}
	return id, nil
}

func queryID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &models.Error{Kind: models.KindValidation, Message: fmt.Sprintf("invalid %s %q", name, raw), Err: err}
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.Error{Kind: models.KindValidation, Message: fmt.Sprintf("%s must be an integer", name), Err: err}
	}
	return n, nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		logrus.WithError(err).Warn("health check: database unreachable")
		utils.RespondErrorMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"alive": true})
}
