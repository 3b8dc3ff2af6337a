package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ray-remotestate/restroadmin/models"
	"github.com/ray-remotestate/restroadmin/utils"
)

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := queryID(r, "restaurant_id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}

	orders, err := h.Orders.ListOrders(r.Context(), models.OrderFilter{
		Status:       models.OrderStatus(r.URL.Query().Get("status")),
		RestaurantID: restaurantID,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in models.CreateOrderInput
	if err := h.decode(w, r, &in); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	order, err := h.Orders.CreateOrder(r.Context(), in)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, order)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	var patch models.OrderPatch
	if err := h.decode(w, r, &patch); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	order, err := h.Orders.UpdateOrder(r.Context(), id, patch)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

func (h *Handler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Status models.OrderStatus `json:"status"`
	}

	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	// an empty body is a request without a status
	var req request
	if err := h.decode(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, r, err)
		return
	}
	order, err := h.Orders.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	if err := h.Orders.DeleteOrder(r.Context(), id); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

func (h *Handler) OrderStats(w http.ResponseWriter, r *http.Request) {
	from, err := queryTime(r, "from")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	stats, err := h.Stats.Summarize(r.Context(), models.StatsWindow{From: from, To: to})
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, stats)
}

// queryTime accepts RFC 3339 timestamps or plain dates (midnight UTC).
func queryTime(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, models.NewError(models.KindValidation,
		fmt.Sprintf("%s must be an RFC 3339 timestamp or a YYYY-MM-DD date", name))
}
