package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restroadmin/database/dbhelper"
	"github.com/ray-remotestate/restroadmin/models"
	"github.com/ray-remotestate/restroadmin/utils"
)

func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := queryID(r, "restaurant_id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	items, err := dbhelper.ListMenuItems(r.Context(), h.DB, restaurantID)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	item, err := dbhelper.GetMenuItem(r.Context(), h.DB, id)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in models.MenuItemInput
	if err := h.decode(w, r, &in); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	var p utils.Problems
	if in.RestaurantID == nil || *in.RestaurantID == uuid.Nil {
		p.Addf("restaurant_id is required")
	}
	if in.Name == nil {
		p.Addf("name is required")
	}
	if in.Price == nil {
		p.Addf("price is required")
	}
	checkMenuItem(&p, in)
	if err := p.Err(); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	item, err := dbhelper.CreateMenuItem(r.Context(), h.DB, in)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	var in models.MenuItemInput
	if err := h.decode(w, r, &in); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	if in == (models.MenuItemInput{}) {
		utils.RespondErrorMessage(w, http.StatusBadRequest, "no fields to update")
		return
	}

	var p utils.Problems
	if in.RestaurantID != nil && *in.RestaurantID == uuid.Nil {
		p.Addf("restaurant_id must not be empty")
	}
	checkMenuItem(&p, in)
	if err := p.Err(); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	item, err := dbhelper.UpdateMenuItem(r.Context(), h.DB, id, in)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

// DeleteMenuItem refuses with 409 while any order line still points at the item.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	if err := dbhelper.DeleteMenuItem(r.Context(), h.DB, id); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "menu item deleted"})
}

func checkMenuItem(p *utils.Problems, in models.MenuItemInput) {
	p.Struct(in)
	if in.Price != nil && in.Price.IsNegative() {
		p.Addf("price must not be negative")
	}
}
