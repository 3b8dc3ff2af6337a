package handlers

import (
	"net/http"

	"github.com/ray-remotestate/restroadmin/database/dbhelper"
	"github.com/ray-remotestate/restroadmin/models"
	"github.com/ray-remotestate/restroadmin/utils"
)

func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := dbhelper.ListRestaurants(r.Context(), h.DB)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	restaurant, err := dbhelper.GetRestaurant(r.Context(), h.DB, id)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, restaurant)
}

func (h *Handler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var in models.RestaurantInput
	if err := h.decode(w, r, &in); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	var p utils.Problems
	if in.Name == nil {
		p.Addf("name is required")
	}
	p.Struct(in)
	if err := p.Err(); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	restaurant, err := dbhelper.CreateRestaurant(r.Context(), h.DB, in)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, restaurant)
}

func (h *Handler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	var in models.RestaurantInput
	if err := h.decode(w, r, &in); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	if in == (models.RestaurantInput{}) {
		utils.RespondErrorMessage(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if err := utils.ValidateStruct(in); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	restaurant, err := dbhelper.UpdateRestaurant(r.Context(), h.DB, id, in)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, restaurant)
}

func (h *Handler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	if err := dbhelper.DeleteRestaurant(r.Context(), h.DB, id); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "restaurant deleted"})
}

// GetRestaurantMenu lists the menu of one restaurant. An unknown restaurant is a 404,
// not an empty menu.
func (h *Handler) GetRestaurantMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	if _, err := dbhelper.GetRestaurant(r.Context(), h.DB, id); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	items, err := dbhelper.ListMenuItems(r.Context(), h.DB, id)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}
