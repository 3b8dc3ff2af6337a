package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/restroadmin/database"
	"github.com/ray-remotestate/restroadmin/database/dbhelper"
	"github.com/ray-remotestate/restroadmin/models"
	"github.com/ray-remotestate/restroadmin/utils"
)

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Name     string      `json:"name" validate:"required,max=100"`
		Email    string      `json:"email" validate:"required,email"`
		Password string      `json:"password" validate:"required,min=6"`
		Role     models.Role `json:"role"`
	}

	var req request
	if err := h.decode(w, r, &req); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	var p utils.Problems
	p.Struct(req)
	if !req.Role.IsValid() {
		p.Addf("invalid role %q", req.Role)
	}
	if err := p.Err(); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}

	var user *models.User
	txErr := database.Tx(r.Context(), h.DB, func(tx *sql.Tx) error {
		exists, err := dbhelper.IsUserExists(r.Context(), tx, req.Email)
		if err != nil {
			return err
		}
		if exists {
			return models.NewError(models.KindConstraint, "user already exists")
		}
		user, err = dbhelper.CreateUser(r.Context(), tx, req.Name, strings.ToLower(req.Email), hashedPassword, req.Role)
		return err
	})
	if txErr != nil {
		utils.RespondError(w, r, txErr)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user created")
	utils.RespondJSON(w, http.StatusCreated, user)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))
	if role != "" && !role.IsValid() {
		utils.RespondErrorMessage(w, http.StatusBadRequest, "invalid role filter")
		return
	}
	users, err := dbhelper.ListUsers(r.Context(), h.DB, role)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	user, err := dbhelper.GetUser(r.Context(), h.DB, id)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	var in models.UserInput
	if err := h.decode(w, r, &in); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	if in == (models.UserInput{}) {
		utils.RespondErrorMessage(w, http.StatusBadRequest, "no fields to update")
		return
	}

	var p utils.Problems
	p.Struct(in)
	if in.Role != nil && !in.Role.IsValid() {
		p.Addf("invalid role %q", *in.Role)
	}
	if err := p.Err(); err != nil {
		utils.RespondError(w, r, err)
		return
	}

	var hashedPassword string
	if in.Password != nil {
		if hashedPassword, err = utils.HashPassword(*in.Password); err != nil {
			utils.RespondError(w, r, err)
			return
		}
	}
	if in.Email != nil {
		email := strings.ToLower(*in.Email)
		in.Email = &email
	}

	user, err := dbhelper.UpdateUser(r.Context(), h.DB, id, in, hashedPassword)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	if err := dbhelper.DeleteUser(r.Context(), h.DB, id); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
