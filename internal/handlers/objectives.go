package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/taskshare/backend/internal/middleware"
	"github.com/taskshare/backend/internal/models"
	"github.com/taskshare/backend/internal/services"
	"github.com/taskshare/backend/pkg/logger"
	"github.com/taskshare/backend/pkg/utils"
	"gorm.io/gorm"
)

type ObjectivesHandler struct {
	DB     *gorm.DB
	Access *services.AccessService
}

func NewObjectivesHandler(db *gorm.DB, access *services.AccessService) *ObjectivesHandler {
	return &ObjectivesHandler{DB: db, Access: access}
}

type createObjectiveRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	NotifyAt    *time.Time `json:"notifyAt"`
	IsCompleted *bool      `json:"isCompleted"`
}

func (h *ObjectivesHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req createObjectiveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return utils.Error(c, fiber.StatusBadRequest, "title is required")
	}
	if len(title) > models.ObjectiveTitleMaxLength {
		return utils.Error(c, fiber.StatusBadRequest, "title too long")
	}
	if req.Description != nil && len(*req.Description) > models.ObjectiveDescriptionMaxLength {
		return utils.Error(c, fiber.StatusBadRequest, "description too long")
	}

	objective := models.Objective{
		Title:       title,
		Description: req.Description,
		NotifyAt:    req.NotifyAt,
		CreatorID:   currentUser.ID,
	}
	if req.IsCompleted != nil {
		objective.IsCompleted = *req.IsCompleted
	}

	if err := h.DB.Create(&objective).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating objective")
	}

	logger.InfoWithUser(currentUser.ID.String(), "objective_created", map[string]interface{}{
		"objective_id": objective.ID.String(),
		"request_id":   getRequestID(c),
	})

	return utils.Success(c, fiber.StatusCreated, objective)
}

func (h *ObjectivesHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	objectiveID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid objective id")
	}

	objective, err := h.Access.Authorize(c.Context(), currentUser.ID, objectiveID, services.OperationRead)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, objective)
}

var objectiveSortColumns = map[string]string{
	"title":     "title",
	"createdAt": "created_at",
	"notifyAt":  "notify_at",
}

// List returns the requester's visible objectives: their own plus the
// ones shared with them. Unknown sortBy values fall back to createdAt
// instead of erroring.
func (h *ObjectivesHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	p := utils.ParsePagination(c)

	grantedSubquery := h.DB.
		Table("objective_grants").
		Select("objective_id").
		Where("user_id = ?", currentUser.ID)

	query := h.DB.Model(&models.Objective{}).
		Where("creator_id = ? OR id IN (?)", currentUser.ID, grantedSubquery)

	search := strings.TrimSpace(c.Query("search"))
	if search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	switch c.Query("isCompleted") {
	case "true":
		query = query.Where("is_completed = ?", true)
	case "false":
		query = query.Where("is_completed = ?", false)
	}

	sortColumn, ok := objectiveSortColumns[c.Query("sortBy")]
	if !ok {
		sortColumn = "created_at"
	}
	sortOrder := "asc"
	if c.Query("sortOrder") == "desc" {
		sortOrder = "desc"
	}

	var objectives []models.Objective
	err := utils.ApplyPagination(query.Order(sortColumn+" "+sortOrder), p).
		Find(&objectives).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing objectives")
	}

	return utils.Success(c, fiber.StatusOK, objectives)
}

type updateObjectiveRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	NotifyAt    *time.Time `json:"notifyAt"`
	IsCompleted *bool      `json:"isCompleted"`
}

// Update applies only the fields present in the request body; absent
// fields stay untouched. An empty description clears the column.
func (h *ObjectivesHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	objectiveID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid objective id")
	}

	objective, err := h.Access.Authorize(c.Context(), currentUser.ID, objectiveID, services.OperationUpdate)
	if err != nil {
		return serviceError(c, err)
	}

	var req updateObjectiveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return utils.Error(c, fiber.StatusBadRequest, "title cannot be empty")
		}
		if len(title) > models.ObjectiveTitleMaxLength {
			return utils.Error(c, fiber.StatusBadRequest, "title too long")
		}
		updates["title"] = title
	}
	if req.Description != nil {
		if len(*req.Description) > models.ObjectiveDescriptionMaxLength {
			return utils.Error(c, fiber.StatusBadRequest, "description too long")
		}
		if *req.Description == "" {
			updates["description"] = nil
		} else {
			updates["description"] = *req.Description
		}
	}
	if req.NotifyAt != nil {
		updates["notify_at"] = *req.NotifyAt
	}
	if req.IsCompleted != nil {
		updates["is_completed"] = *req.IsCompleted
	}

	if len(updates) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "no valid fields to update")
	}

	if err := h.DB.Model(&models.Objective{}).Where("id = ?", objective.ID).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating objective")
	}

	var updated models.Objective
	if err := h.DB.First(&updated, "id = ?", objective.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading updated objective")
	}

	return utils.Success(c, fiber.StatusOK, updated)
}

// Delete removes the objective together with all of its grants in one
// transaction, so no orphan grants survive.
func (h *ObjectivesHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	objectiveID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid objective id")
	}

	objective, err := h.Access.Authorize(c.Context(), currentUser.ID, objectiveID, services.OperationDelete)
	if err != nil {
		return serviceError(c, err)
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Grant{}, "objective_id = ?", objective.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Objective{}, "id = ?", objective.ID).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "objective not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting objective")
	}

	logger.InfoWithUser(currentUser.ID.String(), "objective_deleted", map[string]interface{}{
		"objective_id": objective.ID.String(),
		"request_id":   getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "objective deleted"})
}
