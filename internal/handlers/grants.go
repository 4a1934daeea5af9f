package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskshare/backend/internal/middleware"
	"github.com/taskshare/backend/internal/services"
	"github.com/taskshare/backend/pkg/logger"
	"github.com/taskshare/backend/pkg/utils"
)

type GrantsHandler struct {
	Grants *services.GrantService
}

func NewGrantsHandler(grants *services.GrantService) *GrantsHandler {
	return &GrantsHandler{Grants: grants}
}

type shareObjectiveRequest struct {
	UserID *uuid.UUID `json:"userID"`
}

func (h *GrantsHandler) Share(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	objectiveID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid objective id")
	}

	var req shareObjectiveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.UserID == nil {
		return utils.Error(c, fiber.StatusBadRequest, "userID is required")
	}

	grant, created, err := h.Grants.Share(c.Context(), objectiveID, *req.UserID, currentUser.ID)
	if err != nil {
		return serviceError(c, err)
	}

	if created {
		logger.InfoWithUser(currentUser.ID.String(), "objective_shared", map[string]interface{}{
			"objective_id": objectiveID.String(),
			"grantee_id":   req.UserID.String(),
			"grant_id":     grant.ID.String(),
			"request_id":   getRequestID(c),
		})
		return utils.Success(c, fiber.StatusCreated, grant)
	}

	return utils.Success(c, fiber.StatusOK, grant)
}

func (h *GrantsHandler) Revoke(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	objectiveID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid objective id")
	}
	granteeID, err := parseUUID(c.Params("userId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.Grants.Revoke(c.Context(), objectiveID, granteeID, currentUser.ID); err != nil {
		return serviceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "objective_access_revoked", map[string]interface{}{
		"objective_id": objectiveID.String(),
		"grantee_id":   granteeID.String(),
		"request_id":   getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "access revoked"})
}

type grantInfo struct {
	GrantID     uuid.UUID `json:"grantID"`
	UserID      uuid.UUID `json:"userID"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
}

func (h *GrantsHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	objectiveID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid objective id")
	}

	grants, err := h.Grants.List(c.Context(), objectiveID, currentUser.ID)
	if err != nil {
		return serviceError(c, err)
	}

	infos := make([]grantInfo, 0, len(grants))
	for _, grant := range grants {
		infos = append(infos, grantInfo{
			GrantID:     grant.ID,
			UserID:      grant.UserID,
			DisplayName: grant.User.DisplayName(),
			Email:       grant.User.Email,
		})
	}

	return utils.Success(c, fiber.StatusOK, infos)
}
