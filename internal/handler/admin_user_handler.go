package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/zeinnaushad/elevate/internal/usecase"
)

// AdminUserHandler covers account administration and the audit trail.
type AdminUserHandler struct {
	userUC  *usecase.AdminUserUsecase
	auditUC *usecase.AuditLogUsecase
}

func NewAdminUserHandler(userUC *usecase.AdminUserUsecase, auditUC *usecase.AuditLogUsecase) *AdminUserHandler {
	return &AdminUserHandler{userUC: userUC, auditUC: auditUC}
}

func (h *AdminUserHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	g.GET("/users", h.listUsers, guards.Admin...)
	g.DELETE("/users/:id", h.deleteUser, guards.Admin...)
	g.POST("/admin/users/:id/force-logout", h.forceLogout, guards.Admin...)
	g.GET("/admin/audit-logs", h.listAuditLogs, guards.Admin...)
}

func (h *AdminUserHandler) listUsers(c echo.Context) error {
	users, err := h.userUC.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminUserHandler) deleteUser(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	target, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.userUC.DeleteUser(c.Request().Context(), adminID, target); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminUserHandler) forceLogout(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	target, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.userUC.ForceLogout(c.Request().Context(), adminID, target)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// listAuditLogs filters by action, resourceType, actorUserId and resourceId.
func (h *AdminUserHandler) listAuditLogs(c echo.Context) error {
	in := usecase.ListAuditLogsInput{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resourceType"),
	}

	fields := map[string]string{}
	parseInt64 := func(name string) *int64 {
		v := c.QueryParam(name)
		if v == "" {
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			fields[name] = "must be a positive number"
			return nil
		}
		return &n
	}
	in.ActorUserID = parseInt64("actorUserId")
	in.ResourceID = parseInt64("resourceId")
	if p := parseInt64("limit"); p != nil {
		in.Limit = int(*p)
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			fields["offset"] = "must be a number"
		}
		in.Offset = o
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error", Fields: fields})
	}

	logs, err := h.auditUC.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}
