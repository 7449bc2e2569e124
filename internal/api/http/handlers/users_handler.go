package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/api/dto"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/auth"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/repository"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/service"
	apperrors "github.com/suttonsam862/RichHabitsOMS-sub001/pkg/util/errorutil"
)

// UsersHandler exposes the user directory and admin provisioning.
type UsersHandler struct {
	auth  *service.AuthService
	users repository.UserRepository
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, users repository.UserRepository) *UsersHandler {
	return &UsersHandler{auth: authService, users: users}
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Create handles POST /users (admin provisioning of staff roles).
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" || req.Role == "" {
		return apperrors.NewValidationError("name, email, password, role required", nil)
	}

	user, err := h.auth.CreateUser(c.Context(), req.Name, req.Email, req.Password, domain.Role(strings.ToLower(req.Role)))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// ListByRole handles GET /users?role=designer, used by staff to pick
// assignees.
func (h *UsersHandler) ListByRole(c *fiber.Ctx) error {
	role := domain.Role(strings.ToLower(c.Query("role")))
	if !role.Valid() {
		return apperrors.NewValidationError("valid role query parameter required", map[string]any{"role": c.Query("role")})
	}
	page := parseIntQuery(c.Query("page"), 1)
	pageSize := parseIntQuery(c.Query("page_size"), 20)

	users, err := h.users.ListByRole(c.Context(), role, pageSize, (page-1)*pageSize)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
