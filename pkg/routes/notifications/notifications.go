package notifications

import (
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectolinq"
	"github.com/labstack/echo/v4"

	"github.com/shadyhoon/RentEase/pkg/context"
	"github.com/shadyhoon/RentEase/pkg/models"
	notificationsvc "github.com/shadyhoon/RentEase/pkg/notifications"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

// Register registers the notification routes
func Register(g *echo.Group) {
	g.GET("/notifications", List)
}

// NotificationResponse is the response for a notification
type NotificationResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	AgreementID string  `json:"agreement_id,omitempty"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	ActedAt     *string `json:"acted_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func toResponse(n *models.Notification) *NotificationResponse {
	resp := &NotificationResponse{
		ID:          n.ID,
		Type:        string(n.Type),
		Status:      string(n.Status),
		AgreementID: n.AgreementID,
		Title:       n.Title,
		Message:     n.Message,
		CreatedAt:   n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if n.ActedAt != nil {
		v := n.ActedAt.UTC().Format(time.RFC3339)
		resp.ActedAt = &v
	}
	return resp
}

// List handles GET /api/tenant/notifications
func List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "NotificationHandler.List")
	defer span.End()

	userID := context.GetUserID(ctx)
	email := context.GetUserEmail(ctx)
	if userID == "" && email == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*notificationsvc.Service](ctx)
	if err != nil {
		return err
	}

	notifications, err := svc.ListForRecipient(ctx, userID, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ectolinq.Map(notifications, toResponse))
}
