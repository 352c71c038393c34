package httpx

import (
	"net/http"
	"strings"

	apperrors "github.com/expensetracker/web/internal/errors"
	"github.com/expensetracker/web/internal/http/ui/viewmodel"
)

const (
	msgTimedOut = "Request timed out. Please try again."
	msgCanceled = "Request was canceled."
)

// processError maps an error to the message a visitor should see. Timeouts
// and cancellations get their own wording; anything else shows the message the
// error carries, or fallback when it carries none.
func processError(err error, fallback string) string {
	if err == nil {
		return ""
	}
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeTimeout:
		return msgTimedOut
	case apperrors.ErrCodeCanceled:
		return msgCanceled
	}
	return apperrors.UserMessage(err, fallback)
}

// errorToast builds an error toast for err.
func errorToast(err error, fallback string) viewmodel.Toast {
	return viewmodel.Toast{Message: processError(err, fallback), Type: viewmodel.ToastError}
}

// triggerToast sends a standardized HX-Trigger payload for toast notifications.
func triggerToast(w http.ResponseWriter, toast viewmodel.Toast) {
	if w == nil || strings.TrimSpace(toast.Message) == "" {
		return
	}
	HTMX(w).Trigger("showToast", toast)
}
