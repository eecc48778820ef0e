package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"giveaway-system/contact"
	"giveaway-system/giveaway"
	"giveaway-system/store"
)

// respondError maps the service error taxonomy onto HTTP statuses with a
// stable machine-readable code so the front-end can branch (duplicate_entry
// routes to lookup, already_claimed is a no-op, etc.).
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, store.ErrDuplicateEntry):
		status, code = http.StatusConflict, "duplicate_entry"
	case errors.Is(err, giveaway.ErrAlreadyClaimed):
		status, code = http.StatusConflict, "already_claimed"
	case errors.Is(err, store.ErrAlreadySelected):
		status, code = http.StatusConflict, "already_selected"
	case errors.Is(err, giveaway.ErrGiveawayClosed):
		status, code = http.StatusUnprocessableEntity, "giveaway_closed"
	case errors.Is(err, giveaway.ErrStateRestricted):
		status, code = http.StatusUnprocessableEntity, "state_restricted"
	case errors.Is(err, giveaway.ErrConsentRequired):
		status, code = http.StatusUnprocessableEntity, "consent_required"
	case errors.Is(err, giveaway.ErrBonusUnavailable):
		status, code = http.StatusUnprocessableEntity, "bonus_unavailable"
	case errors.Is(err, giveaway.ErrNoEntries):
		status, code = http.StatusUnprocessableEntity, "no_entries"
	case errors.Is(err, contact.ErrInvalidContact):
		status, code = http.StatusUnprocessableEntity, "invalid_contact"
	case errors.Is(err, giveaway.ErrTransientStore),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		status, code = http.StatusServiceUnavailable, "transient_failure"
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
