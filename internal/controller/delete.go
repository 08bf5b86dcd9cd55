package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/five82/curator/internal/gallery"
	"github.com/five82/curator/internal/state"
)

// PendingDeleteLabel is shown on the triggering control while a delete runs.
const PendingDeleteLabel = "Deleting..."

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// DeleteRequest describes one delete triggered from the UI.
type DeleteRequest struct {
	PublicID    string
	DisplayName string
	Control     *Control
	Confirm     Confirmer
}

// DeleteOutcome reports how a delete request ended.
type DeleteOutcome int

const (
	DeleteDeclined DeleteOutcome = iota
	DeleteSucceeded
	DeleteFailed
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteSucceeded:
		return "succeeded"
	case DeleteFailed:
		return "failed"
	default:
		return "declined"
	}
}

// DeletePrompt returns the confirmation question for name.
func DeletePrompt(name string) string {
	return fmt.Sprintf("Are you sure you want to delete %q?", name)
}

// Delete removes one image after operator confirmation. Deletes are not
// serialized against refreshes or other deletes.
func (c *Controller) Delete(ctx context.Context, req DeleteRequest) DeleteOutcome {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = gallery.ImageRecord{PublicID: req.PublicID}.FileName()
	}
	if req.Confirm == nil || !req.Confirm.Confirm(ctx, DeletePrompt(name)) {
		c.logger.Debug().Str("public_id", req.PublicID).Msg("delete declined")
		return DeleteDeclined
	}

	restore := req.Control.Begin(PendingDeleteLabel)
	c.changed()

	dctx, cancel := context.WithTimeout(ctx, c.deleteTimeout)
	err := c.backend.DeleteImage(dctx, req.PublicID)
	cancel()

	if err != nil {
		restore()
		c.logger.Error().Err(err).Str("public_id", req.PublicID).Msg("delete failed")
		c.Notify(state.NoticeError, deleteErrorMessage(err))
		return DeleteFailed
	}

	c.logger.Info().Str("public_id", req.PublicID).Msg("image deleted")
	c.Notify(state.NoticeSuccess, fmt.Sprintf("Image %q deleted successfully!", name))
	c.Refresh(ctx)
	// The card may still be listed if the refresh was skipped or the
	// listing lags, so it must not stay stuck on the pending label.
	restore()
	c.changed()
	return DeleteSucceeded
}

func deleteErrorMessage(err error) string {
	var appErr *gallery.AppError
	var statusErr *gallery.StatusError
	switch {
	case gallery.IsTimeout(err):
		return "Request timed out"
	case errors.As(err, &appErr):
		return "Delete failed: " + appErr.Error()
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Delete failed: HTTP error! status: %d", statusErr.Code)
	case errors.Is(err, gallery.ErrMalformed):
		return "Delete failed: unexpected response from server"
	default:
		return "Network error: " + err.Error()
	}
}
