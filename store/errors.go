package store

import (
	"strings"

	"github.com/litcircle/litcircle/errs"
)

// translateErr maps sqlite constraint failures onto the service error kinds
// so handlers never have to parse driver messages.
func translateErr(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return errs.Conflict("%s", conflictMsg)
	}
	if strings.Contains(msg, "CHECK constraint failed") {
		return errs.Validation("%s", conflictMsg)
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return errs.NotFound("referenced record does not exist")
	}
	return err
}
