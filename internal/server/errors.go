package server

import (
	"net/http"

	"github.com/jonathan/application-tracker/internal/tracker"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch tracker.KindOf(err) {
	case tracker.KindValidation, tracker.KindInvalidID, tracker.KindInvalidStatus:
		return http.StatusBadRequest
	case tracker.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
