package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/application-tracker/internal/query"
	"github.com/jonathan/application-tracker/internal/schemas"
	"github.com/jonathan/application-tracker/internal/tracker"
	"github.com/jonathan/application-tracker/internal/validation"
)

const maxBodyBytes = 1 << 20

// StatusRequest is the body of PATCH /applications/{id}/status
type StatusRequest struct {
	Status string `json:"status"`
}

// handleListApplications returns the filtered, sorted view for one tab plus counts.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	opts, err := query.ParseOptions(r.URL.Query().Get)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.svc.View(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), userMessage(err))
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

// handleCreateApplication creates a pending application from raw form fields.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r, schemas.ApplicationCreate)
	if !ok {
		return
	}

	var raw validation.RawInput
	if err := json.Unmarshal(body, &raw); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	app, err := s.svc.Create(r.Context(), raw)
	status := http.StatusCreated
	if err != nil {
		status = HTTPStatus(err)
	}
	s.jsonResponse(w, status, tracker.NewCreateResult(app, err))
}

// handleUpdateStatus sets the status named in the request body.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r, schemas.StatusUpdate)
	if !ok {
		return
	}

	var req StatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	err := s.svc.UpdateStatus(r.Context(), pathID(r), req.Status)
	s.mutationResponse(w, tracker.OpUpdate, err)
}

// handleArchive moves an application to the archived list.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	s.mutationResponse(w, tracker.OpArchive, s.svc.Archive(r.Context(), pathID(r)))
}

// handleUnarchive moves an application back to the pending list.
func (s *Server) handleUnarchive(w http.ResponseWriter, r *http.Request) {
	s.mutationResponse(w, tracker.OpUnarchive, s.svc.Unarchive(r.Context(), pathID(r)))
}

// handleDeleteApplication permanently removes an application.
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	s.mutationResponse(w, tracker.OpDelete, s.svc.Delete(r.Context(), pathID(r)))
}

func (s *Server) mutationResponse(w http.ResponseWriter, op string, err error) {
	s.jsonResponse(w, HTTPStatus(err), tracker.NewMutationResult(op, err))
}

// readBody reads a bounded request body and checks it against schema. It writes
// the error response itself and reports false on failure.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request, schema string) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return nil, false
	}

	if err := schemas.Validate(schema, body); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			s.jsonResponse(w, http.StatusBadRequest, map[string]any{
				"error":  "Invalid request body",
				"fields": verr.Errors,
			})
			return nil, false
		}
		s.logger.Error("schema load failed", zap.String("schema", schema), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Internal error")
		return nil, false
	}
	return body, true
}

// pathID parses the {id} path value. Anything that is not an integer becomes 0,
// which the service rejects as an invalid id.
func pathID(r *http.Request) int64 {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func userMessage(err error) string {
	var te *tracker.Error
	if errors.As(err, &te) {
		return te.Message
	}
	return "Internal error"
}
