package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	commitmentID, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	pageNum, limit := parsePaging(r)

	items, total, err := s.ledger.ListEvents(r.Context(), commitmentID, pageNum, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, newPage(toEventResponses(items), pageNum, limit, total))
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	var req eventRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	event, err := req.toDomain()
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.ledger.AddEvent(r.Context(), event)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummary(claims.UserID)
	respondData(w, http.StatusCreated, toEventResponse(created))
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	event, err := s.ledger.GetEvent(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, toEventResponse(event))
}

func (s *Server) handleEditEvent(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	var req eventPatchRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	patch, err := toEventPatch(req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.ledger.EditEvent(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummary(claims.UserID)
	respondData(w, http.StatusOK, toEventResponse(updated))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	deleted, err := s.ledger.DeleteEvent(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummary(claims.UserID)
	respondData(w, http.StatusOK, map[string]int64{
		"deleted":      deleted.ID,
		"commitmentId": deleted.CommitmentID,
	})
}

func toEventPatch(req eventPatchRequest) (services.EventPatch, error) {
	var patch services.EventPatch

	if req.Amount != nil {
		amount, err := core.ParseMoney(*req.Amount)
		if err != nil {
			return services.EventPatch{}, err
		}
		patch.Amount = &amount
	}
	if req.CurrentEMI != nil {
		patch.CurrentEMI = req.CurrentEMI
	}
	if req.PaidDate != nil {
		paidDate, err := parseDateField(*req.PaidDate)
		if err != nil {
			return services.EventPatch{}, err
		}
		if !paidDate.IsZero() {
			patch.PaidDate = &paidDate
		}
	}
	if req.Remarks != nil {
		patch.Remarks = req.Remarks
	}
	if req.Attachments != nil {
		patch.Attachments = req.Attachments
	}

	return patch, nil
}
