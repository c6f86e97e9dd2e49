package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
)

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	items, err := s.household.ListNotes(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]noteResponse, len(items))
	for i, n := range items {
		out[i] = toNoteResponse(n)
	}
	respondData(w, http.StatusOK, out)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	var req noteRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	created, err := s.household.CreateNote(r.Context(), core.Note{
		Title:      req.Title,
		Content:    req.Content,
		Color:      req.Color,
		Attachment: req.Attachment,
		CreatedBy:  claims.UserID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, toNoteResponse(created))
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	var req noteRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	updated, err := s.household.UpdateNote(r.Context(), id, core.Note{
		Title:      req.Title,
		Content:    req.Content,
		Color:      req.Color,
		Attachment: req.Attachment,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, toNoteResponse(updated))
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := s.household.DeleteNote(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]int64{"deleted": id})
}

func (s *Server) handleListHouseSavings(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	items, total, err := s.household.ListHouseSavings(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]houseSavingResponse, len(items))
	for i, h := range items {
		out[i] = toHouseSavingResponse(h)
	}
	respondData(w, http.StatusOK, map[string]any{
		"items":            out,
		"totalAmountSaved": total.String(),
	})
}

func (s *Server) handleAddHouseSaving(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	var req houseSavingRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondBadRequest(w, "invalid date")
		return
	}

	created, err := s.household.AddHouseSaving(r.Context(), core.HouseSaving{
		Amount:     amount,
		Date:       date,
		SavingType: req.SavingType,
		Remarks:    req.Remarks,
		CreatedBy:  claims.UserID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, toHouseSavingResponse(created))
}

func (s *Server) handleDeleteHouseSaving(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := s.household.DeleteHouseSaving(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]int64{"deleted": id})
}
