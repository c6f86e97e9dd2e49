package http

import (
	"net/http"
)

func (s *Server) handleListCommitments(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)
	pageNum, limit := parsePaging(r)

	items, total, err := s.commitments.List(r.Context(), claims.UserID, pageNum, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, newPage(toCommitmentResponses(items), pageNum, limit, total))
}

func (s *Server) handleCreateCommitment(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	var req commitmentRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	commitment, err := req.toDomain(claims.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.commitments.Create(r.Context(), commitment)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummary(claims.UserID)
	respondData(w, http.StatusCreated, toCommitmentResponse(created))
}

func (s *Server) handleGetCommitment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	commitment, err := s.commitments.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, toCommitmentResponse(commitment))
}

func (s *Server) handleUpdateCommitment(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	var req commitmentRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	def, err := req.toDomain(claims.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.commitments.Update(r.Context(), id, def)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummary(claims.UserID)
	respondData(w, http.StatusOK, toCommitmentResponse(updated))
}

func (s *Server) handleDeleteCommitment(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := s.commitments.Delete(r.Context(), id, claims.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummary(claims.UserID)
	respondData(w, http.StatusOK, map[string]int64{"deleted": id})
}
