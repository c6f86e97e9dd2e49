package http

import (
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/services"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	filter := services.ExpenseFilter{OwnerID: claims.UserID}
	if v := strings.TrimSpace(r.URL.Query().Get("category")); v != "" {
		if c, err := strconv.Atoi(v); err == nil && c > 0 {
			filter.CategoryID = c
		}
	}

	from, err := parseDateQuery(r, "from")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	filter.From = from
	filter.To = to

	items, err := s.expenses.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// pagination over the filtered set
	pageNum, limit := parsePaging(r)
	total := len(items)
	start := (pageNum - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	respondData(w, http.StatusOK, newPage(toExpenseResponses(items[start:end]), pageNum, limit, total))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	expense, err := req.toDomain(claims.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.expenses.Create(r.Context(), expense)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummary(claims.UserID)
	respondData(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	expense, err := s.expenses.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	var req expenseRequest
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

	updated, err := s.expenses.Update(r.Context(), id, def)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummary(claims.UserID)
	respondData(w, http.StatusOK, toExpenseResponse(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := s.expenses.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummary(claims.UserID)
	respondData(w, http.StatusOK, map[string]int64{"deleted": id})
}
