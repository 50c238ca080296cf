package httpapi

import (
	"net/http"
)

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "listing categories", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponses(categories))
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	category, err := s.catalog.CreateCategory(r.Context(), req.toInput())
	if err != nil {
		s.log.Error(r.Context(), "creating category", "name", req.Name, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	category, err := s.catalog.UpdateCategory(r.Context(), id, req.toInput())
	if err != nil {
		s.log.Error(r.Context(), "updating category", "id", id, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.catalog.DeleteCategory(r.Context(), id); err != nil {
		s.log.Error(r.Context(), "deleting category", "id", id, "error", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
