package httpapi

import (
	"net/http"

	"github.com/go-chi/chi"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("featured") == "true" {
		s.listFeaturedProducts(w, r)
		return
	}

	products, err := s.catalog.ListProducts(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "listing products", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toProductResponses(products))
}

func (s *Server) listFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.FeaturedProducts(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "listing featured products", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toProductResponses(products))
}

func (s *Server) listProductsByCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	products, err := s.catalog.ListProductsByCategory(r.Context(), slug)
	if err != nil {
		s.log.Error(r.Context(), "listing products by category", "category", slug, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toProductResponses(products))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.catalog.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toProductResponse(product))
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	product, err := s.catalog.CreateProduct(r.Context(), req.toInput())
	if err != nil {
		s.log.Error(r.Context(), "creating product", "name", req.Name, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.toProductResponse(product))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req productUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	product, err := s.catalog.UpdateProduct(r.Context(), id, req.toUpdate())
	if err != nil {
		s.log.Error(r.Context(), "updating product", "id", id, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toProductResponse(product))
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.catalog.DeleteProduct(r.Context(), id); err != nil {
		s.log.Error(r.Context(), "deleting product", "id", id, "error", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
