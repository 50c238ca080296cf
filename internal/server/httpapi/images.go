package httpapi

import (
	"io"
	"net/http"

	"github.com/tejasharora/couture-backend/internal/server/services"
)

const maxImageSize = 10 << 20 // 10 MiB

// uploadProductImage accepts a multipart form with an "image" part, stores it
// in the bucket, and persists the resulting public URL on the product.
func (s *Server) uploadProductImage(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		badRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequest(w, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		badRequest(w, "failed to read image")
		return
	}

	imageURL, err := s.images.UploadProductImage(r.Context(), productID, header.Filename, data)
	if err != nil {
		s.log.Error(r.Context(), "uploading product image", "product", productID, "error", err)
		writeError(w, err)
		return
	}

	if _, err := s.catalog.UpdateProduct(r.Context(), productID, &services.ProductUpdate{ImageURL: &imageURL}); err != nil {
		s.log.Error(r.Context(), "saving product image url", "product", productID, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, imageResponse{ImageURL: imageURL})
}
