package controllers

import (
	"net/http"

	"github.com/nuthub-il/nuthub-backend/api/responses"
	uploadsvc "github.com/nuthub-il/nuthub-backend/internal/uploads"
	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
	"github.com/nuthub-il/nuthub-backend/pkg/logger"
)

// UploadImage stores a multipart image and returns its public URL. The
// upload is decoupled from record creation; the admin UI attaches the
// returned URL to a product or category afterwards.
func UploadImage(svc uploadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, svc.MaxBytes()+4096)
		if err := r.ParseMultipartForm(svc.MaxBytes()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file is required"))
			return
		}
		defer file.Close()

		result, err := svc.SaveImage(r.Context(), file, header)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, result)
	}
}
