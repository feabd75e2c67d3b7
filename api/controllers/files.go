package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smarttech/storefront/api/responses"
	"github.com/smarttech/storefront/internal/media"
	"github.com/smarttech/storefront/internal/storefront"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/logger"
)

const (
	uploadField = "file"
	// multipartSlack covers boundaries and part headers on top of the file limit.
	multipartSlack = 64 << 10
)

// UploadFile streams the "file" part of a multipart body into the media store.
func UploadFile(kind storefront.FileType, svc media.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartSlack)
		}
		reader, err := r.MultipartReader()
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Expected a multipart/form-data upload"))
			return
		}

		part, err := nextFilePart(reader)
		if err != nil {
			responses.WriteError(ctx, logg, w, uploadError(err))
			return
		}
		defer part.Close()

		res, err := svc.Upload(ctx, kind, part.FileName(), part)
		if err != nil {
			responses.WriteError(ctx, logg, w, uploadError(err))
			return
		}
		responses.WriteSuccess(w, res)
	}
}

func nextFilePart(reader *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "No file uploaded")
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == uploadField && part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerrors.Wrap(pkgerrors.CodeTooLarge, err, "File is too large")
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Upload failed")
}

func ListFiles(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), storefront.FileType(chi.URLParam(r, "type")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func DeleteFile(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Delete(r.Context(), storefront.FileType(chi.URLParam(r, "type")), chi.URLParam(r, "filename"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}
