package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"

	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/logger"
)

// ErrorBody is the error shape the storefront client parses.
type ErrorBody struct {
	Detail any `json:"detail"`
}

// FieldError is one entry of a validation error list.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// WriteError maps err onto its status and writes {"detail": ...}. Validation
// failures carrying field details are written as a list of field errors.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	status := meta.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	var detail any = meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeInternal, pkgerrors.CodeDependency:
	default:
		if m := typed.Message(); m != "" {
			detail = m
		}
	}
	if meta.DetailsAllowed {
		if fields, ok := typed.Details().(map[string]string); ok && len(fields) > 0 {
			detail = fieldErrors(fields)
		}
	}

	if logg != nil {
		fields := pkgerrors.Dump(err).Fields()
		fields["status"] = status
		ctx = logg.WithFields(ctx, fields)
		if status >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, status, ErrorBody{Detail: detail})
}

func fieldErrors(fields map[string]string) []FieldError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]FieldError, 0, len(names))
	for _, name := range names {
		out = append(out, FieldError{
			Loc:  []string{"body", name},
			Msg:  name + " " + fields[name],
			Type: "value_error",
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
