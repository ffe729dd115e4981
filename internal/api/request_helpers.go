package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/bunny/internal/api/shared"
	"github.com/phrazzld/bunny/internal/platform/logger"
)

// getPathUint32 parses a positive uint32 path parameter.
func getPathUint32(r *http.Request, paramName string) (uint32, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", paramName)
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%s has invalid format", paramName)
	}
	return uint32(v), nil
}

// handleMarkerID extracts the {id} marker parameter and writes a 400 when
// it is malformed.
func handleMarkerID(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	id, err := getPathUint32(r, "id")
	if err != nil {
		logger.FromContext(r.Context()).Debug("invalid marker id",
			"value", chi.URLParam(r, "id"))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid marker id")
		return 0, false
	}
	return id, true
}

// decodeAndValidate decodes the JSON body into v and validates it, writing
// a 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

func queryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
