package controllers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vibin_discovery/services"
)

// PhotoController redirects photo keys to presigned S3 URLs
type PhotoController struct {
	Photos *services.PhotoService
	Log    *zap.Logger
}

// PhotoRedirectHandler answers GET /api/photos/{key} with a redirect to a signed URL
func (pc *PhotoController) PhotoRedirectHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" || strings.Contains(key, "..") {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest)
		return
	}

	url, err := pc.Photos.URL(r.Context(), key)
	if err != nil {
		pc.Log.Error("failed to sign photo url", zap.String("key", key), zap.Error(err))
		WriteError(w, http.StatusBadGateway, CodeInternal)
		return
	}
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		// no bucket configured, nothing to redirect to
		WriteError(w, http.StatusNotFound, CodeNotFound)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}
