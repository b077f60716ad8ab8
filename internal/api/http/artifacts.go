package http

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/forgepath/forgepath-pbl/internal/artifact"
	"github.com/forgepath/forgepath-pbl/internal/audit"
	authmw "github.com/forgepath/forgepath-pbl/internal/auth/middleware"
	"github.com/forgepath/forgepath-pbl/internal/storage"
)

type createArtifactReq struct {
	TeamID    string `json:"team_id" validate:"required"`
	SessionID string `json:"session_id" validate:"required"`
	Title     string `json:"title" validate:"required,min=1,max=200"`
}

// POST /artifacts
func CreateArtifactHandler(store artifact.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createArtifactReq
		if !decodeValid(w, r, &req) {
			return
		}
		a := artifact.Artifact{
			ID:        uuid.NewString(),
			TeamID:    req.TeamID,
			SessionID: req.SessionID,
			UserID:    authmw.SubjectFromContext(r.Context()),
			Title:     req.Title,
			Status:    artifact.StatusDraft,
		}
		if err := store.PutArtifact(r.Context(), a); err != nil {
			http.Error(w, "save artifact: "+err.Error(), http.StatusInternalServerError)
			return
		}
		created, err := store.GetArtifact(r.Context(), a.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// GET /artifacts/{artifactID}
func GetArtifactHandler(store artifact.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "artifactID"))
		a, err := store.GetArtifact(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// GET /teams/{teamID}/artifacts
func ListTeamArtifactsHandler(store artifact.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := strings.TrimSpace(chi.URLParam(r, "teamID"))
		out, err := store.ListByTeam(r.Context(), teamID)
		if err != nil {
			http.Error(w, "list artifacts: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []artifact.Artifact{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type transitionReq struct {
	Status string `json:"status" validate:"required,oneof=draft precheck_pending precheck_complete submitted under_review needs_revision approved"`
}

// PATCH /artifacts/{artifactID}/status
func TransitionArtifactHandler(store artifact.Store, events *audit.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "artifactID"))
		var req transitionReq
		if !decodeValid(w, r, &req) {
			return
		}
		a, err := store.SetStatus(r.Context(), id, req.Status)
		if err != nil {
			if errors.Is(err, artifact.ErrBadTransition) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if events != nil {
			_ = events.Append(r.Context(), audit.TypeArtifactStatusChanged, a.ID,
				map[string]string{"status": a.Status})
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// POST /artifacts/{artifactID}/attachment (multipart field "file")
func UploadAttachmentHandler(store artifact.Store, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "artifactID"))
		if _, err := store.GetArtifact(r.Context(), id); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()
		key := path.Join("artifacts", id, path.Base(hdr.Filename))
		if _, err := blobs.Put(key, f); err != nil {
			http.Error(w, "store attachment: "+err.Error(), http.StatusInternalServerError)
			return
		}
		a, err := store.SetAttachment(r.Context(), id, key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// GET /artifacts/{artifactID}/attachment
func DownloadAttachmentHandler(store artifact.Store, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "artifactID"))
		a, err := store.GetArtifact(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if a.AttachmentKey == "" {
			http.Error(w, "no attachment", http.StatusNotFound)
			return
		}
		rc, err := blobs.Get(a.AttachmentKey)
		if err != nil {
			http.Error(w, "read attachment: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, rc)
	}
}
