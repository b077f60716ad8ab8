package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authmw "github.com/forgepath/forgepath-pbl/internal/auth/middleware"
	"github.com/forgepath/forgepath-pbl/internal/project"
)

type createProjectReq struct {
	Title     string `json:"title" validate:"required,min=1,max=200"`
	StartDate int64  `json:"start_date"`
	EndDate   int64  `json:"end_date"`
}

// POST /projects
func CreateProjectHandler(store project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProjectReq
		if !decodeValid(w, r, &req) {
			return
		}
		p := project.Project{
			ID:        uuid.NewString(),
			Title:     req.Title,
			CreatorID: authmw.SubjectFromContext(r.Context()),
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
		}
		if err := store.PutProject(r.Context(), p); err != nil {
			http.Error(w, "save project: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// GET /projects
func ListProjectsHandler(store project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := project.ListOpts{
			Q:         r.URL.Query().Get("q"),
			CreatorID: r.URL.Query().Get("creator_id"),
		}
		out, err := store.ListProjects(r.Context(), opts)
		if err != nil {
			http.Error(w, "list projects: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []project.Project{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /projects/{projectID} (with sessions)
func GetProjectHandler(store project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "projectID"))
		p, err := store.GetProject(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		sessions, err := store.ListSessions(r.Context(), id)
		if err != nil {
			http.Error(w, "list sessions: "+err.Error(), http.StatusInternalServerError)
			return
		}
		p.Sessions = sessions
		writeJSON(w, http.StatusOK, p)
	}
}

type createSessionReq struct {
	Order     int    `json:"order" validate:"min=0"`
	Title     string `json:"title" validate:"required,min=1,max=200"`
	StartDate int64  `json:"start_date"`
	EndDate   int64  `json:"end_date"`
}

// POST /projects/{projectID}/sessions
func CreateSessionHandler(store project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
		if _, err := store.GetProject(r.Context(), projectID); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		var req createSessionReq
		if !decodeValid(w, r, &req) {
			return
		}
		s := project.Session{
			ID:        uuid.NewString(),
			ProjectID: projectID,
			Order:     req.Order,
			Title:     req.Title,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
		}
		if err := store.PutSession(r.Context(), s); err != nil {
			http.Error(w, "save session: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, s)
	}
}

type createCriterionReq struct {
	Name     string  `json:"name" validate:"required,min=1,max=200"`
	Weight   float64 `json:"weight" validate:"min=0"`
	MaxScore float64 `json:"max_score"`
	Position int     `json:"position" validate:"min=0"`
}

// POST /sessions/{sessionID}/criteria
func CreateCriterionHandler(store project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionID"))
		var req createCriterionReq
		if !decodeValid(w, r, &req) {
			return
		}
		if req.MaxScore <= 0 {
			req.MaxScore = 100
		}
		c := project.RubricCriterion{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Name:      req.Name,
			Weight:    req.Weight,
			MaxScore:  req.MaxScore,
			Position:  req.Position,
		}
		if err := store.PutCriterion(r.Context(), c); err != nil {
			http.Error(w, "save criterion: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// GET /sessions/{sessionID}/criteria
func ListCriteriaHandler(store project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionID"))
		out, err := store.ListCriteria(r.Context(), sessionID)
		if err != nil {
			http.Error(w, "list criteria: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []project.RubricCriterion{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}
