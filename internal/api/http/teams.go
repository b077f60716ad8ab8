package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authmw "github.com/forgepath/forgepath-pbl/internal/auth/middleware"
	"github.com/forgepath/forgepath-pbl/internal/project"
)

type createTeamReq struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// POST /projects/{projectID}/teams
func CreateTeamHandler(store project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
		if _, err := store.GetProject(r.Context(), projectID); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		var req createTeamReq
		if !decodeValid(w, r, &req) {
			return
		}
		t := project.Team{ID: uuid.NewString(), ProjectID: projectID, Name: req.Name}
		if err := store.PutTeam(r.Context(), t); err != nil {
			http.Error(w, "save team: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

// GET /projects/{projectID}/teams
func ListTeamsHandler(store project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
		out, err := store.ListTeams(r.Context(), projectID)
		if err != nil {
			http.Error(w, "list teams: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []project.Team{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type joinTeamReq struct {
	UserID     string `json:"user_id"` // defaults to the caller
	MemberRole string `json:"member_role" validate:"omitempty,oneof=lead member"`
}

// POST /teams/{teamID}/members
func JoinTeamHandler(store project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := strings.TrimSpace(chi.URLParam(r, "teamID"))
		if _, err := store.GetTeam(r.Context(), teamID); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		var req joinTeamReq
		if !decodeValid(w, r, &req) {
			return
		}
		userID := req.UserID
		if userID == "" {
			userID = authmw.SubjectFromContext(r.Context())
		}
		if userID == "" {
			http.Error(w, "user_id required", http.StatusBadRequest)
			return
		}
		m := project.TeamMember{TeamID: teamID, UserID: userID, MemberRole: req.MemberRole}
		if err := store.AddMember(r.Context(), m); err != nil {
			http.Error(w, "add member: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

// GET /teams/{teamID}/members
func ListMembersHandler(store project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := strings.TrimSpace(chi.URLParam(r, "teamID"))
		out, err := store.ListMembers(r.Context(), teamID)
		if err != nil {
			http.Error(w, "list members: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []project.TeamMember{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}
