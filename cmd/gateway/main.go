package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/forgepath/forgepath-pbl/internal/api/http"
	"github.com/forgepath/forgepath-pbl/internal/artifact"
	"github.com/forgepath/forgepath-pbl/internal/audit"
	auth "github.com/forgepath/forgepath-pbl/internal/auth/middleware"
	"github.com/forgepath/forgepath-pbl/internal/config"
	"github.com/forgepath/forgepath-pbl/internal/db"
	"github.com/forgepath/forgepath-pbl/internal/metrics"
	"github.com/forgepath/forgepath-pbl/internal/precheck"
	"github.com/forgepath/forgepath-pbl/internal/project"
	"github.com/forgepath/forgepath-pbl/internal/rbac"
	"github.com/forgepath/forgepath-pbl/internal/risk"
	"github.com/forgepath/forgepath-pbl/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	projects := project.NewSQLStore(dbh, cfg.DBDriver)
	artifacts := artifact.NewSQLStore(dbh, cfg.DBDriver)
	riskStore := risk.NewSQLStore(dbh, cfg.DBDriver)
	riskSvc := risk.NewService(riskStore).WithWindow(cfg.PrecheckWindow)
	events := audit.NewEventRepo(dbh)

	// Offline deployments review with the deterministic local reviewer.
	// An online mode can swap in a remote Reviewer here.
	runner := precheck.NewRunner(precheck.NewDummyReviewer(), artifacts, projects)

	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.TokenTTLHours)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.Mode == string(config.ModeOffline)))

		// Projects and sessions (creator)
		pr.With(rbac.Require("project:create")).
			Post("/projects", api.CreateProjectHandler(projects))
		pr.With(rbac.Require("project:view")).
			Get("/projects", api.ListProjectsHandler(projects))
		pr.With(rbac.Require("project:view")).
			Get("/projects/{projectID}", api.GetProjectHandler(projects))
		pr.With(rbac.Require("session:create")).
			Post("/projects/{projectID}/sessions", api.CreateSessionHandler(projects))
		pr.With(rbac.Require("rubric:create")).
			Post("/sessions/{sessionID}/criteria", api.CreateCriterionHandler(projects))
		pr.With(rbac.Require("project:view")).
			Get("/sessions/{sessionID}/criteria", api.ListCriteriaHandler(projects))

		// Teams
		pr.With(rbac.Require("team:create")).
			Post("/projects/{projectID}/teams", api.CreateTeamHandler(projects))
		pr.With(rbac.Require("team:view")).
			Get("/projects/{projectID}/teams", api.ListTeamsHandler(projects))
		pr.With(rbac.Require("team:join")).
			Post("/teams/{teamID}/members", api.JoinTeamHandler(projects))
		pr.With(rbac.Require("team:view")).
			Get("/teams/{teamID}/members", api.ListMembersHandler(projects))

		// Artifacts
		pr.With(rbac.Require("artifact:create")).
			Post("/artifacts", api.CreateArtifactHandler(artifacts))
		pr.With(rbac.RequireAny("artifact:view-own", "artifact:view-all")).
			Get("/artifacts/{artifactID}", api.GetArtifactHandler(artifacts))
		pr.With(rbac.RequireAny("artifact:view-own", "artifact:view-all")).
			Get("/teams/{teamID}/artifacts", api.ListTeamArtifactsHandler(artifacts))
		pr.With(rbac.RequireAny("artifact:submit", "artifact:review")).
			Patch("/artifacts/{artifactID}/status", api.TransitionArtifactHandler(artifacts, events))
		pr.With(rbac.Require("artifact:save")).
			Post("/artifacts/{artifactID}/attachment", api.UploadAttachmentHandler(artifacts, bs))
		pr.With(rbac.RequireAny("artifact:view-own", "artifact:view-all")).
			Get("/artifacts/{artifactID}/attachment", api.DownloadAttachmentHandler(artifacts, bs))

		// Prechecks and scores
		pr.With(rbac.Require("precheck:run")).
			Post("/artifacts/{artifactID}/precheck", api.RunPrecheckHandler(runner, events))
		pr.With(rbac.RequireAny("artifact:view-own", "artifact:view-all")).
			Get("/artifacts/{artifactID}/prechecks", api.ListPrechecksHandler(artifacts))
		pr.With(rbac.RequireAny("artifact:view-own", "artifact:view-all")).
			Get("/artifacts/{artifactID}/score", api.GetArtifactScoreHandler(artifacts, projects))

		// Risk (creator)
		pr.With(rbac.Require("risk:run")).
			Post("/projects/{projectID}/risk", api.RunRiskHandler(riskSvc, events))
		pr.With(rbac.Require("risk:view")).
			Get("/projects/{projectID}/risk", api.ProjectRiskHandler(riskSvc))
		pr.With(rbac.Require("risk:view")).
			Get("/teams/{teamID}/risk", api.TeamRiskHandler(riskSvc))

		// Users
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/users/me/password", api.ChangePasswordHandler(dbh))

		// Audit (admin)
		pr.With(rbac.Require("audit:view")).
			Get("/events", api.ListEventsHandler(events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})
	r.Handle("/metrics", metrics.Handler())

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
