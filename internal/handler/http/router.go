package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/hadirly/hadirly-backend-go/internal/handler/http/middleware"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	geofenceHandler GeofenceHandler,
	settingHandler SettingHandler,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hadirly-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Get("/me", attendanceHandler.GetMyAttendance)

				// Admin operations
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", attendanceHandler.List)
					r.Post("/manual", attendanceHandler.CreateManualEntry)
					r.Get("/{id}", attendanceHandler.Get)
					r.Patch("/{id}", attendanceHandler.Update)
					r.Delete("/{id}", attendanceHandler.Delete)
					r.Post("/{id}/decision", attendanceHandler.Decide)
				})
			})

			r.Route("/geofences", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", geofenceHandler.Create)
				r.Get("/", geofenceHandler.List)
				r.Get("/{id}", geofenceHandler.Get)
				r.Patch("/{id}", geofenceHandler.Update)
				r.Delete("/{id}", geofenceHandler.Delete)
				r.Post("/{id}/test-point", geofenceHandler.TestPoint)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/policy", settingHandler.GetPolicy)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", settingHandler.List)
					r.Get("/{key}", settingHandler.Get)
					r.Put("/", settingHandler.Upsert)
				})
			})
		})
	})

	return r
}
