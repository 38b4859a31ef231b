package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/config"
	"github.com/hadirly/hadirly-backend-go/internal/fixtures"
	appHTTP "github.com/hadirly/hadirly-backend-go/internal/handler/http"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/cron"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/database"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/jwt"
	redispkg "github.com/hadirly/hadirly-backend-go/internal/pkg/redis"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/storage"
	"github.com/hadirly/hadirly-backend-go/internal/repository/postgresql"
	attendanceService "github.com/hadirly/hadirly-backend-go/internal/service/attendance"
	"github.com/hadirly/hadirly-backend-go/internal/service/file"
	geofenceService "github.com/hadirly/hadirly-backend-go/internal/service/geofence"
	settingService "github.com/hadirly/hadirly-backend-go/internal/service/setting"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	appLocation, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal("Invalid APP_TIMEZONE: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = redispkg.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Error connecting to redis: ", err)
		}
		defer redisClient.Close()
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	geofenceRepo := postgresql.NewGeofenceRepository(db)
	settingRepo := postgresql.NewSettingRepository(db)

	if err := fixtures.SeedDefaultSettings(context.Background(), settingRepo); err != nil {
		log.Fatal("Failed to seed default settings: ", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}
	fileService := file.NewFileService(fileStorage)

	settingSvc := settingService.NewService(settingRepo, redisClient, nil)
	geofenceSvc := geofenceService.NewService(geofenceRepo)
	attendanceSvc := attendanceService.NewService(
		db,
		attendanceRepo,
		geofenceRepo,
		settingSvc,
		fileService,
		appLocation,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	geofenceHandler := appHTTP.NewGeofenceHandler(geofenceSvc)
	settingHandler := appHTTP.NewSettingHandler(settingSvc)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(attendanceRepo, appLocation)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		attendanceHandler,
		geofenceHandler,
		settingHandler,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
