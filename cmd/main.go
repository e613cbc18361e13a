package main

import (
	"context"
	"net/http"
	"time"

	"github.com/poofware/estate-service/internal/app"
	"github.com/poofware/estate-service/internal/config"
	"github.com/poofware/estate-service/internal/constants"
	"github.com/poofware/estate-service/internal/controllers"
	"github.com/poofware/estate-service/internal/middleware"
	"github.com/poofware/estate-service/internal/repositories"
	"github.com/poofware/estate-service/internal/routes"
	"github.com/poofware/estate-service/internal/services"
	"github.com/poofware/estate-service/internal/utils"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize estate-service:", err)
	}
	defer application.Close()

	// Repositories
	propRepo := repositories.NewPropertyRepository(application.DB)
	offerRepo := repositories.NewOfferRepository(application.DB)
	typeRepo := repositories.NewPropertyTypeRepository(application.DB)
	tagRepo := repositories.NewPropertyTagRepository(application.DB)
	auditRepo := repositories.NewEstateAuditLogRepository(application.DB)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedAllTestData(context.Background(), typeRepo, tagRepo); err != nil {
			utils.Logger.Fatal("Failed to seed estate test data:", err)
		}
	}

	// Services
	propertyService := services.NewPropertyService(propRepo, offerRepo, typeRepo, tagRepo, auditRepo)
	offerService := services.NewOfferService(offerRepo, auditRepo)
	propertyTypeService := services.NewPropertyTypeService(typeRepo, offerRepo, auditRepo)
	propertyTagService := services.NewPropertyTagService(tagRepo, auditRepo)
	deadlineService := services.NewOfferDeadlineService(offerRepo)

	// Controllers
	router := routes.NewRouter(routes.Controllers{
		Health:       controllers.NewHealthController(application.DB),
		Property:     controllers.NewPropertyController(propertyService),
		Offer:        controllers.NewOfferController(offerService),
		PropertyType: controllers.NewPropertyTypeController(propertyTypeService, propertyTagService),
	}, middleware.AuthMiddleware(cfg.RSAPublicKey))

	// Cron job setup
	c := cron.New(cron.WithLocation(time.UTC))
	_, err = c.AddFunc(constants.OfferDeadlineReportSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.OfferDeadlineReportTimeout)
		defer cancel()
		utils.Logger.Info("Starting offer deadline report cron job...")
		if _, err := deadlineService.ReportExpiredOffers(ctx); err != nil {
			utils.Logger.WithError(err).Error("Offer deadline report failed")
		}
	})
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule offer deadline report cron")
	}
	c.Start()
	defer c.Stop()
	utils.Logger.Info("Scheduled offer deadline report cron job")

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("estate-service failed to start:", err)
	}
}
