//go:build (dev_test || staging_test) && integration

package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/app"
	"github.com/poofware/estate-service/internal/config"
	"github.com/poofware/estate-service/internal/repositories"
	"github.com/poofware/estate-service/internal/services"
	"github.com/poofware/estate-service/internal/utils"
)

const schemaFile = "../../migrations/001_estate_schema.sql"

var (
	application *app.App
	actor       = uuid.New()

	propertyService *services.PropertyService
	offerService    *services.OfferService
	typeService     *services.PropertyTypeService
	tagService      *services.PropertyTagService
	deadlineService *services.OfferDeadlineService
)

// TestMain connects to the run's database, applies the schema and wires the
// services on the real repositories.
func TestMain(m *testing.M) {
	utils.InitLogger(config.AppName)

	if config.AppName == "" {
		log.Fatal("config.AppName is empty or not set (ldflags missing?)")
	}

	cfg := config.LoadConfig()
	var err error
	application, err = app.NewApp(cfg)
	if err != nil {
		log.Fatalf("connecting to DB: %v", err)
	}

	schema, err := os.ReadFile(schemaFile)
	if err != nil {
		log.Fatalf("reading schema: %v", err)
	}
	if _, err := application.DB.Exec(context.Background(), string(schema)); err != nil {
		log.Fatalf("applying schema: %v", err)
	}

	propRepo := repositories.NewPropertyRepository(application.DB)
	offerRepo := repositories.NewOfferRepository(application.DB)
	typeRepo := repositories.NewPropertyTypeRepository(application.DB)
	tagRepo := repositories.NewPropertyTagRepository(application.DB)
	auditRepo := repositories.NewEstateAuditLogRepository(application.DB)

	propertyService = services.NewPropertyService(propRepo, offerRepo, typeRepo, tagRepo, auditRepo)
	offerService = services.NewOfferService(offerRepo, auditRepo)
	typeService = services.NewPropertyTypeService(typeRepo, offerRepo, auditRepo)
	tagService = services.NewPropertyTagService(tagRepo, auditRepo)
	deadlineService = services.NewOfferDeadlineService(offerRepo)

	if err := app.SeedAllTestData(context.Background(), typeRepo, tagRepo); err != nil {
		log.Fatalf("seeding: %v", err)
	}

	log.Printf("estate-service integration tests: DB connected, env=%s", os.Getenv("ENV"))
	code := m.Run()
	application.Close()
	os.Exit(code)
}
