package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/poofware/estate-service/internal/models"
	"github.com/poofware/estate-service/internal/repositories"
	"github.com/poofware/estate-service/internal/utils"
)

// Fixed ids keep seeding idempotent across restarts and replicas.
const (
	SeedPropertyTypeHouseID     = "eeeeeeee-0000-4000-8000-000000000001"
	SeedPropertyTypeApartmentID = "eeeeeeee-0000-4000-8000-000000000002"
	SeedPropertyTypeLandID      = "eeeeeeee-0000-4000-8000-000000000003"

	SeedPropertyTagCozyID      = "eeeeeeee-0000-4000-8000-000000000101"
	SeedPropertyTagRenovatedID = "eeeeeeee-0000-4000-8000-000000000102"
	SeedPropertyTagNeedsWorkID = "eeeeeeee-0000-4000-8000-000000000103"
)

var seedPropertyTypes = []struct {
	id       string
	name     string
	sequence int
}{
	{SeedPropertyTypeHouseID, "House", 1},
	{SeedPropertyTypeApartmentID, "Apartment", 2},
	{SeedPropertyTypeLandID, "Land", 3},
}

var seedPropertyTags = []struct {
	id   string
	name string
}{
	{SeedPropertyTagCozyID, "cozy"},
	{SeedPropertyTagRenovatedID, "renovated"},
	{SeedPropertyTagNeedsWorkID, "needs work"},
}

// SeedAllTestData inserts the demo property types and tags. Rows that
// already exist are left untouched.
func SeedAllTestData(
	ctx context.Context,
	typeRepo repositories.PropertyTypeRepository,
	tagRepo repositories.PropertyTagRepository,
) error {
	created := 0
	for _, st := range seedPropertyTypes {
		id := uuid.MustParse(st.id)
		existing, err := typeRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("check seed property type %s: %w", st.name, err)
		}
		if existing != nil {
			continue
		}
		err = typeRepo.Create(ctx, &models.PropertyType{ID: id, Name: st.name, Sequence: st.sequence})
		if err != nil && !isUniqueViolation(err) {
			return fmt.Errorf("seed property type %s: %w", st.name, err)
		}
		if err == nil {
			created++
		}
	}

	for _, st := range seedPropertyTags {
		err := tagRepo.Create(ctx, &models.PropertyTag{ID: uuid.MustParse(st.id), Name: st.name})
		if err != nil && !isUniqueViolation(err) {
			return fmt.Errorf("seed property tag %s: %w", st.name, err)
		}
		if err == nil {
			created++
		}
	}

	if created == 0 {
		utils.Logger.Info("estate-service: Seed data already present; skipping seeding.")
		return nil
	}
	utils.Logger.Infof("estate-service: Seeding completed successfully (%d rows).", created)
	return nil
}

// A replica seeding concurrently may win the insert.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
