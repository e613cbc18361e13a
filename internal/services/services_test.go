package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/dtos"
	"github.com/poofware/estate-service/internal/testhelpers"
	"github.com/poofware/estate-service/internal/utils"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

type fixture struct {
	ctx     context.Context
	store   *testhelpers.MemoryStore
	tagRepo *testhelpers.MemPropertyTagRepo
	actor   uuid.UUID

	properties *PropertyService
	offers     *OfferService
	types      *PropertyTypeService
	tags       *PropertyTagService
	deadlines  *OfferDeadlineService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testhelpers.NewMemoryStore()
	tagRepo := store.PropertyTagRepo()
	clock := func() time.Time { return testNow }

	f := &fixture{
		ctx:        context.Background(),
		store:      store,
		tagRepo:    tagRepo,
		actor:      uuid.New(),
		properties: NewPropertyService(store.PropertyRepo(), store.OfferRepo(), store.PropertyTypeRepo(), tagRepo, store.AuditRepo()),
		offers:     NewOfferService(store.OfferRepo(), store.AuditRepo()),
		types:      NewPropertyTypeService(store.PropertyTypeRepo(), store.OfferRepo(), store.AuditRepo()),
		tags:       NewPropertyTagService(tagRepo, store.AuditRepo()),
		deadlines:  NewOfferDeadlineService(store.OfferRepo()),
	}
	f.properties.now = clock
	f.offers.now = clock
	f.deadlines.now = clock
	return f
}

func (f *fixture) createProperty(t *testing.T, name string, expected float64) *dtos.Property {
	t.Helper()
	p, err := f.properties.CreateProperty(f.ctx, f.actor, dtos.CreatePropertyRequest{Name: name, ExpectedPrice: expected})
	require.NoError(t, err)
	return p
}

func (f *fixture) createOffer(t *testing.T, propertyID uuid.UUID, price float64) *dtos.OfferActionResponse {
	t.Helper()
	res, err := f.offers.CreateOffer(f.ctx, f.actor, propertyID, dtos.CreateOfferRequest{PartnerID: uuid.New(), Price: price})
	require.NoError(t, err)
	return res
}

// requireAppError asserts the HTTP status and, when reason is non-empty, the
// domain reason carried in Details.
func requireAppError(t *testing.T, err error, status int, reason string) {
	t.Helper()
	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected *utils.AppError, got %T", err)
	require.Equal(t, status, appErr.StatusCode)
	if reason != "" {
		detail, ok := appErr.Details.(dtos.DomainErrorDetail)
		require.True(t, ok, "expected domain error detail, got %T", appErr.Details)
		require.Equal(t, reason, detail.Reason)
	}
}
