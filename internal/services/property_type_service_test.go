package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/dtos"
	"github.com/poofware/estate-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyTypes(t *testing.T) {
	f := newFixture(t)

	_, err := f.types.CreatePropertyType(f.ctx, f.actor, dtos.CreatePropertyTypeRequest{Name: "   "})
	requireAppError(t, err, http.StatusBadRequest, "property_type_name_required")

	land, err := f.types.CreatePropertyType(f.ctx, f.actor, dtos.CreatePropertyTypeRequest{Name: " Land ", Sequence: utils.Ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, "Land", land.Name)
	house, err := f.types.CreatePropertyType(f.ctx, f.actor, dtos.CreatePropertyTypeRequest{Name: "House"})
	require.NoError(t, err)
	assert.Equal(t, 1, house.Sequence)
	assert.False(t, house.HasOffers)

	list, err := f.types.ListPropertyTypes(f.ctx)
	require.NoError(t, err)
	require.Len(t, list.PropertyTypes, 2)
	assert.Equal(t, "House", list.PropertyTypes[0].Name)
	assert.Equal(t, "Land", list.PropertyTypes[1].Name)

	renamed, err := f.types.UpdatePropertyType(f.ctx, f.actor, land.ID, dtos.UpdatePropertyTypeRequest{
		Name:     utils.Ptr("Plot"),
		Sequence: utils.Ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Plot", renamed.Name)
	assert.Equal(t, 0, renamed.Sequence)

	list, err = f.types.ListPropertyTypes(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "Plot", list.PropertyTypes[0].Name)

	_, err = f.types.UpdatePropertyType(f.ctx, f.actor, land.ID, dtos.UpdatePropertyTypeRequest{Name: utils.Ptr("")})
	requireAppError(t, err, http.StatusBadRequest, "property_type_name_required")
}

func TestPropertyTypeNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.types.GetPropertyType(f.ctx, uuid.New())
	requireAppError(t, err, http.StatusNotFound, "")

	_, err = f.types.UpdatePropertyType(f.ctx, f.actor, uuid.New(), dtos.UpdatePropertyTypeRequest{Name: utils.Ptr("x")})
	requireAppError(t, err, http.StatusNotFound, "")

	_, err = f.types.ListPropertyTypeOffers(f.ctx, uuid.New())
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestPropertyTagListIsCached(t *testing.T) {
	f := newFixture(t)

	_, err := f.tags.CreatePropertyTag(f.ctx, f.actor, dtos.CreatePropertyTagRequest{Name: "renovated"})
	require.NoError(t, err)

	first, err := f.tags.ListPropertyTags(f.ctx)
	require.NoError(t, err)
	second, err := f.tags.ListPropertyTags(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.tagRepo.ListCalls)

	_, err = f.tags.CreatePropertyTag(f.ctx, f.actor, dtos.CreatePropertyTagRequest{Name: "cozy"})
	require.NoError(t, err)

	third, err := f.tags.ListPropertyTags(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.tagRepo.ListCalls)
	require.Len(t, third.PropertyTags, 2)
	assert.Equal(t, "cozy", third.PropertyTags[0].Name)
}

func TestCreatePropertyTagValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.tags.CreatePropertyTag(f.ctx, f.actor, dtos.CreatePropertyTagRequest{Name: " "})
	requireAppError(t, err, http.StatusBadRequest, "property_tag_name_required")

	_, err = f.tags.CreatePropertyTag(f.ctx, f.actor, dtos.CreatePropertyTagRequest{Name: "cozy"})
	require.NoError(t, err)
	_, err = f.tags.CreatePropertyTag(f.ctx, f.actor, dtos.CreatePropertyTagRequest{Name: "cozy "})
	requireAppError(t, err, http.StatusBadRequest, "property_tag_name_taken")
}
