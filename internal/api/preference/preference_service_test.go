package preference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

func validRequest() types.CreatePreferenceRequest {
	return types.CreatePreferenceRequest{
		TourLength:      types.TourLengthFullDay,
		BudgetLevel:     types.BudgetModerate,
		AttractionTypes: []types.AttractionType{types.AttractionHistorical},
	}
}

func TestValidatePreferenceRequestAccepted(t *testing.T) {
	require.NoError(t, ValidatePreferenceRequest(validRequest()))
}

func TestValidatePreferenceRequestMissingTourLength(t *testing.T) {
	req := validRequest()
	req.TourLength = ""
	err := ValidatePreferenceRequest(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidPreference)
}

func TestValidatePreferenceRequestMissingBudget(t *testing.T) {
	req := validRequest()
	req.BudgetLevel = ""
	err := ValidatePreferenceRequest(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidPreference)
}

func TestValidatePreferenceRequestUnknownAttraction(t *testing.T) {
	req := validRequest()
	req.AttractionTypes = append(req.AttractionTypes, types.AttractionType("VOLCANOES"))
	err := ValidatePreferenceRequest(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidPreference)
}

func TestEveryTourLengthHasACap(t *testing.T) {
	lengths := []types.TourLength{
		types.TourLengthHalfDay,
		types.TourLengthFullDay,
		types.TourLengthTwoThreeDays,
		types.TourLengthFourSevenDays,
	}
	want := []int{3, 5, 8, 12}
	for i, l := range lengths {
		got, ok := l.PlaceCap()
		require.True(t, ok, "length %s", l)
		assert.Equal(t, want[i], got)
	}
}

func TestEveryAttractionTypeMapsToACategory(t *testing.T) {
	attractions := []types.AttractionType{
		types.AttractionHistorical,
		types.AttractionMuseums,
		types.AttractionNature,
		types.AttractionParks,
		types.AttractionLandmarks,
	}
	for _, a := range attractions {
		_, ok := a.PlaceType()
		assert.True(t, ok, "attraction %s", a)
	}
}
