package questions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

func TestGenerate_IntentStage(t *testing.T) {
	s := model.DefaultPlannerState()
	qs := Generate(model.StageCollectIntent, s, 3, nil)
	assert.Equal(t, []string{IDTripPurpose, IDBudgetStyle, IDTripPace}, model.QuestionIDs(qs))
	for _, q := range qs {
		require.NoError(t, q.Validate())
		for _, o := range q.Options {
			assert.NotEmpty(t, o.Reason)
		}
	}
}

func TestGenerate_AvoidsPreviousUnlessEmpty(t *testing.T) {
	s := model.DefaultPlannerState()
	s.Trip.PurposeTags = []string{"food"}

	qs := Generate(model.StageCollectRegion, s, 3, []string{IDDestination})
	assert.Equal(t, []string{IDMustVisit}, model.QuestionIDs(qs))

	qs = Generate(model.StageCollectRegion, s, 3, []string{IDDestination, IDMustVisit})
	assert.Equal(t, []string{IDDestination, IDMustVisit}, model.QuestionIDs(qs))
}

func TestGenerate_Limit(t *testing.T) {
	s := model.DefaultPlannerState()
	qs := Generate(model.StageCollectIntent, s, 1, nil)
	assert.Len(t, qs, 1)
}

func TestGenerate_DiverseRegionOptions(t *testing.T) {
	s := model.DefaultPlannerState()
	qs := Generate(model.StageCollectRegion, s, 3, nil)
	require.NotEmpty(t, qs)
	assert.Equal(t, "Tokyo, Japan", qs[0].Options[0].Value)

	s.Dialog.QuestionAttempts[IDTripPurpose] = 1
	qs = Generate(model.StageCollectRegion, s, 3, nil)
	assert.Equal(t, "Fukuoka, Japan", qs[0].Options[0].Value)
}

func TestGenerate_WeightsStage(t *testing.T) {
	s := model.DefaultPlannerState()
	qs := Generate(model.StageCollectWeights, s, 3, nil)
	assert.Equal(t, []string{IDOrigin, IDComfort, IDFlightConstraints}, model.QuestionIDs(qs))

	s.Trip.Constraints.AvoidRedEye = true
	s.Trip.SeatClass.Set(model.SeatEconomy)
	qs = Generate(model.StageCollectWeights, s, 3, nil)
	assert.Equal(t, []string{IDOrigin}, model.QuestionIDs(qs))
}

func TestGenerate_NonCollectStageIsEmpty(t *testing.T) {
	qs := Generate(model.StageSearch, model.DefaultPlannerState(), 3, nil)
	assert.NotNil(t, qs)
	assert.Empty(t, qs)
}

func TestRecommend(t *testing.T) {
	s := model.DefaultPlannerState()
	s.Trip.Region = model.Region{City: "Tokyo", Country: "Japan", FreeText: "Tokyo, Japan"}
	assert.Equal(t, []string{IDRouteOffer}, model.QuestionIDs(Recommend(s)))

	s.Dialog.RouteAccepted = model.RouteYes
	assert.Equal(t, []string{IDRouteStayArea}, model.QuestionIDs(Recommend(s)))

	s.Dialog.QuestionAttempts[IDRouteStayArea] = 1
	assert.Empty(t, Recommend(s))

	s.Dialog.RouteAccepted = model.RouteNo
	assert.Empty(t, Recommend(s))
}

func TestOriginQuestion(t *testing.T) {
	q := Origin()
	require.NoError(t, q.Validate())
	assert.Equal(t, IDOrigin, q.ID)
	assert.Len(t, q.Options, 3)
}

func TestRepeated(t *testing.T) {
	assert.True(t, Repeated([]string{"a", "b"}, []string{"b"}))
	assert.False(t, Repeated([]string{"a"}, []string{"a", "c"}))
	assert.False(t, Repeated(nil, []string{"a"}))
	assert.False(t, Repeated([]string{"a"}, nil))
}
