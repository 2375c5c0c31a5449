package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreMarshalsOneDecimal(t *testing.T) {
	b, err := json.Marshal(Score(87.456))
	require.NoError(t, err)
	assert.Equal(t, "87.5", string(b))

	b, err = json.Marshal(Score(0))
	require.NoError(t, err)
	assert.Equal(t, "0.0", string(b))

	var s Score
	require.NoError(t, json.Unmarshal([]byte("73.2"), &s))
	assert.InDelta(t, 73.2, float64(s), 1e-9)
}

func TestConfidenceMarshalsTwoDecimals(t *testing.T) {
	b, err := json.Marshal(Confidence(0.847))
	require.NoError(t, err)
	assert.Equal(t, "0.85", string(b))

	b, err = json.Marshal(Confidence(1))
	require.NoError(t, err)
	assert.Equal(t, "1.00", string(b))
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())

	w := ScoringWeights{HardSkills: 0.35, SoftSkills: 0.15, Experience: 0.25, Education: 0.15, SemanticMatch: 0.105}
	assert.NoError(t, w.Validate(), "sum 1.005 is inside the tolerance")

	w.HardSkills = 0.50
	err := w.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWeights)

	w = ScoringWeights{HardSkills: 1.5, SoftSkills: -0.5, Experience: 0, Education: 0, SemanticMatch: 0}
	err = w.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestVerdictDetailsByTier(t *testing.T) {
	cases := []struct {
		suitability string
		verdict     string
		action      string
	}{
		{SuitabilityHigh, "Strong Match", "Recommend for interview"},
		{SuitabilityMedium, "Potential Match", "Consider for interview with skill assessment"},
		{SuitabilityLow, "Weak Match", "Consider only if few alternatives available"},
	}
	for _, tc := range cases {
		v := FinalScore{Suitability: tc.suitability}.VerdictDetails()
		assert.Equal(t, tc.verdict, v.Verdict)
		assert.Equal(t, tc.action, v.Action)
		assert.NotEmpty(t, v.Description)
	}
}

func TestAllSkillNamesBucketOrder(t *testing.T) {
	p := SkillProfile{
		TechnicalSkills: []ExtractedSkill{{Name: "Python"}, {Name: "Go"}},
		SoftSkills:      []ExtractedSkill{{Name: "Leadership"}},
		DomainExpertise: []ExtractedSkill{{Name: "Machine Learning"}},
		ToolsPlatforms:  []ExtractedSkill{{Name: "Docker"}},
	}
	assert.Equal(t, []string{"Python", "Go", "Leadership", "Machine Learning", "Docker"}, p.AllSkillNames())
	assert.Empty(t, SkillProfile{}.AllSkillNames())
}
