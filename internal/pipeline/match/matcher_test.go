package match

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
)

func profileOf(technical []string, tools []string) domain.SkillProfile {
	var p domain.SkillProfile
	for _, n := range technical {
		p.TechnicalSkills = append(p.TechnicalSkills, domain.ExtractedSkill{Name: n, Category: domain.CategoryProgrammingLanguages, Confidence: 0.9})
	}
	for _, n := range tools {
		p.ToolsPlatforms = append(p.ToolsPlatforms, domain.ExtractedSkill{Name: n, Category: domain.CategoryCloudPlatforms, Confidence: 0.9})
	}
	p.TotalSkillsCount = len(technical) + len(tools)
	return p
}

func TestMatchExactTier(t *testing.T) {
	m := NewMatcher(nil)
	p := profileOf([]string{"Python", "Django"}, []string{"Docker"})
	jd := domain.ParsedJobDescription{RequiredSkills: []string{"python", "Docker", "Kubernetes"}}

	res := m.Match(context.Background(), p, jd, "resume text", "jd text")

	byJD := map[string]domain.SkillMatch{}
	for _, sm := range res.SkillMatches {
		byJD[strings.ToLower(sm.JDSkill)] = sm
	}
	require.Contains(t, byJD, "python")
	assert.Equal(t, domain.MatchExact, byJD["python"].MatchType)
	assert.Equal(t, domain.Confidence(1.0), byJD["python"].Confidence)
	assert.Equal(t, "Python", byJD["python"].ResumeSkill)

	assert.Equal(t, []string{"Kubernetes"}, res.MissingSkills)
	assert.Equal(t, []string{"Django"}, res.AdditionalSkills)
}

func TestMatchFuzzyTier(t *testing.T) {
	m := NewMatcher(nil)
	p := profileOf([]string{"Postgres SQL"}, nil)
	jd := domain.ParsedJobDescription{RequiredSkills: []string{"SQL Postgres"}}

	res := m.Match(context.Background(), p, jd, "", "")
	require.Len(t, res.SkillMatches, 1)
	sm := res.SkillMatches[0]
	assert.Equal(t, domain.MatchFuzzy, sm.MatchType)
	assert.GreaterOrEqual(t, float64(sm.Confidence), 0.85)
	assert.Empty(t, res.MissingSkills)
}

func TestFuzzyTierSkipsConsumedResumeSkills(t *testing.T) {
	m := NewMatcher(nil)
	// "Python" is consumed by the exact tier, so "Pythonic" cannot fuzzy
	// match against it even though the ratio clears the threshold.
	p := profileOf([]string{"Python"}, nil)
	jd := domain.ParsedJobDescription{RequiredSkills: []string{"Python", "Pythonic"}}

	res := m.Match(context.Background(), p, jd, "", "")
	require.Len(t, res.SkillMatches, 1)
	assert.Equal(t, domain.MatchExact, res.SkillMatches[0].MatchType)
	assert.Equal(t, []string{"Pythonic"}, res.MissingSkills)
}

func TestMatchSetLaws(t *testing.T) {
	m := NewMatcher(nil)
	p := profileOf([]string{"Python", "Java", "Rust"}, []string{"AWS"})
	jd := domain.ParsedJobDescription{
		RequiredSkills:  []string{"Python", "Kubernetes"},
		PreferredSkills: []string{"AWS"},
	}
	res := m.Match(context.Background(), p, jd, "r", "j")

	resumeSet := toSet(p.AllSkillNames())
	jdSet := toSet(append(jd.RequiredSkills, jd.PreferredSkills...))
	for _, sm := range res.SkillMatches {
		assert.True(t, resumeSet[strings.ToLower(sm.ResumeSkill)])
		assert.True(t, jdSet[strings.ToLower(sm.JDSkill)])
	}
	matchedJD := map[string]bool{}
	matchedResume := map[string]bool{}
	for _, sm := range res.SkillMatches {
		matchedJD[strings.ToLower(sm.JDSkill)] = true
		matchedResume[strings.ToLower(sm.ResumeSkill)] = true
	}
	for _, s := range res.MissingSkills {
		assert.False(t, matchedJD[strings.ToLower(s)])
	}
	for _, s := range res.AdditionalSkills {
		assert.False(t, matchedResume[strings.ToLower(s)])
	}
}

type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := f.vectors[strings.ToLower(t)]
		if !ok {
			v = []float32{0, 0, 1}
		}
		out[i] = v
	}
	return out, nil
}

func TestMatchSemanticTier(t *testing.T) {
	emb := fakeEmbedder{vectors: map[string][]float32{
		"containers": {1, 0, 0},
		"docker":     {0.95, 0.05, 0},
	}}
	m := NewMatcher(emb)
	p := profileOf([]string{"Docker"}, nil)
	jd := domain.ParsedJobDescription{RequiredSkills: []string{"Containers"}}

	res := m.Match(context.Background(), p, jd, "", "")
	require.Len(t, res.SkillMatches, 1)
	sm := res.SkillMatches[0]
	assert.Equal(t, domain.MatchSemantic, sm.MatchType)
	require.NotNil(t, sm.SemanticSimilarity)
	assert.GreaterOrEqual(t, float64(*sm.SemanticSimilarity), 0.70)
	assert.Empty(t, res.MissingSkills)
}

func TestMatchNoBackendSkipsSemantic(t *testing.T) {
	m := NewMatcher(nil)
	p := profileOf([]string{"Docker"}, nil)
	jd := domain.ParsedJobDescription{RequiredSkills: []string{"Containers"}}

	res := m.Match(context.Background(), p, jd, "", "")
	assert.Empty(t, res.SkillMatches)
	assert.Equal(t, []string{"Containers"}, res.MissingSkills)
	assert.Equal(t, domain.Confidence(0), res.EmbeddingSimilarity)
}

func TestMatchEmbeddingSimilarity(t *testing.T) {
	emb := fakeEmbedder{vectors: map[string][]float32{
		"same text": {1, 0, 0},
	}}
	m := NewMatcher(emb)
	res := m.Match(context.Background(), domain.SkillProfile{}, domain.ParsedJobDescription{}, "same text", "same text")
	assert.InDelta(t, 1.0, float64(res.EmbeddingSimilarity), 1e-6)
}

func TestTextSimilarity(t *testing.T) {
	m := NewMatcher(nil)
	same := m.Match(context.Background(), domain.SkillProfile{}, domain.ParsedJobDescription{},
		"python backend engineer with django experience",
		"python backend engineer with django experience")
	diff := m.Match(context.Background(), domain.SkillProfile{}, domain.ParsedJobDescription{},
		"python backend engineer", "gardening and floral arrangement")

	assert.InDelta(t, 1.0, float64(same.TextSimilarity), 1e-6)
	assert.Less(t, float64(diff.TextSimilarity), 0.1)
}

func TestOverallSimilarityNoRequired(t *testing.T) {
	m := NewMatcher(nil)
	res := m.Match(context.Background(), profileOf([]string{"Python"}, nil), domain.ParsedJobDescription{}, "", "")
	assert.Equal(t, domain.Confidence(0), res.OverallSimilarity)
}

func TestOverallSimilarityFullCoverage(t *testing.T) {
	m := NewMatcher(nil)
	p := profileOf([]string{"Python"}, nil)
	jd := domain.ParsedJobDescription{RequiredSkills: []string{"Python"}}
	res := m.Match(context.Background(), p, jd, "python", "python")

	// skill component 1.0 and identical texts: 0.40 + 0 + 0.25
	assert.InDelta(t, 0.65, float64(res.OverallSimilarity), 1e-6)
}

func TestOverallSimilarityCountsPreferredMatches(t *testing.T) {
	m := NewMatcher(nil)
	p := profileOf([]string{"Python"}, []string{"AWS"})
	jd := domain.ParsedJobDescription{
		RequiredSkills:  []string{"Python"},
		PreferredSkills: []string{"AWS"},
	}
	res := m.Match(context.Background(), p, jd, "", "")

	// Two matches over one required skill saturate the skill component.
	require.Len(t, res.SkillMatches, 2)
	assert.InDelta(t, 0.40, float64(res.OverallSimilarity), 1e-6)
}

func TestCategorySimilarities(t *testing.T) {
	m := NewMatcher(nil)
	p := profileOf([]string{"Python", "Java"}, []string{"AWS"})
	jd := domain.ParsedJobDescription{RequiredSkills: []string{"Python", "AWS"}}
	res := m.Match(context.Background(), p, jd, "", "")

	// technical: {python,java} vs {python,aws} -> 1/3
	assert.InDelta(t, 0.33, float64(res.CategorySimilarities["technical"]), 0.01)
	// tools: {aws} vs {python,aws} -> 1/2
	assert.InDelta(t, 0.5, float64(res.CategorySimilarities["tools"]), 1e-6)
}

func TestHeadCutsOnRuneBoundaries(t *testing.T) {
	long := strings.Repeat("é", embedTextLimit+100)
	got := head(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, embedTextLimit, utf8.RuneCountInString(got))

	short := "résumé"
	assert.Equal(t, short, head(short))
}
