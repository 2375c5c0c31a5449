// Package match aligns resume skills with job requirements through a
// three-tier cascade (exact, fuzzy, semantic) and computes text-level
// similarities between the two documents.
package match

import (
	"context"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
	"github.com/fairyhunter13/resume-relevance/pkg/textx"
)

const (
	fuzzyThreshold    = 85
	semanticThreshold = 0.70
	embedTextLimit    = 2000

	weightSkill     = 0.40
	weightEmbedding = 0.35
	weightText      = 0.25
)

// Matcher runs the skill match cascade. The embedding backend is optional;
// without one the semantic tier is skipped and embedding similarity is 0.
type Matcher struct {
	embed domain.EmbeddingBackend
}

// NewMatcher builds a Matcher with an optional embedding backend.
func NewMatcher(embed domain.EmbeddingBackend) *Matcher {
	return &Matcher{embed: embed}
}

// Match aligns the resume skill profile with the parsed job description.
func (m *Matcher) Match(ctx context.Context, profile domain.SkillProfile, jd domain.ParsedJobDescription, resumeText, jdText string) domain.SemanticMatchResult {
	resumeSkills := dedupe(profile.AllSkillNames())
	jdSkills := dedupe(append(append([]string{}, jd.RequiredSkills...), jd.PreferredSkills...))

	matches, matchedJD, matchedResume := m.cascade(ctx, resumeSkills, jdSkills)

	res := domain.SemanticMatchResult{
		SkillMatches:     matches,
		MissingSkills:    subtract(jd.RequiredSkills, matchedJD),
		AdditionalSkills: subtract(resumeSkills, matchedResume),
		CategorySimilarities: map[string]domain.Confidence{
			"technical": domain.Confidence(domain.Round2(jaccard(names(profile.TechnicalSkills), jd.RequiredSkills))),
			"tools":     domain.Confidence(domain.Round2(jaccard(names(profile.ToolsPlatforms), jd.RequiredSkills))),
		},
	}
	res.EmbeddingSimilarity = domain.Confidence(domain.Round2(m.documentSimilarity(ctx, resumeText, jdText)))
	res.TextSimilarity = domain.Confidence(domain.Round2(tfidfCosine(resumeText, jdText)))
	res.OverallSimilarity = domain.Confidence(domain.Round2(overall(matches, len(jd.RequiredSkills), float64(res.EmbeddingSimilarity), float64(res.TextSimilarity))))
	return res
}

// cascade runs exact, fuzzy and semantic tiers; each tier sees only the
// resume and JD skills left unmatched by the previous one.
func (m *Matcher) cascade(ctx context.Context, resumeSkills, jdSkills []string) ([]domain.SkillMatch, map[string]bool, map[string]bool) {
	var matches []domain.SkillMatch
	matchedJD := make(map[string]bool)
	matchedResume := make(map[string]bool)
	record := func(sm domain.SkillMatch) {
		matches = append(matches, sm)
		matchedJD[strings.ToLower(sm.JDSkill)] = true
		matchedResume[strings.ToLower(sm.ResumeSkill)] = true
	}
	unmatchedResume := func() []string {
		var out []string
		for _, rs := range resumeSkills {
			if !matchedResume[strings.ToLower(rs)] {
				out = append(out, rs)
			}
		}
		return out
	}

	var remaining []string
	for _, jdSkill := range jdSkills {
		found := false
		for _, rs := range resumeSkills {
			if strings.EqualFold(jdSkill, rs) {
				record(domain.SkillMatch{
					SkillName:   jdSkill,
					ResumeSkill: rs,
					JDSkill:     jdSkill,
					MatchType:   domain.MatchExact,
					Confidence:  1.0,
				})
				found = true
				break
			}
		}
		if !found {
			remaining = append(remaining, jdSkill)
		}
	}

	pool := unmatchedResume()
	var semanticLeft []string
	for _, jdSkill := range remaining {
		best, bestRatio := "", 0
		for _, rs := range pool {
			ratio := fuzzy.TokenSortRatio(strings.ToLower(jdSkill), strings.ToLower(rs))
			if ratio > bestRatio {
				best, bestRatio = rs, ratio
			}
		}
		if bestRatio >= fuzzyThreshold {
			record(domain.SkillMatch{
				SkillName:   jdSkill,
				ResumeSkill: best,
				JDSkill:     jdSkill,
				MatchType:   domain.MatchFuzzy,
				Confidence:  domain.Confidence(domain.Round2(float64(bestRatio) / 100)),
			})
			continue
		}
		semanticLeft = append(semanticLeft, jdSkill)
	}

	pool = unmatchedResume()
	if m.embed != nil && len(semanticLeft) > 0 && len(pool) > 0 {
		m.semanticTier(ctx, semanticLeft, pool, record)
	}
	return matches, matchedJD, matchedResume
}

func (m *Matcher) semanticTier(ctx context.Context, jdSkills, resumeSkills []string, record func(domain.SkillMatch)) {
	vecs, err := m.embed.Embed(ctx, append(append([]string{}, jdSkills...), resumeSkills...))
	if err != nil || len(vecs) != len(jdSkills)+len(resumeSkills) {
		return
	}
	jdVecs := vecs[:len(jdSkills)]
	resumeVecs := vecs[len(jdSkills):]
	for i, jdSkill := range jdSkills {
		best, bestSim := "", 0.0
		for j, rs := range resumeSkills {
			if sim := cosine32(jdVecs[i], resumeVecs[j]); sim > bestSim {
				best, bestSim = rs, sim
			}
		}
		if bestSim >= semanticThreshold {
			sim := domain.Confidence(domain.Round2(bestSim))
			record(domain.SkillMatch{
				SkillName:          jdSkill,
				ResumeSkill:        best,
				JDSkill:            jdSkill,
				MatchType:          domain.MatchSemantic,
				Confidence:         sim,
				SemanticSimilarity: &sim,
			})
		}
	}
}

// documentSimilarity embeds the first 2000 characters of both texts.
func (m *Matcher) documentSimilarity(ctx context.Context, resumeText, jdText string) float64 {
	if m.embed == nil || resumeText == "" || jdText == "" {
		return 0
	}
	vecs, err := m.embed.Embed(ctx, []string{head(resumeText), head(jdText)})
	if err != nil || len(vecs) != 2 {
		return 0
	}
	return cosine32(vecs[0], vecs[1])
}

// overall blends skill coverage with document similarities. Coverage counts
// every match (preferred-skill matches included) against the required count,
// so the component is capped after averaging.
func overall(matches []domain.SkillMatch, requiredCount int, embeddingSim, textSim float64) float64 {
	skillComponent := 0.0
	if requiredCount > 0 {
		var confSum float64
		for _, sm := range matches {
			confSum += float64(sm.Confidence)
		}
		coverage := float64(len(matches)) / float64(requiredCount)
		weighted := confSum / float64(requiredCount)
		skillComponent = (coverage + weighted) / 2
		if skillComponent > 1 {
			skillComponent = 1
		}
	}
	return weightSkill*skillComponent + weightEmbedding*embeddingSim + weightText*textSim
}

// head limits the text sent to the embeddings API to the first
// embedTextLimit characters, never splitting a rune.
func head(s string) string {
	return textx.FirstN(s, embedTextLimit)
}

func names(bucket []domain.ExtractedSkill) []string {
	out := make([]string, 0, len(bucket))
	for _, s := range bucket {
		out = append(out, s.Name)
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range in {
		k := strings.ToLower(s)
		if s != "" && !seen[k] {
			seen[k] = true
			out = append(out, s)
		}
	}
	return out
}

// subtract returns items whose lowercase form is not in the matched set,
// preserving input order and deduplicating.
func subtract(items []string, matched map[string]bool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range items {
		k := strings.ToLower(s)
		if !matched[k] && !seen[k] {
			seen[k] = true
			out = append(out, s)
		}
	}
	return out
}

// jaccard is set similarity over lowercased names.
func jaccard(a, b []string) float64 {
	as, bs := toSet(a), toSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	inter := 0
	for k := range as {
		if bs[k] {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	return float64(inter) / float64(union)
}

func toSet(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, s := range in {
		out[strings.ToLower(s)] = true
	}
	return out
}
