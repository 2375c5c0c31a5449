// Package score combines the structured resume, skill profile, match result
// and parsed job description into a weighted FinalScore with a suitability
// verdict and a confidence level.
package score

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
	"github.com/fairyhunter13/resume-relevance/internal/pipeline/skills"
)

// criticalMarkers flag a JD skill mention as non-negotiable.
var criticalMarkers = []string{"required", "must", "essential", "mandatory"}

// degreeKeywordFamilies drive education relevance; the family whose keyword
// appears first in the job title and content is selected.
var degreeKeywordFamilies = []struct {
	name     string
	keywords []string
}{
	{"software", []string{"computer", "software", "information", "technology", "engineering"}},
	{"data", []string{"data", "statistics", "mathematics", "analytics", "science"}},
	{"marketing", []string{"marketing", "business", "communications", "advertising"}},
	{"finance", []string{"finance", "accounting", "economics", "business"}},
	{"sales", []string{"sales", "business", "marketing", "communications"}},
}

var educationLevels = []struct {
	level    int
	keywords []string
}{
	{5, []string{"phd", "ph.d", "doctorate", "doctoral"}},
	{4, []string{"master", "mba", "m.s", "ms ", "m.a", "ma "}},
	{3, []string{"bachelor", "b.s", "bs ", "b.a", "ba "}},
	{2, []string{"associate"}},
	{1, []string{"diploma", "certificate"}},
}

const defaultRequiredYears = 2

// Engine computes final scores under a fixed weight and threshold set.
type Engine struct {
	weights    domain.ScoringWeights
	thresholds domain.Thresholds
	softSet    map[string]bool
}

// NewEngine builds an Engine. The dictionary supplies the canonical
// soft-skill set; nil loads the built-in one.
func NewEngine(weights domain.ScoringWeights, thresholds domain.Thresholds, dict *skills.Dictionary) *Engine {
	if dict == nil {
		dict = skills.NewDictionary()
	}
	softSet := make(map[string]bool)
	for _, e := range dict.Entries() {
		if e.Category == domain.CategorySoftSkills {
			softSet[strings.ToLower(e.Name)] = true
		}
	}
	return &Engine{weights: weights, thresholds: thresholds, softSet: softSet}
}

// Score produces the FinalScore. It fails only on invalid weights.
func (e *Engine) Score(resume domain.ParsedResume, profile domain.SkillProfile, match domain.SemanticMatchResult, jd domain.ParsedJobDescription) (domain.FinalScore, error) {
	if err := e.weights.Validate(); err != nil {
		return domain.FinalScore{}, fmt.Errorf("op=score: %w", err)
	}

	hard := e.hardSkills(profile, match, jd)
	soft := e.softSkills(profile, jd)
	years, relevance := e.experienceParts(resume, jd)
	experience := 0.6*years + 0.4*relevance
	level, eduRelevance := e.educationParts(resume, jd)
	education := 0.6*level + 0.4*eduRelevance
	if len(resume.Education) == 0 {
		education = 0.3
	}
	semantic := float64(match.OverallSimilarity)

	overall := 100 * (e.weights.HardSkills*hard +
		e.weights.SoftSkills*soft +
		e.weights.Experience*experience +
		e.weights.Education*education +
		e.weights.SemanticMatch*semantic)

	ds := domain.DetailedScores{
		HardSkillsScore:    domain.Score(domain.Round1(hard * 100)),
		SoftSkillsScore:    domain.Score(domain.Round1(soft * 100)),
		ExperienceScore:    domain.Score(domain.Round1(experience * 100)),
		EducationScore:     domain.Score(domain.Round1(education * 100)),
		SemanticMatchScore: domain.Score(domain.Round1(semantic * 100)),

		TechnicalSkillsScore:     countScore(len(profile.TechnicalSkills), 10),
		DomainExpertiseScore:     countScore(len(profile.DomainExpertise), 5),
		ToolsPlatformsScore:      countScore(len(profile.ToolsPlatforms), 8),
		YearsExperienceScore:     domain.Score(domain.Round1(years * 100)),
		ExperienceRelevanceScore: domain.Score(domain.Round1(relevance * 100)),
		EducationLevelScore:      domain.Score(domain.Round1(level * 100)),
		EducationRelevanceScore:  domain.Score(domain.Round1(eduRelevance * 100)),

		SkillsMatchedCount:    len(match.SkillMatches),
		SkillsRequiredCount:   len(jd.RequiredSkills),
		SkillsMissingCount:    len(match.MissingSkills),
		SkillsAdditionalCount: len(match.AdditionalSkills),
	}
	ds.ParsingConfidence = domain.Confidence(domain.Round2(float64(resume.ParsingConfidence) * 100))
	ds.MatchingConfidence = domain.Confidence(domain.Round2(matchingConfidence(match) * 100))
	ds.OverallConfidence = domain.Confidence(domain.Round2((float64(ds.ParsingConfidence) + float64(ds.MatchingConfidence)) / 2))

	fs := domain.FinalScore{
		OverallScore:    domain.Score(domain.Round1(overall)),
		DetailedScores:  ds,
		Suitability:     e.suitability(overall, ds),
		ConfidenceLevel: confidenceLevel(confidenceFactors(resume, match, jd)),
	}
	return fs, nil
}

// hardSkills rewards confident coverage of required skills, breadth across
// categories, and penalizes missing critical skills.
func (e *Engine) hardSkills(profile domain.SkillProfile, match domain.SemanticMatchResult, jd domain.ParsedJobDescription) float64 {
	required := jd.RequiredSkills
	if len(required) == 0 {
		return 0.5
	}

	confident, highConf := 0, 0
	for _, sm := range match.SkillMatches {
		if sm.Confidence >= 0.70 {
			confident++
		}
		if sm.Confidence >= 0.90 {
			highConf++
		}
	}

	score := float64(confident) / float64(len(required))
	score += 0.2 * float64(profile.SkillDiversityScore)
	score += 0.1 * float64(highConf) / float64(len(required))

	var critical []string
	for _, r := range required {
		if containsAny(strings.ToLower(r), criticalMarkers) {
			critical = append(critical, r)
		}
	}
	if len(critical) > 0 {
		missingSet := toSet(match.MissingSkills)
		missingCritical := 0
		for _, c := range critical {
			if missingSet[strings.ToLower(c)] {
				missingCritical++
			}
		}
		score -= 0.3 * float64(missingCritical) / float64(len(critical))
	}
	return clamp01(score)
}

// softSkills scores the resume's soft skills against the ones the JD names
// anywhere in its text or skill lists.
func (e *Engine) softSkills(profile domain.SkillProfile, jd domain.ParsedJobDescription) float64 {
	combined := strings.ToLower(jd.RawContent + " " + strings.Join(jd.Requirements, " "))

	var jdSoft []string
	for name := range e.softSet {
		if strings.Contains(combined, name) {
			jdSoft = append(jdSoft, name)
		}
	}

	var base float64
	switch {
	case len(jdSoft) > 0:
		matched := 0
		for _, want := range jdSoft {
			for _, got := range profile.SoftSkills {
				if strings.Contains(strings.ToLower(got.Name), want) {
					matched++
					break
				}
			}
		}
		base = float64(matched) / float64(len(jdSoft))
	case len(profile.SoftSkills) > 0:
		base = 0.8
	default:
		base = 0.3
	}

	variety := float64(len(profile.SoftSkills)) / 10
	if variety > 0.2 {
		variety = 0.2
	}
	return clamp01(base + variety)
}

func (e *Engine) experienceParts(resume domain.ParsedResume, jd domain.ParsedJobDescription) (years, relevance float64) {
	candidate := 0.0
	if resume.TotalExperienceYears != nil {
		candidate = *resume.TotalExperienceYears
	}
	required := defaultRequiredYears
	if jd.RequiredExperienceYears != nil && *jd.RequiredExperienceYears > 0 {
		required = *jd.RequiredExperienceYears
	}
	years = yearsScore(candidate, float64(required))
	relevance = e.relevanceScore(resume.WorkExperience, jd)
	return years, relevance
}

func yearsScore(candidate, required float64) float64 {
	r := candidate / required
	switch {
	case r >= 1.5:
		return 1.0
	case r >= 1:
		return 1.0
	case r >= 0.75:
		return 0.8
	case r >= 0.5:
		return 0.6
	default:
		return 0.5 * r
	}
}

// relevanceScore blends per-entry title, industry and description relevance
// under a recency weight, then combines the top entries.
func (e *Engine) relevanceScore(entries []domain.WorkExperience, jd domain.ParsedJobDescription) float64 {
	if len(entries) == 0 {
		return 0.2
	}
	jdTitleTokens := tokenSet(jd.Title)
	jdCompanyTokens := tokenSet(jd.Company)

	keywords := make(map[string]bool)
	for _, s := range jd.RequiredSkills {
		keywords[strings.ToLower(s)] = true
	}
	for _, r := range jd.Responsibilities {
		for t := range tokenSet(r) {
			keywords[t] = true
		}
	}

	var scores []float64
	currentYear := time.Now().Year()
	for _, w := range entries {
		// Missing data on either side scores a neutral 0.5 rather than
		// penalizing the entry.
		title := 0.5
		if entryTitle := tokenSet(w.Title); len(entryTitle) > 0 && len(jdTitleTokens) > 0 {
			title = jaccard(entryTitle, jdTitleTokens)
		}

		industry := 0.5
		if entryCompany := tokenSet(w.Company); len(entryCompany) > 0 && len(jdCompanyTokens) > 0 {
			industry = 0.4
			if overlaps(entryCompany, jdCompanyTokens) {
				industry = 0.9
			}
		}

		description := 0.3
		if len(w.Description) > 0 {
			if len(keywords) == 0 {
				description = 0.5
			} else {
				text := strings.ToLower(strings.Join(w.Description, " "))
				hits := 0
				for kw := range keywords {
					if strings.Contains(text, kw) {
						hits++
					}
				}
				description = float64(hits) / float64(len(keywords))
				if description > 1 {
					description = 1
				}
			}
		}

		entry := (0.4*title + 0.2*industry + 0.4*description) * recencyWeight(w.EndDate, currentYear)
		scores = append(scores, entry)
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	switch {
	case len(scores) >= 3:
		return 0.5*scores[0] + 0.3*scores[1] + 0.2*scores[2]
	case len(scores) == 2:
		return 0.7*scores[0] + 0.3*scores[1]
	default:
		return scores[0]
	}
}

func recencyWeight(endDate string, currentYear int) float64 {
	if endDate == "" || strings.EqualFold(endDate, "present") {
		return 1.0
	}
	year := 0
	for _, f := range strings.FieldsFunc(endDate, func(r rune) bool { return r < '0' || r > '9' }) {
		if len(f) == 4 {
			if y, err := strconv.Atoi(f); err == nil {
				year = y
			}
		}
	}
	if year == 0 {
		return 0.7
	}
	w := 1 - 0.1*float64(currentYear-year)
	if w < 0.5 {
		return 0.5
	}
	if w > 1 {
		return 1
	}
	return w
}

func (e *Engine) educationParts(resume domain.ParsedResume, jd domain.ParsedJobDescription) (level, relevance float64) {
	candidate := 0
	var degreeTexts []string
	for _, ed := range resume.Education {
		degreeTexts = append(degreeTexts, ed.Degree)
		if l := educationLevel(ed.Degree); l > candidate {
			candidate = l
		}
	}

	jdText := strings.ToLower(jd.RawContent + " " +
		strings.Join(jd.Requirements, " ") + " " + strings.Join(jd.EducationRequirements, " "))
	required := requiredEducationLevel(jdText)

	switch {
	case candidate >= required:
		level = 1.0
	case candidate == required-1:
		level = 0.8
	default:
		level = 0.5
	}

	relevance = e.educationRelevance(degreeTexts, jd)
	return level, relevance
}

func educationLevel(text string) int {
	lower := strings.ToLower(text)
	for _, l := range educationLevels {
		if containsAny(lower, l.keywords) {
			return l.level
		}
	}
	return 0
}

// requiredEducationLevel reads the JD's expectation. A generic "degree"
// mention reads as bachelor; the floor is associate.
func requiredEducationLevel(text string) int {
	switch {
	case containsAny(text, []string{"phd", "ph.d", "doctorate", "doctoral"}):
		return 5
	case containsAny(text, []string{"master", "mba", "m.s.", "m.a."}):
		return 4
	case containsAny(text, []string{"bachelor", "b.s.", "b.a.", "degree"}):
		return 3
	default:
		return 2
	}
}

// educationRelevance scores the best single degree against the JD's domain
// keyword family.
func (e *Engine) educationRelevance(degreeTexts []string, jd domain.ParsedJobDescription) float64 {
	jdText := strings.ToLower(jd.Title + " " + jd.RawContent)
	var keywords []string
	bestPos := -1
	for _, fam := range degreeKeywordFamilies {
		famPos := -1
		for _, kw := range fam.keywords {
			if pos := strings.Index(jdText, kw); pos >= 0 && (famPos < 0 || pos < famPos) {
				famPos = pos
			}
		}
		if famPos >= 0 && (bestPos < 0 || famPos < bestPos) {
			bestPos = famPos
			keywords = fam.keywords
		}
	}
	if len(keywords) == 0 {
		return 0.7
	}
	best := 0
	for _, degree := range degreeTexts {
		lower := strings.ToLower(degree)
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > best {
			best = hits
		}
	}
	v := float64(best) / float64(len(keywords))
	if v > 1 {
		v = 1
	}
	return v
}

// suitability maps the overall score to a tier, then applies the ordered
// adjustment rules.
func (e *Engine) suitability(overall float64, ds domain.DetailedScores) string {
	tier := domain.SuitabilityLow
	switch {
	case overall >= e.thresholds.High:
		tier = domain.SuitabilityHigh
	case overall >= e.thresholds.Medium:
		tier = domain.SuitabilityMedium
	}

	if ds.SkillsMissingCount > ds.SkillsMatchedCount {
		switch tier {
		case domain.SuitabilityHigh:
			tier = domain.SuitabilityMedium
		case domain.SuitabilityMedium:
			tier = domain.SuitabilityLow
		}
	}

	exceptional := ds.ExperienceScore >= 90 || ds.HardSkillsScore >= 95 || ds.EducationScore >= 90
	if exceptional && tier == domain.SuitabilityLow && overall >= 50 {
		tier = domain.SuitabilityMedium
	}

	if float64(ds.OverallConfidence) < 60 && tier == domain.SuitabilityHigh {
		tier = domain.SuitabilityMedium
	}
	return tier
}

func matchingConfidence(match domain.SemanticMatchResult) float64 {
	if len(match.SkillMatches) == 0 {
		return 0.5
	}
	var sum float64
	for _, sm := range match.SkillMatches {
		sum += float64(sm.Confidence)
	}
	return sum / float64(len(match.SkillMatches))
}

// confidenceFactors averages the five reliability signals.
func confidenceFactors(resume domain.ParsedResume, match domain.SemanticMatchResult, jd domain.ParsedJobDescription) float64 {
	denom := len(jd.RequiredSkills)
	if denom == 0 {
		denom = 1
	}
	coverage := float64(len(match.SkillMatches)) / float64(denom)
	if coverage > 1 {
		coverage = 1
	}
	email := 0.5
	if resume.Contact.Email != "" {
		email = 1.0
	}
	work := 0.3
	if len(resume.WorkExperience) > 0 {
		work = 1.0
	}
	return (float64(resume.ParsingConfidence) + matchingConfidence(match) + coverage + email + work) / 5
}

func confidenceLevel(conf float64) string {
	switch {
	case conf >= 0.8:
		return domain.ConfidenceHigh
	case conf >= 0.6:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func countScore(n, denom int) domain.Score {
	v := float64(n) / float64(denom) * 100
	if v > 100 {
		v = 100
	}
	return domain.Score(domain.Round1(v))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toSet(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, s := range in {
		out[strings.ToLower(s)] = true
	}
	return out
}

func tokenSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(s)) {
		f = strings.Trim(f, ".,;:()")
		if f != "" {
			out[f] = true
		}
	}
	return out
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

func overlaps(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
