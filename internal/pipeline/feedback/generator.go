// Package feedback derives candidate-facing feedback from the scored
// evaluation: assessment paragraph, strengths, improvement areas,
// recommendations, skill gap analysis and career/interview tips. An optional
// LLM backend may rewrite the assessment; template output is always the
// fallback.
package feedback

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
	"github.com/fairyhunter13/resume-relevance/internal/observability"
)

const (
	maxStrengths       = 6
	maxImprovements    = 5
	maxRecommendations = 6
	maxCareerTips      = 6
	maxInterviewTips   = 8

	llmMaxTokens   = 400
	llmTemperature = 0.7
)

// learningResources maps missing-skill keys to suggested resources.
var learningResources = []struct{ key, resource string }{
	{"python", "Codecademy Python Course, Real Python tutorials"},
	{"java", "Oracle Java Tutorials, Coursera Java Specialization"},
	{"javascript", "MDN Web Docs, freeCodeCamp JavaScript curriculum"},
	{"react", "React Official Tutorial, Scrimba React Course"},
	{"aws", "AWS Training and Certification, A Cloud Guru"},
	{"docker", "Docker Official Documentation, Docker Mastery course"},
	{"kubernetes", "Kubernetes.io tutorials, CNCF training"},
	{"machine learning", "Coursera ML Course, Kaggle Learn"},
	{"data science", "DataCamp, edX Data Science MicroMasters"},
	{"project management", "PMI certification, Coursera Project Management"},
}

const fallbackResource = "Online courses on platforms like Coursera, Udemy, or Pluralsight"

var certVendors = []string{"aws", "azure", "google", "microsoft", "oracle"}

// Generator builds Feedback. The LLM backend is optional enrichment; any
// failure falls back to the templated assessment.
type Generator struct {
	llm domain.LLMBackend
}

// NewGenerator builds a Generator with an optional LLM backend.
func NewGenerator(llm domain.LLMBackend) *Generator {
	return &Generator{llm: llm}
}

// Generate produces the full feedback bundle.
func (g *Generator) Generate(ctx context.Context, resume domain.ParsedResume, score domain.FinalScore, match domain.SemanticMatchResult, jd domain.ParsedJobDescription) domain.Feedback {
	name := resume.Contact.Name
	if name == "" {
		name = "Candidate"
	}
	title := jd.Title
	if title == "" {
		title = "the position"
	}

	keyStrengths := topStrengths(score)
	keyGaps := headOf(match.MissingSkills, 3)

	fb := domain.Feedback{
		OverallAssessment:        g.assessment(ctx, name, title, score, keyStrengths, keyGaps),
		Strengths:                strengths(resume, score, match),
		AreasForImprovement:      improvements(score, match),
		SpecificRecommendations:  recommendations(score, match, jd),
		SkillGapAnalysis:         gapAnalysis(match, jd),
		CareerAdvancementTips:    careerTips(resume, jd, score),
		InterviewPreparationTips: interviewTips(score, match, jd),
		ConfidenceLevel:          score.ConfidenceLevel,
	}
	return fb
}

// assessment asks the LLM when available; template output covers failures.
func (g *Generator) assessment(ctx context.Context, name, title string, score domain.FinalScore, keyStrengths, keyGaps []string) string {
	templated := templateAssessment(name, title, score, keyStrengths, keyGaps)
	if g.llm == nil {
		return templated
	}
	gaps := strings.Join(keyGaps, ", ")
	if gaps == "" {
		gaps = "No significant gaps identified"
	}
	prompt := fmt.Sprintf(`As an expert career counselor and technical recruiter, provide a comprehensive overall assessment for %s who applied for the %s position.

Evaluation Results:
- Overall Score: %s/100
- Suitability: %s
- Key Strengths: %s
- Key Gaps: %s

Provide a balanced, professional, and encouraging overall assessment in 2-3 paragraphs.`,
		name, title, formatScore(score.OverallScore), score.Suitability, strings.Join(keyStrengths, ", "), gaps)

	out, err := g.llm.Generate(ctx, prompt, llmMaxTokens, llmTemperature)
	if err != nil || strings.TrimSpace(out) == "" {
		observability.LoggerFromContext(ctx).Warn("llm assessment failed, using template", "error", err)
		return templated
	}
	return strings.TrimSpace(out)
}

func templateAssessment(name, title string, score domain.FinalScore, keyStrengths, keyGaps []string) string {
	verdict := score.VerdictDetails()
	scoreText := formatScore(score.OverallScore)

	var opening, strengthsText, developmentText string
	switch score.Suitability {
	case domain.SuitabilityHigh:
		opening = fmt.Sprintf("%s presents as a strong candidate for the %s position with an overall score of %s/100.", name, title, scoreText)
		if len(keyStrengths) > 0 {
			strengthsText = fmt.Sprintf("Key strengths include %s.", strings.Join(headOf(keyStrengths, 3), ", "))
		} else {
			strengthsText = "The candidate demonstrates solid qualifications."
		}
		if len(keyGaps) > 0 {
			developmentText = fmt.Sprintf("Areas for development include %s, but these gaps are manageable and shouldn't prevent progression.", strings.Join(keyGaps, ", "))
		} else {
			developmentText = "The candidate shows strong alignment with job requirements across all key areas."
		}
	case domain.SuitabilityMedium:
		opening = fmt.Sprintf("%s shows potential for the %s position with an overall score of %s/100.", name, title, scoreText)
		if len(keyStrengths) > 0 {
			strengthsText = fmt.Sprintf("Notable strengths include %s.", strings.Join(headOf(keyStrengths, 2), ", "))
		} else {
			strengthsText = "The candidate has several positive qualities."
		}
		if len(keyGaps) > 0 {
			developmentText = fmt.Sprintf("Key development areas include %s. With focused skill development, this candidate could become a strong fit.", strings.Join(keyGaps, ", "))
		} else {
			developmentText = "While showing promise, some areas would benefit from further development."
		}
	default:
		opening = fmt.Sprintf("%s has submitted an application for the %s position with an overall score of %s/100.", name, title, scoreText)
		if len(keyStrengths) > 0 {
			strengthsText = fmt.Sprintf("Positive aspects include %s.", strings.Join(headOf(keyStrengths, 2), ", "))
		} else {
			strengthsText = "The candidate shows some relevant experience."
		}
		if len(keyGaps) > 0 {
			developmentText = fmt.Sprintf("Significant skill gaps exist in %s, which would require substantial development to meet role requirements.", strings.Join(keyGaps, ", "))
		} else {
			developmentText = "Considerable development would be needed to align with the position requirements."
		}
	}
	return fmt.Sprintf("%s %s %s %s based on current organizational needs and candidate potential.", opening, strengthsText, developmentText, verdict.Action)
}

// topStrengths names the components scoring at least 80.
func topStrengths(score domain.FinalScore) []string {
	ds := score.DetailedScores
	var out []string
	if ds.HardSkillsScore >= 80 {
		out = append(out, "strong technical skills")
	}
	if ds.ExperienceScore >= 80 {
		out = append(out, "relevant experience")
	}
	if ds.EducationScore >= 80 {
		out = append(out, "solid educational background")
	}
	if ds.SoftSkillsScore >= 80 {
		out = append(out, "good interpersonal skills")
	}
	if ds.SemanticMatchScore >= 80 {
		out = append(out, "excellent job alignment")
	}
	if len(out) == 0 {
		out = []string{"general qualifications"}
	}
	return out
}

func strengths(resume domain.ParsedResume, score domain.FinalScore, match domain.SemanticMatchResult) []string {
	ds := score.DetailedScores
	var out []string

	if ds.TechnicalSkillsScore >= 70 {
		out = append(out, fmt.Sprintf("Strong technical skill set with %d relevant technologies", ds.SkillsMatchedCount))
	}
	if ds.YearsExperienceScore >= 70 {
		years := 0.0
		if resume.TotalExperienceYears != nil {
			years = *resume.TotalExperienceYears
		}
		out = append(out, fmt.Sprintf("Solid experience foundation with %s years in the field", strconv.FormatFloat(years, 'f', -1, 64)))
	}
	if ds.ExperienceRelevanceScore >= 70 {
		out = append(out, "Highly relevant work experience aligned with job requirements")
	}
	if ds.EducationLevelScore >= 70 {
		out = append(out, "Strong educational credentials")
	}

	var highConf []string
	for _, m := range match.SkillMatches {
		if m.Confidence >= 0.9 {
			highConf = append(highConf, m.SkillName)
		}
	}
	if len(highConf) > 0 {
		out = append(out, fmt.Sprintf("Excellent proficiency in key skills: %s", strings.Join(headOf(highConf, 3), ", ")))
	}
	if len(match.AdditionalSkills) > 0 {
		out = append(out, fmt.Sprintf("Brings additional valuable skills beyond job requirements: %s", strings.Join(headOf(match.AdditionalSkills, 3), ", ")))
	}
	if len(resume.Projects) > 0 {
		out = append(out, fmt.Sprintf("Demonstrates practical application through %d documented projects", len(resume.Projects)))
	}
	if len(resume.Certifications) > 0 {
		out = append(out, fmt.Sprintf("Professional development through certifications: %s", strings.Join(headOf(resume.Certifications, 2), ", ")))
	}
	return headOf(out, maxStrengths)
}

func improvements(score domain.FinalScore, match domain.SemanticMatchResult) []string {
	ds := score.DetailedScores
	var out []string

	if ds.HardSkillsScore < 60 {
		out = append(out, fmt.Sprintf("Technical skills development needed - %d key skills missing", len(match.MissingSkills)))
	}
	if ds.ExperienceScore < 60 {
		if ds.YearsExperienceScore < 60 {
			out = append(out, "Additional years of relevant experience would strengthen candidacy")
		}
		if ds.ExperienceRelevanceScore < 60 {
			out = append(out, "More directly relevant work experience in similar roles")
		}
	}
	if ds.EducationScore < 60 {
		out = append(out, "Consider pursuing additional education or certifications")
	}
	if len(match.MissingSkills) > 0 {
		out = append(out, fmt.Sprintf("Develop proficiency in: %s", strings.Join(headOf(match.MissingSkills, 3), ", ")))
	}
	if ds.SoftSkillsScore < 50 {
		out = append(out, "Strengthen soft skills and professional communication abilities")
	}
	if ds.OverallConfidence < 70 {
		out = append(out, "Enhance resume presentation and provide more detailed skill descriptions")
	}
	return headOf(out, maxImprovements)
}

func recommendations(score domain.FinalScore, match domain.SemanticMatchResult, jd domain.ParsedJobDescription) []string {
	var out []string
	for _, skill := range headOf(match.MissingSkills, 3) {
		out = append(out, fmt.Sprintf("Develop %s through online courses, tutorials, or hands-on projects", skill))
	}
	if score.DetailedScores.ExperienceRelevanceScore < 70 {
		out = append(out, "Seek opportunities in similar industries or roles to build relevant experience")
	}
	out = append(out, "Create portfolio projects that demonstrate your skills in real-world scenarios")

	for _, skill := range jd.RequiredSkills {
		if containsAny(strings.ToLower(skill), certVendors) {
			out = append(out, fmt.Sprintf("Pursue professional certifications in %s to validate your expertise", skill))
			break
		}
	}
	out = append(out, "Engage with professional communities and attend industry events to expand your network")
	if score.DetailedScores.OverallConfidence < 80 {
		out = append(out, "Enhance resume with more specific examples and quantified achievements")
	}
	return headOf(out, maxRecommendations)
}

func gapAnalysis(match domain.SemanticMatchResult, jd domain.ParsedJobDescription) domain.SkillGapAnalysis {
	var ga domain.SkillGapAnalysis
	required := toSet(jd.RequiredSkills)
	preferred := toSet(jd.PreferredSkills)

	for _, skill := range match.MissingSkills {
		switch {
		case required[strings.ToLower(skill)]:
			ga.CriticalMissing = append(ga.CriticalMissing, skill)
		case preferred[strings.ToLower(skill)]:
			ga.NiceToHave = append(ga.NiceToHave, skill)
		}
	}
	for _, skill := range headOf(match.MissingSkills, 3) {
		ga.LearningResources = append(ga.LearningResources, fmt.Sprintf("%s: %s", skill, learningResource(skill)))
	}
	for _, skill := range headOf(match.AdditionalSkills, 2) {
		ga.AlternativeSkills = append(ga.AlternativeSkills, fmt.Sprintf("%s - leverage this existing skill", skill))
	}
	return ga
}

func learningResource(skill string) string {
	lower := strings.ToLower(skill)
	for _, r := range learningResources {
		if strings.Contains(lower, r.key) {
			return r.resource
		}
	}
	return fallbackResource
}

func careerTips(resume domain.ParsedResume, jd domain.ParsedJobDescription, score domain.FinalScore) []string {
	var out []string

	years := 0.0
	if resume.TotalExperienceYears != nil {
		years = *resume.TotalExperienceYears
	}
	switch {
	case years < 3:
		out = append(out, "Focus on building foundational experience through internships, entry-level positions, or freelance projects")
	case years < 7:
		out = append(out, "Consider specializing in high-demand areas while broadening your skill set")
	default:
		out = append(out, "Leverage your experience by mentoring others and taking on leadership roles")
	}

	if score.DetailedScores.TechnicalSkillsScore < 70 {
		out = append(out, "Invest in continuous learning - dedicate 5-10 hours per week to skill development")
	}

	title := strings.ToLower(jd.Title)
	if strings.Contains(title, "senior") || strings.Contains(title, "lead") {
		out = append(out, "Develop leadership and mentoring skills to advance to senior positions")
	}
	if strings.Contains(title, "manager") {
		out = append(out, "Gain experience in project management, team leadership, and stakeholder communication")
	}

	out = append(out,
		"Build a strong professional online presence through LinkedIn and GitHub",
		"Attend industry conferences and networking events to stay current with trends",
		"Seek opportunities to present your work or write about your experiences",
		"Consider finding a mentor in your target role or industry",
	)
	return headOf(out, maxCareerTips)
}

func interviewTips(score domain.FinalScore, match domain.SemanticMatchResult, jd domain.ParsedJobDescription) []string {
	var out []string

	if score.DetailedScores.HardSkillsScore >= 70 && len(match.SkillMatches) > 0 {
		var matched []string
		for _, m := range headMatches(match.SkillMatches, 3) {
			matched = append(matched, m.SkillName)
		}
		out = append(out, fmt.Sprintf("Emphasize your strong technical skills, especially: %s", strings.Join(matched, ", ")))
	}
	if score.DetailedScores.ExperienceScore >= 70 {
		out = append(out, "Prepare detailed examples from your work experience that demonstrate problem-solving and impact")
	}
	if len(match.MissingSkills) > 0 {
		out = append(out, fmt.Sprintf("Be prepared to discuss how you would approach learning: %s", strings.Join(headOf(match.MissingSkills, 2), ", ")))
	}

	out = append(out,
		"Research the company's recent projects, values, and technology stack thoroughly",
		"Prepare specific examples using the STAR method (Situation, Task, Action, Result)",
		"Practice explaining technical concepts in simple terms for non-technical stakeholders",
		"Prepare thoughtful questions about the role, team, and company culture",
		"Review your resume and be ready to discuss any project or experience in detail",
	)

	title := strings.ToLower(jd.Title)
	if strings.Contains(title, "engineer") {
		out = append(out, "Be ready for technical coding challenges and system design discussions")
	} else if strings.Contains(title, "manager") {
		out = append(out, "Prepare examples of leadership, conflict resolution, and team management")
	}
	return headOf(out, maxInterviewTips)
}

func formatScore(s domain.Score) string {
	return strconv.FormatFloat(domain.Round1(float64(s)), 'f', 1, 64)
}

func headOf(in []string, n int) []string {
	if len(in) <= n {
		return in
	}
	return in[:n]
}

func headMatches(in []domain.SkillMatch, n int) []domain.SkillMatch {
	if len(in) <= n {
		return in
	}
	return in[:n]
}

func toSet(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, s := range in {
		out[strings.ToLower(s)] = true
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
