// Package domain holds the core entities, error taxonomy and ports of the
// resume relevance pipeline. Entities are created by their producing stage
// and consumed read-only downstream; nothing here mutates after return.
package domain

import (
	"errors"
	"math"
	"strconv"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrExtractionFailed   = errors.New("extraction failed")
	ErrInvalidWeights     = errors.New("invalid weights")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrInternal           = errors.New("internal error")
)

// Score is a 0..100 value serialized with one decimal place.
type Score float64

// MarshalJSON renders the score with one decimal.
func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(Round1(float64(s)), 'f', 1, 64)), nil
}

// UnmarshalJSON parses a plain JSON number.
func (s *Score) UnmarshalJSON(b []byte) error {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*s = Score(f)
	return nil
}

// Confidence is a confidence or similarity value serialized with two decimals.
type Confidence float64

// MarshalJSON renders the confidence with two decimals.
func (c Confidence) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(Round2(float64(c)), 'f', 2, 64)), nil
}

// UnmarshalJSON parses a plain JSON number.
func (c *Confidence) UnmarshalJSON(b []byte) error {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*c = Confidence(f)
	return nil
}

// Round1 rounds to one decimal place.
func Round1(f float64) float64 { return math.Round(f*10) / 10 }

// Round2 rounds to two decimal places.
func Round2(f float64) float64 { return math.Round(f*100) / 100 }

// Document is the output of text extraction: normalized text plus a parse
// confidence in [0,1] (1.0 plain text, 0.90 DOCX, 0.85 table-aware PDF,
// 0.80 best-effort PDF).
type Document struct {
	Text       string     `json:"text"`
	Confidence Confidence `json:"confidence"`
}

// ContactInfo is contact data extracted from a resume. Empty string means
// the field was not found.
type ContactInfo struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
	Location  string `json:"location,omitempty"`
}

// EducationEntry is retained only when at least one of Degree or
// Institution is set.
type EducationEntry struct {
	Degree         string   `json:"degree,omitempty"`
	Institution    string   `json:"institution,omitempty"`
	Location       string   `json:"location,omitempty"`
	GraduationYear *int     `json:"graduation_year,omitempty"`
	GPA            *float64 `json:"gpa,omitempty"`
	Honors         []string `json:"honors,omitempty"`
}

// WorkExperience is a single work history entry. Title and Company are
// non-empty; EndDate is "Present" for open entries.
type WorkExperience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Description  []string `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// Project is a resume project entry.
type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
}

// ParsedResume is the structured view of a resume document.
type ParsedResume struct {
	Contact              ContactInfo      `json:"contact_info"`
	Summary              string           `json:"summary,omitempty"`
	SkillNames           []string         `json:"skill_names,omitempty"`
	Skills               SkillProfile     `json:"skills"`
	Education            []EducationEntry `json:"education,omitempty"`
	WorkExperience       []WorkExperience `json:"work_experience,omitempty"`
	Projects             []Project        `json:"projects,omitempty"`
	Certifications       []string         `json:"certifications,omitempty"`
	Languages            []string         `json:"languages,omitempty"`
	Awards               []string         `json:"awards,omitempty"`
	TotalExperienceYears *float64         `json:"total_experience_years,omitempty"`
	RawText              string           `json:"raw_text"`
	ParsingConfidence    Confidence       `json:"parsing_confidence"`
}

// UrgencyLevel enumerates JD urgency.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// JobMetadata carries caller-known fields that override parsed values.
type JobMetadata struct {
	Title              string `json:"title,omitempty"`
	Company            string `json:"company,omitempty"`
	Location           string `json:"location,omitempty"`
	Department         string `json:"department,omitempty"`
	JobType            string `json:"job_type,omitempty"`
	ExperienceRequired string `json:"experience_required,omitempty"`
	SalaryRange        string `json:"salary_range,omitempty"`
}

// ParsedJobDescription is the structured view of a job posting.
type ParsedJobDescription struct {
	Title                   string   `json:"title"`
	Company                 string   `json:"company"`
	Location                string   `json:"location,omitempty"`
	Department              string   `json:"department,omitempty"`
	JobType                 string   `json:"job_type,omitempty"`
	SalaryRange             string   `json:"salary_range,omitempty"`
	ExperienceRequired      string   `json:"experience_required,omitempty"`
	Summary                 string   `json:"summary,omitempty"`
	Responsibilities        []string `json:"responsibilities,omitempty"`
	Requirements            []string `json:"requirements,omitempty"`
	PreferredQualifications []string `json:"preferred_qualifications,omitempty"`
	Benefits                []string `json:"benefits,omitempty"`
	RequiredSkills          []string `json:"required_skills,omitempty"`
	PreferredSkills         []string `json:"preferred_skills,omitempty"`
	RequiredExperienceYears *int     `json:"required_experience_years,omitempty"`
	EducationRequirements   []string `json:"education_requirements,omitempty"`
	RemoteAllowed           bool     `json:"remote_allowed"`
	UrgencyLevel            string   `json:"urgency_level"`
	RawContent              string   `json:"raw_content"`
}

// Skill dictionary categories.
const (
	CategoryProgrammingLanguages = "programming_languages"
	CategoryWebTechnologies      = "web_technologies"
	CategoryDatabases            = "databases"
	CategoryCloudPlatforms       = "cloud_platforms"
	CategoryDataScience          = "data_science"
	CategoryMobileDevelopment    = "mobile_development"
	CategoryDevOpsTools          = "devops_tools"
	CategorySoftSkills           = "soft_skills"
)

// ExtractedSkill is a single skill with extraction metadata. Context is the
// text surrounding the mention, capped at 100 characters.
type ExtractedSkill struct {
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Confidence  Confidence `json:"confidence"`
	Context     string     `json:"context,omitempty"`
	Aliases     []string   `json:"aliases,omitempty"`
	Proficiency string     `json:"proficiency,omitempty"`
}

// SkillProfile groups extracted skills into the four buckets used by
// scoring. SkillDiversityScore = non-empty buckets / 4.
type SkillProfile struct {
	TechnicalSkills     []ExtractedSkill    `json:"technical_skills,omitempty"`
	SoftSkills          []ExtractedSkill    `json:"soft_skills,omitempty"`
	DomainExpertise     []ExtractedSkill    `json:"domain_expertise,omitempty"`
	ToolsPlatforms      []ExtractedSkill    `json:"tools_platforms,omitempty"`
	Certifications      []string            `json:"certifications,omitempty"`
	SkillCategories     map[string][]string `json:"skill_categories,omitempty"`
	TotalSkillsCount    int                 `json:"total_skills_count"`
	SkillDiversityScore Confidence          `json:"skill_diversity_score"`
}

// AllSkillNames returns every skill name across the four buckets in bucket
// order (technical, soft, domain, tools).
func (p SkillProfile) AllSkillNames() []string {
	out := make([]string, 0, p.TotalSkillsCount)
	for _, bucket := range [][]ExtractedSkill{p.TechnicalSkills, p.SoftSkills, p.DomainExpertise, p.ToolsPlatforms} {
		for _, s := range bucket {
			out = append(out, s.Name)
		}
	}
	return out
}

// Match types, ordered by cascade tier.
const (
	MatchExact    = "exact"
	MatchFuzzy    = "fuzzy"
	MatchSemantic = "semantic"
)

// SkillMatch aligns a JD skill with a resume skill.
type SkillMatch struct {
	SkillName          string      `json:"skill_name"`
	ResumeSkill        string      `json:"resume_skill,omitempty"`
	JDSkill            string      `json:"jd_skill"`
	MatchType          string      `json:"match_type"`
	Confidence         Confidence  `json:"confidence"`
	SemanticSimilarity *Confidence `json:"semantic_similarity,omitempty"`
}

// SemanticMatchResult is the output of the match cascade plus text-level
// similarities.
type SemanticMatchResult struct {
	OverallSimilarity    Confidence            `json:"overall_similarity"`
	SkillMatches         []SkillMatch          `json:"skill_matches,omitempty"`
	MissingSkills        []string              `json:"missing_skills,omitempty"`
	AdditionalSkills     []string              `json:"additional_skills,omitempty"`
	CategorySimilarities map[string]Confidence `json:"category_similarities,omitempty"`
	EmbeddingSimilarity  Confidence            `json:"embedding_similarity"`
	TextSimilarity       Confidence            `json:"text_similarity"`
}

// DetailedScores is the full scoring breakdown; component and sub-component
// scores are 0..100, confidences 0..100.
type DetailedScores struct {
	HardSkillsScore    Score `json:"hard_skills_score"`
	SoftSkillsScore    Score `json:"soft_skills_score"`
	ExperienceScore    Score `json:"experience_score"`
	EducationScore     Score `json:"education_score"`
	SemanticMatchScore Score `json:"semantic_match_score"`

	TechnicalSkillsScore     Score `json:"technical_skills_score"`
	DomainExpertiseScore     Score `json:"domain_expertise_score"`
	ToolsPlatformsScore      Score `json:"tools_platforms_score"`
	YearsExperienceScore     Score `json:"years_experience_score"`
	ExperienceRelevanceScore Score `json:"experience_relevance_score"`
	EducationLevelScore      Score `json:"education_level_score"`
	EducationRelevanceScore  Score `json:"education_relevance_score"`

	SkillsMatchedCount    int `json:"skills_matched_count"`
	SkillsRequiredCount   int `json:"skills_required_count"`
	SkillsMissingCount    int `json:"skills_missing_count"`
	SkillsAdditionalCount int `json:"skills_additional_count"`

	ParsingConfidence  Confidence `json:"parsing_confidence"`
	MatchingConfidence Confidence `json:"matching_confidence"`
	OverallConfidence  Confidence `json:"overall_confidence"`
}

// Suitability verdicts.
const (
	SuitabilityHigh   = "High"
	SuitabilityMedium = "Medium"
	SuitabilityLow    = "Low"
)

// Confidence levels.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// FinalScore is the scored verdict for one evaluation. PercentileRank is
// nil in this core (no population ranking).
type FinalScore struct {
	OverallScore    Score          `json:"overall_score"`
	DetailedScores  DetailedScores `json:"detailed_scores"`
	Suitability     string         `json:"suitability"`
	PercentileRank  *float64       `json:"percentile_rank,omitempty"`
	ConfidenceLevel string         `json:"confidence_level"`
}

// VerdictDetails is a human-readable expansion of the suitability tier.
type VerdictDetails struct {
	Verdict     string `json:"verdict"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

// VerdictDetails maps the suitability tier to its verdict text.
func (f FinalScore) VerdictDetails() VerdictDetails {
	switch f.Suitability {
	case SuitabilityHigh:
		return VerdictDetails{
			Verdict:     "Strong Match",
			Description: "Excellent candidate with strong alignment to job requirements",
			Action:      "Recommend for interview",
		}
	case SuitabilityMedium:
		return VerdictDetails{
			Verdict:     "Potential Match",
			Description: "Good candidate with some skill gaps or experience differences",
			Action:      "Consider for interview with skill assessment",
		}
	default:
		return VerdictDetails{
			Verdict:     "Weak Match",
			Description: "Limited alignment with job requirements",
			Action:      "Consider only if few alternatives available",
		}
	}
}

// SkillGapAnalysis buckets missing skills for feedback.
type SkillGapAnalysis struct {
	CriticalMissing   []string `json:"critical_missing,omitempty"`
	NiceToHave        []string `json:"nice_to_have,omitempty"`
	LearningResources []string `json:"learning_resources,omitempty"`
	AlternativeSkills []string `json:"alternative_skills,omitempty"`
}

// Feedback is the structured, human-readable output of the synthesizer.
type Feedback struct {
	OverallAssessment        string           `json:"overall_assessment"`
	Strengths                []string         `json:"strengths,omitempty"`
	AreasForImprovement      []string         `json:"areas_for_improvement,omitempty"`
	SpecificRecommendations  []string         `json:"specific_recommendations,omitempty"`
	SkillGapAnalysis         SkillGapAnalysis `json:"skill_gap_analysis"`
	CareerAdvancementTips    []string         `json:"career_advancement_tips,omitempty"`
	InterviewPreparationTips []string         `json:"interview_preparation_tips,omitempty"`
	ConfidenceLevel          string           `json:"confidence_level"`
}

// EvaluationRecord is one stored evaluation: inputs' hashes plus the full
// result chain.
type EvaluationRecord struct {
	ID         string               `json:"id"`
	ResumeHash string               `json:"resume_hash"`
	JobHash    string               `json:"job_hash"`
	Resume     ParsedResume         `json:"resume"`
	Job        ParsedJobDescription `json:"job"`
	Match      SemanticMatchResult  `json:"match"`
	Score      FinalScore           `json:"score"`
	Feedback   Feedback             `json:"feedback"`
	CreatedAt  time.Time            `json:"created_at"`
}
