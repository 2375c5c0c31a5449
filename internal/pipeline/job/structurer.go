// Package job segments a job posting into its sections and extracts the
// hiring signals: required and preferred skills, minimum experience,
// education requirements, remote flag and urgency. Structuring never fails.
package job

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
	"github.com/fairyhunter13/resume-relevance/internal/pipeline/skills"
)

var (
	bulletRe  = regexp.MustCompile(`^\s*(?:[•*\-◦▪▫]|\d+\.?\s)`)
	yearsRe   = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:(?:to|-|–)\s*(\d+)\s*)?years?`)
	minYears  = regexp.MustCompile(`(?i)(?:minimum|at least)\s+(\d+)\s+years?`)
	titleRe   = regexp.MustCompile(`(?i)^(?:job title|position|role)\s*:?\s*(.+)$`)
	companyRe = regexp.MustCompile(`(?i)^(?:company|employer|organization)\s*:?\s*(.+)$`)

	educationWords = []string{"bachelor", "master", "phd", "doctorate", "associate", "diploma", "degree", "certification", "bs", "ba", "ms", "ma", "mba"}
	remoteWords    = []string{"remote", "work from home", "wfh", "distributed", "telecommute"}
	urgentWords    = []string{"urgent", "immediate", "asap", "critical"}
	pacedWords     = []string{"fast-paced", "quickly", "rapid"}
)

type sectionDef struct {
	name     string
	keywords []string
}

var sectionDefs = []sectionDef{
	{"summary", []string{"summary", "about", "overview", "description"}},
	{"responsibilities", []string{"responsibilities", "duties", "what you will do", "what you'll do"}},
	{"preferred", []string{"preferred", "nice to have", "bonus", "plus"}},
	{"requirements", []string{"requirements", "qualifications", "what we need", "must have"}},
	{"benefits", []string{"benefits", "perks", "we offer", "compensation"}},
}

// Structurer turns normalized job posting text into a ParsedJobDescription.
type Structurer struct {
	dict *skills.Dictionary
}

// NewStructurer builds a Structurer over the shared skill dictionary.
func NewStructurer(dict *skills.Dictionary) *Structurer {
	if dict == nil {
		dict = skills.NewDictionary()
	}
	return &Structurer{dict: dict}
}

// Structure parses text into a ParsedJobDescription. Metadata fields, when
// set, override parsed values.
func (s *Structurer) Structure(text string, meta domain.JobMetadata) domain.ParsedJobDescription {
	sections := splitSections(text)
	lower := strings.ToLower(text)

	jd := domain.ParsedJobDescription{
		RawContent:   text,
		UrgencyLevel: urgency(lower),
	}
	jd.Summary = strings.TrimSpace(strings.Join(sections["summary"], "\n"))
	jd.Responsibilities = bullets(sections["responsibilities"])
	jd.Requirements = bullets(sections["requirements"])
	jd.PreferredQualifications = bullets(sections["preferred"])
	jd.Benefits = bullets(sections["benefits"])

	jd.RequiredSkills = s.requiredSkills(text, jd.Requirements)
	jd.PreferredSkills = s.matchedNames(strings.Join(jd.PreferredQualifications, "\n"))
	jd.RequiredExperienceYears = experienceYears(text)
	if jd.RequiredExperienceYears != nil {
		if m := yearsRe.FindString(text); m != "" {
			jd.ExperienceRequired = strings.TrimSpace(m)
		}
	}
	jd.EducationRequirements = educationSentences(text)
	jd.RemoteAllowed = containsAny(lower, remoteWords)

	jd.Title, jd.Company = parseTitleCompany(text)
	applyMetadata(&jd, meta)
	return jd
}

func splitSections(text string) map[string][]string {
	sections := make(map[string][]string)
	current := ""
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if name, ok := headerSection(trimmed); ok {
			current = name
			continue
		}
		if current != "" {
			sections[current] = append(sections[current], trimmed)
		}
	}
	return sections
}

func headerSection(line string) (string, bool) {
	if len(strings.Fields(line)) > 5 {
		return "", false
	}
	lower := strings.ToLower(strings.Trim(line, "•*-◦▪▫: \t"))
	for _, def := range sectionDefs {
		for _, kw := range def.keywords {
			if strings.Contains(lower, kw) {
				return def.name, true
			}
		}
	}
	return "", false
}

// bullets splits section lines into items: marker or numeric prefixes are
// stripped; unmarked lines are kept when longer than three words.
func bullets(lines []string) []string {
	var out []string
	for _, line := range lines {
		if bulletRe.MatchString(line) {
			item := strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
			if item != "" {
				out = append(out, item)
			}
			continue
		}
		if len(strings.Fields(line)) > 3 {
			out = append(out, line)
		}
	}
	return out
}

// requiredSkills matches the dictionary against the full text plus the
// requirements bullets.
func (s *Structurer) requiredSkills(text string, requirements []string) []string {
	return s.matchedNames(text + "\n" + strings.Join(requirements, "\n"))
}

func (s *Structurer) matchedNames(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, e := range s.dict.MatchAll(text) {
		out = append(out, e.Name)
	}
	return out
}

// experienceYears returns the lower bound of the first years expression.
func experienceYears(text string) *int {
	if m := minYears.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return &n
		}
	}
	if m := yearsRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return &n
		}
	}
	return nil
}

// educationSentences keeps every sentence mentioning an education keyword.
func educationSentences(text string) []string {
	var out []string
	for _, sentence := range splitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, w := range educationWords {
			if containsWord(lower, w) {
				out = append(out, strings.TrimSpace(sentence))
				break
			}
		}
	}
	return out
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(text[start:i]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func urgency(lower string) string {
	if containsAny(lower, urgentWords) {
		return domain.UrgencyHigh
	}
	if containsAny(lower, pacedWords) {
		return domain.UrgencyMedium
	}
	return domain.UrgencyLow
}

// parseTitleCompany looks for labeled lines first, then falls back to the
// first short line as the title.
func parseTitleCompany(text string) (title, company string) {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if m := titleRe.FindStringSubmatch(line); m != nil && title == "" {
			title = strings.TrimSpace(m[1])
		}
		if m := companyRe.FindStringSubmatch(line); m != nil && company == "" {
			company = strings.TrimSpace(m[1])
		}
	}
	if title == "" {
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line != "" && len(strings.Fields(line)) <= 6 {
				title = line
				break
			}
		}
	}
	return title, company
}

func applyMetadata(jd *domain.ParsedJobDescription, meta domain.JobMetadata) {
	if meta.Title != "" {
		jd.Title = meta.Title
	}
	if meta.Company != "" {
		jd.Company = meta.Company
	}
	if meta.Location != "" {
		jd.Location = meta.Location
	}
	if meta.Department != "" {
		jd.Department = meta.Department
	}
	if meta.JobType != "" {
		jd.JobType = meta.JobType
	}
	if meta.ExperienceRequired != "" {
		jd.ExperienceRequired = meta.ExperienceRequired
	}
	if meta.SalaryRange != "" {
		jd.SalaryRange = meta.SalaryRange
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// containsWord matches w on rough word boundaries, so "bs" does not fire
// inside "jobs".
func containsWord(s, w string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], w)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(w)
		leftOK := start == 0 || !isAlnum(s[start-1])
		rightOK := end == len(s) || !isAlnum(s[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
