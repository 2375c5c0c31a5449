// Package resume segments resume text into sections and extracts structured
// fields: contact info, skills, education, work history, projects and the
// derived total years of experience. Structuring never fails; anything that
// cannot be parsed is simply left empty.
package resume

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
	"github.com/fairyhunter13/resume-relevance/internal/pipeline/skills"
)

var (
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe    = regexp.MustCompile(`(?:\+?\d{1,3}[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
	linkedinRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9_\-]+`)
	githubRe   = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_\-]+`)
	urlRe      = regexp.MustCompile(`(?i)https?://[^\s]+`)
	locationRe = regexp.MustCompile(`\b[A-Z][a-zA-Z]+(?: [A-Z][a-zA-Z]+)*,\s*[A-Z]{2}\b`)

	degreeRe = regexp.MustCompile(`(?i)\b(bachelor\w*|master\w*|ph\.?d\.?|doctorate|associate\w*|diploma|b\.?[as]\.?|m\.?[as]\.?|mba)\b`)
	yearRe   = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	gpaRe    = regexp.MustCompile(`(?i)gpa[:\s]+(10(?:\.0{1,2})?|[0-9](?:\.[0-9]{1,2})?)`)

	workStartRe = regexp.MustCompile(`^[A-Z].*(?:\bat\b|@|\-|\|)`)
	dateTokenRe = regexp.MustCompile(`(?i)\b(?:0?[1-9]/(?:19|20)\d{2}|1[0-2]/(?:19|20)\d{2}|(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(?:19|20)\d{2}|(?:19|20)\d{2}|present|current)\b`)

	bulletTrim   = "•-*◦▪▫ \t"
	skillSplitRe = regexp.MustCompile(`[,;|•\n]`)

	achievementRe = regexp.MustCompile(`(?i)\d+%|\$\d|increased|reduced|improved|launched|achieved|led\b`)
	honorsRe      = regexp.MustCompile(`(?i)cum laude|honors|honour|dean'?s list|distinction`)
)

// resume-level words excluded from name detection.
var nameStopWords = []string{"resume", "cv", "profile", "summary", "curriculum"}

type sectionDef struct {
	name     string
	keywords []string
}

// Section keyword dictionary; order breaks ties when a header matches more
// than one section.
var sectionDefs = []sectionDef{
	{"summary", []string{"summary", "objective", "about me", "profile"}},
	{"skills", []string{"skills", "technical skills", "technologies", "competencies"}},
	{"experience", []string{"experience", "employment", "work history", "career"}},
	{"education", []string{"education", "academic"}},
	{"projects", []string{"projects", "portfolio"}},
	{"certifications", []string{"certifications", "certificates", "licenses"}},
	{"languages", []string{"languages"}},
	{"awards", []string{"awards", "honors", "achievements"}},
}

// Structurer turns normalized resume text into a ParsedResume.
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

// Structure parses text into a ParsedResume. The extraction confidence
// propagates unchanged.
func (s *Structurer) Structure(text string, confidence domain.Confidence) domain.ParsedResume {
	sections := splitSections(text)

	r := domain.ParsedResume{
		RawText:           text,
		ParsingConfidence: confidence,
	}
	r.Contact = extractContact(text)
	r.Summary = strings.TrimSpace(strings.Join(sections["summary"], "\n"))
	r.SkillNames = s.skillNames(text, sections["skills"])
	r.Education = parseEducation(sections["education"])
	r.WorkExperience = s.parseWork(sections["experience"])
	r.Projects = s.parseProjects(sections["projects"])
	r.Certifications = cleanLines(sections["certifications"])
	r.Languages = splitList(sections["languages"])
	r.Awards = cleanLines(sections["awards"])
	if y := totalYears(r.WorkExperience); y > 0 {
		r.TotalExperienceYears = &y
	}
	return r
}

// splitSections maps section name to its lines. A header line qualifies if
// it has at most four words and contains a section keyword.
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
		} else {
			sections["_preamble"] = append(sections["_preamble"], trimmed)
		}
	}
	return sections
}

func headerSection(line string) (string, bool) {
	if len(strings.Fields(line)) > 4 {
		return "", false
	}
	lower := strings.ToLower(strings.Trim(line, bulletTrim+":"))
	for _, def := range sectionDefs {
		for _, kw := range def.keywords {
			if strings.Contains(lower, kw) {
				return def.name, true
			}
		}
	}
	return "", false
}

func extractContact(text string) domain.ContactInfo {
	var c domain.ContactInfo
	c.Email = emailRe.FindString(text)
	c.Phone = strings.TrimSpace(phoneRe.FindString(text))
	c.LinkedIn = linkedinRe.FindString(text)
	c.GitHub = githubRe.FindString(text)
	for _, u := range urlRe.FindAllString(text, -1) {
		lu := strings.ToLower(u)
		if !strings.Contains(lu, "linkedin.com") && !strings.Contains(lu, "github.com") {
			c.Portfolio = u
			break
		}
	}
	c.Location = locationRe.FindString(text)
	c.Name = extractName(text)
	return c
}

// extractName picks the first of the first five lines that reads like a
// person's name: two to four title-cased words, no contact markers.
func extractName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		if strings.ContainsAny(line, "@:/") || phoneRe.MatchString(line) || strings.ContainsAny(line, "0123456789") {
			continue
		}
		lower := strings.ToLower(line)
		if containsAnyWord(lower, nameStopWords) {
			continue
		}
		titleCased := true
		for _, w := range words {
			if w[0] < 'A' || w[0] > 'Z' {
				titleCased = false
				break
			}
		}
		if titleCased {
			return line
		}
	}
	return ""
}

// skillNames unions tokens from the skills section with dictionary matches
// over the whole text, deduplicated case-insensitively in first-seen order.
func (s *Structurer) skillNames(text string, skillLines []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		key := strings.ToLower(name)
		if name != "" && !seen[key] {
			seen[key] = true
			out = append(out, name)
		}
	}
	for _, line := range skillLines {
		for _, tok := range skillSplitRe.Split(line, -1) {
			tok = strings.Trim(tok, bulletTrim+".")
			if tok == "" || len(tok) < 2 || len(strings.Fields(tok)) > 3 {
				continue
			}
			add(tok)
		}
	}
	for _, e := range s.dict.MatchAll(text) {
		add(e.Name)
	}
	return out
}

func parseEducation(lines []string) []domain.EducationEntry {
	var entries []domain.EducationEntry
	for _, block := range segmentOnCapital(lines) {
		e := parseEducationEntry(block)
		if e.Degree != "" || e.Institution != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

// segmentOnCapital groups lines into blocks starting at lines that begin
// with an uppercase letter.
func segmentOnCapital(lines []string) [][]string {
	var blocks [][]string
	for _, line := range lines {
		startsUpper := line != "" && line[0] >= 'A' && line[0] <= 'Z'
		if startsUpper || len(blocks) == 0 {
			blocks = append(blocks, []string{line})
			continue
		}
		blocks[len(blocks)-1] = append(blocks[len(blocks)-1], line)
	}
	return blocks
}

func parseEducationEntry(block []string) domain.EducationEntry {
	var e domain.EducationEntry
	joined := strings.Join(block, "\n")
	for _, line := range block {
		if degreeRe.MatchString(line) {
			e.Degree = strings.TrimSpace(strings.SplitN(line, ",", 2)[0])
			break
		}
	}
	e.Institution = longestCapitalRun(joined)
	if e.Institution == e.Degree {
		e.Institution = ""
	}
	currentYear := time.Now().Year()
	for _, m := range yearRe.FindAllString(joined, -1) {
		y, _ := strconv.Atoi(m)
		if y >= 1900 && y <= currentYear+5 {
			if e.GraduationYear == nil || y > *e.GraduationYear {
				yy := y
				e.GraduationYear = &yy
			}
		}
	}
	if m := gpaRe.FindStringSubmatch(joined); m != nil {
		if g, err := strconv.ParseFloat(m[1], 64); err == nil && g >= 0 && g <= 10 {
			e.GPA = &g
		}
	}
	for _, line := range block {
		if honorsRe.MatchString(line) {
			e.Honors = append(e.Honors, line)
		}
	}
	if m := locationRe.FindString(joined); m != "" {
		e.Location = m
	}
	return e
}

// longestCapitalRun finds the longest contiguous run of capitalized words,
// allowing connector words inside the run.
func longestCapitalRun(text string) string {
	words := strings.Fields(strings.ReplaceAll(text, ",", " "))
	isCap := func(w string) bool {
		return w != "" && w[0] >= 'A' && w[0] <= 'Z' && !yearRe.MatchString(w)
	}
	isConnector := func(w string) bool {
		switch strings.ToLower(w) {
		case "of", "and", "the", "for":
			return true
		}
		return false
	}
	var best, cur []string
	flush := func() {
		for len(cur) > 0 && isConnector(cur[len(cur)-1]) {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > len(best) {
			best = append([]string(nil), cur...)
		}
		cur = nil
	}
	for _, w := range words {
		if isCap(w) || (len(cur) > 0 && isConnector(w)) {
			cur = append(cur, w)
			continue
		}
		flush()
	}
	flush()
	if len(best) < 2 {
		return ""
	}
	return strings.Join(best, " ")
}

func (s *Structurer) parseWork(lines []string) []domain.WorkExperience {
	var entries []domain.WorkExperience
	var block []string
	flush := func() {
		if len(block) == 0 {
			return
		}
		if w, ok := s.parseWorkEntry(block); ok {
			entries = append(entries, w)
		}
		block = nil
	}
	for _, line := range lines {
		if workStartRe.MatchString(line) && !dateOnly(line) {
			flush()
		}
		block = append(block, line)
	}
	flush()
	return entries
}

func dateOnly(line string) bool {
	stripped := dateTokenRe.ReplaceAllString(line, "")
	return strings.Trim(stripped, " \t-–—•|") == ""
}

func (s *Structurer) parseWorkEntry(block []string) (domain.WorkExperience, bool) {
	var w domain.WorkExperience
	first := block[0]
	for _, sep := range []string{" at ", " @ ", " - ", " | "} {
		if i := strings.Index(first, sep); i >= 0 {
			w.Title = strings.TrimSpace(first[:i])
			rest := strings.TrimSpace(first[i+len(sep):])
			if j := strings.Index(rest, ","); j >= 0 {
				w.Company = strings.TrimSpace(rest[:j])
				w.Location = strings.TrimSpace(rest[j+1:])
			} else {
				w.Company = rest
			}
			break
		}
	}
	if w.Title == "" || w.Company == "" {
		return w, false
	}
	w.Company = dateTokenRe.ReplaceAllString(w.Company, "")
	w.Company = strings.Trim(w.Company, " \t-–—|(),")
	if w.Company == "" {
		return w, false
	}

	head := block
	if len(head) > 3 {
		head = head[:3]
	}
	dates := dateTokenRe.FindAllString(strings.Join(head, "\n"), 2)
	if len(dates) > 0 {
		w.StartDate = canonDate(dates[0])
	}
	if len(dates) > 1 {
		w.EndDate = canonDate(dates[1])
	} else if w.StartDate != "" {
		w.EndDate = "Present"
	}

	for _, line := range block[1:] {
		if dateOnly(line) {
			continue
		}
		desc := strings.Trim(line, bulletTrim)
		if desc == "" {
			continue
		}
		w.Description = append(w.Description, desc)
		if achievementRe.MatchString(desc) {
			w.Achievements = append(w.Achievements, desc)
		}
	}
	for _, e := range s.dict.MatchAll(strings.Join(w.Description, "\n")) {
		w.Technologies = append(w.Technologies, e.Name)
	}
	return w, true
}

func canonDate(tok string) string {
	switch strings.ToLower(tok) {
	case "present", "current":
		return "Present"
	}
	return tok
}

func (s *Structurer) parseProjects(lines []string) []domain.Project {
	var projects []domain.Project
	for _, block := range segmentOnCapital(lines) {
		if len(block) == 0 || block[0] == "" {
			continue
		}
		p := domain.Project{Title: strings.Trim(block[0], bulletTrim)}
		if len(block) > 1 {
			p.Description = strings.Join(cleanLines(block[1:]), " ")
		}
		joined := strings.Join(block, "\n")
		if u := urlRe.FindString(joined); u != "" {
			p.URL = u
		}
		for _, e := range s.dict.MatchAll(joined) {
			p.Technologies = append(p.Technologies, e.Name)
		}
		if p.Title != "" {
			projects = append(projects, p)
		}
	}
	return projects
}

// totalYears sums per-entry durations in months, converts to years and
// rounds to one decimal. Open entries count up to the current year.
func totalYears(entries []domain.WorkExperience) float64 {
	currentYear := time.Now().Year()
	months := 0
	for _, w := range entries {
		start := yearOf(w.StartDate)
		if start == 0 {
			continue
		}
		end := currentYear
		if w.EndDate != "" && w.EndDate != "Present" {
			if y := yearOf(w.EndDate); y != 0 {
				end = y
			}
		}
		if d := (end - start) * 12; d > 0 {
			months += d
		}
	}
	return domain.Round1(float64(months) / 12.0)
}

func yearOf(date string) int {
	if m := yearRe.FindString(date); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}
	return 0
}

func cleanLines(lines []string) []string {
	var out []string
	for _, l := range lines {
		l = strings.Trim(l, bulletTrim)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func splitList(lines []string) []string {
	var out []string
	for _, l := range lines {
		for _, tok := range skillSplitRe.Split(l, -1) {
			tok = strings.Trim(tok, bulletTrim+".")
			if tok != "" {
				out = append(out, tok)
			}
		}
	}
	return out
}

func containsAnyWord(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
