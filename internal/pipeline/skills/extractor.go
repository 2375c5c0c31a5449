// Package skills extracts a categorized skill profile from free text using
// a layered strategy: dictionary scan, pattern rules, optional NLP phrase
// mining and contextual cues. Results merge per skill keeping the highest
// confidence, then occurrence and section boosts apply.
package skills

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
)

const (
	confDictionary = 0.80
	confPatternPL  = 0.90
	confPatternFW  = 0.85
	confNounPhrase = 0.75
	confContextual = 0.80

	occurrenceBoost    = 0.05
	occurrenceBoostMax = 0.20
	sectionBoost       = 0.10
	sectionWindow      = 200
	contextRadius      = 50
	contextMax         = 100
)

var (
	progLangRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(python|java|javascript|typescript|c\+\+|c#|php|ruby|go|rust)\b`),
		regexp.MustCompile(`(?i)\b(kotlin|swift|scala|matlab|perl|bash|powershell)\b`),
	}
	frameworkRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(react|angular|vue)(?:\.js)?\b`),
		regexp.MustCompile(`(?i)\b(django|flask|spring|express)(?:\s+(?:boot|framework))?\b`),
		regexp.MustCompile(`(?i)\b(tensorflow|pytorch|keras|scikit-learn)\b`),
	}
	contextualRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:experience|proficient|skilled|expertise)\s+(?:with|in)\s+([^.\n]+)`),
		regexp.MustCompile(`(?i)(?:worked|working)\s+with\s+([^.\n]+)`),
		regexp.MustCompile(`(?i)(?:technologies|tools)\s*:\s*([^.\n]+)`),
		regexp.MustCompile(`(?i)(?:built|developed|created)\s+(?:with|using)\s*:?\s*([^.\n]+)`),
	}
	certRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:certified|certification)\s+(?:in\s+)?([a-zA-Z][a-zA-Z ]{2,40})`),
		regexp.MustCompile(`([A-Z]{2,}(?:\s+[A-Z][a-z]+)*)\s+(?i:certified|certification)`),
		regexp.MustCompile(`(?i)\b(aws|azure|google cloud|gcp)\s+certified\s+([a-zA-Z][a-zA-Z ]{2,40})`),
		regexp.MustCompile(`(?i)\b(pmp|cissp|cism|cisa)\b`),
		regexp.MustCompile(`(?i)\b(?:certified\s+(scrum master|product owner|agile\s+\w+)|(scrum master|product owner|agile)\s+certif\w*)`),
		regexp.MustCompile(`(?i)\b((?:oracle|microsoft|cisco|comptia)\s+[a-z0-9+#.]+(?:\s+certif(?:ied|ication))?)`),
	}
	candidateSplitRe = regexp.MustCompile(`\s*(?:,|;|\||&|\band\b)\s*`)

	sectionKeywords = []string{"skills", "technologies", "experience", "projects"}
)

// Extractor builds skill profiles. The NLP backend is optional; with a nil
// backend the phrase strategy is skipped.
type Extractor struct {
	dict *Dictionary
	nlp  domain.NLPBackend
}

// NewExtractor constructs an Extractor around a dictionary and an optional
// NLP backend.
func NewExtractor(dict *Dictionary, nlp domain.NLPBackend) *Extractor {
	if dict == nil {
		dict = NewDictionary()
	}
	return &Extractor{dict: dict, nlp: nlp}
}

// Dict exposes the extractor's dictionary for callers that need raw lookups.
func (e *Extractor) Dict() *Dictionary { return e.dict }

type candidate struct {
	entry   Entry
	conf    float64
	context string
}

// Extract runs every strategy over text and assembles the merged profile.
func (e *Extractor) Extract(text string) domain.SkillProfile {
	lower := strings.ToLower(text)

	merged := make(map[string]candidate)
	add := func(c candidate) {
		key := strings.ToLower(c.entry.Name) + "|" + c.entry.Category
		if prev, ok := merged[key]; !ok || c.conf > prev.conf {
			if ok && c.context == "" {
				c.context = prev.context
			}
			merged[key] = c
		}
	}

	for _, c := range e.dictionaryScan(text, lower) {
		add(c)
	}
	for _, c := range e.patternScan(text) {
		add(c)
	}
	if e.nlp != nil {
		for _, c := range e.nlpScan(text) {
			add(c)
		}
	}
	for _, c := range e.contextualScan(text) {
		add(c)
	}

	list := make([]candidate, 0, len(merged))
	for _, c := range merged {
		c.conf = e.boost(lower, c)
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].conf != list[j].conf {
			return list[i].conf > list[j].conf
		}
		return list[i].entry.Name < list[j].entry.Name
	})

	return e.buildProfile(text, lower, list)
}

// dictionaryScan finds every dictionary term occurring as a substring.
func (e *Extractor) dictionaryScan(text, lower string) []candidate {
	var out []candidate
	for _, term := range e.dict.Terms() {
		idx := strings.Index(lower, term)
		if idx < 0 {
			continue
		}
		entry := e.dict.lookup[term]
		out = append(out, candidate{
			entry:   entry,
			conf:    confDictionary,
			context: snippet(text, idx, len(term)),
		})
	}
	return out
}

func (e *Extractor) patternScan(text string) []candidate {
	var out []candidate
	scan := func(res []*regexp.Regexp, conf float64) {
		for _, re := range res {
			for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
				start, end := loc[2], loc[3]
				if start < 0 {
					continue
				}
				entry, ok := e.dict.Lookup(text[start:end])
				if !ok {
					continue
				}
				out = append(out, candidate{
					entry:   entry,
					conf:    conf,
					context: snippet(text, start, end-start),
				})
			}
		}
	}
	scan(progLangRe, confPatternPL)
	scan(frameworkRe, confPatternFW)
	return out
}

// nlpScan mines noun phrases of up to three tokens, keeping those the
// dictionary recognizes. Named entities add nothing here: any entity text the
// dictionary could resolve is already found by the substring scan at higher
// confidence.
func (e *Extractor) nlpScan(text string) []candidate {
	var out []candidate
	if phrases, err := e.nlp.NounPhrases(text); err == nil {
		for _, p := range phrases {
			if n := len(strings.Fields(p)); n < 1 || n > 3 {
				continue
			}
			if entry, ok := e.dict.Lookup(p); ok {
				out = append(out, candidate{entry: entry, conf: confNounPhrase})
			}
		}
	}
	return out
}

// contextualScan mines candidate lists following indicator phrases such as
// "experience with" or "technologies:".
func (e *Extractor) contextualScan(text string) []candidate {
	var out []candidate
	for _, re := range contextualRe {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, part := range candidateSplitRe.Split(m[1], -1) {
				part = strings.TrimSpace(part)
				if part == "" || len(strings.Fields(part)) > 3 {
					continue
				}
				if entry, ok := e.dict.Lookup(part); ok {
					out = append(out, candidate{entry: entry, conf: confContextual, context: truncate(m[0], contextMax)})
				}
			}
		}
	}
	return out
}

// boost raises confidence for repeat mentions and for mentions that fall
// inside a skills section, capped at 1.0.
func (e *Extractor) boost(lower string, c candidate) float64 {
	term := strings.ToLower(c.entry.Name)
	count := strings.Count(lower, term)
	for _, a := range c.entry.Aliases {
		if a != term {
			count += strings.Count(lower, a)
		}
	}
	conf := c.conf
	if count > 1 {
		b := occurrenceBoost * float64(count-1)
		if b > occurrenceBoostMax {
			b = occurrenceBoostMax
		}
		conf += b
	}
	if inSkillsSection(lower, term, c.entry.Aliases) {
		conf += sectionBoost
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

func inSkillsSection(lower, term string, aliases []string) bool {
	for _, kw := range sectionKeywords {
		from := 0
		for {
			idx := strings.Index(lower[from:], kw)
			if idx < 0 {
				break
			}
			start := from + idx + len(kw)
			end := start + sectionWindow
			if end > len(lower) {
				end = len(lower)
			}
			window := lower[start:end]
			if strings.Contains(window, term) {
				return true
			}
			for _, a := range aliases {
				if strings.Contains(window, a) {
					return true
				}
			}
			from = start
		}
	}
	return false
}

func (e *Extractor) buildProfile(text, lower string, list []candidate) domain.SkillProfile {
	var p domain.SkillProfile
	p.SkillCategories = make(map[string][]string)
	for _, c := range list {
		s := domain.ExtractedSkill{
			Name:        c.entry.Name,
			Category:    c.entry.Category,
			Confidence:  domain.Confidence(domain.Round2(c.conf)),
			Context:     c.context,
			Aliases:     c.entry.Aliases,
			Proficiency: proficiency(c.context),
		}
		switch Bucket(c.entry.Category) {
		case "soft_skills":
			p.SoftSkills = append(p.SoftSkills, s)
		case "tools_platforms":
			p.ToolsPlatforms = append(p.ToolsPlatforms, s)
		case "domain_expertise":
			p.DomainExpertise = append(p.DomainExpertise, s)
		default:
			p.TechnicalSkills = append(p.TechnicalSkills, s)
		}
		p.SkillCategories[c.entry.Category] = append(p.SkillCategories[c.entry.Category], c.entry.Name)
		p.TotalSkillsCount++
	}

	nonEmpty := 0
	for _, b := range [][]domain.ExtractedSkill{p.TechnicalSkills, p.SoftSkills, p.DomainExpertise, p.ToolsPlatforms} {
		if len(b) > 0 {
			nonEmpty++
		}
	}
	p.SkillDiversityScore = domain.Confidence(domain.Round2(float64(nonEmpty) / 4.0))
	p.Certifications = e.Certifications(text)
	return p
}

// Certifications extracts certification mentions from text.
func (e *Extractor) Certifications(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, re := range certRe {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(strings.Join(nonEmptyGroups(m), " "))
			if name == "" || len(name) > 60 {
				continue
			}
			name = titleCase(name)
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

func nonEmptyGroups(m []string) []string {
	var out []string
	for _, g := range m[1:] {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// proficiency infers a level from the surrounding context.
func proficiency(ctx string) string {
	l := strings.ToLower(ctx)
	switch {
	case containsAny(l, "expert", "advanced", "senior", "lead"):
		return "advanced"
	case containsAny(l, "intermediate", "proficient", "experienced"):
		return "intermediate"
	case containsAny(l, "beginner", "basic", "familiar", "learning"):
		return "beginner"
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// snippet returns up to contextMax characters around a match.
func snippet(text string, idx, length int) string {
	start := idx - contextRadius
	if start < 0 {
		start = 0
	}
	end := idx + length + contextRadius
	if end > len(text) {
		end = len(text)
	}
	return truncate(strings.TrimSpace(text[start:end]), contextMax)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
