package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
)

func TestDictionaryLookup(t *testing.T) {
	d := NewDictionary()

	e, ok := d.Lookup("py")
	require.True(t, ok)
	assert.Equal(t, "Python", e.Name)
	assert.Equal(t, domain.CategoryProgrammingLanguages, e.Category)

	e, ok = d.Lookup("K8S")
	require.True(t, ok)
	assert.Equal(t, "Kubernetes", e.Name)

	_, ok = d.Lookup("underwater basket weaving")
	assert.False(t, ok)
}

func TestDictionaryMatchAll(t *testing.T) {
	d := NewDictionary()
	got := d.MatchAll("We use PostgreSQL and Redis behind a Django app.")
	names := make(map[string]bool)
	for _, e := range got {
		names[e.Name] = true
	}
	assert.True(t, names["PostgreSQL"])
	assert.True(t, names["Redis"])
	assert.True(t, names["Django"])
}

func TestExtractCategoriesMatchDictionary(t *testing.T) {
	e := NewExtractor(nil, nil)
	text := "Skills: Python, React, PostgreSQL, AWS, Docker, leadership, pandas, communication"
	p := e.Extract(text)

	require.NotZero(t, p.TotalSkillsCount)
	all := append(append(append(append([]domain.ExtractedSkill{}, p.TechnicalSkills...), p.SoftSkills...), p.DomainExpertise...), p.ToolsPlatforms...)
	for _, s := range all {
		entry, ok := e.Dict().Lookup(s.Name)
		require.True(t, ok, "skill %q not in dictionary", s.Name)
		assert.Equal(t, entry.Category, s.Category)
		assert.Equal(t, entry.Name, s.Name)
		assert.InDelta(t, float64(s.Confidence), 0.85, 0.151)
	}
	assert.Equal(t, len(all), p.TotalSkillsCount)
}

func TestExtractBuckets(t *testing.T) {
	e := NewExtractor(nil, nil)
	p := e.Extract("Skills: React, leadership, pandas, Docker")

	has := func(bucket []domain.ExtractedSkill, name string) bool {
		for _, s := range bucket {
			if s.Name == name {
				return true
			}
		}
		return false
	}
	assert.True(t, has(p.TechnicalSkills, "React"))
	assert.True(t, has(p.SoftSkills, "Leadership"))
	assert.True(t, has(p.DomainExpertise, "Pandas"))
	assert.True(t, has(p.ToolsPlatforms, "Docker"))
	assert.Equal(t, domain.Confidence(1.0), p.SkillDiversityScore)
}

func TestExtractDiversityScore(t *testing.T) {
	e := NewExtractor(nil, nil)
	p := e.Extract("I write TypeScript.")
	assert.Equal(t, domain.Confidence(0.25), p.SkillDiversityScore)
}

func TestOccurrenceBoost(t *testing.T) {
	e := NewExtractor(nil, nil)
	once := e.Extract("Kubernetes cluster work.")
	many := e.Extract("Kubernetes, more kubernetes, kubernetes again, kubernetes everywhere, kubernetes forever.")

	find := func(p domain.SkillProfile) domain.Confidence {
		for _, s := range p.ToolsPlatforms {
			if s.Name == "Kubernetes" {
				return s.Confidence
			}
		}
		t.Fatal("Kubernetes not extracted")
		return 0
	}
	assert.Greater(t, float64(find(many)), float64(find(once)))
	assert.LessOrEqual(t, float64(find(many)), 1.0)
}

func TestSectionBoost(t *testing.T) {
	e := NewExtractor(nil, nil)
	plain := e.Extract("Once shipped a Terraform module.")
	section := e.Extract("Technical Skills: Terraform")

	find := func(p domain.SkillProfile) float64 {
		for _, s := range p.ToolsPlatforms {
			if s.Name == "Terraform" {
				return float64(s.Confidence)
			}
		}
		t.Fatal("Terraform not extracted")
		return 0
	}
	assert.Greater(t, find(section), find(plain))
}

func TestContextualStrategy(t *testing.T) {
	e := NewExtractor(nil, nil)
	p := e.Extract("Built using Rust and Elasticsearch.")

	names := map[string]bool{}
	for _, s := range append(p.TechnicalSkills, p.DomainExpertise...) {
		names[s.Name] = true
	}
	assert.True(t, names["Rust"])
	for _, s := range p.TechnicalSkills {
		if s.Name == "Rust" {
			assert.NotEmpty(t, s.Context)
		}
	}
}

func TestCertifications(t *testing.T) {
	e := NewExtractor(nil, nil)
	certs := e.Certifications("AWS Certified Solutions Architect, also holds PMP.")
	require.NotEmpty(t, certs)
	joined := ""
	for _, c := range certs {
		joined += c + ";"
	}
	assert.Contains(t, joined, "Aws")
	assert.Contains(t, joined, "Pmp")
}

func TestCertificationVendorFamilies(t *testing.T) {
	e := NewExtractor(nil, nil)
	certs := e.Certifications("Certified Scrum Master. CompTIA Security+ and Cisco CCNA, plus an Oracle Certified Professional credential.")
	require.NotEmpty(t, certs)
	joined := ""
	for _, c := range certs {
		joined += c + ";"
	}
	assert.Contains(t, joined, "Scrum Master")
	assert.Contains(t, joined, "Comptia Security+")
	assert.Contains(t, joined, "Cisco Ccna")
	assert.Contains(t, joined, "Oracle Certified")
}

func TestContextCapped(t *testing.T) {
	e := NewExtractor(nil, nil)
	long := "padding padding padding padding padding padding padding Scala padding padding padding padding padding padding"
	p := e.Extract(long)
	for _, s := range p.TechnicalSkills {
		assert.LessOrEqual(t, len(s.Context), 100)
	}
}

type fakeNLP struct{}

func (fakeNLP) NounPhrases(text string) ([]string, error) {
	return []string{"power bi", "a very long noun phrase here"}, nil
}

func TestNLPStrategy(t *testing.T) {
	e := NewExtractor(nil, fakeNLP{})
	p := e.Extract("irrelevant body text")

	names := map[string]bool{}
	for _, s := range p.DomainExpertise {
		names[s.Name] = true
	}
	assert.True(t, names["Power BI"])
}

func TestDictionaryScanOutranksNounPhrase(t *testing.T) {
	e := NewExtractor(nil, fakeNLP{})
	p := e.Extract("Built Tableau dashboards.")

	for _, s := range p.DomainExpertise {
		if s.Name == "Tableau" {
			assert.GreaterOrEqual(t, float64(s.Confidence), 0.80)
			return
		}
	}
	t.Fatal("Tableau not extracted")
}
