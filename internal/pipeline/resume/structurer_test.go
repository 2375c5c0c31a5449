package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
)

const sampleResume = `John Smith
john.smith@example.com | (555) 123-4567
linkedin.com/in/johnsmith
San Francisco, CA

Summary
Backend engineer with a focus on data-heavy services.

Skills
Python, Django, PostgreSQL; Docker, AWS
Leadership

Experience
Senior Software Engineer at Acme Corp, San Francisco, CA
01/2019 - Present
• Led migration of billing to Python microservices
• Reduced infra cost by 30%

Software Engineer at Widget Inc
2016 - 2019
• Built REST APIs with Django and PostgreSQL

Education
Bachelor of Science in Computer Science, Stanford University
2016, GPA: 3.8

Certifications
AWS Certified Solutions Architect

Languages
English, Spanish
`

func TestStructureContact(t *testing.T) {
	s := NewStructurer(nil)
	r := s.Structure(sampleResume, 1.0)

	assert.Equal(t, "John Smith", r.Contact.Name)
	assert.Equal(t, "john.smith@example.com", r.Contact.Email)
	assert.Equal(t, "(555) 123-4567", r.Contact.Phone)
	assert.Contains(t, r.Contact.LinkedIn, "linkedin.com/in/johnsmith")
	assert.Equal(t, "San Francisco, CA", r.Contact.Location)
}

func TestStructureSkillsUnion(t *testing.T) {
	s := NewStructurer(nil)
	r := s.Structure(sampleResume, 1.0)

	lower := make(map[string]bool)
	for _, n := range r.SkillNames {
		lower[normalize(n)] = true
	}
	for _, want := range []string{"python", "django", "postgresql", "docker", "aws", "leadership"} {
		assert.True(t, lower[want], "missing skill %q", want)
	}
}

func normalize(s string) string {
	out := []rune{}
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}

func TestStructureWorkEntries(t *testing.T) {
	s := NewStructurer(nil)
	r := s.Structure(sampleResume, 1.0)

	require.Len(t, r.WorkExperience, 2)
	first := r.WorkExperience[0]
	assert.Equal(t, "Senior Software Engineer", first.Title)
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "01/2019", first.StartDate)
	assert.Equal(t, "Present", first.EndDate)
	assert.NotEmpty(t, first.Description)
	assert.NotEmpty(t, first.Achievements)
	assert.Contains(t, first.Technologies, "Python")

	second := r.WorkExperience[1]
	assert.Equal(t, "Software Engineer", second.Title)
	assert.Equal(t, "Widget Inc", second.Company)
}

func TestStructureEducation(t *testing.T) {
	s := NewStructurer(nil)
	r := s.Structure(sampleResume, 1.0)

	require.NotEmpty(t, r.Education)
	e := r.Education[0]
	assert.Contains(t, e.Degree, "Bachelor of Science")
	assert.Contains(t, e.Institution, "Stanford")
	require.NotNil(t, e.GraduationYear)
	assert.Equal(t, 2016, *e.GraduationYear)
	require.NotNil(t, e.GPA)
	assert.InDelta(t, 3.8, *e.GPA, 1e-9)
}

func TestStructureEducationTenPointGPA(t *testing.T) {
	s := NewStructurer(nil)
	r := s.Structure(`Jane Doe
jane@example.com

Education
Bachelor of Technology in Computer Science, IIT Delhi
2018, GPA: 10
`, 1.0)

	require.NotEmpty(t, r.Education)
	require.NotNil(t, r.Education[0].GPA)
	assert.InDelta(t, 10.0, *r.Education[0].GPA, 1e-9)
}

func TestStructureTotalYears(t *testing.T) {
	s := NewStructurer(nil)
	r := s.Structure(sampleResume, 1.0)

	require.NotNil(t, r.TotalExperienceYears)
	assert.GreaterOrEqual(t, *r.TotalExperienceYears, 8.0)
}

func TestStructureMisc(t *testing.T) {
	s := NewStructurer(nil)
	r := s.Structure(sampleResume, 0.85)

	assert.Equal(t, domain.Confidence(0.85), r.ParsingConfidence)
	assert.Contains(t, r.Summary, "Backend engineer")
	assert.NotEmpty(t, r.Certifications)
	assert.Equal(t, []string{"English", "Spanish"}, r.Languages)
	assert.Equal(t, sampleResume, r.RawText)
}

func TestStructureIdempotent(t *testing.T) {
	s := NewStructurer(nil)
	a := s.Structure(sampleResume, 1.0)
	b := s.Structure(sampleResume, 1.0)
	assert.Equal(t, a, b)
}

func TestStructureEmptyText(t *testing.T) {
	s := NewStructurer(nil)
	r := s.Structure("", 0.8)
	assert.Empty(t, r.WorkExperience)
	assert.Empty(t, r.Education)
	assert.Empty(t, r.SkillNames)
	assert.Nil(t, r.TotalExperienceYears)
}

func TestNameSkipsHeadersAndContactLines(t *testing.T) {
	s := NewStructurer(nil)
	r := s.Structure("Curriculum Vitae\njane@x.io\nJane Marie Doe\nSkills\nGo", 1.0)
	assert.Equal(t, "Jane Marie Doe", r.Contact.Name)
}
