package cv

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeClampsYears(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{-5, 0},
		{-0.5, 0},
		{0, 0},
		{7, 7},
		{7.9, 7},
		{"12", 12},
		{"8 ans", 8},
		{"-3 years", 0},
		{51, 50},
		{1e9, 50},
		{1e20, 50},
		{-1e20, 0},
		{math.Inf(1), 50},
		{math.Inf(-1), 0},
		{"9999999999999999999999", 50},
		{"9999999999999999999999 ans", 50},
		{"n/a", 0},
		{nil, 0},
		{[]any{1}, 0},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v", tc.in), func(t *testing.T) {
			p := Normalize(Draft{KeyYearsExperience: tc.in}, Defaults{})
			assert.Equal(t, tc.want, p.YearsExperience)
		})
	}
}

func TestNormalizeCapsSkills(t *testing.T) {
	skills := make([]any, 0, 30)
	for i := 0; i < 30; i++ {
		skills = append(skills, fmt.Sprintf("skill-%02d", i))
	}

	p := Normalize(Draft{KeySkills: skills}, Defaults{})
	require.Len(t, p.Skills, MaxSkills)
	assert.Equal(t, "skill-00", p.Skills[0])
	assert.Equal(t, "skill-11", p.Skills[11])
}

func TestNormalizeFiltersSkills(t *testing.T) {
	p := Normalize(Draft{KeySkills: []any{"C", " Go lang ", "go lang", "", map[string]any{"x": 1}, "SQL"}}, Defaults{})
	assert.Equal(t, []string{"Go lang", "SQL"}, p.Skills)

	p = Normalize(Draft{KeySkills: "React, Node.js ,x"}, Defaults{})
	assert.Equal(t, []string{"React", "Node.js"}, p.Skills)
}

func TestNormalizeFillsDefaults(t *testing.T) {
	p := Normalize(Draft{}, Defaults{Language: "English", Region: "Belgique"})

	assert.Equal(t, PlaceholderName, p.Name)
	assert.Empty(t, p.Email)
	assert.NotNil(t, p.Skills)
	assert.NotNil(t, p.WorkHistory)
	assert.NotNil(t, p.Education)
	assert.Equal(t, []string{"English"}, p.Languages)
	assert.Equal(t, GenericDomain, p.Domain)
	assert.Equal(t, "Belgique", p.Location)

	p = Normalize(nil, Defaults{})
	assert.Equal(t, []string{"Français"}, p.Languages)
	assert.Equal(t, "France", p.Location)
}

func TestNormalizeScalarFields(t *testing.T) {
	long := make([]rune, 700)
	for i := range long {
		long[i] = 'é'
	}

	p := Normalize(Draft{
		KeyName:    "  Marie   Curie ",
		KeyEmail:   " Marie.Curie@Example.FR ",
		KeyPhone:   "06 12\t34  56 78",
		KeySummary: string(long),
		KeyDomain:  " Data   Science ",
	}, Defaults{})

	assert.Equal(t, "Marie Curie", p.Name)
	assert.Equal(t, "marie.curie@example.fr", p.Email)
	assert.Equal(t, "06 12 34 56 78", p.Phone)
	assert.Len(t, []rune(p.Summary), MaxSummaryRunes)
	assert.Equal(t, "Data Science", p.Domain)

	p = Normalize(Draft{KeyEmail: "not-an-email"}, Defaults{})
	assert.Empty(t, p.Email)
}

func TestNormalizeEntries(t *testing.T) {
	p := Normalize(Draft{
		KeyWorkHistory: []any{
			map[string]any{"role": " Dev ", "employer": "Acme", "period": 2020},
			"Freelance work",
			42,
		},
		KeyEducation: []any{
			map[string]any{"degree": "Master", "institution": "Sorbonne", "year": 2018},
		},
	}, Defaults{})

	require.Len(t, p.WorkHistory, 2)
	assert.Equal(t, WorkEntry{Role: "Dev", Employer: "Acme", Period: "2020"}, p.WorkHistory[0])
	assert.Equal(t, "Freelance work", p.WorkHistory[1].Description)

	require.Len(t, p.Education, 1)
	assert.Equal(t, "2018", p.Education[0].Year)

	p = Normalize(Draft{KeyWorkHistory: "garbage", KeyEducation: map[string]any{}}, Defaults{})
	assert.Empty(t, p.WorkHistory)
	assert.NotNil(t, p.WorkHistory)
	assert.Empty(t, p.Education)
}

func TestDraftRoundTripKeepsTypedEntries(t *testing.T) {
	src := CandidateProfile{
		Name:        "Jean Dupont",
		Skills:      []string{"React"},
		WorkHistory: []WorkEntry{{Role: "Dev"}},
		Education:   []EducationEntry{{Degree: "Licence"}},
		Languages:   []string{"Français"},
		Domain:      "Web Development",
		Location:    "Paris",
	}

	p := Normalize(src.Draft(), Defaults{})
	assert.Equal(t, src.WorkHistory, p.WorkHistory)
	assert.Equal(t, src.Education, p.Education)
	assert.Equal(t, "Paris", p.Location)
}

func TestDraftMergeOverwritesShallowly(t *testing.T) {
	base := Draft{KeyName: "A", KeyDomain: "IT"}
	merged := base.Merge(Draft{KeyDomain: "DevOps / Cloud", KeySkills: []string{"Docker"}})

	assert.Equal(t, "A", merged.String(KeyName))
	assert.Equal(t, "DevOps / Cloud", merged.String(KeyDomain))
	assert.Equal(t, "IT", base.String(KeyDomain), "merge must not mutate the receiver")
}
