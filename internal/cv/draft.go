package cv

// Draft is a loosely typed, partially filled profile as produced by a model
// stage or an extractor. Keys follow the JSON names of CandidateProfile.
type Draft map[string]any

const (
	KeyName            = "name"
	KeyEmail           = "email"
	KeyPhone           = "phone"
	KeySkills          = "skills"
	KeyYearsExperience = "yearsExperience"
	KeyWorkHistory     = "workHistory"
	KeyEducation       = "education"
	KeyLanguages       = "languages"
	KeyDomain          = "domain"
	KeyLocation        = "location"
	KeySummary         = "summary"
)

// Merge returns a new draft where every key of other overwrites d.
func (d Draft) Merge(other Draft) Draft {
	out := make(Draft, len(d)+len(other))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// String returns the value under key when it is a string.
func (d Draft) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Draft converts the profile back into its loose form, dropping metadata.
func (p CandidateProfile) Draft() Draft {
	return Draft{
		KeyName:            p.Name,
		KeyEmail:           p.Email,
		KeyPhone:           p.Phone,
		KeySkills:          append([]string{}, p.Skills...),
		KeyYearsExperience: p.YearsExperience,
		KeyWorkHistory:     append([]WorkEntry{}, p.WorkHistory...),
		KeyEducation:       append([]EducationEntry{}, p.Education...),
		KeyLanguages:       append([]string{}, p.Languages...),
		KeyDomain:          p.Domain,
		KeyLocation:        p.Location,
		KeySummary:         p.Summary,
	}
}
