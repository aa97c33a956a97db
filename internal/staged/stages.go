package staged

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/utils"
)

const (
	StageIdentity = "identity"
	StageSkills   = "skills"
	StageHistory  = "history"

	SourceModel    = "model"
	SourceFallback = "fallback"

	identityWindow = 1500
	skillsWindow   = 2000

	maxStageSkills    = 10
	maxStageWork      = 3
	maxStageEducation = 2
)

type stage struct {
	name    string
	window  int
	schema  answerSchema
	options ai.Options
	prompt  func(text string, taxonomy []string) string
	decode  func(payload map[string]any, taxonomy []string) (cv.Draft, error)
}

var (
	identityStage = stage{
		name:    StageIdentity,
		window:  identityWindow,
		schema:  mustSchema(identitySchema),
		options: ai.Options{MaxTokens: 300, Temperature: 0.1},
		prompt:  identityPrompt,
		decode:  decodeIdentity,
	}
	skillsStage = stage{
		name:    StageSkills,
		window:  skillsWindow,
		schema:  mustSchema(skillsSchema),
		options: ai.Options{MaxTokens: 500, Temperature: 0.1},
		prompt:  skillsPrompt,
		decode:  decodeSkills,
	}
	historyStage = stage{
		name:    StageHistory,
		schema:  mustSchema(historySchema),
		options: ai.Options{MaxTokens: 1500, Temperature: 0.1},
		prompt:  historyPrompt,
		decode:  decodeHistory,
	}
)

func identityPrompt(text string, _ []string) string {
	return fmt.Sprintf(`Extract the identity of the candidate from this CV excerpt.
Return JSON: {"name": "", "email": "", "phone": "", "location": ""}
Use an empty string for anything that is not present.

CV:
%s`, text)
}

func skillsPrompt(text string, taxonomy []string) string {
	return fmt.Sprintf(`Analyse the skills of the candidate in this CV excerpt.
Return JSON: {"skills": ["..."], "domain": "", "yearsExperience": 0}
- skills: at most %d technical or professional skills
- domain: exactly one of: %s
- yearsExperience: total years of professional experience as an integer

CV:
%s`, maxStageSkills, strings.Join(taxonomy, ", "), text)
}

func historyPrompt(text string, _ []string) string {
	return fmt.Sprintf(`Extract the career history of the candidate from this CV.
Return JSON: {
  "workHistory": [{"role": "", "employer": "", "period": "", "description": ""}],
  "education": [{"degree": "", "institution": "", "year": ""}],
  "languages": ["..."],
  "summary": ""
}
- workHistory: the %d most recent positions
- education: the %d most relevant entries
- summary: two or three sentences

CV:
%s`, maxStageWork, maxStageEducation, text)
}

func decodeInto(payload map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(payload)
}

type identityAnswer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

func decodeIdentity(payload map[string]any, _ []string) (cv.Draft, error) {
	var a identityAnswer
	if err := decodeInto(payload, &a); err != nil {
		return nil, err
	}

	draft := cv.Draft{}
	setIfPresent(draft, cv.KeyName, a.Name)
	setIfPresent(draft, cv.KeyEmail, a.Email)
	setIfPresent(draft, cv.KeyPhone, a.Phone)
	setIfPresent(draft, cv.KeyLocation, a.Location)
	return draft, nil
}

type skillsAnswer struct {
	Skills          []string `json:"skills"`
	Domain          string   `json:"domain"`
	YearsExperience any      `json:"yearsExperience"`
}

func decodeSkills(payload map[string]any, taxonomy []string) (cv.Draft, error) {
	var a skillsAnswer
	if err := decodeInto(payload, &a); err != nil {
		return nil, err
	}

	skills := make([]string, 0, maxStageSkills)
	for _, s := range a.Skills {
		if s = utils.CollapseSpaces(s); s != "" {
			skills = append(skills, s)
		}
		if len(skills) == maxStageSkills {
			break
		}
	}

	return cv.Draft{
		cv.KeySkills:          skills,
		cv.KeyDomain:          canonicalDomain(a.Domain, taxonomy),
		cv.KeyYearsExperience: a.YearsExperience,
	}, nil
}

// canonicalDomain maps answer onto the taxonomy, case-insensitively.
func canonicalDomain(answer string, taxonomy []string) string {
	answer = utils.CollapseSpaces(answer)
	for _, label := range taxonomy {
		if strings.EqualFold(label, answer) {
			return label
		}
	}
	return cv.GenericDomain
}

type historyAnswer struct {
	WorkHistory []cv.WorkEntry      `json:"workHistory"`
	Education   []cv.EducationEntry `json:"education"`
	Languages   []string            `json:"languages"`
	Summary     string              `json:"summary"`
}

func decodeHistory(payload map[string]any, _ []string) (cv.Draft, error) {
	var a historyAnswer
	if err := decodeInto(payload, &a); err != nil {
		return nil, err
	}

	if len(a.WorkHistory) > maxStageWork {
		a.WorkHistory = a.WorkHistory[:maxStageWork]
	}
	if len(a.Education) > maxStageEducation {
		a.Education = a.Education[:maxStageEducation]
	}

	draft := cv.Draft{
		cv.KeyWorkHistory: a.WorkHistory,
		cv.KeyEducation:   a.Education,
	}
	if len(a.Languages) > 0 {
		draft[cv.KeyLanguages] = a.Languages
	}
	setIfPresent(draft, cv.KeySummary, a.Summary)
	return draft, nil
}

func setIfPresent(d cv.Draft, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		d[key] = value
	}
}
