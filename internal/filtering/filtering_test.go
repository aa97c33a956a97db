package filtering

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/skillmatch/internal/cv"
)

func pool() []cv.CandidateProfile {
	return []cv.CandidateProfile{
		{Name: "Alice", Skills: []string{"React", "Node.js"}, YearsExperience: 4, Domain: "Web Development", Location: "Paris"},
		{Name: "Bruno", Skills: []string{"Python", "Pandas", "SQL"}, YearsExperience: 8, Domain: "Data Science", Location: "Lyon"},
		{Name: "Chloé", Skills: []string{"React", "Docker", "Kubernetes"}, YearsExperience: 6, Domain: "Web Development", Location: "Paris 11e"},
		{Name: "Driss", Skills: []string{"Figma"}, YearsExperience: 25, Domain: "Design / UX", Location: "Marseille"},
	}
}

func names(hits []Hit) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Candidate.Name)
	}
	return out
}

func TestSearchDefaultCriteriaDropsOnlyExperienceOutliers(t *testing.T) {
	res, err := Search(context.Background(), DefaultCriteria(), zap.NewNop(), pool())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bruno", "Chloé"}, names(res.Hits))

	require.Len(t, res.Steps, 4)
	assert.True(t, res.Steps[0].Enabled)
	assert.Equal(t, map[string]string{"min": "0", "max": "20"}, res.Steps[0].Details)
	for _, st := range res.Steps[1:] {
		assert.False(t, st.Enabled, st.Name)
		assert.NotEmpty(t, st.Reason, st.Name)
	}
}

func TestSearchCombinedCriteria(t *testing.T) {
	c := DefaultCriteria()
	c.Skills = []string{"react", "docker", " "}
	c.Domain = "web"
	c.Location = "paris"

	res, err := Search(context.Background(), c, nil, pool())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chloé", "Alice"}, names(res.Hits))
	assert.Equal(t, []string{"React", "Docker"}, res.Hits[0].MatchedSkills)

	for _, st := range res.Steps {
		assert.True(t, st.Enabled, st.Name)
	}
	assert.Equal(t, "web", res.Steps[1].Details["domain"])
	assert.Equal(t, "paris", res.Steps[2].Details["location"])
	assert.Equal(t, "react,docker", res.Steps[3].Details["skills"])
}

func TestSearchExperienceRange(t *testing.T) {
	c := Criteria{MinExperience: 5, MaxExperience: 30}
	res, err := Search(context.Background(), c, nil, pool())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bruno", "Chloé", "Driss"}, names(res.Hits))

	_, err = Search(context.Background(), Criteria{MinExperience: 10, MaxExperience: 2}, nil, pool())
	assert.ErrorIs(t, err, errExperienceRange)
}

func TestRunLogsStepsAndHonoursDisable(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	steps := DefaultSteps()
	DisableByName(steps, "experience", "manual")

	c := Criteria{Skills: []string{"Figma"}}
	left, err := Run(context.Background(), &c, Deps{Logger: zap.New(core)}, steps, pool())
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "Driss", left[0].Name)

	assert.Equal(t, 1, logs.FilterMessage("filter disabled").Len())
	stepLogs := logs.FilterMessage("filter step").All()
	require.Len(t, stepLogs, 3)
	last := stepLogs[2].ContextMap()
	assert.Equal(t, "skills", last["name"])
	assert.EqualValues(t, 3, last["dropped"])

	statuses := Describe(steps)
	require.Len(t, statuses, 4)
	assert.False(t, statuses[0].Enabled)
	assert.Equal(t, "manual", statuses[0].Reason)
	assert.Equal(t, "Figma", statuses[3].Details["skills"])
}

func TestStepsDisablesEmptyCriteria(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := Criteria{MaxExperience: 50, Skills: []string{" ", ""}, Location: "lyon"}
	steps := Steps(c)

	left, err := Run(context.Background(), &c, Deps{Logger: zap.New(core)}, steps, pool())
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "Bruno", left[0].Name)

	disabled := logs.FilterMessage("filter disabled").All()
	require.Len(t, disabled, 2)
	assert.Equal(t, "domain", disabled[0].ContextMap()["name"])
	assert.Equal(t, "no domain requested", disabled[0].ContextMap()["reason"])
	assert.Equal(t, "skills", disabled[1].ContextMap()["name"])
}

func TestRunDoesNotMutateInput(t *testing.T) {
	in := pool()
	c := Criteria{MaxExperience: 5}
	_, err := Run(context.Background(), &c, Deps{}, DefaultSteps(), in)
	require.NoError(t, err)
	assert.Equal(t, pool(), in)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := DefaultCriteria()
	_, err := Run(ctx, &c, Deps{}, DefaultSteps(), pool())
	assert.ErrorIs(t, err, context.Canceled)
}
