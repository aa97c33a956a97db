package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/filtering"
)

var searchCmd = &cobra.Command{
	Use:   "search <cv-or-profiles.json>...",
	Short: "Filter candidates by skills, experience, domain and location",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s := setup(ctx)
		defer s.close()

		criteria := filtering.DefaultCriteria()
		criteria.Skills, _ = cmd.Flags().GetStringSlice("skills")
		criteria.MinExperience, _ = cmd.Flags().GetInt("min-experience")
		criteria.MaxExperience, _ = cmd.Flags().GetInt("max-experience")
		criteria.Domain, _ = cmd.Flags().GetString("domain")
		criteria.Location, _ = cmd.Flags().GetString("location")

		candidates, err := s.candidates(ctx, args)
		if err != nil {
			s.logger.Fatal("loading candidates", zap.Error(err))
		}

		res, err := filtering.Search(ctx, criteria, s.logger, candidates)
		if err != nil {
			s.logger.Fatal("searching candidates", zap.Error(err))
		}

		for _, st := range res.Steps {
			s.logger.Info("search step",
				zap.String("name", st.Name),
				zap.Bool("enabled", st.Enabled),
				zap.String("reason", st.Reason),
				zap.Any("details", st.Details),
			)
		}

		if err := printJSON(res); err != nil {
			s.logger.Fatal("printing results", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringSlice("skills", nil, "keep candidates having any of these skills")
	searchCmd.Flags().Int("min-experience", filtering.DefaultMinExperience, "minimum years of experience")
	searchCmd.Flags().Int("max-experience", filtering.DefaultMaxExperience, "maximum years of experience")
	searchCmd.Flags().String("domain", "", "domain substring, case-insensitive")
	searchCmd.Flags().String("location", "", "location substring, case-insensitive")
}
