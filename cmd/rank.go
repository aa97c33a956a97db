package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/export"
)

var rankCmd = &cobra.Command{
	Use:   "rank <cv-or-profiles.json>...",
	Short: "Rank candidates for a job posting",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s := setup(ctx)
		defer s.close()

		jobFile, _ := cmd.Flags().GetString("job")
		jobs, err := readJobs(jobFile)
		if err != nil {
			s.logger.Fatal("reading job", zap.Error(err))
		}
		if len(jobs) != 1 {
			s.logger.Fatal("exactly one job posting is expected", zap.String("file", jobFile), zap.Int("count", len(jobs)))
		}
		job := jobs[0]

		candidates, err := s.candidates(ctx, args)
		if err != nil {
			s.logger.Fatal("loading candidates", zap.Error(err))
		}
		if len(candidates) == 0 {
			s.logger.Info("exiting", zap.String("reason", "no candidates could be read"))
			return
		}

		limit, _ := cmd.Flags().GetInt("limit")
		ranked := s.matcher.RankCandidates(ctx, job, candidates, s.limit(limit))
		s.logger.Info("candidates ranked", zap.String("job", job.Title), zap.Int("count", len(ranked)))

		if out, _ := cmd.Flags().GetString("xlsx"); out != "" {
			path, err := export.SaveRanking(out, export.Report{Job: job, Ranked: ranked})
			if err != nil {
				s.logger.Fatal("exporting ranking", zap.Error(err))
			}
			s.logger.Info("ranking exported", zap.String("filename", path))
			return
		}

		if err := printJSON(ranked); err != nil {
			s.logger.Fatal("printing ranking", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().String("job", "job.json", "JSON file with the job posting")
	rankCmd.Flags().IntP("limit", "n", 0, "maximum number of candidates (default from match.limit)")
	rankCmd.Flags().String("xlsx", "", "write the ranking to this Excel file instead of stdout")
}
