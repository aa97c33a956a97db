package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/matching"
)

const (
	PromptAllJobs = "All jobs (recommendations)"
	PromptExit    = "exit"
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match <cv-file>",
	Short: "Match a CV against job postings",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s := setup(ctx)
		defer s.close()

		jobsFile, _ := cmd.Flags().GetString("jobs")
		jobs, err := readJobs(jobsFile)
		if err != nil {
			s.logger.Fatal("reading jobs", zap.Error(err))
		}
		if len(jobs) == 0 {
			s.logger.Info("exiting", zap.String("reason", "no jobs given"))
			return
		}

		profile, err := s.analyzeFile(ctx, args[0])
		if err != nil {
			s.logger.Fatal("analysing cv", zap.Error(err))
		}

		limit, _ := cmd.Flags().GetInt("limit")
		interactive, _ := cmd.Flags().GetBool("interactive")
		if !interactive {
			if err := printJSON(s.matcher.RecommendJobs(ctx, profile, jobs, s.limit(limit))); err != nil {
				s.logger.Fatal("printing recommendations", zap.Error(err))
			}
			return
		}

		for {
			if err := matchInteractive(jobs, func(job *matching.JobPosting) any {
				if job == nil {
					return s.matcher.RecommendJobs(ctx, profile, jobs, s.limit(limit))
				}
				return s.matcher.Match(ctx, *job, profile)
			}); err != nil {
				if errors.Is(err, errExit) {
					return
				}
				s.logger.Fatal("exiting", zap.Error(err))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("jobs", "jobs.json", "JSON file with one job posting or an array of them")
	matchCmd.Flags().IntP("limit", "n", 0, "maximum number of recommendations (default from match.limit)")
	matchCmd.Flags().BoolP("interactive", "i", false, "choose the job to match in a prompt")
}

// matchInteractive asks for one job, or all of them, and prints the result.
func matchInteractive(jobs []matching.JobPosting, run func(job *matching.JobPosting) any) error {
	items := make([]string, 0, len(jobs)+2)
	for i, j := range jobs {
		label := fmt.Sprintf("%d %s", i+1, j.Title)
		if j.Company != "" {
			label += " / " + j.Company
		}
		items = append(items, label)
	}
	items = append(items, PromptAllJobs, PromptExit)

	jobPrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: items,
		Size:  10,
	}

	idx, selected, err := jobPrompt.Run()
	if err != nil {
		return err
	}

	var result any
	switch selected {
	case PromptExit:
		return errExit
	case PromptAllJobs:
		result = run(nil)
	default:
		result = run(&jobs[idx])
	}
	return printJSON(result)
}

func (s *services) limit(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.config.Match.Limit
}
