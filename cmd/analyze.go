package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/document"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Turn a CV (.txt, .pdf, .docx or stdin) into a structured candidate profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx := context.Background()
		s := setup(ctx)
		defer s.close()

		var (
			profile cv.CandidateProfile
			err     error
		)
		if len(args) == 1 && args[0] != "-" {
			profile, err = s.analyzeFile(ctx, args[0])
		} else {
			profile, err = s.analyzeStdin(ctx, os.Stdin)
		}
		if err != nil {
			s.logger.Fatal("analysing cv", zap.Error(err))
		}

		if err := printJSON(profile); err != nil {
			s.logger.Fatal("printing profile", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func (s *services) analyzeStdin(ctx context.Context, r io.Reader) (cv.CandidateProfile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return cv.CandidateProfile{}, err
	}
	text, err := document.CheckText(string(data))
	if err != nil {
		return cv.CandidateProfile{}, err
	}
	return s.analyzer.Analyze(ctx, text), nil
}
