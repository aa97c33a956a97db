package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/jobdesc"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a job description with the configured model",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		s := setup(ctx)
		defer s.close()

		if s.generator == nil {
			s.logger.Fatal("job description generation needs a model backend", zap.String("hint", "configure the ai section"))
		}

		req := jobdesc.Request{}
		req.Title, _ = cmd.Flags().GetString("title")
		req.Requirements, _ = cmd.Flags().GetString("requirements")
		req.CompanyInfo, _ = cmd.Flags().GetString("company")

		text, err := s.generator.Generate(ctx, req)
		if err != nil {
			s.logger.Fatal("generating job description", zap.Error(err))
		}
		fmt.Println(text)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("title", "t", "", "job title")
	generateCmd.Flags().StringP("requirements", "r", "", "requirements to include")
	generateCmd.Flags().StringP("company", "c", "", "company context")
	generateCmd.MarkFlagRequired("title")
}
