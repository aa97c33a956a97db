// Package export writes candidate rankings to Excel workbooks.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/skillmatch/internal/matching"
)

const (
	SummarySheet = "Summary"
	RankingSheet = "Ranked Candidates"
)

var rankingHeader = []any{
	"Rank", "Name", "Email", "Domain", "Experience (years)", "Skills",
	"Score", "Method", "Recommendation", "Strengths", "Weaknesses", "Analysis method", "Confidence",
}

// Report is a ranking of candidates for one job.
type Report struct {
	Job       matching.JobPosting
	Ranked    []matching.RankedCandidate
	Generated time.Time
}

// SaveRanking writes the report to path, adding the .xlsx extension when missing.
func SaveRanking(path string, r Report) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f, err := build(r)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// WriteRanking streams the workbook to w.
func WriteRanking(w io.Writer, r Report) error {
	f, err := build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func build(r Report) (*excelize.File, error) {
	if r.Generated.IsZero() {
		r.Generated = time.Now()
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(RankingSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	if err := writeSummary(f, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeRanking(f, r.Ranked); err != nil {
		f.Close()
		return nil, fmt.Errorf("ranking sheet: %w", err)
	}
	return f, nil
}

func writeSummary(f *excelize.File, r Report) error {
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	var best, total float64
	for i, rc := range r.Ranked {
		total += rc.Match.Score
		if i == 0 || rc.Match.Score > best {
			best = rc.Match.Score
		}
	}
	avg := 0.0
	if len(r.Ranked) > 0 {
		avg = total / float64(len(r.Ranked))
	}

	rows := [][]any{
		{"Job title", r.Job.Title},
		{"Company", r.Job.Company},
		{"Location", r.Job.Location},
		{"Generated", r.Generated.Format("2006-01-02 15:04:05")},
		{"Candidates", len(r.Ranked)},
		{"Best score", best},
		{"Average score", fmt.Sprintf("%.2f", avg)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, cell, cell, labelStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 20); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "B", "B", 50)
}

func writeRanking(f *excelize.File, ranked []matching.RankedCandidate) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(RankingSheet, "A1", &rankingHeader); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(rankingHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(RankingSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, rc := range ranked {
		c := rc.Candidate
		row := []any{
			i + 1,
			c.Name,
			c.Email,
			c.Domain,
			c.YearsExperience,
			strings.Join(c.Skills, ", "),
			rc.Match.Score,
			rc.Match.Method,
			rc.Match.Recommendation,
			strings.Join(rc.Match.Strengths, "; "),
			strings.Join(rc.Match.Weaknesses, "; "),
			string(c.Metadata.Method),
			string(c.Metadata.ConfidenceLevel),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RankingSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(RankingSheet, "B", "B", 25); err != nil {
		return err
	}
	return f.SetColWidth(RankingSheet, "F", "K", 40)
}
