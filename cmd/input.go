package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/matching"
)

// readJobs accepts a JSON array of postings or a single posting.
func readJobs(path string) ([]matching.JobPosting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs: %w", err)
	}

	var jobs []matching.JobPosting
	if err := json.Unmarshal(data, &jobs); err == nil {
		return jobs, nil
	}

	var job matching.JobPosting
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode jobs %s: %w", path, err)
	}
	return []matching.JobPosting{job}, nil
}

func readProfiles(path string) ([]cv.CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var profiles []cv.CandidateProfile
	if err := json.Unmarshal(data, &profiles); err == nil {
		return profiles, nil
	}

	var p cv.CandidateProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profiles %s: %w", path, err)
	}
	return []cv.CandidateProfile{p}, nil
}

// analyzeFile extracts and analyses one CV document.
func (s *services) analyzeFile(ctx context.Context, path string) (cv.CandidateProfile, error) {
	text, err := s.documents.ExtractText(ctx, path)
	if err != nil {
		return cv.CandidateProfile{}, err
	}
	profile := s.analyzer.Analyze(ctx, text)
	s.logger.Info("cv analysed",
		zap.String("file", path),
		zap.String("name", profile.Name),
		zap.String("method", string(profile.Metadata.Method)),
		zap.Int("validation_score", profile.Metadata.ValidationScore),
	)
	return profile, nil
}

// candidates loads profiles from .json files and analyses every other file.
// Unreadable documents are skipped with a warning.
func (s *services) candidates(ctx context.Context, paths []string) ([]cv.CandidateProfile, error) {
	var out []cv.CandidateProfile
	for _, path := range paths {
		if strings.EqualFold(filepath.Ext(path), ".json") {
			profiles, err := readProfiles(path)
			if err != nil {
				return nil, err
			}
			out = append(out, profiles...)
			continue
		}

		p, err := s.analyzeFile(ctx, path)
		if err != nil {
			s.logger.Warn("skipping cv", zap.String("file", path), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
