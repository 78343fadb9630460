package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/oracle"
)

// ErrNoImage is returned when the upload body carries no image.
var ErrNoImage = errors.New("no image provided")

// Ingestor stores an encoded upload and returns its filename.
type Ingestor interface {
	Ingest(ctx context.Context, encoded string) (string, error)
}

// AnalysisService stores an upload and produces the placeholder analysis.
type AnalysisService interface {
	Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResult, error)
}

// AnalysisConfig fixes the category every upload is assigned.
type AnalysisConfig struct {
	Category   string
	Confidence float64
}

type analysisService struct {
	ingestor Ingestor
	oracle   *oracle.Oracle
	config   AnalysisConfig
	logger   *logrus.Logger
}

// NewAnalysisService creates an analysis service. Empty config fields fall
// back to Handlooms at 0.95.
func NewAnalysisService(ingestor Ingestor, o *oracle.Oracle, config AnalysisConfig, logger *logrus.Logger) AnalysisService {
	if config.Category == "" {
		config.Category = oracle.CategoryHandlooms
	}
	if config.Confidence <= 0 {
		config.Confidence = 0.95
	}
	if o == nil {
		o = oracle.New()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &analysisService{
		ingestor: ingestor,
		oracle:   o,
		config:   config,
		logger:   logger,
	}
}

func (s *analysisService) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResult, error) {
	if req == nil || strings.TrimSpace(req.Image) == "" {
		return nil, ErrNoImage
	}

	filename, err := s.ingestor.Ingest(ctx, req.Image)
	if err != nil {
		s.logger.WithError(err).Error("Failed to ingest upload")
		return nil, fmt.Errorf("ingest image: %w", err)
	}

	category := s.config.Category
	result := &AnalyzeResult{
		Analysis: Analysis{
			PredictedCategory: category,
			Confidence:        s.config.Confidence,
		},
		AIDescription:     s.oracle.Describe(category),
		PricingSuggestion: s.oracle.SuggestPrice(category),
		ImageFilename:     filename,
	}

	s.logger.WithFields(logrus.Fields{
		"image_filename":  filename,
		"category":        category,
		"suggested_price": result.PricingSuggestion.Suggested,
	}).Info("Upload analyzed")

	return result, nil
}
