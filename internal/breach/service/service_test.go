package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"cyphex/internal/breach/metrics"
	"cyphex/internal/breach/models"
	"cyphex/internal/breach/tracer"
	"cyphex/internal/platform/config"
	dErrors "cyphex/pkg/domain-errors"
)

type mockLookuper struct {
	mock.Mock
}

func (m *mockLookuper) Lookup(ctx context.Context, email string) models.LookupResult {
	args := m.Called(ctx, email)
	return args.Get(0).(models.LookupResult)
}

type ServiceSuite struct {
	suite.Suite
	lookup  *mockLookuper
	tracer  *tracer.Recorder
	metrics *metrics.Metrics
	logs    *bytes.Buffer
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.lookup = new(mockLookuper)
	s.tracer = tracer.NewRecorder()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.logs = new(bytes.Buffer)
}

func (s *ServiceSuite) newService(mode string) *Service {
	return New(s.lookup,
		WithFailureMode(mode),
		WithTracer(s.tracer),
		WithMetrics(s.metrics),
		WithLogger(slog.New(slog.NewJSONHandler(s.logs, nil))),
	)
}

func (s *ServiceSuite) TestFound() {
	s.lookup.On("Lookup", mock.Anything, "test@example.com").Return(
		models.Found("xposedornot", []models.BreachRecord{models.NewBreachRecord("Adobe"), models.NewBreachRecord("LinkedIn")}),
	)

	report, err := s.newService(config.FailureModeError).Check(context.Background(), "test@example.com")

	s.Require().NoError(err)
	s.Equal(20, report.BreachScore)
	s.Equal("Low risk. Few breaches detected.", report.ThreatProfileSummary)
	s.Len(report.BreachDetails, 2)
	s.lookup.AssertExpectations(s.T())

	s.Equal(1.0, testutil.ToFloat64(s.metrics.LookupsTotal.WithLabelValues("xposedornot", "found")))
	spans := s.tracer.Named(tracer.SpanBreachCheck)
	s.Require().Len(spans, 1)
	s.Equal("example.com", spans[0].Attributes[tracer.AttrEmailDomain])
	s.Equal(int64(20), spans[0].Attributes[tracer.AttrScore])
	s.NotContains(s.logs.String(), "test@example.com", "addresses are never logged verbatim")
}

func (s *ServiceSuite) TestClean() {
	s.lookup.On("Lookup", mock.Anything, "clean@example.com").Return(models.Clean("xposedornot"))

	report, err := s.newService(config.FailureModeError).Check(context.Background(), "clean@example.com")

	s.Require().NoError(err)
	s.Equal(0, report.BreachScore)
	s.Equal(models.MsgClean, report.ThreatProfileSummary)
}

func (s *ServiceSuite) TestRateLimitedIsSoftInBothModes() {
	for _, mode := range []string{config.FailureModeError, config.FailureModeSoft} {
		s.Run(mode, func() {
			s.SetupTest()
			s.lookup.On("Lookup", mock.Anything, mock.Anything).Return(models.RateLimited("xposedornot"))

			report, err := s.newService(mode).Check(context.Background(), "a@example.com")

			s.Require().NoError(err)
			s.Equal(0, report.BreachScore)
			s.Equal(models.MsgRateLimited, report.ThreatProfileSummary)
		})
	}
}

func (s *ServiceSuite) TestErrorModeSurfacesUpstreamFailure() {
	s.lookup.On("Lookup", mock.Anything, mock.Anything).Return(models.Failed("xposedornot", "API error: 502"))

	report, err := s.newService(config.FailureModeError).Check(context.Background(), "a@example.com")

	s.Nil(report)
	s.True(dErrors.HasCode(err, dErrors.CodeUpstreamUnavailable))
	s.Equal("API error: 502", err.Error())

	spans := s.tracer.Named(tracer.SpanBreachCheck)
	s.Require().Len(spans, 1)
	s.Error(spans[0].Err)
}

func (s *ServiceSuite) TestSoftModeFoldsFailureIntoReport() {
	s.lookup.On("Lookup", mock.Anything, mock.Anything).Return(models.Failed("hibp", models.MsgAccessDenied))

	report, err := s.newService(config.FailureModeSoft).Check(context.Background(), "a@example.com")

	s.Require().NoError(err)
	s.Equal(0, report.BreachScore)
	s.Equal("API access denied. Please try again later.", report.ThreatProfileSummary)
	s.Empty(report.BreachDetails)
	s.Nil(report.Analytics)
}
