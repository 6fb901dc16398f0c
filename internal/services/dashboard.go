package services

import (
  "context"
  "time"

  "github.com/edusight/edusight-backend/internal/apperr"
  redisclient "github.com/edusight/edusight-backend/internal/clients/redis"
  "github.com/edusight/edusight-backend/internal/logger"
  "github.com/edusight/edusight-backend/internal/repos"
  "github.com/edusight/edusight-backend/internal/types"
)

const (
  dashboardSummaryTTL = 60 * time.Second

  // atRiskThreshold marks a student as needing attention on the
  // dashboard; higher risk score = more at-risk.
  atRiskThreshold = 0.7
)

type DashboardSummary struct {
  TotalStudents int      `json:"totalStudents"`
  ScoredCount   int      `json:"scoredCount"`
  AvgRiskScore  *float64 `json:"avgRiskScore,omitempty"`
  AtRiskCount   int      `json:"atRiskCount"`
  TopStudentID  *string  `json:"topStudentId,omitempty"`
}

type DashboardService interface {
  Summary(ctx context.Context) (*DashboardSummary, error)
}

type dashboardService struct {
  log         *logger.Logger
  studentRepo repos.StudentRepo
  cache       redisclient.Cache
}

func NewDashboardService(baseLog *logger.Logger, studentRepo repos.StudentRepo, cache redisclient.Cache) DashboardService {
  serviceLog := baseLog.With("service", "DashboardService")
  return &dashboardService{log: serviceLog, studentRepo: studentRepo, cache: cache}
}

// ComputeDashboardSummary is a pure helper over a student set. The top
// student is the highest previous-marks record; risk aggregates are over
// scored records only.
func ComputeDashboardSummary(students []*types.Student) DashboardSummary {
  summary := DashboardSummary{TotalStudents: len(students)}

  var riskSum float64
  var top *types.Student
  for _, s := range students {
    if s.RiskScore != nil {
      summary.ScoredCount++
      riskSum += *s.RiskScore
      if *s.RiskScore >= atRiskThreshold {
        summary.AtRiskCount++
      }
    }
    if top == nil || s.PreviousMarks > top.PreviousMarks {
      top = s
    }
  }
  if summary.ScoredCount > 0 {
    avg := riskSum / float64(summary.ScoredCount)
    summary.AvgRiskScore = &avg
  }
  if top != nil {
    id := top.ID.String()
    summary.TopStudentID = &id
  }
  return summary
}

func (ds *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
  if ds.cache != nil {
    var cached DashboardSummary
    hit, err := ds.cache.GetJSON(ctx, cacheKeyDashboardSummary, &cached)
    if err != nil {
      ds.log.Warn("dashboard summary cache read failed, recomputing", "error", err)
    } else if hit {
      return &cached, nil
    }
  }

  students, err := ds.studentRepo.List(ctx, nil)
  if err != nil {
    return nil, apperr.Store("list students", err)
  }
  summary := ComputeDashboardSummary(students)

  if ds.cache != nil {
    if err := ds.cache.SetJSON(ctx, cacheKeyDashboardSummary, summary, dashboardSummaryTTL); err != nil {
      ds.log.Warn("dashboard summary cache write failed", "error", err)
    }
  }
  return &summary, nil
}
