package services

import (
  "github.com/edusight/edusight-backend/internal/types"
)

// featureMaxValues are the assumed per-feature maximums, in feature order:
// attendance, study hours, previous marks, assignments, participation,
// extracurricular. Values above the assumed maximum produce a ratio > 1;
// no clamping is performed.
var featureMaxValues = [...]float64{100, 40, 100, 100, 100, 100}

const FeatureCount = len(featureMaxValues)

// NormalizeFeatures maps the scoring metrics into roughly [0,1].
func NormalizeFeatures(m types.StudentMetrics) [FeatureCount]float64 {
  raw := [FeatureCount]float64{
    m.AttendancePercent,
    m.StudyHoursPerWeek,
    m.PreviousMarks,
    m.AssignmentsScore,
    m.ParticipationScore,
    m.ExtraCurricularScore,
  }
  var out [FeatureCount]float64
  for i, v := range raw {
    out[i] = v / featureMaxValues[i]
  }
  return out
}

// BaselineRiskEstimate is a deterministic first-pass risk figure derived
// from the normalized features. It stands in for the retired on-device
// model score the scoring prompt embeds as auxiliary context: high
// normalized performance means low risk, so the estimate is one minus the
// mean of the normalized vector, floored at zero for inputs that exceed
// their assumed maximum.
func BaselineRiskEstimate(m types.StudentMetrics) float64 {
  features := NormalizeFeatures(m)
  var sum float64
  for _, v := range features {
    sum += v
  }
  est := 1 - sum/float64(FeatureCount)
  if est < 0 {
    return 0
  }
  if est > 1 {
    return 1
  }
  return est
}
