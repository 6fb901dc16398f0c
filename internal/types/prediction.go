package types

import (
  "time"
)

// Prediction is one scoring event in a student's history. Entries are
// immutable once created; ordering within a history is chronological.
type Prediction struct {
  RiskScore float64   `json:"riskScore"`
  Insight   string    `json:"insight"`
  CreatedAt time.Time `json:"createdAt"`
}
