package types

import (
  "fmt"
  "strings"
)

// StudentInput is the untrusted shape accepted from create and bulk
// upload requests. Every numeric field is a pointer so an absent field is
// distinguishable from zero: scoring must fail on missing input, never
// substitute defaults.
type StudentInput struct {
  StudentID            *string  `json:"studentId"`
  Name                 *string  `json:"name"`
  Age                  *int     `json:"age"`
  Gender               *string  `json:"gender"`
  AttendancePercent    *float64 `json:"attendancePercent"`
  StudyHoursPerWeek    *float64 `json:"studyHoursPerWeek"`
  PreviousMarks        *float64 `json:"previousMarks"`
  AssignmentsScore     *float64 `json:"assignmentsScore"`
  ParticipationScore   *float64 `json:"participationScore"`
  ExtraCurricularScore *float64 `json:"extraCurricularScore"`
}

// Resolve validates the input and produces a typed StudentMetrics value.
// The returned error lists every failing field, not just the first.
func (in StudentInput) Resolve() (StudentMetrics, error) {
  var problems []string

  var m StudentMetrics

  if in.StudentID == nil || strings.TrimSpace(*in.StudentID) == "" {
    problems = append(problems, "studentId is required")
  } else {
    m.StudentID = strings.TrimSpace(*in.StudentID)
  }
  if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
    problems = append(problems, "name is required")
  } else {
    m.Name = strings.TrimSpace(*in.Name)
  }
  if in.Age == nil {
    problems = append(problems, "age is required")
  } else if *in.Age <= 0 {
    problems = append(problems, "age must be a positive integer")
  } else {
    m.Age = *in.Age
  }
  if in.Gender == nil {
    problems = append(problems, "gender is required")
  } else {
    g := Gender(strings.TrimSpace(*in.Gender))
    if !g.Valid() {
      problems = append(problems, "gender must be one of Male, Female, Other")
    } else {
      m.Gender = g
    }
  }

  setPercent := func(field string, src *float64, dst *float64) {
    if src == nil {
      problems = append(problems, field+" is required")
      return
    }
    if *src < 0 || *src > 100 {
      problems = append(problems, field+" must be between 0 and 100")
      return
    }
    *dst = *src
  }
  setPercent("attendancePercent", in.AttendancePercent, &m.AttendancePercent)
  setPercent("previousMarks", in.PreviousMarks, &m.PreviousMarks)
  setPercent("assignmentsScore", in.AssignmentsScore, &m.AssignmentsScore)
  setPercent("participationScore", in.ParticipationScore, &m.ParticipationScore)
  setPercent("extraCurricularScore", in.ExtraCurricularScore, &m.ExtraCurricularScore)

  if in.StudyHoursPerWeek == nil {
    problems = append(problems, "studyHoursPerWeek is required")
  } else if *in.StudyHoursPerWeek < 0 {
    problems = append(problems, "studyHoursPerWeek must not be negative")
  } else {
    m.StudyHoursPerWeek = *in.StudyHoursPerWeek
  }

  if len(problems) > 0 {
    return StudentMetrics{}, fmt.Errorf("%s", strings.Join(problems, "; "))
  }
  return m, nil
}
