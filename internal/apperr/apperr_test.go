package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfAndPredicates(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind Kind
	}{
		{name: "validation", err: Validation("bad input"), kind: KindValidation},
		{name: "not_found", err: NotFound("missing"), kind: KindNotFound},
		{name: "external", err: ExternalService("upstream", nil), kind: KindExternalService},
		{name: "store", err: Store("write", errors.New("disk")), kind: KindStore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.kind {
				t.Fatalf("KindOf: want=%q got=%q", tc.kind, got)
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("student not found"))
	if !IsNotFound(err) {
		t.Fatalf("wrapped not_found lost its kind")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors must have no kind")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := ExternalService("scoring call failed", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable through Unwrap")
	}
}
