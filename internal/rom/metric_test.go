package rom

import "testing"

func TestParseAssessmentKind(t *testing.T) {
	kinds := []AssessmentKind{
		AssessTAM,
		AssessKapandji,
		AssessWristFlexExt,
		AssessForearmRotation,
		AssessRadialUlnar,
	}
	for _, k := range kinds {
		got, err := ParseAssessmentKind(string(k))
		if err != nil {
			t.Errorf("ParseAssessmentKind(%q) error = %v", k, err)
			continue
		}
		if got != k {
			t.Errorf("ParseAssessmentKind(%q) = %q", k, got)
		}
	}

	if _, err := ParseAssessmentKind("grip_strength"); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}
