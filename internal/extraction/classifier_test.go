package extraction

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sujal-debug/Policy-IQ/internal/checklist"
	"github.com/sujal-debug/Policy-IQ/internal/claims/ports"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
	"github.com/sujal-debug/Policy-IQ/platform/validator"
)

type stubGenerator struct {
	json    string
	jsonErr error
}

func (g *stubGenerator) GenerateJSON(context.Context, string) (string, error) {
	return g.json, g.jsonErr
}

func (g *stubGenerator) GenerateWithDocuments(context.Context, string, [][]byte) (string, error) {
	return g.json, g.jsonErr
}

func newTestClassifier(t *testing.T, gen Generator) *Classifier {
	t.Helper()
	registry, err := checklist.Load()
	if err != nil {
		t.Fatalf("load checklist registry: %v", err)
	}
	return NewClassifier(gen, registry, validator.New(), logger.New("development"))
}

func TestStripJSONFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripJSONFence(tc.in); got != tc.want {
			t.Errorf("stripJSONFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClassifyClaimExtractsKnownFields(t *testing.T) {
	gen := &stubGenerator{json: `{
		"policy_type": "Vehicle",
		"intent": "claim",
		"owner_name": "Ada Verne",
		"policy_number": "PN-1",
		"patient_summary": "Rear-end collision on the highway."
	}`}
	c := newTestClassifier(t, gen)

	ext, err := c.ClassifyClaim(context.Background(), "body", "")
	if err != nil {
		t.Fatalf("ClassifyClaim: %v", err)
	}
	if ext.PolicyType != "Vehicle" || ext.Intent != ports.IntentClaim {
		t.Fatalf("extraction = %+v", ext)
	}
	if ext.Fields["owner_name"] != "Ada Verne" || ext.Fields["policy_number"] != "PN-1" {
		t.Fatalf("fields = %v", ext.Fields)
	}
	if ext.Summary == "" {
		t.Fatalf("summary was dropped")
	}
}

func TestClassifyClaimQuarantinesUnknownKeys(t *testing.T) {
	gen := &stubGenerator{json: `{
		"policy_number": "PN-1",
		"favorite_color": "blue",
		"claim_amount_estimate": 1200
	}`}
	c := newTestClassifier(t, gen)

	ext, err := c.ClassifyClaim(context.Background(), "body", "")
	if err != nil {
		t.Fatalf("ClassifyClaim: %v", err)
	}
	want := map[string]string{"policy_number": "PN-1"}
	got := map[string]string(ext.Fields)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fields = %v, want unknown keys dropped", got)
	}
}

func TestClassifyClaimInvalidJSONDegrades(t *testing.T) {
	gen := &stubGenerator{json: "I could not parse that email, sorry."}
	c := newTestClassifier(t, gen)

	ext, err := c.ClassifyClaim(context.Background(), "body", "")
	if err != nil {
		t.Fatalf("ClassifyClaim: %v", err)
	}
	if ext.PolicyType != "" || len(ext.Fields) != 0 {
		t.Fatalf("extraction = %+v, want empty", ext)
	}
	if ext.Intent != ports.IntentClaim {
		t.Fatalf("intent = %q, want default claim", ext.Intent)
	}
}

func TestClassifyClaimInvalidIntentFallsBackToClaim(t *testing.T) {
	gen := &stubGenerator{json: `{"intent": "complaint", "policy_number": "PN-1"}`}
	c := newTestClassifier(t, gen)

	ext, err := c.ClassifyClaim(context.Background(), "body", "")
	if err != nil {
		t.Fatalf("ClassifyClaim: %v", err)
	}
	if ext.Intent != ports.IntentClaim {
		t.Fatalf("intent = %q, want claim", ext.Intent)
	}
}

func TestDetectDocumentsFiltersUnknownTags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644); err != nil {
		t.Fatalf("write attachment: %v", err)
	}

	gen := &stubGenerator{json: `["driver_license", "shopping_list", "ACCIDENT_REPORT"]`}
	c := newTestClassifier(t, gen)

	tags, err := c.DetectDocuments(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("DetectDocuments: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"driver_license", "accident_report"}) {
		t.Fatalf("tags = %v", tags)
	}
}

func TestDetectDocumentsNoAttachments(t *testing.T) {
	c := newTestClassifier(t, &stubGenerator{})
	tags, err := c.DetectDocuments(context.Background(), nil)
	if err != nil {
		t.Fatalf("DetectDocuments: %v", err)
	}
	if tags != nil {
		t.Fatalf("tags = %v, want nil", tags)
	}
}
