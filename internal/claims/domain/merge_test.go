package domain

import (
	"reflect"
	"testing"
)

func TestMergeAttributesNonEmptyWins(t *testing.T) {
	existing := Attributes{"policy_number": "P1"}
	incoming := Attributes{"policy_number": "P2"}

	merged := MergeAttributes(existing, incoming)
	if merged["policy_number"] != "P2" {
		t.Fatalf("expected non-empty new value to overwrite, got %q", merged["policy_number"])
	}
}

func TestMergeAttributesBlankNeverErases(t *testing.T) {
	existing := Attributes{"owner_name": "Jane"}

	for _, blank := range []string{"", "   ", "\t\n"} {
		merged := MergeAttributes(existing, Attributes{"owner_name": blank})
		if merged["owner_name"] != "Jane" {
			t.Fatalf("blank value %q erased prior knowledge, got %q", blank, merged["owner_name"])
		}
	}
}

func TestMergeAttributesAddsNewKeys(t *testing.T) {
	merged := MergeAttributes(Attributes{"a": "1"}, Attributes{"b": "2"})
	want := Attributes{"a": "1", "b": "2"}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("expected %v, got %v", want, merged)
	}
}

func TestMergeAttributesDoesNotMutateInputs(t *testing.T) {
	existing := Attributes{"a": "1"}
	incoming := Attributes{"a": "2"}
	_ = MergeAttributes(existing, incoming)

	if existing["a"] != "1" {
		t.Fatalf("existing map was mutated: %v", existing)
	}
}

func TestMergeAttributesIdempotent(t *testing.T) {
	existing := Attributes{"a": "1", "b": ""}
	incoming := Attributes{"a": "2", "c": "3", "d": ""}

	once := MergeAttributes(existing, incoming)
	twice := MergeAttributes(once, incoming)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge not idempotent: once=%v twice=%v", once, twice)
	}
}

func TestMergeDocumentsUnion(t *testing.T) {
	merged := MergeDocuments([]string{"driver_license"}, []string{"accident_report", "driver_license"})
	want := []string{"driver_license", "accident_report"}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("expected %v, got %v", want, merged)
	}
}

func TestMergeDocumentsMonotonicallyNonDecreasing(t *testing.T) {
	base := []string{"ssn_card"}
	first := MergeDocuments(base, []string{"doctor_bill"})
	second := MergeDocuments(first, []string{"doctor_receipt"})

	for _, tag := range first {
		if !HasDocument(second, tag) {
			t.Fatalf("document %q lost across merges: %v -> %v", tag, first, second)
		}
	}
}

func TestMergeDocumentsIdempotent(t *testing.T) {
	incoming := []string{"b_doc", "a_doc"}
	once := MergeDocuments(nil, incoming)
	twice := MergeDocuments(once, incoming)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("document merge not idempotent: once=%v twice=%v", once, twice)
	}
}

func TestMergeDocumentsSkipsBlankTags(t *testing.T) {
	merged := MergeDocuments(nil, []string{"", "  ", "ssn_card"})
	if len(merged) != 1 || merged[0] != "ssn_card" {
		t.Fatalf("expected only ssn_card, got %v", merged)
	}
}
