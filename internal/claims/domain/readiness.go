package domain

// Readiness is the evaluator's verdict on a merged claim snapshot.
type Readiness struct {
	MissingFields    []string
	MissingDocuments []string
}

// Ready reports whether nothing required is missing.
func (r Readiness) Ready() bool {
	return len(r.MissingFields) == 0 && len(r.MissingDocuments) == 0
}

// Evaluate computes the missing required fields and documents for a
// merged claim snapshot. A field counts as missing when absent or blank.
// The output preserves checklist order. Empty requirement sequences
// (unknown category) trivially evaluate as ready; callers must gate on
// category recognition before trusting that.
func Evaluate(requiredFields, requiredDocuments []string, attrs Attributes, documents []string) Readiness {
	var r Readiness
	for _, field := range requiredFields {
		if !attrs.Has(field) {
			r.MissingFields = append(r.MissingFields, field)
		}
	}
	for _, tag := range requiredDocuments {
		if !HasDocument(documents, tag) {
			r.MissingDocuments = append(r.MissingDocuments, tag)
		}
	}
	return r
}
