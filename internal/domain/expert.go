package domain

// Expert is an evidence source: an identified judge with an importance
// weight in [0, 1] and one pairwise-comparison matrix per criterion.
type Expert struct {
	// ID uniquely identifies the expert within one analysis.
	ID string `json:"id"`

	// Weight is the expert's importance in [0, 1]. Discount rates are
	// derived from the weights of the whole panel, so weights are
	// comparable, not absolute reliabilities.
	Weight float64 `json:"weight"`

	// Judgments holds the expert's pairwise-comparison matrix per
	// criterion, keyed by criterion identifier. A missing criterion is
	// treated as total ignorance for that criterion.
	Judgments map[string]PairwiseMatrix `json:"-"`
}

// Criterion is one decision criterion with an importance weight.
// Criterion weights need not sum to one; they are normalized before
// cross-criterion aggregation.
type Criterion struct {
	// ID uniquely identifies the criterion within one analysis.
	ID string `json:"id"`

	// Weight is the criterion's raw importance, non-negative.
	Weight float64 `json:"weight"`
}
