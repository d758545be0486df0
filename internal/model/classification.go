package model

// ClassificationKind is the NIMBUS class of one objective, derived from
// comparing a reference point component against the current solution.
type ClassificationKind string

const (
	// ClassImprove marks an objective that should improve as much as
	// possible (reference at the ideal).
	ClassImprove ClassificationKind = "<"
	// ClassImproveUntil marks an objective that should improve until the
	// attached aspiration level.
	ClassImproveUntil ClassificationKind = "<="
	// ClassKeep marks an objective that should stay at its current value.
	ClassKeep ClassificationKind = "="
	// ClassImpairUntil marks an objective that may get worse down to the
	// attached reservation level.
	ClassImpairUntil ClassificationKind = ">="
	// ClassFree marks an objective that may change freely (reference at the
	// nadir).
	ClassFree ClassificationKind = "0"
)

// Classification pairs a class with its optional level: an aspiration level
// for ClassImproveUntil, a reservation level for ClassImpairUntil, nil
// otherwise.
type Classification struct {
	Kind  ClassificationKind
	Level *float64
}
