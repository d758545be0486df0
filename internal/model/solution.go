package model

// SolverResults is what a solver backend reports for one solve of a target
// symbol. Backend failure (infeasible, unbounded, non-convergent) is not an
// error: it arrives as Success=false with a message and is never archived as
// a current solution.
type SolverResults struct {
	Success           bool               `json:"success" yaml:"success"`
	OptimalVariables  map[string]float64 `json:"optimal_variables" yaml:"optimal_variables"`
	OptimalObjectives map[string]float64 `json:"optimal_objectives" yaml:"optimal_objectives"`
	ConstraintValues  map[string]float64 `json:"constraint_values,omitempty" yaml:"constraint_values,omitempty"`
	Message           string             `json:"message" yaml:"message"`
}

// ObjectiveVector returns the optimal objective values in the order of the
// problem's objectives.
func (r SolverResults) ObjectiveVector(problem Problem) []float64 {
	vector := make([]float64, 0, len(problem.Objectives))

	for _, obj := range problem.Objectives {
		vector = append(vector, r.OptimalObjectives[obj.Symbol])
	}

	return vector
}

// ArchiveKey identifies one interactive session's archive.
type ArchiveKey struct {
	Problem string
	User    string
	Method  string
}

// ArchiveEntry is one stored solution of an interactive session. Current
// marks the solutions of the latest round, Saved the ones the decision-maker
// kept, and Chosen the terminal pick that closes the session.
type ArchiveEntry struct {
	ID                uint
	DecisionVariables map[string]float64
	Objectives        map[string]float64
	Current           bool
	Saved             bool
	Chosen            bool
}

// ObjectiveVector returns the entry's objective values in the order of the
// problem's objectives.
func (e ArchiveEntry) ObjectiveVector(problem Problem) []float64 {
	vector := make([]float64, 0, len(problem.Objectives))

	for _, obj := range problem.Objectives {
		vector = append(vector, e.Objectives[obj.Symbol])
	}

	return vector
}
