package scheduler

import "time"

// Gene is the staffing decision for one work date: which of the staff who
// submitted availability go on duty.
type Gene struct {
	workDate    time.Time
	userIDs     []int64
	requiredNum int32
}

// Chromosome is a full week proposal.
type Chromosome struct {
	genes   []*Gene
	fitness float64
}

// Parameters tune the genetic search.
type Parameters struct {
	PopulationSize int32
	MaxGenerations int32
	CrossoverRate  float64
	MutationRate   float64
	EliteCount     int32
	FairnessWeight float64
}
