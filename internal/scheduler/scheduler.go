// Package scheduler proposes draft roster cells for one role and week by
// running a genetic search over the submitted availability.
package scheduler

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sort"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

type Scheduler struct {
	parameters   *Parameters
	users        []*domain.User // only staff who submitted availability, not the whole role
	dates        []time.Time
	availableMap map[string]map[domain.ShiftType][]int64 // {date: {atom: [userID1, userID2, ...]}}
	requiredMap  map[string]int32                        // {date: min staff}
}

func New(parameters *Parameters, users []*domain.User, weekStart time.Time, availability []*domain.AvailabilityEntry, requirements []*domain.StaffingRequirement) (*Scheduler, error) {
	s := &Scheduler{
		parameters:   parameters,
		users:        make([]*domain.User, 0),
		dates:        roster.WeekDates(weekStart),
		availableMap: make(map[string]map[domain.ShiftType][]int64),
		requiredMap:  make(map[string]int32),
	}

	seen := make(map[int64]bool)
	for _, atom := range availability {
		key := roster.FormatDate(atom.WorkDate)

		if _, exists := s.availableMap[key]; !exists {
			s.availableMap[key] = map[domain.ShiftType][]int64{}
		}
		s.availableMap[key][atom.ShiftType] = append(s.availableMap[key][atom.ShiftType], atom.UserID)

		if seen[atom.UserID] {
			continue
		}
		seen[atom.UserID] = true

		var user *domain.User = nil
		for _, u := range users {
			if u.ID == atom.UserID {
				user = u
				break
			}
		}

		if user == nil {
			return nil, fmt.Errorf("user %d submitted availability but is not in the candidate pool", atom.UserID)
		}

		s.users = append(s.users, user)
	}

	for _, requirement := range requirements {
		s.requiredMap[roster.FormatDate(requirement.WorkDate)] = requirement.MinStaff
	}

	return s, nil
}

// requiredFor is the head target for a date. Dates without a requirement
// still get one head so the proposal covers the whole week.
func (s *Scheduler) requiredFor(key string) int32 {
	if required, exists := s.requiredMap[key]; exists {
		return required
	}
	return 1
}

func (s *Scheduler) Propose() ([]domain.RosterDraftCell, error) {
	pop := make([]*Chromosome, s.parameters.PopulationSize)
	for i := 0; i < int(s.parameters.PopulationSize); i++ {
		pop[i] = s.randomInitChromosome()
		s.calcFitness(pop[i])
	}

	bestChromosomeEver := &Chromosome{
		genes:   nil,
		fitness: -math.MaxFloat64,
	}

	for gen := 0; gen < int(s.parameters.MaxGenerations); gen++ {
		genBestFit := pop[0].fitness
		genBestIndex := 0

		for i := 1; i < int(s.parameters.PopulationSize); i++ {
			if pop[i].fitness > genBestFit {
				genBestFit = pop[i].fitness
				genBestIndex = i
			}
		}

		if genBestFit > bestChromosomeEver.fitness {
			bestChromosomeEver.fitness = genBestFit
			// Deep copy so later breeding cannot mutate the kept genes.
			bestChromosomeEver.genes = make([]*Gene, len(pop[genBestIndex].genes))
			for i := range pop[genBestIndex].genes {
				gene := pop[genBestIndex].genes[i]
				kept := &Gene{
					workDate:    gene.workDate,
					userIDs:     make([]int64, len(gene.userIDs)),
					requiredNum: gene.requiredNum,
				}
				copy(kept.userIDs, gene.userIDs)
				bestChromosomeEver.genes[i] = kept
			}
		}

		newPop := make([]*Chromosome, 0, s.parameters.PopulationSize)

		// Elites survive unchanged.
		sort.Slice(pop, func(i, j int) bool {
			return pop[i].fitness > pop[j].fitness
		})
		newPop = append(newPop, pop[:int(s.parameters.EliteCount)]...)

		for len(newPop) < int(s.parameters.PopulationSize) {
			p1 := s.selectByRoulette(pop)
			p2 := s.selectByRoulette(pop)

			if rand.Float64() < s.parameters.CrossoverRate {
				s.singlePointCrossover(p1, p2)
			}

			s.mutate(p1)
			s.mutate(p2)

			newPop = append(newPop, p1)

			if len(newPop) < int(s.parameters.PopulationSize) {
				newPop = append(newPop, p2)
			}
		}

		for i := 0; i < int(s.parameters.PopulationSize); i++ {
			pop[i] = newPop[i]
			s.calcFitness(pop[i])
		}
	}

	cells := s.buildCells(bestChromosomeEver)
	if err := s.validateCells(cells); err != nil {
		return nil, err
	}

	return cells, nil
}

func (s *Scheduler) buildCells(ch *Chromosome) []domain.RosterDraftCell {
	cells := make([]domain.RosterDraftCell, 0)

	for _, gene := range ch.genes {
		key := roster.FormatDate(gene.workDate)
		for _, userID := range gene.userIDs {
			hasDay := slices.Contains(s.availableMap[key][domain.ShiftDay], userID)
			hasNight := slices.Contains(s.availableMap[key][domain.ShiftNight], userID)
			cells = append(cells, domain.RosterDraftCell{
				UserID:    userID,
				WorkDate:  gene.workDate,
				ShiftType: mergeAtoms(hasDay, hasNight),
			})
		}
	}

	return cells
}

// validateCells rejects a proposal that puts anyone on a shift they never
// offered, or lists the same person twice on one date.
func (s *Scheduler) validateCells(cells []domain.RosterDraftCell) error {
	assigned := make(map[string]bool)

	for _, cell := range cells {
		key := roster.FormatDate(cell.WorkDate)

		pairKey := fmt.Sprintf("%d_%s", cell.UserID, key)
		if assigned[pairKey] {
			return fmt.Errorf("user %d is proposed twice on %s", cell.UserID, key)
		}
		assigned[pairKey] = true

		for _, atom := range roster.ExpandSelection([]domain.ShiftType{cell.ShiftType}) {
			if !slices.Contains(s.availableMap[key][atom], cell.UserID) {
				return fmt.Errorf("user %d is not available for %s on %s", cell.UserID, atom, key)
			}
		}
	}

	return nil
}
