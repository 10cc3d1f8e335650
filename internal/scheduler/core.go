package scheduler

import (
	"math"
	"math/rand"
	"slices"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

// candidatesFor lists everyone available on a date, excluding IDs already
// picked for it.
func (s *Scheduler) candidatesFor(key string, exclude []int64) []int64 {
	var candidates []int64

	for _, user := range s.users {
		available := slices.Contains(s.availableMap[key][domain.ShiftDay], user.ID) ||
			slices.Contains(s.availableMap[key][domain.ShiftNight], user.ID)
		if !available {
			continue
		}
		if slices.Contains(exclude, user.ID) {
			continue
		}
		candidates = append(candidates, user.ID)
	}

	return candidates
}

func (s *Scheduler) randomInitChromosome() *Chromosome {
	var genes []*Gene

	for _, date := range s.dates {
		key := roster.FormatDate(date)
		requiredNum := s.requiredFor(key)

		candidates := s.candidatesFor(key, nil)

		chosenNum := min(int(requiredNum), len(candidates))
		rand.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		chosenIDs := make([]int64, chosenNum)
		copy(chosenIDs, candidates[:chosenNum])

		genes = append(genes, &Gene{
			workDate:    date,
			userIDs:     chosenIDs,
			requiredNum: requiredNum,
		})
	}

	return &Chromosome{
		genes: genes,
	}
}

/**
 * fitness = - understaffPenalty - notWorkPenalty - FairnessWeight * variance
 * where:
 * 		1. understaffPenalty counts heads still missing against each date's target
 * 		2. notWorkPenalty counts submitters who ended up with no shift at all
 * 		3. variance measures how unevenly the work units spread across the staff
 */
func (s *Scheduler) calcFitness(ch *Chromosome) {
	userWorkCnt := make(map[int64]float64)
	for _, user := range s.users {
		userWorkCnt[user.ID] = 0
	}

	understaffPenalty := 0.0
	for _, gene := range ch.genes {
		key := roster.FormatDate(gene.workDate)
		understaffPenalty += float64(int(gene.requiredNum) - len(gene.userIDs))

		for _, userID := range gene.userIDs {
			hasDay := slices.Contains(s.availableMap[key][domain.ShiftDay], userID)
			hasNight := slices.Contains(s.availableMap[key][domain.ShiftNight], userID)
			userWorkCnt[userID] += workUnits(mergeAtoms(hasDay, hasNight))
		}
	}

	notWorkPenalty := 0.0
	for _, workCnt := range userWorkCnt {
		if workCnt == 0 {
			notWorkPenalty += 1
		}
	}

	variance := 0.0
	avgWorkCnt := 0.0

	for _, workCnt := range userWorkCnt {
		avgWorkCnt += workCnt
	}
	avgWorkCnt /= float64(len(userWorkCnt))

	for _, workCnt := range userWorkCnt {
		variance += math.Pow(workCnt-avgWorkCnt, 2)
	}
	variance /= float64(len(userWorkCnt))

	ch.fitness = -understaffPenalty - notWorkPenalty - s.parameters.FairnessWeight*variance
}

// selectByRoulette picks a parent with probability proportional to fitness.
// Fitness values here are all negative penalties, so shift them above zero
// first.
func (s *Scheduler) selectByRoulette(pop []*Chromosome) *Chromosome {
	worst := pop[0].fitness
	for _, ch := range pop {
		if ch.fitness < worst {
			worst = ch.fitness
		}
	}

	sumFit := 0.0
	for _, ch := range pop {
		sumFit += ch.fitness - worst + 1
	}

	pick := rand.Float64() * sumFit
	partial := 0.0

	for _, ch := range pop {
		partial += ch.fitness - worst + 1
		if partial >= pick {
			return ch
		}
	}

	return pop[len(pop)-1]
}

func (s *Scheduler) singlePointCrossover(ch1 *Chromosome, ch2 *Chromosome) {
	length1 := len(ch1.genes)
	length2 := len(ch2.genes)

	if length1 != length2 {
		// Both chromosomes span the same week, so this should never differ.
		return
	}

	length := length1
	point := rand.Intn(length)

	for i := point; i < length; i++ {
		ch1.genes[i], ch2.genes[i] = ch2.genes[i], ch1.genes[i]
	}
}

// mutate gives every picked head a chance to be swapped for someone else who
// is available that date but not yet on it.
func (s *Scheduler) mutate(ch *Chromosome) {
	for i := range ch.genes {
		key := roster.FormatDate(ch.genes[i].workDate)

		for j := range ch.genes[i].userIDs {
			if rand.Float64() > s.parameters.MutationRate {
				continue
			}

			candidates := s.candidatesFor(key, ch.genes[i].userIDs)
			if len(candidates) > 0 {
				ch.genes[i].userIDs[j] = candidates[rand.Intn(len(candidates))]
			}
		}

		// Top up a short date when unused candidates remain.
		if len(ch.genes[i].userIDs) < int(ch.genes[i].requiredNum) && rand.Float64() < s.parameters.MutationRate {
			candidates := s.candidatesFor(key, ch.genes[i].userIDs)
			if len(candidates) > 0 {
				ch.genes[i].userIDs = append(ch.genes[i].userIDs, candidates[rand.Intn(len(candidates))])
			}
		}
	}
}
