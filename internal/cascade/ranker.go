// Package cascade scores and ranks eligible caregivers for a shift so the
// offer dispatcher can work down a priority-ordered list. The ranker only
// reads; dispatching offers and writing the resulting shifts happens
// elsewhere.
package cascade

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"careshift-backend/internal/audit"
	"careshift-backend/internal/model"
	"careshift-backend/internal/scheduling"
	"careshift-backend/internal/store"
)

// Scoring weights. Continuity is capped so history rewards familiarity with
// the elder without drowning out the other signals; the workload bonus
// spreads new shifts toward caregivers with lighter weeks.
const (
	primaryCaregiverPoints = 40
	assignedToElderPoints  = 15
	preferredPoints        = 10
	continuityCapPoints    = 25
	workloadBasePoints     = 10
	workloadPenaltyPer     = 2
)

// Candidate is one ranked caregiver. Computed fresh per invocation, never
// persisted.
type Candidate struct {
	CaregiverID   string `json:"caregiverId"`
	CaregiverName string `json:"caregiverName"`
	Score         int    `json:"score"`
}

// Ranker produces priority-ordered caregiver candidates for a shift.
type Ranker struct {
	store     store.Store
	checker   *scheduling.Checker
	audit     audit.Recorder
	weekStart time.Weekday
}

// NewRanker creates a ranking engine. weekStart sets the calendar-week
// convention used by the workload signal. A nil recorder disables auditing.
func NewRanker(st store.Store, checker *scheduling.Checker, rec audit.Recorder, weekStart time.Weekday) *Ranker {
	if rec == nil {
		rec = audit.Noop{}
	}
	return &Ranker{store: st, checker: checker, audit: rec, weekStart: weekStart}
}

// Rank scores every conflict-free caregiver with an active assignment in the
// agency for the given elder, date, and window, sorted by descending score.
//
// A caregiver with a scheduling conflict is eliminated outright, whatever
// their score would have been. A failed sub-lookup during scoring only zeroes
// that signal's contribution; the candidate stays in the list. Ranking
// degrades rather than blocks.
func (r *Ranker) Rank(ctx context.Context, agencyID, elderID, date, startTime, endTime, preferredCaregiverID string, viewer scheduling.Actor) []Candidate {
	assignments, err := r.store.ActiveAssignments(ctx, agencyID)
	if err != nil {
		log.Printf("cascade: assignment lookup failed for agency %s: %v", agencyID, err)
		return []Candidate{}
	}

	// Ranking reads the elder's shift history, so the read is audited like
	// any other elder-linked read.
	r.audit.Record(ctx, audit.Entry{
		UserID:        viewer.UserID,
		UserRole:      viewer.Role,
		Action:        "rank_cascade_candidates",
		ActionDetails: fmt.Sprintf("agency %s elder %s on %s %s-%s", agencyID, elderID, date, startTime, endTime),
		Purpose:       "shift_scheduling",
		Method:        "read",
	})

	// A caregiver may appear on several assignment records; merge them,
	// preserving first-encounter order.
	byCaregiver := make(map[string][]model.CaregiverAssignment)
	order := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := byCaregiver[a.CaregiverID]; !ok {
			order = append(order, a.CaregiverID)
		}
		byCaregiver[a.CaregiverID] = append(byCaregiver[a.CaregiverID], a)
	}

	weekStartDate, weekEndDate := weekBounds(date, r.weekStart)

	candidates := make([]Candidate, 0, len(order))
	for _, caregiverID := range order {
		if conflict := r.checker.Check(ctx, caregiverID, agencyID, date, startTime, endTime, ""); conflict != nil {
			continue
		}

		score := 0
		if points, ok := r.rosterSignals(byCaregiver[caregiverID], elderID); ok {
			score += points
		}
		if caregiverID == preferredCaregiverID && preferredCaregiverID != "" {
			score += preferredPoints
		}
		if points, ok := r.continuitySignal(ctx, caregiverID, elderID); ok {
			score += points
		}
		if points, ok := r.workloadSignal(ctx, caregiverID, agencyID, weekStartDate, weekEndDate); ok {
			score += points
		}

		candidates = append(candidates, Candidate{
			CaregiverID:   caregiverID,
			CaregiverName: r.resolveName(ctx, caregiverID, byCaregiver[caregiverID]),
			Score:         score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// rosterSignals scores the primary-caregiver and assigned-to-elder signals
// from the already-loaded roster records. Never skipped.
func (r *Ranker) rosterSignals(assignments []model.CaregiverAssignment, elderID string) (int, bool) {
	points := 0
	primary := false
	assigned := false
	for _, a := range assignments {
		if a.PrimaryElderID != nil && *a.PrimaryElderID == elderID {
			primary = true
		}
		if a.ServesElder(elderID) {
			assigned = true
		}
	}
	if primary {
		points += primaryCaregiverPoints
	}
	if assigned {
		points += assignedToElderPoints
	}
	return points, true
}

// continuitySignal rewards prior completed shifts with this elder, one point
// each up to the cap. A failed count reports skipped.
func (r *Ranker) continuitySignal(ctx context.Context, caregiverID, elderID string) (int, bool) {
	count, err := r.store.CountCompletedShifts(ctx, caregiverID, elderID)
	if err != nil {
		log.Printf("cascade: continuity lookup failed for caregiver %s: %v", caregiverID, err)
		return 0, false
	}
	points := int(count)
	if points > continuityCapPoints {
		points = continuityCapPoints
	}
	return points, true
}

// workloadSignal grants up to workloadBasePoints to caregivers with a light
// calendar week around the target date. A failed count reports skipped.
func (r *Ranker) workloadSignal(ctx context.Context, caregiverID, agencyID, weekStartDate, weekEndDate string) (int, bool) {
	count, err := r.store.CountShiftsBetween(ctx, caregiverID, agencyID, weekStartDate, weekEndDate)
	if err != nil {
		log.Printf("cascade: workload lookup failed for caregiver %s: %v", caregiverID, err)
		return 0, false
	}
	points := workloadBasePoints - workloadPenaltyPer*int(count)
	if points < 0 {
		points = 0
	}
	return points, true
}

// resolveName finds a display name for a caregiver, best effort: the most
// recent shift record naming them, then the roster record, then a truncated
// ID placeholder when no name was ever recorded.
func (r *Ranker) resolveName(ctx context.Context, caregiverID string, assignments []model.CaregiverAssignment) string {
	if name, err := r.store.LatestCaregiverName(ctx, caregiverID); err == nil && name != "" {
		return name
	}
	for _, a := range assignments {
		if a.CaregiverName != "" {
			return a.CaregiverName
		}
	}
	short := caregiverID
	if len(short) > 8 {
		short = short[:8]
	}
	return "Caregiver " + short
}

// weekBounds returns the first and last calendar day (inclusive) of the week
// containing date, under the given start-of-week convention. The week is
// anchored to the target date, not to today. A malformed date degrades to a
// single-day window.
func weekBounds(date string, weekStart time.Weekday) (string, string) {
	day, err := time.Parse(scheduling.DateLayout, date)
	if err != nil {
		return date, date
	}
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	start := day.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6)
	return start.Format(scheduling.DateLayout), end.Format(scheduling.DateLayout)
}
