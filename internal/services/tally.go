package services

import (
	"sort"
	"time"

	"github.com/teamkudos/awards-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NomineeTally is one nominee's aggregated standing for one award
type NomineeTally struct {
	NomineeUserID primitive.ObjectID `json:"nomineeUserId"`
	TotalPoints   int                `json:"totalPoints"`
	JudgePoints   int                `json:"judgePoints"`
	Endorsements  int                `json:"endorsements"`
	JudgeVotes    int                `json:"judgeVotes"`
	FirstVoteAt   time.Time          `json:"firstVoteAt"`
}

// AwardTally is the aggregated standing of all nominees for one award
type AwardTally struct {
	AwardID      primitive.ObjectID  `json:"awardId"`
	AwardName    string              `json:"awardName"`
	Nominees     []NomineeTally      `json:"nominees"`
	WinnerUserID *primitive.ObjectID `json:"winnerUserId,omitempty"`
	Unresolved   bool                `json:"unresolved"`
}

// AwardResult is the outcome of one award after Decision
type AwardResult struct {
	AwardID                  primitive.ObjectID  `json:"awardId"`
	AwardName                string              `json:"awardName"`
	WinnerUserID             *primitive.ObjectID `json:"winnerUserId,omitempty"`
	WinnerSelectionTimestamp *time.Time          `json:"winnerSelectionTimestamp,omitempty"`
	Unresolved               bool                `json:"unresolved"`
}

// ComputeTally aggregates the vote ledger into per-award, per-nominee point
// totals and resolves a winner per award. The computation is a pure
// function of the ledger contents: totals are grouped before any ordering
// decision, so the read order of votes never changes the outcome.
//
// Winner resolution per award: strictly highest total wins; ties fall back
// to the higher judge-point sum, then to the earlier first-cast vote; an
// award still tied after that, or with no votes at all, stays unresolved
// for a manual Administrator decision.
func ComputeTally(event *models.AwardEvent, votes []*models.Vote) []AwardTally {
	byAward := make(map[primitive.ObjectID][]*models.Vote)
	for _, v := range votes {
		byAward[v.AwardID] = append(byAward[v.AwardID], v)
	}

	tallies := make([]AwardTally, 0, len(event.Awards))
	for i := range event.Awards {
		award := &event.Awards[i]
		tallies = append(tallies, tallyAward(award, byAward[award.AwardID]))
	}
	return tallies
}

func tallyAward(award *models.Award, votes []*models.Vote) AwardTally {
	byNominee := make(map[primitive.ObjectID]*NomineeTally)
	for _, v := range votes {
		nt, ok := byNominee[v.NomineeUserID]
		if !ok {
			nt = &NomineeTally{NomineeUserID: v.NomineeUserID, FirstVoteAt: v.Timestamp}
			byNominee[v.NomineeUserID] = nt
		}
		nt.TotalPoints += v.PointsAwarded
		switch v.VoteType {
		case models.VoteTypeJudgeVote:
			nt.JudgePoints += v.PointsAwarded
			nt.JudgeVotes++
		default:
			nt.Endorsements++
		}
		if v.Timestamp.Before(nt.FirstVoteAt) {
			nt.FirstVoteAt = v.Timestamp
		}
	}

	nominees := make([]NomineeTally, 0, len(byNominee))
	for _, nt := range byNominee {
		nominees = append(nominees, *nt)
	}
	// Ranking order for display; the id comparison only makes the output
	// stable, it never decides a winner.
	sort.Slice(nominees, func(i, j int) bool {
		a, b := nominees[i], nominees[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.JudgePoints != b.JudgePoints {
			return a.JudgePoints > b.JudgePoints
		}
		if !a.FirstVoteAt.Equal(b.FirstVoteAt) {
			return a.FirstVoteAt.Before(b.FirstVoteAt)
		}
		return a.NomineeUserID.Hex() < b.NomineeUserID.Hex()
	})

	tally := AwardTally{
		AwardID:   award.AwardID,
		AwardName: award.Name,
		Nominees:  nominees,
	}

	winner, ok := pickWinner(nominees)
	if ok {
		tally.WinnerUserID = &winner
	} else {
		tally.Unresolved = true
	}
	return tally
}

// pickWinner walks the tie-break chain over the ranked nominees. It
// narrows the candidate set step by step and refuses to guess when the
// final step still leaves more than one candidate.
func pickWinner(ranked []NomineeTally) (primitive.ObjectID, bool) {
	if len(ranked) == 0 {
		return primitive.NilObjectID, false
	}

	candidates := filterMax(ranked, func(nt NomineeTally) int { return nt.TotalPoints })
	if len(candidates) == 1 {
		return candidates[0].NomineeUserID, true
	}

	candidates = filterMax(candidates, func(nt NomineeTally) int { return nt.JudgePoints })
	if len(candidates) == 1 {
		return candidates[0].NomineeUserID, true
	}

	earliest := candidates[0].FirstVoteAt
	for _, nt := range candidates[1:] {
		if nt.FirstVoteAt.Before(earliest) {
			earliest = nt.FirstVoteAt
		}
	}
	var surviving []NomineeTally
	for _, nt := range candidates {
		if nt.FirstVoteAt.Equal(earliest) {
			surviving = append(surviving, nt)
		}
	}
	if len(surviving) == 1 {
		return surviving[0].NomineeUserID, true
	}
	return primitive.NilObjectID, false
}

func filterMax(nominees []NomineeTally, key func(NomineeTally) int) []NomineeTally {
	max := key(nominees[0])
	for _, nt := range nominees[1:] {
		if k := key(nt); k > max {
			max = k
		}
	}
	var out []NomineeTally
	for _, nt := range nominees {
		if key(nt) == max {
			out = append(out, nt)
		}
	}
	return out
}
