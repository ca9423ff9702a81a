package services

import (
	"testing"
	"time"

	"github.com/teamkudos/awards-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func tallyEvent(awardIDs ...primitive.ObjectID) *models.AwardEvent {
	event := &models.AwardEvent{
		ID:        primitive.NewObjectID(),
		Name:      "Quarterly Awards",
		EventType: models.EventTypeMain,
		Status:    models.EventStatusJudgeVoting,
	}
	for i, id := range awardIDs {
		event.Awards = append(event.Awards, models.Award{
			AwardID: id,
			Name:    "Award " + string(rune('A'+i)),
		})
	}
	return event
}

func ledgerVote(eventID, awardID, nominee primitive.ObjectID, voteType models.VoteType, at time.Time) *models.Vote {
	return &models.Vote{
		ID:            primitive.NewObjectID(),
		EventID:       eventID,
		AwardID:       awardID,
		NomineeUserID: nominee,
		VoterUserID:   primitive.NewObjectID(),
		VoteType:      voteType,
		PointsAwarded: voteType.Points(),
		Timestamp:     at,
	}
}

func TestComputeTallyTotalsAndWinner(t *testing.T) {
	awardID := primitive.NewObjectID()
	event := tallyEvent(awardID)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	votes := []*models.Vote{
		ledgerVote(event.ID, awardID, alice, models.VoteTypeUserEndorsement, base),
		ledgerVote(event.ID, awardID, alice, models.VoteTypeUserEndorsement, base.Add(time.Minute)),
		ledgerVote(event.ID, awardID, bob, models.VoteTypeUserEndorsement, base.Add(2*time.Minute)),
		ledgerVote(event.ID, awardID, bob, models.VoteTypeJudgeVote, base.Add(3*time.Minute)),
	}

	tallies := ComputeTally(event, votes)
	if len(tallies) != 1 {
		t.Fatalf("expected 1 award tally, got %d", len(tallies))
	}
	tally := tallies[0]
	if tally.Unresolved {
		t.Fatalf("expected a resolved award, got unresolved")
	}
	if tally.WinnerUserID == nil || *tally.WinnerUserID != bob {
		t.Fatalf("expected winner %s, got %v", bob.Hex(), tally.WinnerUserID)
	}
	if len(tally.Nominees) != 2 {
		t.Fatalf("expected 2 nominees, got %d", len(tally.Nominees))
	}
	top := tally.Nominees[0]
	if top.NomineeUserID != bob || top.TotalPoints != 11 || top.JudgePoints != 10 || top.Endorsements != 1 || top.JudgeVotes != 1 {
		t.Fatalf("unexpected top nominee tally: %+v", top)
	}
	second := tally.Nominees[1]
	if second.NomineeUserID != alice || second.TotalPoints != 2 {
		t.Fatalf("unexpected runner-up tally: %+v", second)
	}
}

func TestComputeTallyJudgePointTieBreak(t *testing.T) {
	awardID := primitive.NewObjectID()
	event := tallyEvent(awardID)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Both nominees total 10 points; bob's come from a judge vote.
	votes := []*models.Vote{
		ledgerVote(event.ID, awardID, bob, models.VoteTypeJudgeVote, base.Add(time.Hour)),
	}
	for i := 0; i < 10; i++ {
		votes = append(votes, ledgerVote(event.ID, awardID, alice, models.VoteTypeUserEndorsement, base.Add(time.Duration(i)*time.Minute)))
	}

	tallies := ComputeTally(event, votes)
	if tallies[0].WinnerUserID == nil || *tallies[0].WinnerUserID != bob {
		t.Fatalf("expected judge points to break the tie in favor of %s, got %v", bob.Hex(), tallies[0].WinnerUserID)
	}
}

func TestComputeTallyFirstVoteTieBreak(t *testing.T) {
	awardID := primitive.NewObjectID()
	event := tallyEvent(awardID)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Same totals, same judge points; alice's first vote landed earlier.
	votes := []*models.Vote{
		ledgerVote(event.ID, awardID, alice, models.VoteTypeUserEndorsement, base),
		ledgerVote(event.ID, awardID, bob, models.VoteTypeUserEndorsement, base.Add(time.Second)),
	}

	tallies := ComputeTally(event, votes)
	if tallies[0].WinnerUserID == nil || *tallies[0].WinnerUserID != alice {
		t.Fatalf("expected the earlier first vote to win for %s, got %v", alice.Hex(), tallies[0].WinnerUserID)
	}
}

func TestComputeTallyFullTieStaysUnresolved(t *testing.T) {
	awardID := primitive.NewObjectID()
	event := tallyEvent(awardID)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	votes := []*models.Vote{
		ledgerVote(event.ID, awardID, alice, models.VoteTypeUserEndorsement, at),
		ledgerVote(event.ID, awardID, bob, models.VoteTypeUserEndorsement, at),
	}

	tallies := ComputeTally(event, votes)
	if !tallies[0].Unresolved {
		t.Fatalf("expected an unresolved award for a full tie")
	}
	if tallies[0].WinnerUserID != nil {
		t.Fatalf("expected no winner, got %s", tallies[0].WinnerUserID.Hex())
	}
}

func TestComputeTallyZeroVotesUnresolved(t *testing.T) {
	awardID := primitive.NewObjectID()
	event := tallyEvent(awardID)

	tallies := ComputeTally(event, nil)
	if len(tallies) != 1 {
		t.Fatalf("expected a tally entry for the voteless award, got %d", len(tallies))
	}
	if !tallies[0].Unresolved || tallies[0].WinnerUserID != nil {
		t.Fatalf("expected a voteless award to stay unresolved: %+v", tallies[0])
	}
	if len(tallies[0].Nominees) != 0 {
		t.Fatalf("expected no nominees, got %d", len(tallies[0].Nominees))
	}
}

func TestComputeTallyAwardsAreIndependent(t *testing.T) {
	awardA := primitive.NewObjectID()
	awardB := primitive.NewObjectID()
	event := tallyEvent(awardA, awardB)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	votes := []*models.Vote{
		ledgerVote(event.ID, awardA, alice, models.VoteTypeJudgeVote, base),
		ledgerVote(event.ID, awardB, bob, models.VoteTypeUserEndorsement, base),
	}

	tallies := ComputeTally(event, votes)
	if len(tallies) != 2 {
		t.Fatalf("expected 2 award tallies, got %d", len(tallies))
	}
	for _, tally := range tallies {
		switch tally.AwardID {
		case awardA:
			if tally.WinnerUserID == nil || *tally.WinnerUserID != alice {
				t.Errorf("award A: expected winner %s, got %v", alice.Hex(), tally.WinnerUserID)
			}
		case awardB:
			if tally.WinnerUserID == nil || *tally.WinnerUserID != bob {
				t.Errorf("award B: expected winner %s, got %v", bob.Hex(), tally.WinnerUserID)
			}
		default:
			t.Errorf("unexpected award id %s in tally", tally.AwardID.Hex())
		}
	}
}

func TestComputeTallyIsOrderIndependent(t *testing.T) {
	awardID := primitive.NewObjectID()
	event := tallyEvent(awardID)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	carol := primitive.NewObjectID()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	votes := []*models.Vote{
		ledgerVote(event.ID, awardID, alice, models.VoteTypeUserEndorsement, base),
		ledgerVote(event.ID, awardID, bob, models.VoteTypeJudgeVote, base.Add(time.Minute)),
		ledgerVote(event.ID, awardID, carol, models.VoteTypeUserEndorsement, base.Add(2*time.Minute)),
		ledgerVote(event.ID, awardID, bob, models.VoteTypeUserEndorsement, base.Add(3*time.Minute)),
		ledgerVote(event.ID, awardID, alice, models.VoteTypeJudgeVote, base.Add(4*time.Minute)),
	}

	reference := ComputeTally(event, votes)

	reversed := make([]*models.Vote, len(votes))
	for i, v := range votes {
		reversed[len(votes)-1-i] = v
	}
	rotated := append(append([]*models.Vote{}, votes[2:]...), votes[:2]...)

	for name, order := range map[string][]*models.Vote{"reversed": reversed, "rotated": rotated} {
		got := ComputeTally(event, order)
		if len(got) != len(reference) {
			t.Fatalf("%s: tally count mismatch", name)
		}
		for i := range got {
			if got[i].Unresolved != reference[i].Unresolved {
				t.Errorf("%s: unresolved mismatch for award %s", name, got[i].AwardID.Hex())
			}
			if (got[i].WinnerUserID == nil) != (reference[i].WinnerUserID == nil) {
				t.Fatalf("%s: winner presence mismatch for award %s", name, got[i].AwardID.Hex())
			}
			if got[i].WinnerUserID != nil && *got[i].WinnerUserID != *reference[i].WinnerUserID {
				t.Errorf("%s: winner mismatch for award %s", name, got[i].AwardID.Hex())
			}
			if len(got[i].Nominees) != len(reference[i].Nominees) {
				t.Fatalf("%s: nominee count mismatch for award %s", name, got[i].AwardID.Hex())
			}
			for j := range got[i].Nominees {
				if got[i].Nominees[j] != reference[i].Nominees[j] {
					t.Errorf("%s: nominee rank %d differs: %+v vs %+v", name, j, got[i].Nominees[j], reference[i].Nominees[j])
				}
			}
		}
	}
}
