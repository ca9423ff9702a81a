package models

import "testing"

func TestVoteTypePoints(t *testing.T) {
	if got := VoteTypeUserEndorsement.Points(); got != EndorsementPoints {
		t.Errorf("endorsement: expected %d points, got %d", EndorsementPoints, got)
	}
	if got := VoteTypeJudgeVote.Points(); got != JudgeVotePoints {
		t.Errorf("judge vote: expected %d points, got %d", JudgeVotePoints, got)
	}
}

func TestVoteTypeIsValid(t *testing.T) {
	if !VoteTypeUserEndorsement.IsValid() || !VoteTypeJudgeVote.IsValid() {
		t.Errorf("defined vote types must be valid")
	}
	if VoteType("Veto").IsValid() {
		t.Errorf("unknown vote type must be invalid")
	}
}

func TestVoteTypeVotingStatus(t *testing.T) {
	if got := VoteTypeUserEndorsement.VotingStatus(); got != EventStatusUserVoting {
		t.Errorf("endorsement: expected %s, got %s", EventStatusUserVoting, got)
	}
	if got := VoteTypeJudgeVote.VotingStatus(); got != EventStatusJudgeVoting {
		t.Errorf("judge vote: expected %s, got %s", EventStatusJudgeVoting, got)
	}
}
