package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VoteType discriminates endorsements from judge votes
type VoteType string

const (
	VoteTypeUserEndorsement VoteType = "UserEndorsement"
	VoteTypeJudgeVote       VoteType = "JudgeVote"
)

const (
	// EndorsementPoints is the fixed weight of a general-population vote.
	EndorsementPoints = 1
	// JudgeVotePoints is the fixed weight of a judge-panel vote.
	JudgeVotePoints = 10
)

// Points returns the weight carried by a vote of this type. The weight is
// derived server-side and never taken from the caller.
func (t VoteType) Points() int {
	if t == VoteTypeJudgeVote {
		return JudgeVotePoints
	}
	return EndorsementPoints
}

// IsValid reports whether t is a known vote type.
func (t VoteType) IsValid() bool {
	return t == VoteTypeUserEndorsement || t == VoteTypeJudgeVote
}

// VotingStatus returns the lifecycle phase during which this vote type may
// be cast.
func (t VoteType) VotingStatus() EventStatus {
	if t == VoteTypeJudgeVote {
		return EventStatusJudgeVoting
	}
	return EventStatusUserVoting
}

// Vote is one append-only ledger record. The storage layer holds a unique
// index on (eventId, awardId, voterUserId, voteType) so that a voter can
// cast at most one vote of each type per award no matter how many requests
// race. Votes are never updated or deleted.
type Vote struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	EventID       primitive.ObjectID `bson:"eventId" json:"eventId"`
	AwardID       primitive.ObjectID `bson:"awardId" json:"awardId"`
	NomineeUserID primitive.ObjectID `bson:"nomineeUserId" json:"nomineeUserId"`
	VoterUserID   primitive.ObjectID `bson:"voterUserId" json:"voterUserId"`
	VoteType      VoteType           `bson:"voteType" json:"voteType"`
	PointsAwarded int                `bson:"pointsAwarded" json:"pointsAwarded"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
}
