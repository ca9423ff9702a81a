package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventStatus represents the lifecycle phase of an award event
type EventStatus string

const (
	EventStatusDraft       EventStatus = "Draft"
	EventStatusNominating  EventStatus = "Nominating"
	EventStatusUserVoting  EventStatus = "UserVoting"
	EventStatusJudgeVoting EventStatus = "JudgeVoting"
	EventStatusDecision    EventStatus = "Decision"
	EventStatusCompleted   EventStatus = "Completed"
)

// EventType represents the scope of an award event
type EventType string

const (
	EventTypeMain EventType = "Main"
	EventTypeTeam EventType = "Team"
)

// IsValid reports whether s is one of the six defined lifecycle statuses.
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusNominating, EventStatusUserVoting,
		EventStatusJudgeVoting, EventStatusDecision, EventStatusCompleted:
		return true
	}
	return false
}

// Next returns the status that follows s in the linear lifecycle.
// The second return value is false for Completed (terminal) and for
// unknown statuses.
func (s EventStatus) Next() (EventStatus, bool) {
	switch s {
	case EventStatusDraft:
		return EventStatusNominating, true
	case EventStatusNominating:
		return EventStatusUserVoting, true
	case EventStatusUserVoting:
		return EventStatusJudgeVoting, true
	case EventStatusJudgeVoting:
		return EventStatusDecision, true
	case EventStatusDecision:
		return EventStatusCompleted, true
	}
	return "", false
}

// Award is a single award embedded inside an AwardEvent. AwardID is unique
// within its event. Winner fields are empty until the event reaches Decision
// and are written only by the event lifecycle, never by ledger code.
type Award struct {
	AwardID                  primitive.ObjectID  `bson:"awardId" json:"awardId"`
	Name                     string              `bson:"name" json:"name"`
	Description              string              `bson:"description,omitempty" json:"description,omitempty"`
	Points                   int                 `bson:"points" json:"points"`
	WinnerUserID             *primitive.ObjectID `bson:"winnerUserId,omitempty" json:"winnerUserId,omitempty"`
	WinnerSelectionTimestamp *time.Time          `bson:"winnerSelectionTimestamp,omitempty" json:"winnerSelectionTimestamp,omitempty"`
}

// Resolved reports whether a winner has been recorded for the award.
func (a *Award) Resolved() bool {
	return a.WinnerUserID != nil
}

// AwardEvent is the aggregate root for one recognition cycle. Awards are
// embedded so that status and winner fields always change in a single
// document write.
type AwardEvent struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name             string               `bson:"name" json:"name"`
	EventType        EventType            `bson:"eventType" json:"eventType"`
	Status           EventStatus          `bson:"status" json:"status"`
	CreatorUserID    primitive.ObjectID   `bson:"creatorUserId" json:"creatorUserId"`
	TeamID           *primitive.ObjectID  `bson:"teamId,omitempty" json:"teamId,omitempty"`
	MainJudgeUserID  *primitive.ObjectID  `bson:"mainJudgeUserId,omitempty" json:"mainJudgeUserId,omitempty"`
	AssignedJudgeIDs []primitive.ObjectID `bson:"assignedJudgeIds,omitempty" json:"assignedJudgeIds,omitempty"`
	NominationStart  *time.Time           `bson:"nominationStart,omitempty" json:"nominationStart,omitempty"`
	NominationEnd    *time.Time           `bson:"nominationEnd,omitempty" json:"nominationEnd,omitempty"`
	UserVotingEnd    *time.Time           `bson:"userVotingEnd,omitempty" json:"userVotingEnd,omitempty"`
	JudgeVotingEnd   *time.Time           `bson:"judgeVotingEnd,omitempty" json:"judgeVotingEnd,omitempty"`
	Awards           []Award              `bson:"awards" json:"awards"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// FindAward returns the embedded award with the given id, or nil.
func (e *AwardEvent) FindAward(awardID primitive.ObjectID) *Award {
	for i := range e.Awards {
		if e.Awards[i].AwardID == awardID {
			return &e.Awards[i]
		}
	}
	return nil
}

// IsJudge reports whether userID is the main judge or one of the assigned judges.
func (e *AwardEvent) IsJudge(userID primitive.ObjectID) bool {
	if e.MainJudgeUserID != nil && *e.MainJudgeUserID == userID {
		return true
	}
	for _, id := range e.AssignedJudgeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasJudges reports whether at least one judge is attached to the event.
func (e *AwardEvent) HasJudges() bool {
	return e.MainJudgeUserID != nil || len(e.AssignedJudgeIDs) > 0
}

// PhaseEnd returns the closing timestamp configured for the given phase,
// or nil when the phase has no deadline and is closed manually.
func (e *AwardEvent) PhaseEnd(status EventStatus) *time.Time {
	switch status {
	case EventStatusNominating:
		return e.NominationEnd
	case EventStatusUserVoting:
		return e.UserVotingEnd
	case EventStatusJudgeVoting:
		return e.JudgeVotingEnd
	}
	return nil
}
