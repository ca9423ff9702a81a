package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Nomination is one append-only ledger record proposing a nominee for an
// award. AwardID is denormalized from the event so nominations can be
// queried per award without loading the event document. Nominations are
// never updated or deleted.
type Nomination struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	EventID         primitive.ObjectID `bson:"eventId" json:"eventId"`
	AwardID         primitive.ObjectID `bson:"awardId" json:"awardId"`
	NominatorUserID primitive.ObjectID `bson:"nominatorUserId" json:"nominatorUserId"`
	NomineeUserID   primitive.ObjectID `bson:"nomineeUserId" json:"nomineeUserId"`
	Justification   string             `bson:"justification" json:"justification"`
	Timestamp       time.Time          `bson:"timestamp" json:"timestamp"`
}
