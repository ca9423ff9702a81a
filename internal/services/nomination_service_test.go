package services

import (
	"context"
	"testing"

	"github.com/teamkudos/awards-backend/internal/apperrors"
	"github.com/teamkudos/awards-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// nominationFixture stands a main event in Nominating with one award.
type nominationFixture struct {
	env     *testEnv
	event   *models.AwardEvent
	awardID primitive.ObjectID
	creator *models.User
}

func newNominationFixture(t *testing.T) *nominationFixture {
	t.Helper()
	env := newTestEnv()
	creator := env.addUser()
	event := mustCreateEvent(t, env, callerFor(creator), mainEventParams(env.addUser().ID))
	mustAdvance(t, env, callerFor(creator), event.ID, models.EventStatusDraft)
	return &nominationFixture{
		env:     env,
		event:   event,
		awardID: event.Awards[0].AwardID,
		creator: creator,
	}
}

func (f *nominationFixture) nominate(nominator, nominee *models.User, justification string) (*models.Nomination, error) {
	return f.env.nominationService.SubmitNomination(context.Background(), callerFor(nominator), SubmitNominationParams{
		EventID:       f.event.ID,
		AwardID:       f.awardID,
		NomineeUserID: nominee.ID,
		Justification: justification,
	})
}

func TestSubmitNominationRecordsLedgerEntry(t *testing.T) {
	f := newNominationFixture(t)
	nominator := f.env.addUser()
	nominee := f.env.addUser()

	nomination, err := f.nominate(nominator, nominee, "kept the incident channel calm")
	if err != nil {
		t.Fatalf("SubmitNomination: %v", err)
	}
	if nomination.ID.IsZero() {
		t.Fatalf("expected an assigned nomination id")
	}
	if nomination.NominatorUserID != nominator.ID || nomination.NomineeUserID != nominee.ID {
		t.Fatalf("unexpected ledger entry: %+v", nomination)
	}
	if nomination.Timestamp.IsZero() {
		t.Fatalf("expected a ledger timestamp")
	}

	listed, err := f.env.nominationService.ListByAward(context.Background(), f.event.ID, f.awardID)
	if err != nil {
		t.Fatalf("ListByAward: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 nomination, got %d", len(listed))
	}
}

func TestSubmitNominationPhaseGate(t *testing.T) {
	f := newNominationFixture(t)
	nominator := f.env.addUser()
	nominee := f.env.addUser()

	mustAdvance(t, f.env, callerFor(f.creator), f.event.ID, models.EventStatusNominating)

	_, err := f.nominate(nominator, nominee, "too late")
	wantKind(t, err, apperrors.KindPhaseViolation)

	var appErr *apperrors.Error
	if !asAppError(err, &appErr) {
		t.Fatalf("expected *apperrors.Error, got %T", err)
	}
	if appErr.CurrentStatus != models.EventStatusUserVoting {
		t.Fatalf("expected CurrentStatus UserVoting, got %q", appErr.CurrentStatus)
	}
}

func TestSubmitNominationValidation(t *testing.T) {
	f := newNominationFixture(t)
	nominator := f.env.addUser()
	nominee := f.env.addUser()
	ctx := context.Background()

	// Blank justification.
	_, err := f.nominate(nominator, nominee, "   ")
	wantKind(t, err, apperrors.KindValidation)

	// Unknown award.
	_, err = f.env.nominationService.SubmitNomination(ctx, callerFor(nominator), SubmitNominationParams{
		EventID:       f.event.ID,
		AwardID:       primitive.NewObjectID(),
		NomineeUserID: nominee.ID,
		Justification: "x",
	})
	wantKind(t, err, apperrors.KindNotFound)

	// Unknown nominee.
	_, err = f.env.nominationService.SubmitNomination(ctx, callerFor(nominator), SubmitNominationParams{
		EventID:       f.event.ID,
		AwardID:       f.awardID,
		NomineeUserID: primitive.NewObjectID(),
		Justification: "x",
	})
	wantKind(t, err, apperrors.KindValidation)
}

func TestSubmitNominationSelfNominationPolicy(t *testing.T) {
	f := newNominationFixture(t)
	user := f.env.addUser()

	_, err := f.nominate(user, user, "I did great work")
	wantKind(t, err, apperrors.KindNotEligible)

	// Flipping the policy admits self-nominations.
	f.env.cfg.Awards.AllowSelfNomination = true
	if _, err := f.nominate(user, user, "I did great work"); err != nil {
		t.Fatalf("self-nomination with policy enabled: %v", err)
	}
}

func TestSubmitNominationDedupeFirstWins(t *testing.T) {
	f := newNominationFixture(t)
	nominator := f.env.addUser()
	nominee := f.env.addUser()

	first, err := f.nominate(nominator, nominee, "original")
	if err != nil {
		t.Fatalf("first nomination: %v", err)
	}

	_, err = f.nominate(nominator, nominee, "rephrased")
	wantKind(t, err, apperrors.KindDuplicateNomination)

	listed, err := f.env.nominationService.ListByEvent(context.Background(), f.event.ID)
	if err != nil {
		t.Fatalf("ListByEvent: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected the first nomination to stand alone, got %d", len(listed))
	}
	if listed[0].Justification != first.Justification {
		t.Fatalf("expected the first justification to survive, got %q", listed[0].Justification)
	}

	// The same nominator may still nominate someone else, and someone else
	// may still nominate the same nominee.
	other := f.env.addUser()
	if _, err := f.nominate(nominator, other, "also solid"); err != nil {
		t.Fatalf("different nominee: %v", err)
	}
	if _, err := f.nominate(other, nominee, "seconded"); err != nil {
		t.Fatalf("different nominator: %v", err)
	}
}

func TestSubmitNominationTeamEligibility(t *testing.T) {
	env := newTestEnv()
	team := env.addTeam()
	creator := env.addUser(team.ID)
	member := env.addUser(team.ID)
	outsider := env.addUser()
	ctx := context.Background()

	event := mustCreateEvent(t, env, callerFor(creator), CreateEventParams{
		Name:             "Team Awards",
		EventType:        models.EventTypeTeam,
		TeamID:           &team.ID,
		AssignedJudgeIDs: []primitive.ObjectID{creator.ID},
		Awards:           []AwardParams{{Name: "MVP"}},
	})
	awardID := event.Awards[0].AwardID
	mustAdvance(t, env, callerFor(creator), event.ID, models.EventStatusDraft)

	submit := func(nominator models.Caller, nominee primitive.ObjectID) error {
		_, err := env.nominationService.SubmitNomination(ctx, nominator, SubmitNominationParams{
			EventID:       event.ID,
			AwardID:       awardID,
			NomineeUserID: nominee,
			Justification: "good work",
		})
		return err
	}

	// Outsider nominating a member is out, as is a member nominating an
	// outsider.
	wantKind(t, submit(callerFor(outsider), member.ID), apperrors.KindNotEligible)
	wantKind(t, submit(callerFor(creator), outsider.ID), apperrors.KindNotEligible)

	if err := submit(callerFor(creator), member.ID); err != nil {
		t.Fatalf("member-to-member nomination: %v", err)
	}
}
