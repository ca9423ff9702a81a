package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/teamkudos/awards-backend/internal/apperrors"
	"github.com/teamkudos/awards-backend/internal/config"
	"github.com/teamkudos/awards-backend/internal/models"
	"github.com/teamkudos/awards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories reproducing the storage semantics the services
// rely on: compare-and-set status advances and insert-if-absent on the
// compound vote/nomination keys. All operations are safe for concurrent
// use so the race tests exercise real contention.

type memEventRepo struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]*models.AwardEvent
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: map[primitive.ObjectID]*models.AwardEvent{}}
}

func copyEvent(e *models.AwardEvent) *models.AwardEvent {
	cp := *e
	cp.Awards = make([]models.Award, len(e.Awards))
	copy(cp.Awards, e.Awards)
	return &cp
}

func (r *memEventRepo) Create(ctx context.Context, event *models.AwardEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	r.events[event.ID] = copyEvent(event)
	return nil
}

func (r *memEventRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AwardEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, apperrors.NotFound("award event not found")
	}
	return copyEvent(event), nil
}

func (r *memEventRepo) FindAll(ctx context.Context, page, limit int, status models.EventStatus, eventType models.EventType) ([]*models.AwardEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AwardEvent
	for _, e := range r.events {
		if status != "" && e.Status != status {
			continue
		}
		if eventType != "" && e.EventType != eventType {
			continue
		}
		out = append(out, copyEvent(e))
	}
	return out, nil
}

func (r *memEventRepo) Update(ctx context.Context, event *models.AwardEvent, expected models.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.events[event.ID]
	if !ok {
		return apperrors.NotFound("award event not found")
	}
	if current.Status != expected {
		return apperrors.StaleState(expected, current.Status)
	}
	event.UpdatedAt = time.Now()
	r.events[event.ID] = copyEvent(event)
	return nil
}

func (r *memEventRepo) AdvanceStatus(ctx context.Context, id primitive.ObjectID, expected, next models.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return apperrors.NotFound("award event not found")
	}
	if event.Status != expected {
		return apperrors.StaleState(expected, event.Status)
	}
	event.Status = next
	event.UpdatedAt = time.Now()
	return nil
}

func (r *memEventRepo) AdvanceToDecision(ctx context.Context, id primitive.ObjectID, expected models.EventStatus, awards []models.Award) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return apperrors.NotFound("award event not found")
	}
	if event.Status != expected {
		return apperrors.StaleState(expected, event.Status)
	}
	event.Status = models.EventStatusDecision
	event.Awards = make([]models.Award, len(awards))
	copy(event.Awards, awards)
	event.UpdatedAt = time.Now()
	return nil
}

func (r *memEventRepo) ResolveAward(ctx context.Context, id primitive.ObjectID, award models.Award) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return apperrors.NotFound("award event not found")
	}
	if event.Status != models.EventStatusDecision {
		return apperrors.StaleState(models.EventStatusDecision, event.Status)
	}
	for i := range event.Awards {
		if event.Awards[i].AwardID == award.AwardID {
			if event.Awards[i].Resolved() {
				return apperrors.Precondition("award already has a winner", event.Status)
			}
			event.Awards[i] = award
			return nil
		}
	}
	return apperrors.NotFound("award not found on event")
}

func (r *memEventRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.events)), nil
}

type memNominationRepo struct {
	mu          sync.Mutex
	nominations []*models.Nomination
	dedupe      bool
	byKey       map[string]struct{}
}

func newMemNominationRepo(dedupe bool) *memNominationRepo {
	return &memNominationRepo{dedupe: dedupe, byKey: map[string]struct{}{}}
}

func nominationKey(n *models.Nomination) string {
	return fmt.Sprintf("%s|%s|%s|%s", n.EventID.Hex(), n.AwardID.Hex(), n.NominatorUserID.Hex(), n.NomineeUserID.Hex())
}

func (r *memNominationRepo) Create(ctx context.Context, nomination *models.Nomination) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dedupe {
		key := nominationKey(nomination)
		if _, exists := r.byKey[key]; exists {
			return apperrors.DuplicateNomination("")
		}
		r.byKey[key] = struct{}{}
	}
	nomination.ID = primitive.NewObjectID()
	if nomination.Timestamp.IsZero() {
		nomination.Timestamp = time.Now()
	}
	cp := *nomination
	r.nominations = append(r.nominations, &cp)
	return nil
}

func (r *memNominationRepo) FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Nomination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Nomination
	for _, n := range r.nominations {
		if n.EventID == eventID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memNominationRepo) FindByAward(ctx context.Context, eventID, awardID primitive.ObjectID) ([]*models.Nomination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Nomination
	for _, n := range r.nominations {
		if n.EventID == eventID && n.AwardID == awardID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memNominationRepo) ExistsForNominee(ctx context.Context, eventID, awardID, nomineeUserID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nominations {
		if n.EventID == eventID && n.AwardID == awardID && n.NomineeUserID == nomineeUserID {
			return true, nil
		}
	}
	return false, nil
}

type memVoteRepo struct {
	mu    sync.Mutex
	votes []*models.Vote
	byKey map[string]struct{}
}

func newMemVoteRepo() *memVoteRepo {
	return &memVoteRepo{byKey: map[string]struct{}{}}
}

func voteKey(v *models.Vote) string {
	return fmt.Sprintf("%s|%s|%s|%s", v.EventID.Hex(), v.AwardID.Hex(), v.VoterUserID.Hex(), v.VoteType)
}

func (r *memVoteRepo) Create(ctx context.Context, vote *models.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey(vote)
	if _, exists := r.byKey[key]; exists {
		return apperrors.DuplicateVote("")
	}
	r.byKey[key] = struct{}{}
	vote.ID = primitive.NewObjectID()
	if vote.Timestamp.IsZero() {
		vote.Timestamp = time.Now()
	}
	cp := *vote
	r.votes = append(r.votes, &cp)
	return nil
}

func (r *memVoteRepo) FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Vote
	for _, v := range r.votes {
		if v.EventID == eventID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memVoteRepo) FindByAward(ctx context.Context, eventID, awardID primitive.ObjectID) ([]*models.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Vote
	for _, v := range r.votes {
		if v.EventID == eventID && v.AwardID == awardID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memVoteRepo) CountByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, v := range r.votes {
		if v.EventID == eventID {
			n++
		}
	}
	return n, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	cp := *user
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *memUserRepo) FindAll(ctx context.Context, page, limit int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.NotFound("user not found")
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type memTeamRepo struct {
	mu    sync.Mutex
	teams map[primitive.ObjectID]*models.Team
}

func newMemTeamRepo() *memTeamRepo {
	return &memTeamRepo{teams: map[primitive.ObjectID]*models.Team{}}
}

func (r *memTeamRepo) Create(ctx context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if team.ID.IsZero() {
		team.ID = primitive.NewObjectID()
	}
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *memTeamRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, apperrors.NotFound("team not found")
	}
	cp := *team
	return &cp, nil
}

func (r *memTeamRepo) FindAll(ctx context.Context) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Team
	for _, t := range r.teams {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

// Interface conformance for the fakes
var (
	_ repositories.EventRepository      = (*memEventRepo)(nil)
	_ repositories.NominationRepository = (*memNominationRepo)(nil)
	_ repositories.VoteRepository       = (*memVoteRepo)(nil)
	_ repositories.UserRepository       = (*memUserRepo)(nil)
	_ repositories.TeamRepository       = (*memTeamRepo)(nil)
)

// testEnv wires the service graph over the in-memory repositories
type testEnv struct {
	cfg         *config.Config
	events      *memEventRepo
	nominations *memNominationRepo
	votes       *memVoteRepo
	users       *memUserRepo
	teams       *memTeamRepo

	eventService      *EventServiceImpl
	nominationService *NominationServiceImpl
	voteService       *VoteServiceImpl
}

func newTestEnv() *testEnv {
	cfg := &config.Config{}
	cfg.Awards.AllowSelfNomination = false
	cfg.Awards.DedupeNominations = true

	env := &testEnv{
		cfg:         cfg,
		events:      newMemEventRepo(),
		nominations: newMemNominationRepo(cfg.Awards.DedupeNominations),
		votes:       newMemVoteRepo(),
		users:       newMemUserRepo(),
		teams:       newMemTeamRepo(),
	}
	env.eventService = NewEventService(env.events, env.nominations, env.votes, env.teams)
	env.nominationService = NewNominationService(env.nominations, env.users, env.eventService, cfg)
	env.voteService = NewVoteService(env.votes, env.nominations, env.users, env.eventService)
	return env
}

func (env *testEnv) addUser(teamIDs ...primitive.ObjectID) *models.User {
	user := &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "user-" + primitive.NewObjectID().Hex()[:6],
		Email: primitive.NewObjectID().Hex() + "@example.com",
		Roles: []models.Role{models.RoleUser},
	}
	for _, id := range teamIDs {
		user.Teams = append(user.Teams, models.TeamMembership{TeamID: id})
	}
	_ = env.users.Create(context.Background(), user)
	return user
}

func (env *testEnv) addTeam() *models.Team {
	team := &models.Team{Name: "team-" + primitive.NewObjectID().Hex()[:6]}
	_ = env.teams.Create(context.Background(), team)
	return team
}

func callerFor(user *models.User) models.Caller {
	caller := models.Caller{UserID: user.ID, Roles: user.Roles}
	for _, m := range user.Teams {
		caller.TeamIDs = append(caller.TeamIDs, m.TeamID)
	}
	return caller
}

func adminCaller() models.Caller {
	return models.Caller{
		UserID: primitive.NewObjectID(),
		Roles:  []models.Role{models.RoleAdministrator},
	}
}
