package pairing

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

type fakeRepository struct {
	events   map[int64]*domain.Event
	dates    map[int64][]*domain.EventDate
	users    map[int64]*domain.User
	teams    []domain.EventTeam
	comments []domain.EventComment
	replaced int
}

func (f *fakeRepository) GetEventByID(id int64) (*domain.Event, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) GetEventDates(eventID int64) ([]*domain.EventDate, error) {
	return f.dates[eventID], nil
}

func (f *fakeRepository) GetUserByID(id int64) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) ReplaceEventTeams(eventID int64, teams []domain.EventTeam, comments []domain.EventComment) error {
	f.replaced++
	f.teams = teams
	f.comments = comments
	return nil
}

type fakeStore struct {
	mu       sync.Mutex
	saved    []domain.PairingProgress
	released []string
}

func (f *fakeStore) Save(eventID int64, p *domain.PairingProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, *p)
	return nil
}

func (f *fakeStore) Release(eventID int64, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, jobID)
	return nil
}

func (f *fakeStore) last() domain.PairingProgress {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved[len(f.saved)-1]
}

type fakeMailer struct {
	sent []*domain.MailMessage
	err  error
}

func (f *fakeMailer) PublishMail(m *domain.MailMessage) error {
	f.sent = append(f.sent, m)
	return f.err
}

type WorkerSuite struct {
	suite.Suite
	repo   *fakeRepository
	store  *fakeStore
	mailer *fakeMailer
	worker *Worker
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

// SetupTest: one event with two dates of six players and two tee times each.
func (s *WorkerSuite) SetupTest() {
	players := make([]domain.Player, 6)
	for i := range players {
		players[i] = domain.Player{ID: int64(i + 1), Nickname: string(rune('a' + i))}
	}
	times := []string{"08:00", "08:10"}

	s.repo = &fakeRepository{
		events: map[int64]*domain.Event{3: {ID: 3, Name: "春季联赛"}},
		dates: map[int64][]*domain.EventDate{3: {
			{EventID: 3, Date: "2024-06-01", Times: times, Players: players},
			{EventID: 3, Date: "2024-06-08", Times: times, Players: players},
		}},
		users: map[int64]*domain.User{1: {ID: 1, FullName: "管理员", Email: "admin@example.com"}},
	}
	s.store = &fakeStore{}
	s.mailer = &fakeMailer{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.worker = NewWorker(s.repo, s.store, s.mailer, Options{
		CleanCount:       500,
		ProbeCount:       2,
		ProgressInterval: time.Millisecond,
	}, logger)
}

func (s *WorkerSuite) job() *domain.PairingJob {
	return &domain.PairingJob{ID: "job-1", EventID: 3, RequestedBy: 1, Seed: 42}
}

// TestProcessStoresTeamsAndNotifies: a good job persists teams plus diagnostics and mails the requester.
func (s *WorkerSuite) TestProcessStoresTeamsAndNotifies() {
	s.Require().NoError(s.worker.Process(s.job()))

	s.Equal(1, s.repo.replaced)
	s.Len(s.repo.teams, 4)
	s.Len(s.repo.comments, 13)
	s.Equal("bestEval:", s.repo.comments[12].Key)

	last := s.store.last()
	s.Equal(domain.PairingStatusDone, last.Status)
	s.Equal(1.0, last.Progress)
	s.Equal([]string{"job-1"}, s.store.released)

	s.Require().Len(s.mailer.sent, 1)
	s.Equal(domain.MailTypePairingComplete, s.mailer.sent[0].Type)
	data := s.mailer.sent[0].Data.(domain.PairingCompleteMailData)
	s.Equal("春季联赛", data.EventName)
	s.Equal(4, data.TeamCount)
}

// TestProcessInvalidDates: an underfilled date fails the job without touching stored teams.
func (s *WorkerSuite) TestProcessInvalidDates() {
	s.repo.dates[3][1].Times = []string{"08:00", "08:10", "08:20", "08:30", "08:40", "08:50", "09:00"}

	err := s.worker.Process(s.job())
	s.Require().Error(err)
	s.True(errors.Is(err, ErrInvalidJob))

	s.Zero(s.repo.replaced)
	s.Equal(domain.PairingStatusFailed, s.store.last().Status)
	s.Equal([]string{"job-1"}, s.store.released)

	s.Require().Len(s.mailer.sent, 1)
	s.Equal(domain.MailTypePairingFailed, s.mailer.sent[0].Type)
}

// TestProcessUnknownEvent: a deleted event is a data defect, reported with the event id.
func (s *WorkerSuite) TestProcessUnknownEvent() {
	job := s.job()
	job.EventID = 99

	err := s.worker.Process(job)
	s.True(errors.Is(err, ErrInvalidJob))

	data := s.mailer.sent[0].Data.(domain.PairingFailedMailData)
	s.Equal("#99", data.EventName)
}

// TestProcessMailFailureIsNotFatal: a broken mail queue does not fail a finished job.
func (s *WorkerSuite) TestProcessMailFailureIsNotFatal() {
	s.mailer.err = errors.New("channel closed")
	s.NoError(s.worker.Process(s.job()))
	s.Equal(1, s.repo.replaced)
}
