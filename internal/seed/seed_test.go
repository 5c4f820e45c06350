package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

const rosterCSV = `Nickname,FullName,Email,2024-06-01,2024-06-08
tomw,Tom Watson,tom@example.com,Y,Y
,王小明,xm@example.com,Y,
jack,Jack Nicklaus,,y,Y
arnie,Arnold Palmer,,,Y
`

func TestParseRoster(t *testing.T) {
	roster, err := ParseRoster(strings.NewReader(rosterCSV))
	require.NoError(t, err)

	require.Equal(t, []string{"2024-06-01", "2024-06-08"}, roster.Dates)
	require.Len(t, roster.Entries, 4)

	require.Equal(t, "wangxm", roster.Entries[1].Player.Nickname, "missing nickname is derived from the name")
	require.Equal(t, []string{"2024-06-01"}, roster.Entries[1].Dates)
	require.Equal(t, []string{"2024-06-01", "2024-06-08"}, roster.Entries[2].Dates, "attendance mark is case-insensitive")
	require.Equal(t, []string{"2024-06-08"}, roster.Entries[3].Dates)
}

func TestParseRosterRejects(t *testing.T) {
	_, err := ParseRoster(strings.NewReader("Nickname,FullName,Email\n"))
	require.Error(t, err, "no date columns")

	_, err = ParseRoster(strings.NewReader("Name,FullName,Email,2024-06-01\n"))
	require.Error(t, err, "wrong info header")

	_, err = ParseRoster(strings.NewReader("Nickname,FullName,Email,June 1\n"))
	require.Error(t, err, "date header format")

	_, err = ParseRoster(strings.NewReader("Nickname,FullName,Email,2024-06-01\na,A,,Y\na,B,,Y\n"))
	require.ErrorContains(t, err, "重复")
}

type fakeStore struct {
	players map[string]*domain.Player
	events  []*domain.Event
	dates   []*domain.EventDate
	nextID  int64
}

func (f *fakeStore) GetPlayersByNicknames(nicknames []string) (map[string]*domain.Player, error) {
	out := make(map[string]*domain.Player)
	for _, n := range nicknames {
		if p, ok := f.players[n]; ok {
			out[n] = p
		}
	}
	return out, nil
}

func (f *fakeStore) CreatePlayer(player *domain.Player) error {
	f.nextID++
	player.ID = f.nextID
	f.players[player.Nickname] = player
	return nil
}

func (f *fakeStore) CreateEvent(event *domain.Event) error {
	f.nextID++
	event.ID = f.nextID
	f.events = append(f.events, event)
	return nil
}

func (f *fakeStore) CreateEventDate(ed *domain.EventDate) error {
	f.dates = append(f.dates, ed)
	return nil
}

// TestImportRoster: existing players are reused and each date lists its attendees in roster order.
func TestImportRoster(t *testing.T) {
	roster, err := ParseRoster(strings.NewReader(rosterCSV))
	require.NoError(t, err)

	store := &fakeStore{
		players: map[string]*domain.Player{"jack": {ID: 100, Nickname: "jack"}},
		nextID:  200,
	}
	event := &domain.Event{Nickname: "summer", Name: "夏季联赛"}

	require.NoError(t, ImportRoster(store, roster, event, []string{"08:00"}))

	require.Len(t, store.events, 1)
	require.Len(t, store.dates, 2)

	first := store.dates[0]
	require.Equal(t, event.ID, first.EventID)
	require.Equal(t, "2024-06-01", first.Date)
	nicknames := make([]string, len(first.Players))
	for i, p := range first.Players {
		nicknames[i] = p.Nickname
	}
	require.Equal(t, []string{"tomw", "wangxm", "jack"}, nicknames)
	require.Equal(t, int64(100), first.Players[2].ID)
}

// TestImportRosterUnderfilled: a date with fewer attendees than tee times aborts before any event is created.
func TestImportRosterUnderfilled(t *testing.T) {
	roster, err := ParseRoster(strings.NewReader(rosterCSV))
	require.NoError(t, err)

	store := &fakeStore{players: map[string]*domain.Player{}}
	err = ImportRoster(store, roster, &domain.Event{Nickname: "x"}, []string{"08:00", "08:10", "08:20", "08:30"})
	require.Error(t, err)
	require.Empty(t, store.events)
}
