package teams

import (
	"sort"
	"strconv"
	"strings"
)

// Team represents a league franchise keyed by its abbreviation.
type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Name         string `json:"name"`
}

// FullName joins city and nickname.
func (t Team) FullName() string {
	return strings.TrimSpace(t.City + " " + t.Name)
}

var league = []Team{
	{ID: 1610612737, Abbreviation: "ATL", City: "Atlanta", Name: "Hawks"},
	{ID: 1610612738, Abbreviation: "BOS", City: "Boston", Name: "Celtics"},
	{ID: 1610612751, Abbreviation: "BKN", City: "Brooklyn", Name: "Nets"},
	{ID: 1610612766, Abbreviation: "CHA", City: "Charlotte", Name: "Hornets"},
	{ID: 1610612741, Abbreviation: "CHI", City: "Chicago", Name: "Bulls"},
	{ID: 1610612739, Abbreviation: "CLE", City: "Cleveland", Name: "Cavaliers"},
	{ID: 1610612742, Abbreviation: "DAL", City: "Dallas", Name: "Mavericks"},
	{ID: 1610612743, Abbreviation: "DEN", City: "Denver", Name: "Nuggets"},
	{ID: 1610612765, Abbreviation: "DET", City: "Detroit", Name: "Pistons"},
	{ID: 1610612744, Abbreviation: "GSW", City: "Golden State", Name: "Warriors"},
	{ID: 1610612745, Abbreviation: "HOU", City: "Houston", Name: "Rockets"},
	{ID: 1610612754, Abbreviation: "IND", City: "Indiana", Name: "Pacers"},
	{ID: 1610612746, Abbreviation: "LAC", City: "LA", Name: "Clippers"},
	{ID: 1610612747, Abbreviation: "LAL", City: "Los Angeles", Name: "Lakers"},
	{ID: 1610612763, Abbreviation: "MEM", City: "Memphis", Name: "Grizzlies"},
	{ID: 1610612748, Abbreviation: "MIA", City: "Miami", Name: "Heat"},
	{ID: 1610612749, Abbreviation: "MIL", City: "Milwaukee", Name: "Bucks"},
	{ID: 1610612750, Abbreviation: "MIN", City: "Minnesota", Name: "Timberwolves"},
	{ID: 1610612740, Abbreviation: "NOP", City: "New Orleans", Name: "Pelicans"},
	{ID: 1610612752, Abbreviation: "NYK", City: "New York", Name: "Knicks"},
	{ID: 1610612760, Abbreviation: "OKC", City: "Oklahoma City", Name: "Thunder"},
	{ID: 1610612753, Abbreviation: "ORL", City: "Orlando", Name: "Magic"},
	{ID: 1610612755, Abbreviation: "PHI", City: "Philadelphia", Name: "76ers"},
	{ID: 1610612756, Abbreviation: "PHX", City: "Phoenix", Name: "Suns"},
	{ID: 1610612757, Abbreviation: "POR", City: "Portland", Name: "Trail Blazers"},
	{ID: 1610612758, Abbreviation: "SAC", City: "Sacramento", Name: "Kings"},
	{ID: 1610612759, Abbreviation: "SAS", City: "San Antonio", Name: "Spurs"},
	{ID: 1610612761, Abbreviation: "TOR", City: "Toronto", Name: "Raptors"},
	{ID: 1610612762, Abbreviation: "UTA", City: "Utah", Name: "Jazz"},
	{ID: 1610612764, Abbreviation: "WAS", City: "Washington", Name: "Wizards"},
}

var (
	byAbbr = make(map[string]Team, len(league))
	byID   = make(map[int]Team, len(league))
)

func init() {
	for _, t := range league {
		byAbbr[t.Abbreviation] = t
		byID[t.ID] = t
	}
}

// Lookup finds a team by abbreviation (case-insensitive) or numeric league id.
func Lookup(raw string) (Team, bool) {
	raw = strings.TrimSpace(raw)
	if t, ok := byAbbr[strings.ToUpper(raw)]; ok {
		return t, true
	}
	if id, err := strconv.Atoi(raw); err == nil {
		return ByID(id)
	}
	return Team{}, false
}

// ByID finds a team by its numeric league id.
func ByID(id int) (Team, bool) {
	t, ok := byID[id]
	return t, ok
}

// Abbreviations returns every team abbreviation, sorted.
func Abbreviations() []string {
	out := make([]string, 0, len(league))
	for _, t := range league {
		out = append(out, t.Abbreviation)
	}
	sort.Strings(out)
	return out
}
