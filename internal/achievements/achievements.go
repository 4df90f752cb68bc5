// Package achievements enumerates the badges shown on a player page. The
// registry is a plain slice built at startup; predicates are pure
// functions over a Facts snapshot the caller assembles.
package achievements

// Facts is everything the predicates can look at for one player.
type Facts struct {
	// DNFInCompletedGame: the player quit a game the table finished.
	DNFInCompletedGame bool
	// TopTenTotalSips: placed top 10 on total sips in some season.
	TopTenTotalSips bool
	// ChuggedUnderFourSeconds: any recorded chug faster than 4s.
	ChuggedUnderFourSeconds bool
	TotalGames              int
}

// Achievement is one badge definition.
type Achievement struct {
	Key         string
	Name        string
	Description string
	Icon        string
	Achieved    func(f Facts) bool
}

// Registry in display order.
var Achievements = []Achievement{
	{
		Key:         "dnf",
		Name:        "DNF",
		Description: "Participated in a game that completed, where you didn't",
		Icon:        "coffin",
		Achieved:    func(f Facts) bool { return f.DNFInCompletedGame },
	},
	{
		Key:         "top10",
		Name:        "Top 10",
		Description: "Placed top 10 total sips in a season",
		Icon:        "trophy-cup",
		Achieved:    func(f Facts) bool { return f.TopTenTotalSips },
	},
	{
		Key:         "fast_chugger",
		Name:        "Fast Chugger",
		Description: "Chugged an ace in under 4 seconds",
		Icon:        "beer-stein",
		Achieved:    func(f Facts) bool { return f.ChuggedUnderFourSeconds },
	},
	{
		Key:         "centurion",
		Name:        "Centurion",
		Description: "Finished 100 games",
		Icon:        "laurels",
		Achieved:    func(f Facts) bool { return f.TotalGames >= 100 },
	},
}

// Status is an evaluated badge for one player.
type Status struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Achieved    bool   `json:"achieved"`
}

// Evaluate runs every registered achievement against the facts.
func Evaluate(f Facts) []Status {
	out := make([]Status, 0, len(Achievements))
	for _, a := range Achievements {
		out = append(out, Status{
			Key:         a.Key,
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Achieved:    a.Achieved(f),
		})
	}
	return out
}
