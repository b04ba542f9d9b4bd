package university

// Stat pairs a normalized university name with its researcher count.
type Stat struct {
	Name  string
	Count int
}

// FallbackStats is served when the warehouse cannot produce live
// affiliation statistics. Counts reflect a recent corpus snapshot.
var FallbackStats = []Stat{
	{Name: "京都大学", Count: 6264},
	{Name: "東京大学", Count: 5113},
	{Name: "大阪大学", Count: 4542},
	{Name: "北海道大学", Count: 3515},
	{Name: "東京科学大学", Count: 3503},
	{Name: "東北大学", Count: 3426},
	{Name: "九州大学", Count: 2486},
	{Name: "筑波大学", Count: 2471},
	{Name: "名古屋大学", Count: 2317},
}
