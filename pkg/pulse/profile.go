package pulse

// Profile is a named set of weights controlling how an article set maps to a
// pulse score. Both built-in profiles share one formula and differ only in
// component ceilings, saturation points, the volume exponent and the optional
// keyword list.
type Profile struct {
	Name string

	VolumeMax float64
	VolumeDiv float64 // article count at which volume saturates
	VolumeExp float64 // 1 = linear, <1 rewards small counts

	DiversityMax float64
	DiversityDiv float64 // unique source count at which diversity saturates

	RecencyMax float64
	RecencyDiv float64 // recent-article count at which recency saturates

	Keywords   []string // empty disables the bonus
	KeywordMax float64
	KeywordDiv float64 // keyword hit count at which the bonus saturates
}

// Standard is the profile for routine topics: linear volume scaling and a
// generous recency saturation point.
func Standard() Profile {
	return Profile{
		Name:         "standard",
		VolumeMax:    40,
		VolumeDiv:    100,
		VolumeExp:    1,
		DiversityMax: 30,
		DiversityDiv: 20,
		RecencyMax:   30,
		RecencyDiv:   30,
	}
}

// HighIntensity is the profile for event-driven topics. Volume follows a power
// curve so smaller counts still register, recency saturates at half the
// standard count, and keyword hits in titles add a bonus.
func HighIntensity(keywords []string) Profile {
	return Profile{
		Name:         "high-intensity",
		VolumeMax:    35,
		VolumeDiv:    100,
		VolumeExp:    0.7,
		DiversityMax: 25,
		DiversityDiv: 20,
		RecencyMax:   40,
		RecencyDiv:   20,
		Keywords:     keywords,
		KeywordMax:   15,
		KeywordDiv:   30,
	}
}

// SportsKeywords is the breaking-event keyword set for the Sports category.
func SportsKeywords() []string {
	return []string{
		"super bowl", "championship", "playoffs", "finals",
		"world cup", "olympics", "game", "victory", "win", "score",
	}
}
