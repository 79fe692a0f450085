package domain

// BadgeID identifies a badge used to display some status of a user.
type BadgeID uint32

const (
	BadgeUserSuit         BadgeID = 0
	BadgeUserGreen        BadgeID = 1
	BadgeUserRed          BadgeID = 2
	BadgeUserOrange       BadgeID = 3
	BadgeTick             BadgeID = 4
	BadgeCross            BadgeID = 5
	BadgeHourglass        BadgeID = 6
	BadgeRuby             BadgeID = 7
	BadgeRosette          BadgeID = 8
	BadgeRainbow          BadgeID = 9
	BadgeMedalBronze      BadgeID = 10
	BadgeMedalSilver      BadgeID = 11
	BadgeMedalGold        BadgeID = 12
	BadgeControlPlay      BadgeID = 13
	BadgeControlPlayBlue  BadgeID = 14
	BadgeControlPause     BadgeID = 15
	BadgeControlPauseBlue BadgeID = 16
	BadgeUserGray         BadgeID = 17
	BadgeUserFemale       BadgeID = 18
)

type BadgeData struct {
	Name    string `json:"name"`
	Tooltip string `json:"tooltip"`
}

var badges = [...]BadgeData{
	{"user_suit", "Person in suit"},
	{"user_green", "Person in green"},
	{"user_red", "Person in red"},
	{"user_orange", "Person in orange"},
	{"tick", "User is ready"},
	{"cross", "User is not ready"},
	{"hourglass", "User is loading"},
	{"ruby", "This person is a gem"},
	{"rosette", "This person graduated from grade school"},
	{"rainbow", "This person loves colors"},
	{"medal_bronze_1", "This person came in 3rd place"},
	{"medal_silver_1", "This person came in 2nd place"},
	{"medal_gold_1", "This person came in 1st place"},
	{"control_play", "User is playing"},
	{"control_play_blue", "User is playing"},
	{"control_pause", "User is paused"},
	{"control_pause_blue", "User is paused"},
	{"user_gray", "Person"},
	{"user_female", "Person"},
}

// Badge returns the display data of id, or a placeholder for ids the client does not know.
func Badge(id BadgeID) BadgeData {
	if int(id) < len(badges) {
		return badges[id]
	}

	return BadgeData{Name: "unknown", Tooltip: "Unknown badge"}
}

// StateBadge is the badge shown in a participant's state column.
func StateBadge(state PlayState) BadgeID {
	switch state {
	case Play:
		return BadgeControlPlayBlue
	case Pause:
		return BadgeControlPauseBlue
	default:
		return BadgeHourglass
	}
}
