package parsers

// Phrase lists matched by substring against the lowercased turn text.
var (
	UnknownDestinationTokens = []string{"모르겠", "미정", "아무데나", "상관없", "추천해줘"}
	UrgentDepartureTokens    = []string{"최대한 빨리", "빨리", "당장", "일주일 안", "이번 주", "곧"}
	RouteYesTokens           = []string{"동선", "여행 경로", "일정 추천", "루트", "경로 추천", "지금 추천해줘", "route_yes"}
	RouteNoTokens            = []string{"나중에", "아니", "괜찮", "패스", "지금 말고"}
	StayUndecidedTokens      = []string{"숙소 미정", "숙소는 미정", "미정", "아직 안 정함"}
)

// weekToken widens the urgent window and the flexibility default.
const weekToken = "일주일"
