// Package weights infers preference signals from free text and turns them
// into scoring-weight adjustments.
package weights

import (
	"strings"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

// Signals are the preference deltas read from one turn. Nothing here mutates state.
type Signals struct {
	BudgetStyle   model.Opt[model.BudgetStyle]
	Pace          model.Opt[model.Pace]
	ReviewFocus   bool
	RouteFocus    bool
	LocationFocus bool
	ComfortFocus  bool
	PurposeTags   []string
}

type purposeKeywords struct {
	tag      string
	keywords []string
}

// purposeTable is ordered so inferred tags come out deterministically.
var purposeTable = []purposeKeywords{
	{"relax", []string{"휴양", "힐링", "쉬고", "여유", "호캉스", "휴식", "쉬고싶", "쉬러", "쉬러가"}},
	{"sightseeing", []string{"관광", "명소", "투어", "구경"}},
	{"food", []string{"미식", "맛집", "먹방", "레스토랑", "카페"}},
	{"shopping", []string{"쇼핑", "아울렛", "백화점"}},
	{"business", []string{"출장", "비즈니스", "컨퍼런스", "회의"}},
	{"family", []string{"가족", "아이", "부모님", "유아"}},
	{"couple", []string{"커플", "신혼", "연인", "기념일"}},
	{"activity", []string{"액티비티", "하이킹", "스포츠", "체험"}},
}

var (
	budgetTokens   = []string{"최저가", "저렴", "가성비", "budget", "돈이 없", "돈없"}
	premiumTokens  = []string{"프리미엄", "럭셔리", "고급", "premium"}
	balancedTokens = []string{"균형", "밸런스", "balanced"}

	tightTokens        = []string{"빡빡", "타이트", "tight", "후딱", "빨리"}
	relaxedTokens      = []string{"여유", "천천히", "느긋", "relaxed"}
	balancedPaceTokens = []string{"보통", "balanced pace"}

	reviewTokens   = []string{"후기", "리뷰", "평점", "청결"}
	routeTokens    = []string{"동선", "이동 최소", "직항", "경유 싫", "가깝"}
	locationTokens = []string{"위치", "중심", "역세권", "근처", "시내"}
	comfortTokens  = []string{"편한", "비즈니스석", "퍼스트", "5성", "풀빌라", "럭셔리"}
)

func containsAny(text string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// PurposeTags returns every tag with at least one keyword in text.
func PurposeTags(text string) []string {
	tags := []string{}
	for _, p := range purposeTable {
		if containsAny(text, p.keywords) {
			tags = append(tags, p.tag)
		}
	}
	return tags
}

// Infer reads preference signals from one user turn.
func Infer(text string) Signals {
	lower := strings.ToLower(text)
	sig := Signals{
		PurposeTags:   PurposeTags(text),
		ReviewFocus:   containsAny(text, reviewTokens),
		RouteFocus:    containsAny(text, routeTokens),
		LocationFocus: containsAny(text, locationTokens),
		ComfortFocus:  containsAny(text, comfortTokens),
	}

	switch {
	case containsAny(lower, budgetTokens):
		sig.BudgetStyle = model.Some(model.BudgetLow)
	case containsAny(lower, premiumTokens):
		sig.BudgetStyle = model.Some(model.BudgetPremium)
	case containsAny(lower, balancedTokens):
		sig.BudgetStyle = model.Some(model.BudgetBalanced)
	}

	switch {
	case containsAny(lower, tightTokens):
		sig.Pace = model.Some(model.PaceTight)
	case containsAny(lower, relaxedTokens):
		sig.Pace = model.Some(model.PaceRelaxed)
	case containsAny(lower, balancedPaceTokens):
		sig.Pace = model.Some(model.PaceBalanced)
	}
	return sig
}

// Apply writes budget style, pace and purpose tags into the trip and nudges
// the weights. Purpose tags are only ever added.
func Apply(s *model.PlannerState, sig Signals) {
	if style, ok := sig.BudgetStyle.Get(); ok {
		s.Trip.BudgetStyle = sig.BudgetStyle
		switch style {
		case model.BudgetLow:
			Adjust(s, model.WeightPrice, 0.12, "사용자가 가성비/최저가 선호를 언급함")
			Adjust(s, model.WeightComfort, -0.05, "가격 우선 응답으로 편의 가중치를 소폭 낮춤")
		case model.BudgetPremium:
			Adjust(s, model.WeightComfort, 0.12, "사용자가 프리미엄 성향을 언급함")
			Adjust(s, model.WeightPrice, -0.06, "프리미엄 선호로 가격 가중치를 조정함")
			Adjust(s, model.WeightReview, 0.03, "고급 숙소/항공 선택 시 후기 중요도가 함께 상승")
		case model.BudgetBalanced:
			Adjust(s, model.WeightPrice, 0.03, "가격/퀄리티 균형 선호를 반영함")
			Adjust(s, model.WeightComfort, 0.03, "가격/퀄리티 균형 선호를 반영함")
		}
	}

	if sig.ReviewFocus {
		Adjust(s, model.WeightReview, 0.1, "사용자가 후기/평점을 중시한다고 언급함")
	}
	if sig.RouteFocus {
		Adjust(s, model.WeightRoute, 0.1, "사용자가 동선/이동 최소화를 원함")
	}
	if sig.LocationFocus {
		Adjust(s, model.WeightLocation, 0.1, "사용자가 위치/접근성을 중요하게 언급함")
	}
	if sig.ComfortFocus {
		Adjust(s, model.WeightComfort, 0.1, "사용자가 편의/등급을 중요하게 언급함")
	}

	if pace, ok := sig.Pace.Get(); ok {
		s.Trip.Pace = sig.Pace
		switch pace {
		case model.PaceTight:
			Adjust(s, model.WeightRoute, 0.05, "빡빡한 일정 선호로 동선 효율 가중치를 올림")
		case model.PaceRelaxed:
			Adjust(s, model.WeightComfort, 0.03, "여유로운 일정 선호로 편안함 가중치를 올림")
			Adjust(s, model.WeightRoute, -0.03, "이동 최소 압박을 소폭 완화함")
		}
	}

	s.Trip.AddPurposes(sig.PurposeTags...)
}
