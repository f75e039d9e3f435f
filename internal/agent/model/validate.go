package model

import (
	"errors"
	"math"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const dateLayout = "2006-01-02"

// invalidError carries ozzo field errors while matching ErrValidation.
type invalidError struct{ err error }

func (e invalidError) Error() string { return e.err.Error() }

func (e invalidError) Unwrap() []error { return []error{ErrValidation, e.err} }

func checked(err error) error {
	if err == nil || errors.Is(err, ErrValidation) {
		return err
	}
	return invalidError{err}
}

func invalid(msg string) error {
	return invalidError{errors.New(msg)}
}

func member[T interface {
	~string
	Valid() bool
}]() validation.Rule {
	return validation.By(func(v any) error {
		if e, ok := v.(T); ok && e.Valid() {
			return nil
		}
		return errors.New("must be a valid value")
	})
}

var (
	score  = []validation.Rule{validation.Min(0.0), validation.Max(1.0)}
	webURL = []validation.Rule{validation.Required, is.RequestURL, is.URL}
)

// Validate checks every invariant of the persisted state.
func (s *PlannerState) Validate() error {
	if s == nil {
		return ErrNilState
	}
	err := validation.ValidateStruct(s,
		validation.Field(&s.Trip),
		validation.Field(&s.WeightRationale, validation.NotNil),
		validation.Field(&s.Dialog),
	)
	if err != nil {
		return checked(err)
	}
	for _, k := range WeightKeys {
		if v := s.Weights.Get(k); math.IsNaN(v) || v < 0 || v > 1 {
			return invalid("weights." + string(k) + " is out of [0,1]")
		}
	}
	return nil
}

func (r WeightRationale) Validate() error {
	return checked(validation.ValidateStruct(&r,
		validation.Field(&r.Key, validation.Required, member[WeightKey]()),
		validation.Field(&r.Reason, validation.Required),
	))
}

func (t TripState) Validate() error {
	err := validation.ValidateStruct(&t,
		validation.Field(&t.Dates),
		validation.Field(&t.Travelers),
		validation.Field(&t.PurposeTags, validation.NotNil),
		validation.Field(&t.BudgetStyle),
		validation.Field(&t.StayLevel),
		validation.Field(&t.SeatClass),
		validation.Field(&t.Pace),
		validation.Field(&t.Constraints),
	)
	return checked(err)
}

func (d Dates) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Start, validation.Date(dateLayout)),
		validation.Field(&d.End, validation.Date(dateLayout)),
		validation.Field(&d.FlexibleDays, validation.Min(0)),
	)
	if err != nil {
		return checked(err)
	}
	if d.Complete() {
		start, _ := time.Parse(dateLayout, d.Start)
		end, _ := time.Parse(dateLayout, d.End)
		if end.Before(start) {
			return invalid("dates: end is before start")
		}
	}
	return nil
}

func (t Travelers) Validate() error {
	return checked(validation.ValidateStruct(&t,
		validation.Field(&t.Adults, validation.Required, validation.Min(1)),
		validation.Field(&t.Children, validation.Min(0)),
	))
}

func (c Constraints) Validate() error {
	return checked(validation.ValidateStruct(&c,
		validation.Field(&c.MaxTransfers, validation.Min(0)),
		validation.Field(&c.MaxDailyWalkKm, validation.NilOrNotEmpty, validation.Min(0.0).Exclusive()),
		validation.Field(&c.MustVisit, validation.NotNil),
	))
}

func (d DialogState) Validate() error {
	return checked(validation.ValidateStruct(&d,
		validation.Field(&d.LastAskedQuestionIDs, validation.NotNil),
		validation.Field(&d.QuestionAttempts, validation.NotNil, validation.Each(validation.Min(0))),
		validation.Field(&d.ReasoningLog, validation.NotNil),
		validation.Field(&d.Assumptions, validation.NotNil),
		validation.Field(&d.RouteAccepted, validation.Required, member[RouteAcceptance]()),
	))
}

// Validate checks the response against the published contract.
func (r *AgentResponse) Validate() error {
	if r == nil {
		return invalid("response is nil")
	}
	return checked(validation.ValidateStruct(r,
		validation.Field(&r.Type, validation.Required, validation.In(ResponseType)),
		validation.Field(&r.Stage, validation.Required, member[Stage]()),
		validation.Field(&r.Questions, validation.Length(0, MaxQuestions)),
		validation.Field(&r.State, validation.NotNil),
		validation.Field(&r.Results),
		validation.Field(&r.UI),
	))
}

func (q Question) Validate() error {
	return checked(validation.ValidateStruct(&q,
		validation.Field(&q.ID, validation.Required),
		validation.Field(&q.Text, validation.Required),
		validation.Field(&q.Options, validation.Required),
	))
}

func (o QuestionOption) Validate() error {
	return checked(validation.ValidateStruct(&o,
		validation.Field(&o.Label, validation.Required),
		validation.Field(&o.Value, validation.Required),
	))
}

func (r Results) Validate() error {
	return checked(validation.ValidateStruct(&r,
		validation.Field(&r.Flights, validation.NotNil),
		validation.Field(&r.Stays, validation.NotNil),
		validation.Field(&r.RouteDraft, validation.NotNil),
	))
}

func (f Flight) Validate() error {
	return checked(validation.ValidateStruct(&f,
		validation.Field(&f.ID, validation.Required),
		validation.Field(&f.Summary, validation.Required),
		validation.Field(&f.Provider, validation.Required),
		validation.Field(&f.Price),
		validation.Field(&f.Score, score...),
		validation.Field(&f.URL, webURL...),
		validation.Field(&f.Badges, validation.NotNil),
		validation.Field(&f.Transfers, validation.Min(0)),
		validation.Field(&f.DurationMinutes, validation.NilOrNotEmpty, validation.Min(1)),
	))
}

func (s Stay) Validate() error {
	return checked(validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required),
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Provider, validation.Required),
		validation.Field(&s.Rating, validation.Min(0.0), validation.Max(5.0)),
		validation.Field(&s.PricePerNight),
		validation.Field(&s.Location),
		validation.Field(&s.Score, score...),
		validation.Field(&s.URL, webURL...),
		validation.Field(&s.Badges, validation.NotNil),
	))
}

func (l StayLocation) Validate() error {
	return checked(validation.ValidateStruct(&l,
		validation.Field(&l.Area, validation.Required),
	))
}

func (d RouteDraftDay) Validate() error {
	return checked(validation.ValidateStruct(&d,
		validation.Field(&d.Day, validation.Required, validation.Min(1)),
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Items),
	))
}

func (it RouteItem) Validate() error {
	return checked(validation.ValidateStruct(&it,
		validation.Field(&it.Time, validation.Required),
		validation.Field(&it.Name, validation.Required),
		validation.Field(&it.Type, validation.Required, member[RouteItemType]()),
		validation.Field(&it.URL, is.RequestURL, is.URL),
	))
}

func (p Price) Validate() error {
	return checked(validation.ValidateStruct(&p,
		validation.Field(&p.Amount, validation.Min(0.0)),
		validation.Field(&p.Currency, validation.Required),
	))
}

func (u UI) Validate() error {
	return checked(validation.ValidateStruct(&u,
		validation.Field(&u.Cards, validation.NotNil),
	))
}

func (c UICard) Validate() error {
	return checked(validation.ValidateStruct(&c,
		validation.Field(&c.Type, validation.Required, member[CardType]()),
		validation.Field(&c.RefID, validation.Required),
		validation.Field(&c.CTALabel, validation.Required),
	))
}
