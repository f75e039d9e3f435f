// Package tools holds the travel search tools: a deterministic mock provider
// and eino tool adapters that describe and invoke any provider through the
// JSON tool-call boundary.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

const (
	ToolSearchFlights = "search_flights"
	ToolSearchStays   = "search_stays"
	ToolDraftRoute    = "draft_route"
)

type SearchFlightsOutput struct {
	Flights []model.Flight `json:"flights"`
}

type SearchStaysOutput struct {
	Stays []model.Stay `json:"stays"`
}

type DraftRouteOutput struct {
	Days []model.RouteDraftDay `json:"days"`
}

// Toolbox exposes a TravelToolProvider as eino tools. It is itself a
// TravelToolProvider, so callers can stay typed while every call crosses the
// same boundary a model-driven tool call would.
type Toolbox struct {
	flights tool.InvokableTool
	stays   tool.InvokableTool
	route   tool.InvokableTool
}

func NewToolbox(p model.TravelToolProvider) *Toolbox {
	return &Toolbox{
		flights: createSearchFlightsTool(p),
		stays:   createSearchStaysTool(p),
		route:   createDraftRouteTool(p),
	}
}

// Tools returns the registered tools in a stable order.
func (b *Toolbox) Tools() []tool.BaseTool {
	return []tool.BaseTool{b.flights, b.stays, b.route}
}

// GetToolInfos collects the descriptors of ts.
func GetToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (b *Toolbox) SearchFlights(ctx context.Context, in model.FlightSearchInput) ([]model.Flight, error) {
	var out SearchFlightsOutput
	if err := invoke(ctx, b.flights, in, &out); err != nil {
		return nil, err
	}
	return out.Flights, nil
}

func (b *Toolbox) SearchStays(ctx context.Context, in model.StaySearchInput) ([]model.Stay, error) {
	var out SearchStaysOutput
	if err := invoke(ctx, b.stays, in, &out); err != nil {
		return nil, err
	}
	return out.Stays, nil
}

func (b *Toolbox) DraftRoute(ctx context.Context, in model.RouteDraftInput) ([]model.RouteDraftDay, error) {
	var out DraftRouteOutput
	if err := invoke(ctx, b.route, in, &out); err != nil {
		return nil, err
	}
	return out.Days, nil
}

// ToolType tags tool runs in callback RunInfo.
const ToolType = "TravelTool"

// invoke runs t through its JSON boundary. Tools called outside a ToolsNode
// emit their own callbacks so observers still see the run.
func invoke(ctx context.Context, t tool.InvokableTool, in, out any) error {
	info, err := t.Info(ctx)
	if err != nil {
		return fmt.Errorf("tool info: %w", err)
	}
	args, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s arguments: %w", info.Name, err)
	}

	ctx = callbacks.ReuseHandlers(ctx, &callbacks.RunInfo{Name: info.Name, Type: ToolType, Component: components.ComponentOfTool})
	ctx = callbacks.OnStart(ctx, &tool.CallbackInput{ArgumentsInJSON: string(args)})
	res, err := t.InvokableRun(ctx, string(args))
	if err != nil {
		callbacks.OnError(ctx, err)
		return err
	}
	callbacks.OnEnd(ctx, &tool.CallbackOutput{Response: res})

	if err := json.Unmarshal([]byte(res), out); err != nil {
		return fmt.Errorf("unmarshal %s result: %w", info.Name, err)
	}
	return nil
}

func createSearchFlightsTool(p model.TravelToolProvider) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchFlights,
			Desc: "Search round-trip flight candidates between an origin and a destination for a date range. Origin may be '미정' when undecided.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"origin":       {Type: schema.String, Desc: "Airport code, city, or '미정'", Required: true},
				"destination":  {Type: schema.String, Desc: "Destination city or free-text region", Required: true},
				"startDate":    {Type: schema.String, Desc: "Departure date, YYYY-MM-DD", Required: true},
				"endDate":      {Type: schema.String, Desc: "Return date, YYYY-MM-DD", Required: true},
				"adults":       {Type: schema.Integer, Desc: "Number of adults, at least 1", Required: true},
				"children":     {Type: schema.Integer, Desc: "Number of children"},
				"seatClass":    {Type: schema.String, Desc: "Cabin", Enum: []string{"economy", "business", "first"}},
				"maxTransfers": {Type: schema.Integer, Desc: "Upper bound on transfers; omit for no limit"},
			}),
		},
		func(ctx context.Context, in *model.FlightSearchInput) (*SearchFlightsOutput, error) {
			flights, err := p.SearchFlights(ctx, *in)
			if err != nil {
				return nil, err
			}
			return &SearchFlightsOutput{Flights: flights}, nil
		},
	)
}

func createSearchStaysTool(p model.TravelToolProvider) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchStays,
			Desc: "Search accommodation candidates at a destination for a date range.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"destination": {Type: schema.String, Desc: "Destination city or free-text region", Required: true},
				"startDate":   {Type: schema.String, Desc: "Check-in date, YYYY-MM-DD", Required: true},
				"endDate":     {Type: schema.String, Desc: "Check-out date, YYYY-MM-DD", Required: true},
				"adults":      {Type: schema.Integer, Desc: "Number of adults, at least 1", Required: true},
				"children":    {Type: schema.Integer, Desc: "Number of children"},
				"stayLevel":   {Type: schema.String, Desc: "Preferred grade", Enum: []string{"3_star", "4_star", "5_star", "pool_villa"}},
			}),
		},
		func(ctx context.Context, in *model.StaySearchInput) (*SearchStaysOutput, error) {
			stays, err := p.SearchStays(ctx, *in)
			if err != nil {
				return nil, err
			}
			return &SearchStaysOutput{Stays: stays}, nil
		},
	)
}

func createDraftRouteTool(p model.TravelToolProvider) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolDraftRoute,
			Desc: "Draft a day-by-day route for the trip around the chosen stay area.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"destination":    {Type: schema.String, Desc: "Destination city or free-text region", Required: true},
				"purposeTags":    {Type: schema.Array, Desc: "Trip purposes", ElemInfo: &schema.ParameterInfo{Type: schema.String}},
				"mustVisit":      {Type: schema.Array, Desc: "Places that must appear in the route", ElemInfo: &schema.ParameterInfo{Type: schema.String}},
				"maxDailyWalkKm": {Type: schema.Number, Desc: "Daily walking limit in km"},
				"days":           {Type: schema.Integer, Desc: "Trip length in days", Required: true},
				"stayArea":       {Type: schema.String, Desc: "Area the route starts from each day"},
			}),
		},
		func(ctx context.Context, in *model.RouteDraftInput) (*DraftRouteOutput, error) {
			days, err := p.DraftRoute(ctx, *in)
			if err != nil {
				return nil, err
			}
			return &DraftRouteOutput{Days: days}, nil
		},
	)
}

var _ model.TravelToolProvider = (*Toolbox)(nil)
