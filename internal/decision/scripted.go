package decision

import (
	"context"

	"TradeBench/internal/model"
)

// ScriptedSource replays a fixed per-date schedule of proposals, for
// development and testing. Dates without an entry propose a hold; dates in
// FailOn return an error to exercise failure isolation.
type ScriptedSource struct {
	Proposals map[string]model.Proposal // keyed by "2006-01-02"
	FailOn    map[string]error
}

func (s *ScriptedSource) Name() string { return "scripted" }

func (s *ScriptedSource) Propose(_ context.Context, req Request) (model.Proposal, error) {
	key := req.Date.Format("2006-01-02")
	if err, ok := s.FailOn[key]; ok {
		return model.Proposal{}, err
	}
	if prop, ok := s.Proposals[key]; ok {
		return prop, nil
	}
	return model.Proposal{Signal: model.SignalHold, Rationale: "scripted: no entry"}, nil
}
