// Package actflow provides an embeddable workflow engine driven by activity
// diagram text.
//
// A workflow is authored as a PlantUML-style activity diagram; importing the
// text yields a definition graph whose nodes can carry actions declared in
// attached notes. The engine positions one instance per workflow id, runs
// node actions through registered handlers and advances automatically along
// unconditional transitions, pausing at choice points for an explicit
// selection:
//
//	srv := actflow.New()
//	rt := srv.Runtime()
//	_, _ = rt.Import(ctx, diagramText, "order-flow", "Order Flow")
//	state, _ := rt.State(ctx, "order-flow")
//	if state.IsChoice {
//		_ = rt.AdvanceByChoice(ctx, "order-flow", state.Choices[0].Target)
//	}
//
// For more details see the individual sub-packages.
package actflow
