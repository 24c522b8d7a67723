package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sample() *Definition {
	return &Definition{
		ID:   "wf",
		Name: "sample",
		Nodes: []*Node{
			{ID: "A", Label: "A"},
			{ID: "B", Label: "B"},
			{ID: "C", Label: "C"},
		},
		Transitions: []*Transition{
			{From: "A", To: "B"},
			{From: "B", To: "C", Condition: "ok"},
			{From: "B", To: "A", Condition: "retry"},
		},
		StartPoints: []*StartPoint{{NodeID: "A"}},
	}
}

func TestDefinition_Outgoing(t *testing.T) {
	definition := sample()
	outgoing := definition.Outgoing("B")
	assert.Equal(t, 2, len(outgoing))
	assert.Equal(t, "C", outgoing[0].To, "declaration order preserved")
	assert.Equal(t, "A", outgoing[1].To)
	assert.Empty(t, definition.Outgoing("C"))
}

func TestDefinition_Validate(t *testing.T) {
	testCases := []struct {
		name       string
		mutate     func(d *Definition)
		wantIssues int
	}{
		{name: "valid", mutate: func(d *Definition) {}},
		{
			name: "dangling transition",
			mutate: func(d *Definition) {
				d.Transitions = append(d.Transitions, &Transition{From: "A", To: "Missing"})
			},
			wantIssues: 1,
		},
		{
			name: "dangling start point",
			mutate: func(d *Definition) {
				d.StartPoints = append(d.StartPoints, &StartPoint{NodeID: "Missing"})
			},
			wantIssues: 1,
		},
		{
			name: "unconditional self transition",
			mutate: func(d *Definition) {
				d.Transitions = append(d.Transitions, &Transition{From: "A", To: "A"})
			},
			wantIssues: 1,
		},
		{
			name: "conditional self transition is legal",
			mutate: func(d *Definition) {
				d.Transitions = append(d.Transitions, &Transition{From: "A", To: "A", Condition: "again"})
			},
		},
		{
			name: "duplicate node id",
			mutate: func(d *Definition) {
				d.Nodes = append(d.Nodes, &Node{ID: "A", Label: "A"})
			},
			wantIssues: 1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			definition := sample()
			tc.mutate(definition)
			assert.Equal(t, tc.wantIssues, len(definition.Validate()))
		})
	}
}

func TestDefinition_Equal(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(d *Definition)
		want   bool
	}{
		{name: "identical", mutate: func(d *Definition) {}, want: true},
		{
			name: "node declaration order is irrelevant",
			mutate: func(d *Definition) {
				d.Nodes[0], d.Nodes[2] = d.Nodes[2], d.Nodes[0]
			},
			want: true,
		},
		{
			name:   "different name",
			mutate: func(d *Definition) { d.Name = "other" },
			want:   false,
		},
		{
			name: "extra node",
			mutate: func(d *Definition) {
				d.Nodes = append(d.Nodes, &Node{ID: "D", Label: "D"})
			},
			want: false,
		},
		{
			name: "outgoing order matters",
			mutate: func(d *Definition) {
				d.Transitions[1], d.Transitions[2] = d.Transitions[2], d.Transitions[1]
			},
			want: false,
		},
		{
			name: "changed condition",
			mutate: func(d *Definition) {
				d.Transitions[1].Condition = "changed"
			},
			want: false,
		},
		{
			name: "changed start point",
			mutate: func(d *Definition) {
				d.StartPoints[0].NodeID = "B"
			},
			want: false,
		},
		{
			name: "changed note",
			mutate: func(d *Definition) {
				d.Nodes[1].Note = "annotated"
			},
			want: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			left, right := sample(), sample()
			tc.mutate(right)
			assert.Equal(t, tc.want, left.Equal(right))
			assert.Equal(t, tc.want, right.Equal(left))
		})
	}
}

func TestParseAction(t *testing.T) {
	testCases := []struct {
		name       string
		note       string
		wantNil    bool
		wantName   string
		wantParams map[string]string
	}{
		{
			name:       "valid action",
			note:       `{"action":"printer.print","params":{"message":"hi"}}`,
			wantName:   "printer.print",
			wantParams: map[string]string{"message": "hi"},
		},
		{
			name:       "params default to empty",
			note:       `{"action":"nop"}`,
			wantName:   "nop",
			wantParams: map[string]string{},
		},
		{name: "plain text", note: "just a remark", wantNil: true},
		{name: "malformed json", note: `{"action": oops`, wantNil: true},
		{name: "missing action name", note: `{"params":{"a":"b"}}`, wantNil: true},
		{name: "empty note", note: "", wantNil: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			action := ParseAction(tc.note)
			if tc.wantNil {
				assert.Nil(t, action)
				return
			}
			if assert.NotNil(t, action) {
				assert.Equal(t, tc.wantName, action.Name)
				assert.Equal(t, tc.wantParams, action.Params)
			}
		})
	}
}
