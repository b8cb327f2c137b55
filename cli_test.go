package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
)

func TestSetRFLevelCmd_NegativeLevel(t *testing.T) {
	tests := []struct {
		args     []string
		synth    protocol.SynthID
		expected int32
	}{
		{[]string{"set-rf-level", "A", "--level=-4"}, protocol.SynthA, -4},
		{[]string{"set-rf-level", "--level=-1", "B"}, protocol.SynthB, -1},
		{[]string{"set-rf-level", "b", "--level", "5"}, protocol.SynthB, 5},
	}
	for _, test := range tests {
		parser, err := kong.New(&cli, kong.Name("govalon"))
		if err != nil {
			t.Fatal(err)
		}
		ctx, err := parser.Parse(test.args)
		if err != nil {
			t.Fatalf("%v: %v", test.args, err)
		}
		if ctx.Command() != "set-rf-level <synth>" {
			t.Fatalf("%v: unexpected command %q", test.args, ctx.Command())
		}
		if cli.SetRFLevel.Synth.ID() != test.synth {
			t.Fatalf("%v: expected synth %v, got %v", test.args, test.synth, cli.SetRFLevel.Synth.ID())
		}
		if cli.SetRFLevel.Level != test.expected {
			t.Fatalf("%v: expected level %d, got %d", test.args, test.expected, cli.SetRFLevel.Level)
		}
	}
}

func TestSetRFLevelCmd_LevelRequired(t *testing.T) {
	parser, err := kong.New(&cli, kong.Name("govalon"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parser.Parse([]string{"set-rf-level", "A"}); err == nil {
		t.Fatal("expected missing level error")
	}
}
