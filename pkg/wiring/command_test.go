package wiring_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/wiring"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		raw  string
		want wiring.Command
	}{
		{"add", wiring.Command{Intent: wiring.IntentAdd, Row: -1}},
		{" reset ", wiring.Command{Intent: wiring.IntentReset, Row: -1}},
		{"del=2", wiring.Command{Intent: wiring.IntentDelete, Row: 2}},
		{"DELETE= 0", wiring.Command{Intent: wiring.IntentDelete, Row: 0}},
	}
	for _, tc := range cases {
		got, err := wiring.ParseCommand(tc.raw)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.raw, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%q mismatch (-want +got):\n%s", tc.raw, diff)
		}
	}

	for _, bad := range []string{"", "del", "del=x", "add=1", "explode"} {
		if _, err := wiring.ParseCommand(bad); !errors.Is(err, wiring.ErrInvalidCommand) {
			t.Errorf("%q: expected ErrInvalidCommand, got %v", bad, err)
		}
	}
}

func TestApplyCommands(t *testing.T) {
	_, router := setup(t)
	ctrl := router.Controllers()[0]

	cmds, err := wiring.ParseCommands([]string{"add", "add", "del=0", "del=9", "reset"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var got []string
	for _, cmd := range cmds {
		m, err := wiring.Apply(ctrl, cmd)
		if err != nil {
			t.Fatalf("apply %s: %v", cmd, err)
		}
		got = append(got, cmd.String()+":"+m.Reason)
	}
	want := []string{
		"add:",
		"add:" + clonebox.ReasonLimitReached,
		"del=0:",
		"del=9:" + clonebox.ReasonNoTarget,
		"reset:",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}

	if _, err := wiring.Apply(ctrl, wiring.Command{}); !errors.Is(err, wiring.ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand for empty command, got %v", err)
	}
}
