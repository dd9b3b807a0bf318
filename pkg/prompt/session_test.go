package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/dom"
)

type stubDriver struct {
	inputs     []string
	selectIdx  []int
	confirm    []bool
	info       []string
	inputPos   int
	selectPos  int
	confirmPos int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, ErrAborted
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

const box = `<div id="box">
  <div data-clone="row">
    <label for="item-0">Item</label>
    <input type="text" id="item-0" name="item[0]" value="">
    <input type="checkbox" id="done-0" name="done[0]" value="1">
    <button type="button" data-clone-btn="add">+</button>
    <button type="button" data-clone-btn="del">-</button>
  </div>
  <button type="button" data-clone-btn="reset">reset</button>
</div>`

func newController(t *testing.T, limit int) *clonebox.Controller {
	t.Helper()
	doc, err := dom.ParseString(box)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := clonebox.DefaultConfig()
	cfg.Limit = limit
	ctrl, err := clonebox.New(dom.MustCompile("#box").First(doc), cfg)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return ctrl
}

func TestSession_AddEditDelete(t *testing.T) {
	ctrl := newController(t, 3)
	driver := &stubDriver{
		selectIdx: []int{
			int(ActionAdd),
			int(ActionEdit), 1, 0, // row 1, field item[1]
			int(ActionEdit), 1, 1, // row 1, field done[1]
			int(ActionDelete), 0, // delete row 0
			int(ActionDone),
		},
		inputs:  []string{"second"},
		confirm: []bool{true},
	}
	session, err := NewSession(ctrl, WithDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	rows := ctrl.Rows()
	if rows.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", rows.Len())
	}
	got := describeRow(rows.First())
	want := `item[0]="second" done[0]="true"`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
	if len(driver.info) != 2 || !strings.HasPrefix(driver.info[0], "add: 1 -> 2") {
		t.Fatalf("unexpected reports: %v", driver.info)
	}
}

func TestSession_ResetNeedsConfirmation(t *testing.T) {
	ctrl := newController(t, 5)
	ctrl.Add()
	ctrl.Add()

	driver := &stubDriver{
		selectIdx: []int{int(ActionReset), int(ActionReset), int(ActionDone)},
		confirm:   []bool{false, true},
	}
	session, err := NewSession(ctrl, WithDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if ctrl.Rows().Len() != 1 {
		t.Fatalf("expected reset to one row, got %d", ctrl.Rows().Len())
	}
	if len(driver.info) != 1 {
		t.Fatalf("expected a single report, got %v", driver.info)
	}
}

func TestSession_LimitReportedAndShow(t *testing.T) {
	ctrl := newController(t, 1)
	driver := &stubDriver{
		selectIdx: []int{int(ActionAdd), int(ActionShow), int(ActionDone)},
	}
	session, err := NewSession(ctrl, WithDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(driver.info) != 2 {
		t.Fatalf("expected two messages, got %v", driver.info)
	}
	if !strings.Contains(driver.info[0], clonebox.ReasonLimitReached) {
		t.Fatalf("limit not reported: %q", driver.info[0])
	}
	if !strings.Contains(driver.info[1], `data-clone="row"`) {
		t.Fatalf("markup not shown: %q", driver.info[1])
	}
}

func TestSession_Abort(t *testing.T) {
	session, err := NewSession(newController(t, 2), WithDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	err = session.Run(context.Background())
	if !IsAbort(err) {
		t.Fatalf("expected abort, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := session.Run(ctx); !IsAbort(err) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestNewSession_RequiresController(t *testing.T) {
	if _, err := NewSession(nil); !errors.Is(err, ErrNoController) {
		t.Fatalf("expected ErrNoController, got %v", err)
	}
}
