package notify

import (
	"errors"
	"strings"
	"testing"
)

type sent struct{ title, message string }

func capture(t *testing.T, err error) *[]sent {
	t.Helper()
	var got []sent
	orig := send
	send = func(title, message string) error {
		got = append(got, sent{title, message})
		return err
	}
	t.Cleanup(func() { send = orig })
	return &got
}

func TestShow(t *testing.T) {
	got := capture(t, nil)
	n := New(true)

	n.Show("Ctrl+Alt+K", true)
	n.Show("Ctrl+J", false)

	want := []sent{
		{appName, "Ctrl+Alt+K was pressed!"},
		{appName, "Ctrl+J failed"},
	}
	if len(*got) != len(want) {
		t.Fatalf("sent %v, want %v", *got, want)
	}
	for i := range want {
		if (*got)[i] != want[i] {
			t.Errorf("sent[%d] = %+v, want %+v", i, (*got)[i], want[i])
		}
	}
}

func TestDisabledSendsNothing(t *testing.T) {
	got := capture(t, nil)
	n := New(false)
	n.Show("Ctrl+K", true)
	if len(*got) != 0 {
		t.Errorf("disabled notifier sent %v", *got)
	}
	n.SetEnabled(true)
	n.Show("Ctrl+K", true)
	if len(*got) != 1 {
		t.Errorf("enabled notifier sent %d notifications, want 1", len(*got))
	}
}

func TestLongMessageTruncated(t *testing.T) {
	got := capture(t, nil)
	New(true).Show(strings.Repeat("x", 150), true)
	if len(*got) != 1 {
		t.Fatalf("sent %d notifications", len(*got))
	}
	msg := (*got)[0].message
	if len(msg) != 103 || !strings.HasSuffix(msg, "...") {
		t.Errorf("message length %d (%q), want 100 chars plus ...", len(msg), msg)
	}
}

func TestSendErrorIgnored(t *testing.T) {
	capture(t, errors.New("no notification daemon"))
	New(true).Show("Ctrl+K", true)
}
