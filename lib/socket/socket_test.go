// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package socket

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fiatbridge/dealer/lib/codec"
	"github.com/fiatbridge/dealer/lib/schema/dealer"
	"github.com/fiatbridge/dealer/lib/testutil"
)

func newTestContext(t *testing.T) Context {
	t.Helper()
	ctx := NewContext(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(ctx.Close)
	return ctx
}

func closeOnCleanup(t *testing.T, s *Socket) *Socket {
	t.Helper()
	t.Cleanup(func() { s.Close() })
	return s
}

// receiveWhilePublishing republishes message until the subscriber's
// receive goroutine delivers something. Subscriptions propagate
// asynchronously, so the first publications may be dropped.
func receiveWhilePublishing(t *testing.T, publisher, subscriber *Socket, encoding codec.Encoding, messages ...dealer.Message) dealer.Envelope {
	t.Helper()

	received := make(chan dealer.Envelope, 1)
	failed := make(chan error, 1)
	go func() {
		var envelope dealer.Envelope
		if err := RecvEncoded(subscriber, encoding, &envelope); err != nil {
			failed <- err
			return
		}
		received <- envelope
	}()

	ticker := time.NewTicker(10 * time.Millisecond) //nolint:realclock subscription propagation
	defer ticker.Stop()
	deadline := time.After(5 * time.Second) //nolint:realclock test hang prevention
	for {
		select {
		case envelope := <-received:
			return envelope
		case err := <-failed:
			t.Fatalf("subscriber receive: %v", err)
		case <-ticker.C:
			for _, message := range messages {
				if err := SendEncoded(publisher, encoding, dealer.Wrap(message)); err != nil {
					t.Fatalf("publish: %v", err)
				}
			}
		case <-deadline:
			t.Fatal("timed out waiting for a publication")
		}
	}
}

func TestRoles(t *testing.T) {
	listening := map[Role]bool{
		Publisher: true, Subscriber: false,
		Push: false, Pull: true,
		Request: false, Response: true,
	}
	for role, want := range listening {
		if role.Listens() != want {
			t.Errorf("%s.Listens() = %v, want %v", role, role.Listens(), want)
		}
	}
}

func TestPublishSubscribe(t *testing.T) {
	ctx := newTestContext(t)
	address := testutil.InprocAddress("health")

	publisher := closeOnCleanup(t, Must(ctx.Publisher(address)))
	subscriber := closeOnCleanup(t, Must(ctx.Subscriber(address, nil)))

	if publisher.Role() != Publisher || publisher.Address() != address {
		t.Errorf("publisher reports %s %s", publisher.Role(), publisher.Address())
	}

	health := dealer.DealerHealth{Status: dealer.Running, AvailableCurrencies: nil, Timestamp: 1_700_000_000}
	envelope := receiveWhilePublishing(t, publisher, subscriber, codec.Text, health)

	got, ok := envelope.Message.(dealer.DealerHealth)
	if !ok {
		t.Fatalf("received %T, want DealerHealth", envelope.Message)
	}
	if got.Status != dealer.Running || got.Timestamp != 1_700_000_000 {
		t.Errorf("received %+v", got)
	}
	if got.AvailableCurrencies == nil || len(got.AvailableCurrencies) != 0 {
		t.Errorf("nil currency list arrived as %#v, want empty", got.AvailableCurrencies)
	}
}

func TestSubscriberTopicFilter(t *testing.T) {
	ctx := newTestContext(t)
	address := testutil.InprocAddress("filtered")

	publisher := closeOnCleanup(t, Must(ctx.Publisher(address)))
	// The text envelope of a Health message starts with its tag.
	subscriber := closeOnCleanup(t, Must(ctx.Subscriber(address, []byte(`{"Health"`))))

	karma := dealer.KarmaBalance{Karma: decimal.NewFromInt(12)}
	health := dealer.DealerHealth{Status: dealer.Down, Timestamp: 1}
	envelope := receiveWhilePublishing(t, publisher, subscriber, codec.Text, karma, health)

	if envelope.Message.Kind() != dealer.KindHealth {
		t.Errorf("topic filter let %s through", envelope.Message.Kind())
	}
}

func TestRequestResponse(t *testing.T) {
	ctx := newTestContext(t)
	address := testutil.InprocAddress("bank-state")

	response := closeOnCleanup(t, Must(ctx.Response(address)))
	request := closeOnCleanup(t, Must(ctx.Request(address)))

	served := make(chan error, 1)
	go func() {
		var envelope dealer.Envelope
		if err := RecvEncoded(response, codec.Compact, &envelope); err != nil {
			served <- err
			return
		}
		asked, ok := envelope.Message.(dealer.BankStateRequest)
		if !ok {
			served <- errors.New("not a bank state request")
			return
		}
		amount := uint64(1_000)
		reply := asked.Respond(dealer.BankStateResponse{UID: 3, Amount: &amount, Currency: "USD"})
		served <- SendCompact(response, dealer.Wrap(reply))
	}()

	if err := SendCompact(request, dealer.Wrap(dealer.BankStateRequest{ReqID: 7})); err != nil {
		t.Fatalf("send request: %v", err)
	}
	var reply dealer.Envelope
	if err := RecvEncoded(request, codec.Compact, &reply); err != nil {
		t.Fatalf("receive reply: %v", err)
	}
	if err := testutil.RequireReceive(t, served, 5*time.Second, "responder finished"); err != nil {
		t.Fatalf("responder: %v", err)
	}

	got, ok := reply.Message.(dealer.BankStateResponse)
	if !ok {
		t.Fatalf("reply is %T", reply.Message)
	}
	if got.ReqID != 7 || got.Amount == nil || *got.Amount != 1_000 {
		t.Errorf("reply = %+v", got)
	}
}

func TestFramedPushPull(t *testing.T) {
	ctx := newTestContext(t)
	address := testutil.InprocAddress("invoices")

	pull := closeOnCleanup(t, Must(ctx.Pull(address)))
	push := closeOnCleanup(t, Must(ctx.Push(address)))

	message := dealer.PayInvoice{ReqID: 11, PaymentRequest: "lnbc10u1p3"}
	if err := SendFramedCompact(push, dealer.Wrap(message)); err != nil {
		t.Fatalf("send: %v", err)
	}

	frames, err := pull.Recv()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	if len(frames[0]) != 0 || len(frames[1]) != 0 {
		t.Errorf("leading frames not empty: %q %q", frames[0], frames[1])
	}

	var envelope dealer.Envelope
	if err := codec.Decode(codec.Compact, frames[2], &envelope); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got, ok := envelope.Message.(dealer.PayInvoice); !ok || got.ReqID != 11 || got.PaymentRequest != "lnbc10u1p3" {
		t.Errorf("payload = %#v", envelope.Message)
	}

	if err := SendFramedCompact(push, dealer.Wrap(message)); err != nil {
		t.Fatalf("send: %v", err)
	}
	var roundtrip dealer.Envelope
	if err := RecvFramedCompact(pull, &roundtrip); err != nil {
		t.Fatalf("RecvFramedCompact: %v", err)
	}
	if roundtrip.Message.Kind() != dealer.KindPayInvoice {
		t.Errorf("RecvFramedCompact decoded %s", roundtrip.Message.Kind())
	}
}

func TestRecvEncodedRejectsGarbage(t *testing.T) {
	ctx := newTestContext(t)
	address := testutil.InprocAddress("garbage")

	pull := closeOnCleanup(t, Must(ctx.Pull(address)))
	push := closeOnCleanup(t, Must(ctx.Push(address)))

	if err := push.Send([]byte("not json")); err != nil {
		t.Fatalf("send: %v", err)
	}
	var envelope dealer.Envelope
	if err := RecvEncoded(pull, codec.Text, &envelope); !errors.Is(err, codec.ErrMalformed) {
		t.Errorf("RecvEncoded error = %v, want ErrMalformed", err)
	}

	if err := push.Send([]byte("a"), []byte("b")); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := RecvEncoded(pull, codec.Text, &envelope); !errors.Is(err, codec.ErrMalformed) {
		t.Errorf("RecvEncoded of two frames = %v, want ErrMalformed", err)
	}
}

func TestSetupErrors(t *testing.T) {
	ctx := newTestContext(t)

	_, err := ctx.Publisher("bogus://nowhere")
	var setup *SetupError
	if !errors.As(err, &setup) {
		t.Fatalf("Publisher(bogus) error = %v, want *SetupError", err)
	}
	if setup.Role != Publisher || setup.Address != "bogus://nowhere" || setup.Step != "bind" {
		t.Errorf("SetupError = %+v", setup)
	}
	if !strings.Contains(setup.Error(), "bogus://nowhere") {
		t.Errorf("message %q does not name the address", setup.Error())
	}

	_, err = ctx.Request("bogus://nowhere")
	if !errors.As(err, &setup) || setup.Step != "connect" {
		t.Errorf("Request(bogus) error = %v, want connect SetupError", err)
	}
}

func TestClosedContext(t *testing.T) {
	ctx := NewContext(nil)
	ctx.Close()

	_, err := ctx.Pull(testutil.InprocAddress("closed"))
	if !errors.Is(err, ErrContextClosed) {
		t.Errorf("Pull on closed context = %v, want ErrContextClosed", err)
	}

	var zero Context
	if _, err := zero.Push("inproc://zero"); !errors.Is(err, ErrContextClosed) {
		t.Errorf("Push on zero context = %v, want ErrContextClosed", err)
	}
}

func TestMustPanicsOnSetupError(t *testing.T) {
	defer func() {
		recovered := recover()
		if _, ok := recovered.(*SetupError); !ok {
			t.Errorf("Must panicked with %v, want *SetupError", recovered)
		}
	}()
	var zero Context
	Must(zero.Publisher("inproc://never"))
	t.Fatal("Must did not panic")
}

func TestSendPanicsOnUnencodableValue(t *testing.T) {
	ctx := newTestContext(t)
	address := testutil.InprocAddress("defect")
	closeOnCleanup(t, Must(ctx.Pull(address)))
	push := closeOnCleanup(t, Must(ctx.Push(address)))

	defer func() {
		recovered := recover()
		message, ok := recovered.(string)
		if !ok || !strings.Contains(message, "chan int") {
			t.Errorf("recovered %v, want a diagnostic naming the type", recovered)
		}
	}()
	SendText(push, make(chan int))
	t.Fatal("SendText did not panic")
}

func TestTransmitErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&TransmitError{Role: Push, Address: "tcp://ledger:5561", Op: "send", Err: cause})
	if !errors.Is(err, cause) {
		t.Error("TransmitError does not unwrap to its cause")
	}
	if err.Error() != "push socket tcp://ledger:5561: send: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestSendsHaveNoPracticalTimeout(t *testing.T) {
	const century = 100 * 365 * 24 * time.Hour
	if sendTimeout < century {
		t.Errorf("sendTimeout = %s, want at least %s", sendTimeout, century)
	}
	// The deadline derived from the bound must not overflow into the past.
	if deadline := time.Now().Add(sendTimeout); !deadline.After(time.Now()) {
		t.Errorf("deadline %s is not in the future", deadline)
	}
}

func TestCloseUnblocksReceive(t *testing.T) {
	ctx := newTestContext(t)
	pull := Must(ctx.Pull(testutil.InprocAddress("idle")))

	received := make(chan error, 1)
	go func() {
		_, err := pull.Recv()
		received <- err
	}()

	pull.Close()
	err := testutil.RequireReceive(t, received, 5*time.Second, "receive released by Close")
	var transmit *TransmitError
	if !errors.As(err, &transmit) || transmit.Op != "receive" {
		t.Errorf("Recv after Close = %v, want receive TransmitError", err)
	}
}
