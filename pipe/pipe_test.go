// SPDX-License-Identifier: EPL-2.0

package pipe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func TestConsume_EmptyReturnsZeroBytes(t *testing.T) {
	t.Parallel()

	p := New(16)
	got := p.Consume(8)
	if len(got) != 0 {
		t.Fatalf("Consume(8) on empty pipe = %d bytes, want 0", len(got))
	}
	if p.Available() != 0 {
		t.Errorf("Available() = %d, want 0", p.Available())
	}
}

func TestConsume_ShortRead(t *testing.T) {
	t.Parallel()

	p := New(16)
	if err := p.Produce([]byte("hello")); err != nil {
		t.Fatalf("Produce() error = %v", err)
	}

	got := p.Consume(10)
	if string(got) != "hello" {
		t.Errorf("Consume(10) = %q, want %q", got, "hello")
	}
	if p.Available() != 0 {
		t.Errorf("Available() = %d, want 0", p.Available())
	}
}

func TestConsume_NeverMoreThanRequested(t *testing.T) {
	t.Parallel()

	p := New(16)
	_ = p.Produce([]byte("abcdef"))

	if got := p.Consume(2); string(got) != "ab" {
		t.Errorf("Consume(2) = %q, want %q", got, "ab")
	}
	if p.Available() != 4 {
		t.Errorf("Available() = %d, want 4", p.Available())
	}
	if got := p.Consume(-1); len(got) != 0 {
		t.Errorf("Consume(-1) = %q, want empty", got)
	}
}

func TestProduce_WrapAround(t *testing.T) {
	t.Parallel()

	p := New(8)
	_ = p.Produce([]byte("123456"))
	_ = p.Consume(4)
	_ = p.Produce([]byte("abcdef")) // wraps past the end of the ring

	got := p.Consume(8)
	if string(got) != "56abcdef" {
		t.Errorf("Consume() = %q, want %q", got, "56abcdef")
	}
}

func TestProduce_BlocksUntilConsumed(t *testing.T) {
	t.Parallel()

	p := New(4)
	data := []byte("0123456789")

	done := make(chan error, 1)
	go func() {
		done <- p.Produce(data)
	}()

	// The producer fills the pipe and must then wait for space.
	deadline := time.Now().Add(2 * time.Second)
	for p.Available() < p.Cap() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	select {
	case err := <-done:
		t.Fatalf("Produce() returned early with %v; expected it to block", err)
	case <-time.After(20 * time.Millisecond):
	}

	var got []byte
	for len(got) < len(data) && time.Now().Before(deadline) {
		got = append(got, p.Consume(3)...)
		time.Sleep(time.Millisecond)
	}

	if err := <-done; err != nil {
		t.Fatalf("Produce() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("consumed %q, want %q", got, data)
	}
}

func TestProduceContext_Cancelled(t *testing.T) {
	t.Parallel()

	p := New(2)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- p.ProduceContext(ctx, []byte("abcd"))
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("ProduceContext() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ProduceContext() did not return after cancel")
	}
	if p.Available() != 0 {
		t.Errorf("Available() = %d, want the partial write withdrawn", p.Available())
	}
}

func TestProduceContext_CancelKeepsEarlierWrites(t *testing.T) {
	t.Parallel()

	p := New(4)
	if err := p.Produce([]byte("ab")); err != nil {
		t.Fatalf("Produce() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.ProduceContext(ctx, []byte("cdefgh"))
	}()

	// The oversized write streams "cd" in, then waits for room.
	deadline := time.Now().Add(2 * time.Second)
	for p.Available() < p.Cap() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := string(p.Consume(1)); got != "a" {
		t.Fatalf("Consume(1) = %q, want %q", got, "a")
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("ProduceContext() error = %v, want context.Canceled", err)
	}
	if got := string(p.Consume(8)); got != "b" {
		t.Errorf("left in pipe %q, want only the earlier %q", got, "b")
	}
}

func TestProduce_FittingWriteIsQueuedWhole(t *testing.T) {
	t.Parallel()

	p := New(8)
	if err := p.Produce([]byte("12345")); err != nil {
		t.Fatalf("Produce() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- p.Produce([]byte("abcdef"))
	}()

	// Three free bytes are not enough for six; nothing of it may show up.
	time.Sleep(20 * time.Millisecond)
	if got := p.Available(); got != 5 {
		t.Fatalf("Available() = %d while waiting for room, want 5", got)
	}

	if got := string(p.Consume(3)); got != "123" {
		t.Fatalf("Consume(3) = %q, want %q", got, "123")
	}
	if err := <-done; err != nil {
		t.Fatalf("Produce() error = %v", err)
	}
	if got := string(p.Consume(8)); got != "45abcdef" {
		t.Errorf("Consume(8) = %q, want %q", got, "45abcdef")
	}
}

func TestClose_UnblocksProducer(t *testing.T) {
	t.Parallel()

	p := New(1)
	done := make(chan error, 1)
	go func() {
		done <- p.Produce([]byte("xyz"))
	}()

	time.Sleep(10 * time.Millisecond)
	_ = p.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("Produce() error = %v, want ErrClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Produce() did not return after Close")
	}
	if p.Available() != 0 {
		t.Errorf("Available() = %d, want the blocked write withdrawn", p.Available())
	}
}

func TestRead_DrainsThenEOF(t *testing.T) {
	t.Parallel()

	p := New(1024)
	want := bytes.Repeat([]byte{0xab}, 3000)

	go func() {
		_ = p.Produce(want)
		_ = p.Close()
	}()

	got, err := io.ReadAll(p)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("ReadAll() returned %d bytes, want %d", len(got), len(want))
	}
}
