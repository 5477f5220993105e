/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package session

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/gurre/prime-quote-engine/codec"
)

func TestSession_RunForwardsWholeFrames(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	sess := &Session{conn: client, Frames: make(chan string), Errs: make(chan error, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sess.Run(ctx)

	b := codec.NewBuilder()
	heartbeat := b.Heartbeat(codec.Session{SenderCompID: "S", TargetCompID: "T"}, 1)

	go func() {
		server.Write([]byte(heartbeat))
	}()

	select {
	case frame := <-sess.Frames:
		if frame != heartbeat {
			t.Errorf("frame = %q, want %q", frame, heartbeat)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestReadFrame_RejectsBadBeginString(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go func() {
		server.Write([]byte("X=FIX.4.4\x01"))
	}()

	r := bufio.NewReader(client)
	if _, err := readFrame(r); err == nil {
		t.Error("expected an error for a message not starting with BeginString")
	}
}

func TestSession_SendWritesRawBytes(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	sess := &Session{conn: client}
	done := make(chan struct{})
	var got []byte
	go func() {
		buf := make([]byte, 64)
		n, _ := server.Read(buf)
		got = buf[:n]
		close(done)
	}()

	if err := sess.Send("8=FIX.4.4\x01"); err != nil {
		t.Fatalf("send error: %v", err)
	}
	<-done
	if string(got) != "8=FIX.4.4\x01" {
		t.Errorf("server received %q", got)
	}
}
