package wire

import (
	"errors"
	"strings"
	"testing"
)

func TestRequestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		req  ForwardRequest
	}{
		{
			name: "player targeted",
			req: ForwardRequest{
				TargetServer:     "lobby",
				Command:          "say hi",
				ExecutorName:     "Steve",
				ExecutorUUID:     "069a79f4-44e9-4726-a5be-fca90e38aaf5",
				ExecuteAsConsole: false,
			},
		},
		{
			name: "console broadcast",
			req: ForwardRequest{
				TargetServer:     "all",
				Command:          "save-all",
				ExecutorName:     "CONSOLE",
				ExecutorUUID:     "CONSOLE",
				ExecuteAsConsole: true,
			},
		},
		{
			name: "empty strings",
			req:  ForwardRequest{},
		},
		{
			name: "multi-byte utf8",
			req: ForwardRequest{
				TargetServer:     "生存服",
				Command:          "tell Ångström héllo ✓",
				ExecutorName:     "Ωmega",
				ExecutorUUID:     "069a79f4-44e9-4726-a5be-fca90e38aaf5",
				ExecuteAsConsole: false,
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := EncodeRequest(tc.req)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := DecodeRequest(payload)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tc.req {
				t.Fatalf("round trip mismatch: got=%+v want=%+v", got, tc.req)
			}
		})
	}
}

func TestRelayRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		msg  RelayMessage
	}{
		{
			name: "player",
			msg: RelayMessage{
				Command:      "say hi",
				ExecutorName: "Steve",
				ExecutorUUID: "069a79f4-44e9-4726-a5be-fca90e38aaf5",
			},
		},
		{
			name: "console",
			msg: RelayMessage{
				Command:          "save-all",
				ExecutorName:     "CONSOLE",
				ExecutorUUID:     "CONSOLE",
				ExecuteAsConsole: true,
			},
		},
		{
			name: "empty strings",
			msg:  RelayMessage{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := EncodeRelay(tc.msg)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := DecodeRelay(payload)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tc.msg {
				t.Fatalf("round trip mismatch: got=%+v want=%+v", got, tc.msg)
			}
		})
	}
}

func TestDecodeRequestEveryStrictPrefixFails(t *testing.T) {
	payload, err := EncodeRequest(ForwardRequest{
		TargetServer:     "lobby",
		Command:          "say hi",
		ExecutorName:     "Steve",
		ExecutorUUID:     "069a79f4-44e9-4726-a5be-fca90e38aaf5",
		ExecuteAsConsole: true,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for n := 0; n < len(payload); n++ {
		if _, err := DecodeRequest(payload[:n]); !errors.Is(err, ErrMalformed) {
			t.Fatalf("prefix length %d: expected ErrMalformed, got %v", n, err)
		}
	}
}

func TestDecodeRelayEveryStrictPrefixFails(t *testing.T) {
	payload, err := EncodeRelay(RelayMessage{
		Command:      "save-all",
		ExecutorName: "CONSOLE",
		ExecutorUUID: "CONSOLE",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for n := 0; n < len(payload); n++ {
		if _, err := DecodeRelay(payload[:n]); !errors.Is(err, ErrMalformed) {
			t.Fatalf("prefix length %d: expected ErrMalformed, got %v", n, err)
		}
	}
}

func TestDecodeRejectsBadPayloads(t *testing.T) {
	valid, err := EncodeRequest(ForwardRequest{TargetServer: "lobby", Command: "say hi"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	cases := []struct {
		name    string
		payload []byte
	}{
		{name: "empty", payload: nil},
		{name: "prefix overruns buffer", payload: []byte{0xff, 0xff, 'a'}},
		{name: "invalid bool byte", payload: flipLastByte(valid, 0x02)},
		{name: "trailing garbage", payload: append(append([]byte{}, valid...), 0x00)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeRequest(tc.payload); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func flipLastByte(payload []byte, b byte) []byte {
	out := append([]byte{}, payload...)
	out[len(out)-1] = b
	return out
}

func TestEncodeOverflowsOnOversizedString(t *testing.T) {
	long := strings.Repeat("x", MaxStringBytes+1)
	if _, err := EncodeRequest(ForwardRequest{Command: long}); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	if _, err := EncodeRelay(RelayMessage{Command: long}); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestEncodeRequestFieldOrderIsStable(t *testing.T) {
	payload, err := EncodeRequest(ForwardRequest{
		TargetServer: "a",
		Command:      "b",
		ExecutorName: "c",
		ExecutorUUID: "d",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{
		0x00, 0x01, 'a',
		0x00, 0x01, 'b',
		0x00, 0x01, 'c',
		0x00, 0x01, 'd',
		0x00,
	}
	if len(payload) != len(want) {
		t.Fatalf("payload length: got=%d want=%d", len(payload), len(want))
	}
	for i := range want {
		if payload[i] != want[i] {
			t.Fatalf("byte %d: got=0x%02x want=0x%02x", i, payload[i], want[i])
		}
	}
}
