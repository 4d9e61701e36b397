package contract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	cases := []struct {
		in   Username
		want Username
		ok   bool
	}{
		{"alice", "alice", true},
		{"  Alice  ", "alice", true},
		{"a.b-c_9", "a.b-c_9", true},
		{"", "", false},
		{"   ", "", false},
		{"has space", "", false},
		{"Ünicode", "", false},
		{Username(strings.Repeat("a", 65)), "", false},
		{Username(strings.Repeat("a", 64)), Username(strings.Repeat("a", 64)), true},
	}
	for _, tc := range cases {
		got, err := NormalizeUsername(tc.in)
		if tc.ok {
			require.NoError(t, err, "input %q", tc.in)
			require.Equal(t, tc.want, got)
		} else {
			require.ErrorIs(t, err, ErrInvalidName, "input %q", tc.in)
		}
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint(5, []byte("hello"))
	require.Equal(t, a, Fingerprint(5, []byte("hello")), "fingerprint must be deterministic")
	require.NotEqual(t, a, Fingerprint(6, []byte("hello")), "height feeds the fingerprint")
	require.NotEqual(t, a, Fingerprint(5, []byte("hellp")), "content feeds the fingerprint")
}

func TestHashTextRoundtrip(t *testing.T) {
	h := Fingerprint(1, []byte("payload"))

	text, err := h.MarshalText()
	require.NoError(t, err)
	require.Len(t, text, 64)

	var decoded Hash
	require.NoError(t, decoded.UnmarshalText(text))
	require.Equal(t, h, decoded)

	require.Error(t, decoded.UnmarshalText([]byte("zz")))
	require.Error(t, decoded.UnmarshalText([]byte("abcd")))
}

func TestMessageKindMarshalling(t *testing.T) {
	for _, k := range []MessageKind{KindText, KindEmail, KindReplyTo, KindJSON, KindCustom} {
		text, err := k.MarshalText()
		require.NoError(t, err)

		var decoded MessageKind
		require.NoError(t, decoded.UnmarshalText(text))
		require.Equal(t, k, decoded)
	}

	var k MessageKind
	require.Error(t, k.UnmarshalText([]byte("pigeon")))
	_, err := MessageKind(99).MarshalText()
	require.Error(t, err)
}

func TestMessageJSONShape(t *testing.T) {
	m := Message{
		From:      "alice",
		Type:      MessageType{Kind: KindEmail, Subject: "hi"},
		Content:   []byte("body"),
		Hash:      Fingerprint(3, []byte("body")),
		Timestamp: 1700000000,
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.Contains(t, string(data), `"kind":"email"`)
	require.Contains(t, string(data), `"subject":"hi"`)
	require.NotContains(t, string(data), "reply_to", "unused variant fields stay off the wire")

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, m, decoded)
}
