// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package notestore

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNote_EncodeDecodeRoundTrip(t *testing.T) {
	cases := []Note{
		{Side: SideCenter, Type: TypeTap, Time: 100, Width: 1, Position: 2.5, ID: "AAAAAAAAA"},
		{Side: SideLeft, Type: TypeHold, Time: 1000, Width: 2, Position: 1, LastTime: 500, ID: "HHHHHHHHH", SubID: "SSSSSSSSS"},
		{Side: SideRight, Type: TypeSub, Time: 1500, BeginTime: 1000, ID: "SSSSSSSSS", SubID: "HHHHHHHHH"},
		{ID: "EMPTYSUB0", SubID: ""},
	}

	for _, n := range cases {
		buf := Encode(n)
		got, err := Decode(buf)
		require.NoError(t, err)
		if diff := cmp.Diff(n, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestNote_DecodeTruncatedIsError(t *testing.T) {
	n := Note{ID: "AAAAAAAAA", SubID: "BBBBBBBBB"}
	buf := Encode(n)
	_, err := Decode(buf[:len(buf)-3])
	require.Error(t, err)
}
