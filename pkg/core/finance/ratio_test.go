package finance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRatioJSON(t *testing.T) {
	type wrapper struct {
		DSCR Ratio `json:"dscr"`
	}

	out, err := json.Marshal(wrapper{DSCR: Defined(dec("1.0562"))})
	require.NoError(t, err)
	require.JSONEq(t, `{"dscr":"1.0562"}`, string(out))

	// Undefined serializes as null, not zero: a reader must be able to
	// tell "no debt service" from "exactly break-even".
	out, err = json.Marshal(wrapper{DSCR: NotApplicable()})
	require.NoError(t, err)
	require.JSONEq(t, `{"dscr":null}`, string(out))

	var back wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"dscr":null}`), &back))
	require.False(t, back.DSCR.IsDefined())

	require.NoError(t, json.Unmarshal([]byte(`{"dscr":"1.45"}`), &back))
	v, ok := back.DSCR.Value()
	require.True(t, ok)
	require.Equal(t, "1.45", v.String())
}

func TestRatioString(t *testing.T) {
	require.Equal(t, "n/a", NotApplicable().String())
	require.Equal(t, "0.0675", Defined(dec("0.0675")).String())
}
