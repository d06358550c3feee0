package envelope

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type segResult struct {
	Texts []string   `json:"texts"`
	CWS   [][]string `json:"cws"`
}

func TestSuccessAndFailure(t *testing.T) {
	ok := Success([]string{"a"})
	assert.Equal(t, CodeSuccess, ok.Code)
	assert.Equal(t, TypeSuccess, ok.Type)
	assert.Equal(t, MessageOK, ok.Message)
	assert.True(t, ok.OK())

	empty := Success(nil)
	assert.Equal(t, "", empty.Result)

	fail := Failure()
	assert.Equal(t, CodeFailure, fail.Code)
	assert.Equal(t, TypeError, fail.Type)
	assert.Equal(t, MessageFailed, fail.Message)
	assert.Equal(t, "", fail.Result)
	assert.False(t, fail.OK())
}

func TestFailureJSONShape(t *testing.T) {
	data, err := Marshal(JSON, Failure())
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":-1,"result":"","message":"Request failed","type":"error"}`, string(data))
}

func TestNegotiate(t *testing.T) {
	testCases := []struct {
		accept string
		want   Format
	}{
		{"", JSON},
		{"*/*", JSON},
		{"application/json", JSON},
		{"application/msgpack", MsgPack},
		{"application/x-msgpack", MsgPack},
		{"text/html, application/msgpack;q=0.9", MsgPack},
		{"Application/MsgPack", MsgPack},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Negotiate(tc.accept), "accept %q", tc.accept)
	}
	assert.Equal(t, MIMEMsgPack, MsgPack.ContentType())
	assert.Equal(t, MIMEJSON, JSON.ContentType())
}

func TestDecodeInto(t *testing.T) {
	want := segResult{Texts: []string{"北京欢迎你"}, CWS: [][]string{{"北京", "欢迎", "你"}}}

	for _, f := range []Format{JSON, MsgPack} {
		t.Run(f.String(), func(t *testing.T) {
			data, err := Marshal(f, Success(want))
			require.NoError(t, err)

			raw, err := Decode(f, data)
			require.NoError(t, err)
			assert.True(t, raw.OK())
			assert.Equal(t, MessageOK, raw.Message)

			var got segResult
			require.NoError(t, raw.Into(&got))
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeFailureEnvelope(t *testing.T) {
	for _, f := range []Format{JSON, MsgPack} {
		data, err := Marshal(f, Failure())
		require.NoError(t, err)

		raw, err := Decode(f, data)
		require.NoError(t, err)
		assert.False(t, raw.OK())
		assert.Equal(t, CodeFailure, raw.Code)
		assert.Equal(t, TypeError, raw.Type)
	}
}

func TestMsgPackUsesJSONFieldNames(t *testing.T) {
	data, err := Marshal(MsgPack, Success(segResult{Texts: []string{}, CWS: [][]string{}}))
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, Unmarshal(MsgPack, data, &generic))
	assert.Contains(t, generic, "code")
	assert.Contains(t, generic, "type")
	result, ok := generic["result"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, result, "texts")
	assert.Contains(t, result, "cws")
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(JSON, []byte("{not json"))
	assert.Error(t, err)

	var v json.RawMessage
	raw := &Raw{format: JSON}
	assert.Error(t, raw.Into(&v))
}
