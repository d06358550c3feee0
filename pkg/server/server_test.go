package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bastiangx/nlpserve/pkg/config"
	"github.com/bastiangx/nlpserve/pkg/engine/lexicon"
	"github.com/bastiangx/nlpserve/pkg/envelope"
	"github.com/bastiangx/nlpserve/pkg/pipeline"
	"github.com/bastiangx/nlpserve/pkg/pipeline/pipelinetest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

const failureJSON = `{"code":-1,"result":"","message":"Request failed","type":"error"}`

func newServer(t *testing.T, adapter pipeline.Adapter, edit ...func(*config.Config)) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	for _, fn := range edit {
		fn(cfg)
	}
	require.NoError(t, cfg.Validate())
	s, err := New(cfg, adapter)
	require.NoError(t, err)
	return s
}

func newLexiconServer(t *testing.T, edit ...func(*config.Config)) *Server {
	t.Helper()
	e, err := lexicon.NewBuiltin(4)
	require.NoError(t, err)
	return newServer(t, e, edit...)
}

func do(t *testing.T, s *Server, method, path, body string, header ...string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, data
}

// result decodes a success envelope and returns its result.
func result(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var env struct {
		Code    int            `json:"code"`
		Result  map[string]any `json:"result"`
		Message string         `json:"message"`
		Type    string         `json:"type"`
	}
	require.NoError(t, json.Unmarshal(data, &env), string(data))
	require.Equal(t, 0, env.Code, string(data))
	require.Equal(t, "ok", env.Message)
	require.Equal(t, "success", env.Type)
	return env.Result
}

func TestSegReturnsOneListPerText(t *testing.T) {
	s := newLexiconServer(t)
	resp, data := do(t, s, "POST", "/seg", `{"texts":["北京欢迎你","他唱歌跳舞","李明在北京大学学习。"]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	res := result(t, data)
	assert.Len(t, res["texts"], 3)
	cws := res["cws"].([]any)
	require.Len(t, cws, 3)
	assert.Equal(t, []any{"北京", "欢迎", "你"}, cws[0])
	assert.NotContains(t, res, "pos")
}

func TestPOSRoute(t *testing.T) {
	s := newLexiconServer(t)
	_, data := do(t, s, "POST", "/pos", `{"texts":["北京欢迎你"]}`)
	assert.JSONEq(t, `{"code":0,"message":"ok","type":"success","result":{
		"texts":["北京欢迎你"],"cws":[["北京","欢迎","你"]],"pos":[["ns","v","r"]]}}`, string(data))
}

func TestSingleTaskRoutesCarryCWS(t *testing.T) {
	s := newLexiconServer(t)
	for _, task := range []string{"ner", "srl", "dep", "sdp", "sdpg"} {
		t.Run(task, func(t *testing.T) {
			_, data := do(t, s, "POST", "/"+task, `{"texts":["北京欢迎你","你好"]}`)
			res := result(t, data)
			assert.Len(t, res["cws"], 2)
			assert.Len(t, res[task], 2)
			assert.Len(t, res, 3)
		})
	}
}

func TestAllWithNoTexts(t *testing.T) {
	s := newLexiconServer(t)
	_, data := do(t, s, "POST", "/all", `{"texts":[]}`)
	assert.JSONEq(t, `{"code":0,"message":"ok","type":"success","result":{
		"texts":[],"all":{"cws":[],"pos":[],"ner":[],"srl":[],"dep":[],"sdp":[],"sdpg":[]}}}`, string(data))
}

func TestAllRunsEveryTask(t *testing.T) {
	fake := &pipelinetest.Fake{}
	s := newServer(t, fake)
	_, data := do(t, s, "POST", "/all", `{"texts":["a b"]}`)
	all := result(t, data)["all"].(map[string]any)
	for _, task := range pipeline.AllTasks {
		assert.Len(t, all[string(task)], 1, task)
	}
	require.Len(t, fake.Runs(), 1)
	assert.Equal(t, len(pipeline.AllTasks), fake.Runs()[0].Len())
}

func TestAdapterFailureIsGenericEnvelope(t *testing.T) {
	fake := &pipelinetest.Fake{
		RunErr:   errors.New("model exploded"),
		SplitErr: errors.New("splitter down"),
		AddErr:   errors.New("dictionary locked"),
	}
	s := newServer(t, fake)
	for _, tc := range []struct{ path, body string }{
		{"/seg", `{"texts":["a"]}`},
		{"/pos", `{"texts":["a"]}`},
		{"/all", `{"texts":["a"]}`},
		{"/sent_split", `{"texts":["a"]}`},
		{"/add_words", `{"words":["a"]}`},
	} {
		resp, data := do(t, s, "POST", tc.path, tc.body)
		assert.Equal(t, http.StatusOK, resp.StatusCode, tc.path)
		assert.JSONEq(t, failureJSON, string(data), tc.path)
		assert.NotContains(t, string(data), "exploded")
	}
}

func TestMalformedBodies(t *testing.T) {
	s := newServer(t, &pipelinetest.Fake{})
	testCases := []struct {
		name, path, body string
	}{
		{"missing texts", "/seg", `{}`},
		{"null texts", "/pos", `{"texts":null}`},
		{"texts not a list", "/ner", `{"texts":"北京"}`},
		{"non string text", "/dep", `{"texts":["a",1]}`},
		{"not json", "/all", `texts=a`},
		{"empty body", "/sent_split", ``},
		{"missing words", "/add_words", `{"max_window":4}`},
		{"bad window type", "/add_words", `{"words":["a"],"max_window":"big"}`},
		{"login garbage", "/basic-api/login", `{"username":`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, data := do(t, s, "POST", tc.path, tc.body)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, failureJSON, string(data))
		})
	}
}

func TestAddWordsThenSeg(t *testing.T) {
	s := newLexiconServer(t)
	_, data := do(t, s, "POST", "/seg", `{"texts":["北京欢迎你"]}`)
	assert.Equal(t, []any{[]any{"北京", "欢迎", "你"}}, result(t, data)["cws"])

	_, data = do(t, s, "POST", "/add_words", `{"words":["欢迎你"],"max_window":4}`)
	assert.JSONEq(t, `{"code":0,"message":"ok","type":"success","result":{"code":0}}`, string(data))

	_, data = do(t, s, "POST", "/seg", `{"texts":["北京欢迎你"]}`)
	assert.Equal(t, []any{[]any{"北京", "欢迎你"}}, result(t, data)["cws"])
}

func TestAddWordsWindow(t *testing.T) {
	fake := &pipelinetest.Fake{}
	s := newServer(t, fake, func(c *config.Config) { c.MaxWindow = 6 })

	_, data := do(t, s, "POST", "/add_words", `{"words":["甲乙"]}`)
	result(t, data)
	_, data = do(t, s, "POST", "/add_words", `{"words":["丙丁"],"max_window":9}`)
	result(t, data)
	assert.Equal(t, []int{6, 9}, fake.Windows())

	for _, w := range []string{"0", "-1"} {
		resp, data := do(t, s, "POST", "/add_words", `{"words":["戊"],"max_window":`+w+`}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, failureJSON, string(data))
	}
	assert.Equal(t, []string{"甲乙", "丙丁"}, fake.Added())
}

func TestSentSplit(t *testing.T) {
	s := newLexiconServer(t)
	_, data := do(t, s, "POST", "/sent_split", `{"texts":["你好。再见！"]}`)
	assert.JSONEq(t, `{"code":0,"message":"ok","type":"success","result":{
		"texts":["你好。再见！"],"res":[["你好。","再见！"]]}}`, string(data))
}

type panicAdapter struct {
	pipelinetest.Fake
}

func (p *panicAdapter) RunTasks(context.Context, []string, pipeline.TaskSet) (*pipeline.Results, error) {
	panic("index out of range")
}

type partialAdapter struct {
	pipelinetest.Fake
}

func (p *partialAdapter) RunTasks(_ context.Context, texts []string, _ pipeline.TaskSet) (*pipeline.Results, error) {
	res := pipeline.NewResults(pipeline.NewTaskSet(), len(texts))
	for range texts {
		res.CWS = append(res.CWS, []string{"x"})
	}
	return res, nil
}

func TestPanicsAndPartialResultsFail(t *testing.T) {
	for name, adapter := range map[string]pipeline.Adapter{
		"panic":   &panicAdapter{},
		"partial": &partialAdapter{},
	} {
		t.Run(name, func(t *testing.T) {
			s := newServer(t, adapter)
			resp, data := do(t, s, "POST", "/pos", `{"texts":["a"]}`)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, failureJSON, string(data))

			// the server keeps serving afterwards
			_, data = do(t, s, "GET", "/basic-api/getPermCode", "")
			assert.Contains(t, string(data), `"1000"`)
		})
	}
}

func TestLoginAndUserInfoAreIdentical(t *testing.T) {
	s := newServer(t, &pipelinetest.Fake{})

	_, first := do(t, s, "POST", "/basic-api/login", `{"username":"vben","password":"123456"}`)
	res := result(t, first)
	assert.Equal(t, "fakeToken1", res["token"])
	assert.Equal(t, "1", res["userId"])

	for i := 0; i < 3; i++ {
		_, again := do(t, s, "POST", "/basic-api/login", `{"username":"someone","password":"wrong"}`)
		assert.Equal(t, string(first), string(again))
		_, info := do(t, s, "GET", "/basic-api/getUserInfo?_t=1700000000", "")
		assert.Equal(t, string(first), string(info))
	}
}

func TestIdentityRoutes(t *testing.T) {
	s := newServer(t, &pipelinetest.Fake{})

	_, data := do(t, s, "GET", "/basic-api/logout", "")
	assert.JSONEq(t, `{"code":0,"result":"","message":"ok","type":"success"}`, string(data))

	_, data = do(t, s, "GET", "/basic-api/getPermCode", "")
	assert.JSONEq(t, `{"code":0,"result":["1000","3000","5000"],"message":"ok","type":"success"}`, string(data))

	_, data = do(t, s, "GET", "/basic-api/getMenuList", "")
	var env struct {
		Result []struct {
			Path     string `json:"path"`
			Children []any  `json:"children"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	require.Len(t, env.Result, 1)
	assert.Equal(t, "/dashboard", env.Result[0].Path)
	assert.Len(t, env.Result[0].Children, 2)

	resp, _ := do(t, s, "POST", "/basic-api/getMenuList", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMsgPackResponses(t *testing.T) {
	s := newLexiconServer(t)
	resp, data := do(t, s, "POST", "/pos", `{"texts":["北京欢迎你"]}`, "Accept", "application/msgpack")
	assert.Equal(t, envelope.MIMEMsgPack, resp.Header.Get("Content-Type"))

	env, err := envelope.Decode(envelope.MsgPack, data)
	require.NoError(t, err)
	assert.True(t, env.OK())
	var res TaskResult
	require.NoError(t, env.Into(&res))
	assert.Equal(t, []string{"北京欢迎你"}, res.Texts)
	assert.Equal(t, [][]string{{"ns", "v", "r"}}, res.POS)
	assert.Nil(t, res.NER)

	_, data = do(t, s, "POST", "/pos", `{"texts":null}`, "Accept", "application/msgpack")
	env, err = envelope.Decode(envelope.MsgPack, data)
	require.NoError(t, err)
	assert.Equal(t, envelope.CodeFailure, env.Code)
	assert.Equal(t, envelope.MessageFailed, env.Message)
}

func TestMsgPackRequestBody(t *testing.T) {
	s := newLexiconServer(t)
	body, err := envelope.Marshal(envelope.MsgPack, TextRequest{Texts: []string{"北京欢迎你"}})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/seg", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", envelope.MIMEMsgPack)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"北京", "欢迎", "你"}}, result(t, data)["cws"])
}

func TestLegacyStyle(t *testing.T) {
	s := newServer(t, &pipelinetest.Fake{RunErr: nil}, func(c *config.Config) {
		c.EnvelopeStyle = config.StyleLegacy
	})

	_, data := do(t, s, "POST", "/seg", `{"texts":["a b"]}`)
	assert.JSONEq(t, `{"status":0,"texts":["a b"],"res":[["a","b"]]}`, string(data))

	_, data = do(t, s, "POST", "/pos", `{"texts":["a b"]}`)
	assert.JSONEq(t, `{"status":0,"texts":["a b"],"res":[["n","n"]],"seg":[["a","b"]]}`, string(data))

	_, data = do(t, s, "POST", "/add_words", `{"words":["x"]}`)
	assert.JSONEq(t, `{"status":0}`, string(data))

	_, data = do(t, s, "POST", "/sent_split", `{"texts":["a"]}`)
	assert.JSONEq(t, `{"status":0,"texts":["a"],"res":[["a"]]}`, string(data))

	_, data = do(t, s, "POST", "/seg", `{}`)
	assert.JSONEq(t, `{"status":1,"texts":[],"res":[]}`, string(data))

	// identity routes keep the envelope
	_, data = do(t, s, "GET", "/basic-api/getPermCode", "")
	assert.JSONEq(t, `{"code":0,"result":["1000","3000","5000"],"message":"ok","type":"success"}`, string(data))
}

func TestLegacyFailureKeepsLayout(t *testing.T) {
	fake := &pipelinetest.Fake{RunErr: errors.New("engine down"), SplitErr: errors.New("engine down"), AddErr: errors.New("engine down")}
	s := newServer(t, fake, func(c *config.Config) {
		c.EnvelopeStyle = config.StyleLegacy
	})

	testCases := []struct {
		path string
		body string
		want string
	}{
		{"/sent_split", `{"texts":["你好。"]}`, `{"status":1,"texts":["你好。"],"res":[]}`},
		{"/add_words", `{"words":["x"]}`, `{"status":1}`},
		{"/seg", `{"texts":["北京欢迎你"]}`, `{"status":1,"texts":["北京欢迎你"],"res":[]}`},
		{"/pos", `{"texts":["a","b"]}`, `{"status":1,"texts":["a","b"],"res":[],"seg":[]}`},
		{"/sdpg", `{"texts":["a"]}`, `{"status":1,"texts":["a"],"res":[],"seg":[]}`},
		{"/all", `{"texts":["a"]}`, `{"status":1,"texts":["a"],"res":[],"seg":[],"all":{}}`},
		{"/ner", `{"texts":"a"}`, `{"status":1,"texts":[],"res":[],"seg":[]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			resp, data := do(t, s, "POST", tc.path, tc.body)
			assert.Equal(t, 200, resp.StatusCode)
			assert.JSONEq(t, tc.want, string(data))
		})
	}
}

func TestConfiguredPaths(t *testing.T) {
	s := newServer(t, &pipelinetest.Fake{}, func(c *config.Config) {
		c.RoutePath.Seg = "/api/cws"
		c.MockPath.Login = "/auth/login"
	})

	_, data := do(t, s, "POST", "/api/cws", `{"texts":["a"]}`)
	assert.Equal(t, []any{[]any{"a"}}, result(t, data)["cws"])

	resp, _ := do(t, s, "POST", "/seg", `{"texts":["a"]}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, data = do(t, s, "GET", "/routes", "")
	routes := result(t, data)
	assert.Equal(t, "/api/cws", routes["seg"])
	assert.Equal(t, "/auth/login", routes["login"])
	assert.Len(t, routes, len(config.Operations()))
}

func TestNewFailsWithoutPath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RoutePath.SDPG = ""
	_, err := New(cfg, &pipelinetest.Fake{})
	var ce *config.ConfigError
	require.True(t, errors.As(err, &ce), "got %v", err)
}

func TestHealthAndRequestID(t *testing.T) {
	s := newServer(t, &pipelinetest.Fake{})

	resp, data := do(t, s, "GET", "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, _ = do(t, s, "GET", "/health", "", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestConcurrentRequests(t *testing.T) {
	s := newLexiconServer(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, data := do(t, s, "POST", "/add_words", `{"words":["欢迎你"]}`)
				assert.Contains(t, string(data), `"code":0`)
				return
			}
			_, data := do(t, s, "POST", "/pos", `{"texts":["北京欢迎你"]}`)
			assert.Contains(t, string(data), `"code":0`)
		}(i)
	}
	wg.Wait()
}
