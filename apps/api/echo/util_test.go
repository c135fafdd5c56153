package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/mitihani/core"
	"github.com/trezcool/mitihani/core/exam"
	logsvc "github.com/trezcool/mitihani/services/logger"
	"github.com/trezcool/mitihani/storage/database/dummy"
	"github.com/trezcool/mitihani/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	conf   *core.Config
	db     *dummydb.DB
	svc    *exam.Service
	server *Server
}

func setup(t *testing.T) testEnv {
	conf := testutil.Config()
	db := testutil.PrepareDB(t)
	svc, _ := testutil.NewService(db, conf)

	server := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logsvc.NewNopLogger(),
		ExamSvc:    svc,
		Translator: core.NewTranslator(),
	})
	return testEnv{conf: conf, db: db, svc: svc, server: server}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, conf *core.Config, isAdmin bool, roles ...string) string {
	op := core.Operator{ID: "7", Username: "principal", Email: "principal@test.cd"}
	token, err := GenerateToken(NewClaims(op, isAdmin, roles, conf), conf)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("code = %v; wantCode %v (body: %s)", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData != nil {
		ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
		if err != nil {
			t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
		}
		if !ok {
			t.Errorf("data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
		}
	}
}

// do sends one request and decodes the JSON response into dest (when not nil).
func (env testEnv) do(t *testing.T, method, path, token string, body interface{}, wantCode int, dest interface{}) {
	t.Helper()
	var data []byte
	if body != nil {
		data = marchallObj(t, body)
	}
	req, rec := newAuthRequest(method, path, token, data)
	env.server.ServeHTTP(rec, req)
	if !assert.Equal(t, wantCode, rec.Code, "%s %s: %s", method, path, rec.Body.String()) {
		t.FailNow()
	}
	if dest != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
			t.Fatalf("decoding %s %s response: %v", method, path, err)
		}
	}
}
